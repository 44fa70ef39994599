package flatten

import (
	"errors"
	"fmt"
)

// ErrDuplicateKey reports two structural paths collapsing to one column key.
var ErrDuplicateKey = errors.New("duplicate column key")

// DuplicatePolicy controls what Row.Set does when a key is already present.
type DuplicatePolicy int

const (
	// Reject refuses a second insert of the same key. This is the default.
	Reject DuplicatePolicy = iota
	// Overwrite keeps the last value seen for a key.
	Overwrite
)

// Entry is one column of a flat row.
type Entry struct {
	Key   string
	Value any
}

// Row maps column keys to scalar values, preserving insertion order.
type Row struct {
	policy  DuplicatePolicy
	entries []Entry
	index   map[string]int
}

// NewRow returns an empty row with the given duplicate policy.
func NewRow(policy DuplicatePolicy) *Row {
	return &Row{policy: policy, index: make(map[string]int)}
}

// Set inserts key with value. Under Reject a repeated key fails with
// ErrDuplicateKey; under Overwrite it replaces the earlier value in place.
func (r *Row) Set(key string, value any) error {
	if i, ok := r.index[key]; ok {
		if r.policy == Reject {
			return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
		}
		r.entries[i].Value = value
		return nil
	}
	r.index[key] = len(r.entries)
	r.entries = append(r.entries, Entry{Key: key, Value: value})
	return nil
}

// Get returns the value stored under key.
func (r *Row) Get(key string) (any, bool) {
	i, ok := r.index[key]
	if !ok {
		return nil, false
	}
	return r.entries[i].Value, true
}

// Has reports whether key is present.
func (r *Row) Has(key string) bool {
	_, ok := r.index[key]
	return ok
}

// Len returns the number of columns.
func (r *Row) Len() int {
	return len(r.entries)
}

// Entries returns the columns in insertion order. The slice is shared with
// the row and must not be modified.
func (r *Row) Entries() []Entry {
	return r.entries
}

// Keys returns the column keys in insertion order.
func (r *Row) Keys() []string {
	keys := make([]string, len(r.entries))
	for i, e := range r.entries {
		keys[i] = e.Key
	}
	return keys
}
