// Package flatten converts record trees into flat column-keyed rows.
//
// Column keys are built from the record's structural path: composite field
// names are joined to the running prefix with the configured separator, and
// sequence elements get a bracketed index, so a record like
//
//	{positions: [{x: 1, y: 2}]}
//
// flattened under prefix "pose" with an empty separator yields the columns
// posepositions[0]x and posepositions[0]y.
package flatten

import (
	"errors"
	"fmt"
	"strconv"

	"bag2csv/internal/record"
)

// ErrEmptyPrefix reports a bare scalar flattened without a name to bind it to.
var ErrEmptyPrefix = errors.New("scalar record requires a non-empty prefix")

// Flattener converts records into rows. The zero value concatenates path
// segments directly and rejects duplicate keys.
type Flattener struct {
	// Sep is inserted between a non-empty prefix and a composite field
	// name. Sequence indices are always bracketed and never separated.
	Sep string
	// OnDuplicate is the row policy for repeated column keys.
	OnDuplicate DuplicatePolicy
}

// Flatten converts rec into a flat row. prefix names the record and becomes
// the leading segment of every column key; it must be non-empty when rec is
// a scalar. Unknown record shapes flatten to nothing.
func (f *Flattener) Flatten(rec record.Record, prefix string) (*Row, error) {
	row := NewRow(f.OnDuplicate)
	if err := f.FlattenInto(row, rec, prefix); err != nil {
		return nil, err
	}
	return row, nil
}

// FlattenInto flattens rec into an existing row, so fragments from several
// records can share one accumulator.
func (f *Flattener) FlattenInto(row *Row, rec record.Record, prefix string) error {
	switch r := rec.(type) {
	case *record.Scalar:
		if prefix == "" {
			return ErrEmptyPrefix
		}
		return row.Set(prefix, r.Value)
	case *record.Composite:
		for _, field := range r.Fields {
			if err := f.FlattenInto(row, field.Value, f.join(prefix, field.Name)); err != nil {
				return fmt.Errorf("field %q: %w", field.Name, err)
			}
		}
		return nil
	case *record.Sequence:
		for i, item := range r.Items {
			key := prefix + "[" + strconv.Itoa(i) + "]"
			if err := f.FlattenInto(row, item, key); err != nil {
				return err
			}
		}
		return nil
	default:
		// Unknown shapes carry no readable content and contribute nothing.
		return nil
	}
}

func (f *Flattener) join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + f.Sep + name
}
