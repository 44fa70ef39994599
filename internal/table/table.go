// Package table accumulates flattened rows into timestamp-indexed tables
// and persists them as wide CSV files.
package table

import (
	"errors"
	"fmt"

	"bag2csv/internal/flatten"
	"bag2csv/internal/record"
)

// IndexColumn is the reserved name of the timestamp index. It is always the
// first CSV column and may never appear as a value column.
const IndexColumn = "timestamp"

// ErrReservedColumn reports a flattened row that produced a column named
// like the index.
var ErrReservedColumn = errors.New("reserved column name")

type row struct {
	ts    int64
	cells map[string]any
}

// Table is a set of rows over a shared column universe, indexed by a
// nanosecond timestamp. Tables are immutable once built; rows keep their
// append order.
type Table struct {
	cols     []string
	colIndex map[string]int
	rows     []row
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Columns returns the value column names in first-seen order, without the
// index column.
func (t *Table) Columns() []string {
	cols := make([]string, len(t.cols))
	copy(cols, t.cols)
	return cols
}

// Timestamp returns the index value of row i.
func (t *Table) Timestamp(i int) int64 {
	return t.rows[i].ts
}

// Cell returns the value of column col in row i. The second result is false
// when the row has no value there, which materializes as a null.
func (t *Table) Cell(i int, col string) (any, bool) {
	v, ok := t.rows[i].cells[col]
	if !ok {
		return nil, false
	}
	return v, true
}

// Builder accumulates flattened records into a Table. Every appended row
// extends the column universe with its unseen keys; earlier rows stay
// untouched and read as null in the new columns.
type Builder struct {
	flattener *flatten.Flattener
	prefix    string
	cols      []string
	colIndex  map[string]int
	rows      []row
}

// NewBuilder returns a builder that flattens records under prefix. A nil
// flattener defaults to direct concatenation with duplicate keys rejected.
func NewBuilder(f *flatten.Flattener, prefix string) *Builder {
	if f == nil {
		f = &flatten.Flattener{}
	}
	return &Builder{
		flattener: f,
		prefix:    prefix,
		colIndex:  make(map[string]int),
	}
}

// Append flattens rec under the builder's prefix and adds the result as one
// row indexed by ts.
func (b *Builder) Append(ts int64, rec record.Record) error {
	fr, err := b.flattener.Flatten(rec, b.prefix)
	if err != nil {
		return err
	}
	return b.AppendRow(ts, fr)
}

// AppendRow adds an already-flattened row indexed by ts.
func (b *Builder) AppendRow(ts int64, fr *flatten.Row) error {
	cells := make(map[string]any, fr.Len())
	for _, e := range fr.Entries() {
		if e.Key == IndexColumn {
			return fmt.Errorf("%w: %q", ErrReservedColumn, e.Key)
		}
		if _, ok := b.colIndex[e.Key]; !ok {
			b.colIndex[e.Key] = len(b.cols)
			b.cols = append(b.cols, e.Key)
		}
		cells[e.Key] = e.Value
	}
	b.rows = append(b.rows, row{ts: ts, cells: cells})
	return nil
}

// Table materializes the accumulated rows. The builder can keep appending;
// the returned table is unaffected.
func (b *Builder) Table() *Table {
	t := &Table{
		cols:     make([]string, len(b.cols)),
		colIndex: make(map[string]int, len(b.colIndex)),
		rows:     make([]row, len(b.rows)),
	}
	copy(t.cols, b.cols)
	for k, v := range b.colIndex {
		t.colIndex[k] = v
	}
	copy(t.rows, b.rows)
	return t
}
