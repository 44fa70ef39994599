package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ErrMissingIndex reports a CSV file whose header does not start with the
// timestamp index column.
var ErrMissingIndex = errors.New("missing timestamp index column")

// WriteCSV writes t in wide form: a header row with the index column first,
// then one line per row in table order. Null cells are written empty.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(t.cols)+1)
	header = append(header, IndexColumn)
	header = append(header, t.cols...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	line := make([]string, len(header))
	for _, r := range t.rows {
		line[0] = strconv.FormatInt(r.ts, 10)
		for i, c := range t.cols {
			v, ok := r.cells[c]
			if !ok || v == nil {
				line[i+1] = ""
				continue
			}
			line[i+1] = formatCell(v)
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a table previously written by WriteCSV. The header must
// start with the timestamp index column and contain no duplicate names;
// empty cells read back as nulls, everything else through type inference.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: file has no header", ErrMissingIndex)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if header[0] != IndexColumn {
		return nil, fmt.Errorf("%w: first column is %q, want %q", ErrMissingIndex, header[0], IndexColumn)
	}

	t := &Table{colIndex: make(map[string]int, len(header)-1)}
	for _, c := range header[1:] {
		if c == IndexColumn {
			return nil, fmt.Errorf("%w: %q appears as a value column", ErrReservedColumn, c)
		}
		if _, ok := t.colIndex[c]; ok {
			return nil, fmt.Errorf("duplicate column %q in header", c)
		}
		t.colIndex[c] = len(t.cols)
		t.cols = append(t.cols, c)
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		ts, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", rec[0], err)
		}
		cells := make(map[string]any, len(rec)-1)
		for i := 1; i < len(rec); i++ {
			if rec[i] == "" {
				continue
			}
			cells[header[i]] = parseCell(rec[i])
		}
		t.rows = append(t.rows, row{ts: ts, cells: cells})
	}
	return t, nil
}
