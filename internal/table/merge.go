package table

import "sort"

// Merge concatenates the rows of the given tables and orders them by
// ascending timestamp. The sort is stable: rows with equal timestamps keep
// their input order, inputs listed first coming first. Columns are the
// union of the inputs' columns in input order; a merged row reads as null
// in every column its source table lacked. No rows are combined: two rows
// with the same timestamp stay two rows.
//
// The inputs are not modified. Nil tables are ignored; merging nothing
// yields an empty table.
func Merge(tables ...*Table) *Table {
	out := &Table{colIndex: make(map[string]int)}
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, c := range t.cols {
			if _, ok := out.colIndex[c]; !ok {
				out.colIndex[c] = len(out.cols)
				out.cols = append(out.cols, c)
			}
		}
		for _, r := range t.rows {
			cells := make(map[string]any, len(r.cells))
			for k, v := range r.cells {
				cells[k] = v
			}
			out.rows = append(out.rows, row{ts: r.ts, cells: cells})
		}
	}
	sort.SliceStable(out.rows, func(i, j int) bool {
		return out.rows[i].ts < out.rows[j].ts
	})
	return out
}
