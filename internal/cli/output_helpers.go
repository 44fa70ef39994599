package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"bag2csv/internal/model"
)

// getOutputFormat returns the effective output format from the root
// command's persistent flags.
func getOutputFormat(cmd *cobra.Command) string {
	v, _ := cmd.Root().PersistentFlags().GetString("output")
	return v
}

// printTable renders rows as aligned text columns with upper-cased
// headers. Column widths come from the widest cell, separated by two
// spaces; the last column is not padded.
func printTable(w io.Writer, columns []string, rows [][]string) {
	if len(columns) == 0 {
		return
	}
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = len(c)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i == len(cells)-1 {
				fmt.Fprintln(w, cell)
				continue
			}
			fmt.Fprintf(w, "%-*s  ", widths[i], cell)
		}
	}
	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = strings.ToUpper(c)
	}
	writeRow(header)
	for _, row := range rows {
		writeRow(row)
	}
}

// printReport writes the human-readable batch summary.
func printReport(w io.Writer, r *model.Report) {
	fmt.Fprintf(w, "run %s\n", r.RunID)
	fmt.Fprintf(w, "  converted: %d\n", r.Converted)
	fmt.Fprintf(w, "  merged:    %d\n", r.Merged)
	fmt.Fprintf(w, "  skipped:   %d\n", r.Skipped)
	if len(r.Failures) == 0 {
		return
	}
	fmt.Fprintf(w, "  failures:  %d\n", len(r.Failures))
	for _, f := range r.Failures {
		if f.Topic != "" {
			fmt.Fprintf(w, "    %s %s: %s\n", f.Bag, f.Topic, f.Err)
			continue
		}
		fmt.Fprintf(w, "    %s: %s\n", f.Bag, f.Err)
	}
}
