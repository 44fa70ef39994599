package pipeline

import (
	"path/filepath"
	"strings"

	"bag2csv/internal/table"
)

// groupDir is the directory that groups recording runs, one level above
// the recording's own directory. Exported and merged tables land there.
func groupDir(bagPath string) string {
	return filepath.Dir(filepath.Dir(bagPath))
}

// outputPath names the exported table for one recording: the recording's
// file stem plus the conversion suffix, placed in the group directory.
//
//	drive/run1/run1_0.db3 + "_pose.csv"  ->  drive/run1_0_pose.csv
func outputPath(bagPath, suffix string, compress bool) string {
	stem := strings.TrimSuffix(filepath.Base(bagPath), ".db3")
	return filepath.Join(groupDir(bagPath), compressedName(stem+suffix, compress))
}

// compressedName appends the zstd extension when compression is on.
func compressedName(name string, compress bool) string {
	if compress && !strings.HasSuffix(name, table.CompressedExt) {
		return name + table.CompressedExt
	}
	return name
}
