// Package model holds the shared job and report types.
package model

// Conversion selects one topic of a recording and names its exported table.
type Conversion struct {
	// Topic is the recorded channel to read.
	Topic string `json:"topic" yaml:"topic"`
	// Output is appended to the recording's stem to form the table file
	// name, e.g. "_pose.csv".
	Output string `json:"output" yaml:"output"`
	// Prefix is the leading segment of every column key.
	Prefix string `json:"prefix" yaml:"prefix"`
}

// MergeRule gathers exported tables into one time-ordered table per
// recording group.
type MergeRule struct {
	// Match filters candidate files by substring, so unrelated CSVs next
	// to the recordings are left alone.
	Match string `json:"match" yaml:"match"`
	// Output is the merged file name written into each group directory.
	Output string `json:"output" yaml:"output"`
}
