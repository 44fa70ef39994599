package model

// Failure records one unit of work that could not be completed.
type Failure struct {
	Bag   string `json:"bag"`
	Topic string `json:"topic,omitempty"`
	Err   string `json:"error"`
}

// Report summarizes one batch run. Failures are partial: the run carries on
// past them.
type Report struct {
	RunID     string    `json:"runId"`
	Converted int       `json:"converted"`
	Merged    int       `json:"merged"`
	Skipped   int       `json:"skipped"`
	Failures  []Failure `json:"failures,omitempty"`
}

// Failed reports whether any unit of work failed.
func (r *Report) Failed() bool {
	return len(r.Failures) > 0
}
