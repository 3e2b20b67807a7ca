package domain

import "time"

// Run is one execution of the alignment pipeline, as kept in the run ledger.
type Run struct {
	ID         string
	InputPath  string
	OutputDir  string
	StartedAt  time.Time
	FinishedAt *time.Time

	// Attempts and Failures are filled when the run finishes.
	Attempts int
	Failures int
}

// Finished returns true once the run has been closed.
func (r Run) Finished() bool {
	return r.FinishedAt != nil
}

// ReportRow is one line of the final report.
type ReportRow struct {
	SourceDocID   string
	TargetDocID   string
	AlignmentFile string
}

// ReportColumns are the report headers, in order.
var ReportColumns = []string{"t1_id", "t2_id", "alignment_file"}
