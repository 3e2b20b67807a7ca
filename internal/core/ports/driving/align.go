package driving

import (
	"context"

	"github.com/custodia-labs/eptalign/internal/core/domain"
)

// AlignmentPipeline runs the full load, enumerate, align, serialize and
// report sequence.
type AlignmentPipeline interface {
	// Run executes one pipeline run. Per-pair failures never abort the run;
	// an error is returned only for load failures, an unwritable report, or
	// fault escalation.
	Run(ctx context.Context, req RunRequest) (*RunSummary, error)

	// Status returns progress of the run in flight.
	Status(ctx context.Context) (*RunStatus, error)
}

// RunRequest names the two paths a run needs.
type RunRequest struct {
	// InputPath is the corpus table (.xlsx or .csv).
	InputPath string

	// OutputDir receives the XML files and the report. Created if absent.
	OutputDir string
}

// RunSummary describes a completed run.
type RunSummary struct {
	// RunID identifies the run in the ledger.
	RunID string

	// Documents is the number of documents loaded.
	Documents int

	// GroupPairs is the number of group pairs enumerated.
	GroupPairs int

	// Attempts is the number of document pairs aligned.
	Attempts int

	// Failures lists every failed document pair, in processing order.
	Failures []domain.DocumentPairResult

	// FilesWritten lists the pair names whose XML file was written.
	FilesWritten []domain.PairName

	// WriteErrors counts pairs whose file could not be written.
	WriteErrors int

	// ReportPath is where the final report was written.
	ReportPath string

	// ReportRows is the number of rows in the report.
	ReportRows int
}

// Successes returns the number of successful attempts.
func (s *RunSummary) Successes() int {
	return s.Attempts - len(s.Failures)
}

// RunStatus represents the progress of a run in flight.
type RunStatus struct {
	// Running indicates if a run is in progress.
	Running bool

	// PairsTotal is the number of group pairs enumerated.
	PairsTotal int

	// PairsDone is the number of group pairs fully processed.
	PairsDone int

	// Attempts is the number of document pairs aligned so far.
	Attempts int

	// Failures is the number of failed attempts so far.
	Failures int
}
