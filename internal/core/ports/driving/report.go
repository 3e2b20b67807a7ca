package driving

import (
	"context"

	"github.com/custodia-labs/eptalign/internal/core/domain"
)

// ReportService reads the run ledger of an output directory.
type ReportService interface {
	// ListRuns returns past runs, most recent first.
	ListRuns(ctx context.Context) ([]domain.Run, error)

	// Regenerate rebuilds the report of a run from the ledger and the XML
	// files on disk. An empty runID selects the latest run.
	Regenerate(ctx context.Context, runID string) (*RegenerateResult, error)
}

// RegenerateResult describes a regenerated report.
type RegenerateResult struct {
	Run        domain.Run
	ReportPath string
	Rows       int
}
