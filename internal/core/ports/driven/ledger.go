package driven

import (
	"context"

	"github.com/custodia-labs/eptalign/internal/core/domain"
)

// RunLedger records runs and their document-pair results.
// This is an optional service - when nil, no history is kept.
type RunLedger interface {
	// StartRun stores a new run.
	StartRun(ctx context.Context, run domain.Run) error

	// RecordResults appends results for a run, preserving order.
	RecordResults(ctx context.Context, runID string, results []domain.DocumentPairResult) error

	// FinishRun marks the run finished with its totals.
	FinishRun(ctx context.Context, run domain.Run) error

	// GetRun retrieves a run by ID. Returns ErrNotFound if unknown.
	GetRun(ctx context.Context, runID string) (*domain.Run, error)

	// LatestRun returns the most recently started run. Returns ErrNotFound if none.
	LatestRun(ctx context.Context) (*domain.Run, error)

	// ListRuns returns runs, most recent first.
	ListRuns(ctx context.Context) ([]domain.Run, error)

	// Results returns the recorded results of a run in recording order.
	// Links are not stored; returned results carry none.
	Results(ctx context.Context, runID string) ([]domain.DocumentPairResult, error)

	// Close releases the underlying storage.
	Close() error
}
