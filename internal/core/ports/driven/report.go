package driven

import (
	"context"

	"github.com/custodia-labs/eptalign/internal/core/domain"
)

// ReportWriter encodes the final report.
type ReportWriter interface {
	// Write creates (or replaces) the report at path with a header row
	// followed by rows.
	Write(ctx context.Context, path string, rows []domain.ReportRow) error

	// Format returns the format this writer produces.
	Format() domain.ReportFormat
}
