package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/eptalign/internal/core/domain"
	"github.com/custodia-labs/eptalign/internal/core/ports/driven"
	"github.com/custodia-labs/eptalign/internal/core/ports/driving"
)

// Ensure ReportService implements the interface.
var _ driving.ReportService = (*ReportService)(nil)

// ReportService answers questions about past runs of one output directory.
type ReportService struct {
	ledger   driven.RunLedger
	exporter *Exporter
	writer   driven.ReportWriter
	dir      string
}

// NewReportService creates a report service over the ledger, alignment
// files and report writer of dir.
func NewReportService(
	ledger driven.RunLedger,
	files driven.AlignmentFileStore,
	writer driven.ReportWriter,
	dir string,
) *ReportService {
	return &ReportService{
		ledger:   ledger,
		exporter: NewExporter(files, writer),
		writer:   writer,
		dir:      dir,
	}
}

// ListRuns returns past runs, most recent first.
func (s *ReportService) ListRuns(ctx context.Context) ([]domain.Run, error) {
	runs, err := s.ledger.ListRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Regenerate rebuilds the report of runID, or of the latest run when runID
// is empty, from its recorded results and the files currently on disk.
func (s *ReportService) Regenerate(ctx context.Context, runID string) (*driving.RegenerateResult, error) {
	var (
		run *domain.Run
		err error
	)
	if runID == "" {
		run, err = s.ledger.LatestRun(ctx)
	} else {
		run, err = s.ledger.GetRun(ctx, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	results, err := s.ledger.Results(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("get results: %w", err)
	}

	path := filepath.Join(s.dir, s.writer.Format().FileName())
	rows, err := s.exporter.Export(ctx, path, results)
	if err != nil {
		return nil, err
	}

	return &driving.RegenerateResult{
		Run:        *run,
		ReportPath: path,
		Rows:       rows,
	}, nil
}
