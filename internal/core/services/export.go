package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/eptalign/internal/core/domain"
	"github.com/custodia-labs/eptalign/internal/core/ports/driven"
	"github.com/custodia-labs/eptalign/internal/linkgrp"
	"github.com/custodia-labs/eptalign/internal/logger"
)

// Exporter builds the final report from successful results and the
// alignment files on disk.
type Exporter struct {
	files  driven.AlignmentFileStore
	writer driven.ReportWriter
}

// NewExporter creates an exporter.
func NewExporter(files driven.AlignmentFileStore, writer driven.ReportWriter) *Exporter {
	return &Exporter{
		files:  files,
		writer: writer,
	}
}

// Rows returns one row per successful result whose pair file exists.
// Results whose file is missing, for example because every link of the pair
// was filtered out, are skipped. So are results whose file no longer parses
// as a linkGrp document.
func (e *Exporter) Rows(ctx context.Context, results []domain.DocumentPairResult) ([]domain.ReportRow, error) {
	contents := make(map[domain.PairName]string)
	skipped := make(map[domain.PairName]bool)

	var rows []domain.ReportRow
	for _, r := range results {
		if !r.Succeeded() || skipped[r.PairName] {
			continue
		}

		content, ok := contents[r.PairName]
		if !ok {
			data, err := e.files.Read(ctx, r.PairName)
			if errors.Is(err, domain.ErrNotFound) {
				logger.Debug("No alignment file for %s, skipping its rows", r.PairName)
				skipped[r.PairName] = true
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("read alignment file %s: %w", r.PairName, err)
			}
			if _, err := linkgrp.ParseLinks(data); err != nil {
				logger.Warn("Alignment file %s is corrupt, skipping its rows: %v", r.PairName, err)
				skipped[r.PairName] = true
				continue
			}
			content = string(data)
			contents[r.PairName] = content
		}

		rows = append(rows, domain.ReportRow{
			SourceDocID:   r.SourceDocID,
			TargetDocID:   r.TargetDocID,
			AlignmentFile: content,
		})
	}
	return rows, nil
}

// Export writes the report for results to path and returns its row count.
// The report is written even when it has no rows.
func (e *Exporter) Export(ctx context.Context, path string, results []domain.DocumentPairResult) (int, error) {
	rows, err := e.Rows(ctx, results)
	if err != nil {
		return 0, err
	}
	if err := e.writer.Write(ctx, path, rows); err != nil {
		return 0, fmt.Errorf("write report: %w", err)
	}
	logger.Info("Wrote %d report rows to %s", len(rows), path)
	return len(rows), nil
}
