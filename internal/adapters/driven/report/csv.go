package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/custodia-labs/eptalign/internal/core/domain"
	"github.com/custodia-labs/eptalign/internal/core/ports/driven"
)

// Ensure CSVWriter implements the interface.
var _ driven.ReportWriter = (*CSVWriter)(nil)

// CSVWriter writes the report as comma-separated values.
type CSVWriter struct{}

// NewCSVWriter creates a CSV writer.
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

// Format returns the produced format.
func (w *CSVWriter) Format() domain.ReportFormat {
	return domain.ReportFormatCSV
}

// Write creates the file at path, replacing any existing file.
func (w *CSVWriter) Write(ctx context.Context, path string, rows []domain.ReportRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(domain.ReportColumns); err != nil {
		f.Close()
		return fmt.Errorf("writing header: %w", err)
	}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			f.Close()
			return err
		}
		if err := cw.Write(rowValues(row)); err != nil {
			f.Close()
			return fmt.Errorf("writing row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flushing report: %w", err)
	}
	return f.Close()
}
