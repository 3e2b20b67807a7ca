// Package report writes the final alignment report.
package report

import (
	"fmt"

	"github.com/custodia-labs/eptalign/internal/core/domain"
	"github.com/custodia-labs/eptalign/internal/core/ports/driven"
)

// NewWriter returns the writer for a report format.
func NewWriter(format domain.ReportFormat) (driven.ReportWriter, error) {
	switch format {
	case domain.ReportFormatXLSX:
		return NewXLSXWriter(), nil
	case domain.ReportFormatCSV:
		return NewCSVWriter(), nil
	default:
		return nil, fmt.Errorf("%w: report format %q", domain.ErrUnsupportedType, format)
	}
}

func rowValues(row domain.ReportRow) []string {
	return []string{row.SourceDocID, row.TargetDocID, row.AlignmentFile}
}
