package report

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/eptalign/internal/core/domain"
	"github.com/custodia-labs/eptalign/internal/core/ports/driven"
)

// SheetName is the worksheet holding the report.
const SheetName = "Sheet1"

// Ensure XLSXWriter implements the interface.
var _ driven.ReportWriter = (*XLSXWriter)(nil)

// XLSXWriter writes the report as an Excel workbook.
type XLSXWriter struct{}

// NewXLSXWriter creates a workbook writer.
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

// Format returns the produced format.
func (w *XLSXWriter) Format() domain.ReportFormat {
	return domain.ReportFormatXLSX
}

// Write creates the workbook at path, replacing any existing file.
// Excel cells hold at most excelize.TotalCellChars characters and excelize
// truncates longer strings, so a row that does not fit fails the write
// before anything is created.
func (w *XLSXWriter) Write(ctx context.Context, path string, rows []domain.ReportRow) error {
	if err := checkCellLengths(rows); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("opening sheet: %w", err)
	}

	if err := sw.SetRow("A1", toCells(domain.ReportColumns)); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, toCells(rowValues(row))); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flushing sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}

func checkCellLengths(rows []domain.ReportRow) error {
	for i, row := range rows {
		for col, v := range rowValues(row) {
			if n := utf8.RuneCountInString(v); n > excelize.TotalCellChars {
				return fmt.Errorf("%w: row %d column %s has %d characters, xlsx allows %d; use the csv report format",
					domain.ErrCellTooLong, i+2, domain.ReportColumns[col], n, excelize.TotalCellChars)
			}
		}
	}
	return nil
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
