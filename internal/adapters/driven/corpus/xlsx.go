package corpus

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/eptalign/internal/core/domain"
	"github.com/custodia-labs/eptalign/internal/core/ports/driven"
)

// Ensure XLSXReader implements the interface.
var _ driven.CorpusReader = (*XLSXReader)(nil)

// XLSXReader reads the first sheet of an Excel workbook.
type XLSXReader struct{}

// NewXLSXReader creates a workbook reader.
func NewXLSXReader() *XLSXReader {
	return &XLSXReader{}
}

// Extensions returns the handled extensions.
func (r *XLSXReader) Extensions() []string {
	return []string{".xlsx", ".xlsm"}
}

// Read returns the canonical columns and data rows of the first sheet.
func (r *XLSXReader) Read(ctx context.Context, path string) ([]string, []driven.CorpusRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("%w: workbook has no sheets", domain.ErrSchema)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%w: sheet %s is empty", domain.ErrSchema, sheets[0])
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	columns, index := headerIndex(rows[0])
	return columns, buildRecords(rows[1:], index, 2), nil
}
