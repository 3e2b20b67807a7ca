package corpus

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/custodia-labs/eptalign/internal/core/domain"
	"github.com/custodia-labs/eptalign/internal/core/ports/driven"
)

// Ensure CSVReader implements the interface.
var _ driven.CorpusReader = (*CSVReader)(nil)

// CSVReader reads a comma-separated corpus file with a header row.
type CSVReader struct{}

// NewCSVReader creates a CSV reader.
func NewCSVReader() *CSVReader {
	return &CSVReader{}
}

// Extensions returns the handled extensions.
func (r *CSVReader) Extensions() []string {
	return []string{".csv"}
}

// Read returns the canonical columns and data rows of the file.
func (r *CSVReader) Read(ctx context.Context, path string) ([]string, []driven.CorpusRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening corpus: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("%w: file is empty", domain.ErrSchema)
		}
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}

	var rows [][]string
	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading corpus: %w", err)
		}
		rows = append(rows, row)
	}

	columns, index := headerIndex(header)
	return columns, buildRecords(rows, index, 2), nil
}
