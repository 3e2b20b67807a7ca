package corpus

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/eptalign/internal/core/domain"
	"github.com/custodia-labs/eptalign/internal/core/ports/driven"
)

// Canonical column names, re-exported for callers of this package.
const (
	ColumnID       = driven.ColumnID
	ColumnEventID  = driven.ColumnEventID
	ColumnLanguage = driven.ColumnLanguage
	ColumnSide     = driven.ColumnSide
	ColumnRegister = driven.ColumnRegister
	ColumnText     = driven.ColumnText
)

// headerPrefix is stripped from header cells.
const headerPrefix = "texts."

// CanonicalColumn maps a header cell to its canonical column name.
// Returns "" for columns the loader does not use.
func CanonicalColumn(header string) string {
	name := strings.ToLower(strings.TrimSpace(header))
	name = strings.TrimPrefix(name, "\ufeff")
	name = strings.TrimPrefix(name, headerPrefix)
	for _, col := range driven.RequiredColumns {
		if name == col {
			return col
		}
	}
	return ""
}

// headerIndex maps canonical names to their cell index. When a column appears
// twice the first occurrence wins.
func headerIndex(header []string) (columns []string, index map[string]int) {
	index = make(map[string]int)
	for i, cell := range header {
		col := CanonicalColumn(cell)
		if col == "" {
			continue
		}
		if _, seen := index[col]; seen {
			continue
		}
		index[col] = i
		columns = append(columns, col)
	}
	return columns, index
}

// buildRecords turns raw rows into records. Rows with only blank cells are
// skipped. rowOffset is the 1-based row number of rows[0].
func buildRecords(rows [][]string, index map[string]int, rowOffset int) []driven.CorpusRecord {
	records := make([]driven.CorpusRecord, 0, len(rows))
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		fields := make(map[string]string, len(index))
		for col, idx := range index {
			if idx < len(row) {
				fields[col] = row[idx]
			} else {
				fields[col] = ""
			}
		}
		records = append(records, driven.CorpusRecord{Row: rowOffset + i, Fields: fields})
	}
	return records
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// NewReader returns the reader for the file's extension.
func NewReader(path string) (driven.CorpusReader, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, r := range []driven.CorpusReader{NewXLSXReader(), NewCSVReader()} {
		for _, e := range r.Extensions() {
			if e == ext {
				return r, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: input extension %q", domain.ErrUnsupportedType, ext)
}
