package driven

import "context"

// Canonical corpus column names.
const (
	ColumnID       = "id"
	ColumnEventID  = "event_id"
	ColumnLanguage = "lang"
	ColumnSide     = "source_target"
	ColumnRegister = "spoken_written"
	ColumnText     = "sentence_split_text"
)

// RequiredColumns lists every column a corpus must provide.
var RequiredColumns = []string{
	ColumnID, ColumnEventID, ColumnLanguage, ColumnSide, ColumnRegister, ColumnText,
}

// CorpusRecord is one row of the input table, keyed by canonical column name
// (id, event_id, lang, source_target, spoken_written, sentence_split_text).
type CorpusRecord struct {
	// Row is the 1-based spreadsheet row, header included, for error messages.
	Row int

	// Fields maps canonical column names to cell values.
	// A column present with an empty cell maps to "".
	Fields map[string]string
}

// CorpusReader reads the tabular corpus description.
// Implementations map their own header spelling (e.g. "texts.id") to the
// canonical column names and report the columns they found.
type CorpusReader interface {
	// Read returns the canonical column names present and every data row.
	Read(ctx context.Context, path string) (columns []string, records []CorpusRecord, err error)

	// Extensions returns the file extensions this reader handles (e.g. ".xlsx").
	Extensions() []string
}
