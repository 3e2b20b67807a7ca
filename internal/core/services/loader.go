package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/eptalign/internal/core/domain"
	"github.com/custodia-labs/eptalign/internal/core/ports/driven"
	"github.com/custodia-labs/eptalign/internal/logger"
	"github.com/custodia-labs/eptalign/internal/normalisers/sentences"
)

// ReaderFunc opens the corpus reader suited to a path.
type ReaderFunc func(path string) (driven.CorpusReader, error)

// DocumentLoader turns the input table into Documents.
type DocumentLoader struct {
	open ReaderFunc
}

// NewDocumentLoader creates a loader that picks its reader with open.
func NewDocumentLoader(open ReaderFunc) *DocumentLoader {
	return &DocumentLoader{open: open}
}

// Load reads path, validates every row and saves the documents into store.
// Documents are returned in table order.
//
// Schema problems, unknown side or register values and duplicate ids fail the
// load. Malformed sentence markup does not: the document keeps empty text.
func (l *DocumentLoader) Load(ctx context.Context, path string, store driven.DocumentStore) ([]domain.Document, error) {
	if l.open == nil {
		return nil, fmt.Errorf("load corpus: reader not configured")
	}
	reader, err := l.open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}

	columns, records, err := reader.Read(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	if missing := missingColumns(columns); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", domain.ErrSchema, strings.Join(missing, ", "))
	}

	docs := make([]domain.Document, 0, len(records))
	malformed := 0
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		doc, err := documentFromRecord(rec)
		if err != nil {
			return nil, err
		}
		if doc.Markup != nil && doc.PlainText == "" && strings.TrimSpace(*doc.Markup) != "" {
			malformed++
		}

		if err := store.SaveDocument(ctx, &doc); err != nil {
			return nil, fmt.Errorf("row %d: %w", rec.Row, err)
		}
		docs = append(docs, doc)
	}

	if malformed > 0 {
		logger.Debug("%d documents have unusable sentence markup and will be skipped", malformed)
	}
	logger.Info("Loaded %d documents from %s", len(docs), path)
	return docs, nil
}

func documentFromRecord(rec driven.CorpusRecord) (domain.Document, error) {
	field := func(name string) string {
		return strings.TrimSpace(rec.Fields[name])
	}

	id := field(driven.ColumnID)
	if id == "" {
		return domain.Document{}, fmt.Errorf("%w: row %d: empty id", domain.ErrInvalidInput, rec.Row)
	}
	eventID := field(driven.ColumnEventID)
	if eventID == "" {
		return domain.Document{}, fmt.Errorf("%w: row %d: empty event_id", domain.ErrInvalidInput, rec.Row)
	}
	language := strings.ToLower(field(driven.ColumnLanguage))
	if language == "" {
		return domain.Document{}, fmt.Errorf("%w: row %d: empty lang", domain.ErrInvalidInput, rec.Row)
	}
	side, err := domain.ParseSide(field(driven.ColumnSide))
	if err != nil {
		return domain.Document{}, fmt.Errorf("row %d: %w", rec.Row, err)
	}
	register, err := domain.ParseRegister(field(driven.ColumnRegister))
	if err != nil {
		return domain.Document{}, fmt.Errorf("row %d: %w", rec.Row, err)
	}

	doc := domain.Document{
		ID:       id,
		EventID:  eventID,
		Language: language,
		Side:     side,
		Register: register,
	}

	if raw := rec.Fields[driven.ColumnText]; strings.TrimSpace(raw) != "" {
		doc.Markup = &raw
		doc.PlainText = sentences.PlainText(doc.Markup)
		if doc.PlainText == "" {
			logger.Debug("row %d: document %s has no usable sentences", rec.Row, id)
		}
	}
	return doc, nil
}

func missingColumns(columns []string) []string {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}
	var missing []string
	for _, c := range driven.RequiredColumns {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	return missing
}
