package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/eptalign/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/eptalign/internal/core/domain"
	"github.com/custodia-labs/eptalign/internal/core/ports/driven"
)

const (
	markupA = "<text><s>Hello.</s><s>How are you?</s></text>"
	markupB = "<text><s>Hola.</s><s>¿Cómo estás?</s></text>"
)

func TestDocumentLoader_Load(t *testing.T) {
	reader := newCorpus(
		corpusRow(2, "A", "E1", "EN", "Source", "written", markupA),
		corpusRow(3, " B ", "E1", "es", "target", "WRITTEN", markupB),
	)
	store := memory.NewDocumentStore()

	docs, err := NewDocumentLoader(readerFor(reader)).Load(context.Background(), "corpus.mock", store)

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, 2, store.Count())

	a := docs[0]
	assert.Equal(t, "A", a.ID)
	assert.Equal(t, "E1", a.EventID)
	assert.Equal(t, "en", a.Language)
	assert.Equal(t, domain.SideSource, a.Side)
	assert.Equal(t, domain.RegisterWritten, a.Register)
	require.NotNil(t, a.Markup)
	assert.Equal(t, markupA, *a.Markup)
	assert.Equal(t, "Hello.\nHow are you?", a.PlainText)

	b := docs[1]
	assert.Equal(t, "B", b.ID)
	assert.Equal(t, domain.SideTarget, b.Side)
	assert.Equal(t, []string{"Hola.", "¿Cómo estás?"}, b.Sentences())

	stored, err := store.GetDocument(context.Background(), "B")
	require.NoError(t, err)
	assert.Equal(t, b, *stored)
}

func TestDocumentLoader_Load_MissingColumns(t *testing.T) {
	reader := &mockReader{columns: []string{driven.ColumnID, driven.ColumnEventID, driven.ColumnLanguage}}

	_, err := NewDocumentLoader(readerFor(reader)).Load(context.Background(), "x", memory.NewDocumentStore())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSchema)
	assert.Contains(t, err.Error(), "source_target, spoken_written, sentence_split_text")
}

func TestDocumentLoader_Load_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		row  driven.CorpusRecord
		want string
	}{
		{"bad side", corpusRow(4, "A", "E1", "en", "middle", "written", markupA), "row 4"},
		{"bad register", corpusRow(5, "A", "E1", "en", "source", "sung", markupA), "row 5"},
		{"empty id", corpusRow(6, "  ", "E1", "en", "source", "written", markupA), "row 6"},
		{"empty event", corpusRow(7, "A", "", "en", "source", "written", markupA), "row 7"},
		{"empty lang", corpusRow(8, "A", "E1", " ", "source", "written", markupA), "row 8: empty lang"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDocumentLoader(readerFor(newCorpus(tt.row))).
				Load(context.Background(), "x", memory.NewDocumentStore())

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDocumentLoader_Load_DuplicateID(t *testing.T) {
	reader := newCorpus(
		corpusRow(2, "A", "E1", "en", "source", "written", markupA),
		corpusRow(3, "A", "E2", "es", "target", "written", markupB),
	)

	_, err := NewDocumentLoader(readerFor(reader)).Load(context.Background(), "x", memory.NewDocumentStore())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicateID)
	assert.Contains(t, err.Error(), "row 3")
}

func TestDocumentLoader_Load_DegradesBadMarkup(t *testing.T) {
	reader := newCorpus(
		corpusRow(2, "A", "E1", "en", "source", "written", "<text><s>unclosed</text>"),
		corpusRow(3, "B", "E1", "es", "target", "written", ""),
		corpusRow(4, "C", "E1", "fr", "target", "written", "<text><s>   </s></text>"),
	)

	docs, err := NewDocumentLoader(readerFor(reader)).Load(context.Background(), "x", memory.NewDocumentStore())

	require.NoError(t, err)
	require.Len(t, docs, 3)

	require.NotNil(t, docs[0].Markup)
	assert.Empty(t, docs[0].PlainText)

	assert.Nil(t, docs[1].Markup)
	assert.Empty(t, docs[1].PlainText)

	assert.Empty(t, docs[2].PlainText)
	assert.Nil(t, docs[2].Sentences())
}

func TestDocumentLoader_Load_ReaderErrors(t *testing.T) {
	openErr := errors.New("no reader")
	loader := NewDocumentLoader(func(string) (driven.CorpusReader, error) { return nil, openErr })
	_, err := loader.Load(context.Background(), "x.pdf", memory.NewDocumentStore())
	assert.ErrorIs(t, err, openErr)

	readErr := errors.New("corrupt")
	_, err = NewDocumentLoader(readerFor(&mockReader{err: readErr})).
		Load(context.Background(), "x", memory.NewDocumentStore())
	assert.ErrorIs(t, err, readErr)
}

func TestDocumentLoader_Load_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader := newCorpus(corpusRow(2, "A", "E1", "en", "source", "written", markupA))
	_, err := NewDocumentLoader(readerFor(reader)).Load(ctx, "x", memory.NewDocumentStore())

	assert.ErrorIs(t, err, context.Canceled)
}
