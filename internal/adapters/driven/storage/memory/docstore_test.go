package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/eptalign/internal/core/domain"
)

func newDoc(id string) *domain.Document {
	return &domain.Document{
		ID:        id,
		EventID:   "e1",
		Language:  "en",
		Side:      domain.SideSource,
		Register:  domain.RegisterWritten,
		PlainText: "Hello.\nWorld.",
	}
}

func TestNewDocumentStore(t *testing.T) {
	store := NewDocumentStore()
	require.NotNil(t, store)
	assert.Equal(t, 0, store.Count())
}

func TestDocumentStore_SaveAndGet(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, newDoc("A")))

	saved, err := store.GetDocument(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "A", saved.ID)
	assert.Equal(t, []string{"Hello.", "World."}, saved.Sentences())
}

func TestDocumentStore_GetDocument_NotFound(t *testing.T) {
	store := NewDocumentStore()

	doc, err := store.GetDocument(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, doc)
}

func TestDocumentStore_SaveDocument_Duplicate(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	require.NoError(t, store.SaveDocument(ctx, newDoc("A")))

	err := store.SaveDocument(ctx, newDoc("A"))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicateID)
	assert.Contains(t, err.Error(), "A")
	assert.Equal(t, 1, store.Count())
}

func TestDocumentStore_SaveDocument_Nil(t *testing.T) {
	err := NewDocumentStore().SaveDocument(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentStore_ListDocuments_LoadOrder(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	for _, id := range []string{"641", "B", "643", "A"} {
		require.NoError(t, store.SaveDocument(ctx, newDoc(id)))
	}

	docs, err := store.ListDocuments(ctx)

	require.NoError(t, err)
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"641", "B", "643", "A"}, ids)
}

func TestDocumentStore_ReturnsCopies(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	doc := newDoc("A")
	require.NoError(t, store.SaveDocument(ctx, doc))

	doc.PlainText = "changed"
	got, err := store.GetDocument(ctx, "A")
	require.NoError(t, err)
	got.Language = "xx"

	again, err := store.GetDocument(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "Hello.\nWorld.", again.PlainText)
	assert.Equal(t, "en", again.Language)
}

func TestDocumentStore_ConcurrentSaves(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.SaveDocument(ctx, newDoc(fmt.Sprintf("doc-%d", n)))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, store.Count())
}
