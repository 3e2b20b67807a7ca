package driven

import (
	"context"

	"github.com/custodia-labs/eptalign/internal/core/domain"
)

// DocumentStore holds the loaded corpus for the duration of a run.
// Documents are immutable once saved.
type DocumentStore interface {
	// SaveDocument stores a document. Saving an existing id fails with ErrDuplicateID.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns all documents in load order.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// Count returns the number of stored documents.
	Count() int
}
