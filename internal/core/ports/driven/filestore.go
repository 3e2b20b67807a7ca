package driven

import (
	"context"

	"github.com/custodia-labs/eptalign/internal/core/domain"
)

// AlignmentFileStore persists one alignment XML file per pair name.
type AlignmentFileStore interface {
	// Write stores the file for pairName, replacing any previous content.
	Write(ctx context.Context, pairName domain.PairName, data []byte) error

	// Read returns the stored file. Returns ErrNotFound if none was written.
	Read(ctx context.Context, pairName domain.PairName) ([]byte, error)

	// Path returns where the file for pairName lives.
	Path(pairName domain.PairName) string
}
