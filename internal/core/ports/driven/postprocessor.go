package driven

import (
	"context"

	"github.com/custodia-labs/eptalign/internal/core/domain"
)

// LinkProcessor transforms the accumulated links of a group pair before
// they are serialized. Processors are chained in a pipeline (e.g., retention
// filtering, deduplication).
type LinkProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process receives the links in discovery order and returns the links to keep.
	// Processors must not reorder links.
	Process(ctx context.Context, pair domain.GroupPair, links []domain.AlignmentLink) ([]domain.AlignmentLink, error)
}

// LinkPipeline chains multiple LinkProcessors.
type LinkPipeline interface {
	// Process runs the links through all processors in order.
	Process(ctx context.Context, pair domain.GroupPair, links []domain.AlignmentLink) ([]domain.AlignmentLink, error)
}
