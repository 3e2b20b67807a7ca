// Package dedupe provides a link filter that drops repeated links.
package dedupe

import (
	"context"

	"github.com/custodia-labs/eptalign/internal/core/domain"
)

// Processor keeps the first occurrence of every distinct link, preserving order.
type Processor struct{}

// New creates a new dedupe processor.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "dedupe"
}

// Process removes links whose xtargets were already seen in this pair.
func (p *Processor) Process(
	_ context.Context,
	_ domain.GroupPair,
	links []domain.AlignmentLink,
) ([]domain.AlignmentLink, error) {
	seen := make(map[string]struct{}, len(links))
	kept := make([]domain.AlignmentLink, 0, len(links))
	for _, link := range links {
		key := link.XTargets()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, link)
	}
	return kept, nil
}
