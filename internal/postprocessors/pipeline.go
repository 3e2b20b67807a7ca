// Package postprocessors provides link processing implementations applied
// to a group pair's links before serialization.
package postprocessors

import (
	"context"
	"fmt"

	"github.com/custodia-labs/eptalign/internal/core/domain"
	"github.com/custodia-labs/eptalign/internal/core/ports/driven"
)

// Ensure Pipeline implements the interface.
var _ driven.LinkPipeline = (*Pipeline)(nil)

// Pipeline chains multiple LinkProcessors and runs them in order.
// It implements the LinkPipeline interface.
type Pipeline struct {
	processors []driven.LinkProcessor
}

// NewPipeline creates a new processing pipeline with the given processors.
// Processors are executed in the order provided.
func NewPipeline(processors ...driven.LinkProcessor) *Pipeline {
	return &Pipeline{
		processors: processors,
	}
}

// Process runs the links through all processors in order.
// An empty pipeline returns the links unchanged.
func (p *Pipeline) Process(
	ctx context.Context,
	pair domain.GroupPair,
	links []domain.AlignmentLink,
) ([]domain.AlignmentLink, error) {
	for _, processor := range p.processors {
		var err error
		links, err = processor.Process(ctx, pair, links)
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", processor.Name(), err)
		}
	}

	return links, nil
}

// Add appends a processor to the pipeline.
func (p *Pipeline) Add(processor driven.LinkProcessor) {
	p.processors = append(p.processors, processor)
}

// Names returns the processor names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, 0, len(p.processors))
	for _, processor := range p.processors {
		names = append(names, processor.Name())
	}
	return names
}
