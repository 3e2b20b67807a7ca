// Package retain provides a link filter that keeps only links touching a
// configured set of sentences or documents.
package retain

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/eptalign/internal/core/domain"
)

// Processor keeps links whose xtargets reference at least one configured
// sentence ("643:0") or any sentence of a configured document ("641" or "641:").
// Matching is on whole references, never substrings.
type Processor struct {
	sentences map[string]struct{}
	documents map[string]struct{}
}

// New creates a retention filter. At least one reference is required.
func New(refs []string) (*Processor, error) {
	p := &Processor{
		sentences: make(map[string]struct{}),
		documents: make(map[string]struct{}),
	}
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		doc, idx, hasIdx := cutIndex(ref)
		if hasIdx && idx != "" {
			p.sentences[doc+":"+idx] = struct{}{}
		} else {
			p.documents[doc] = struct{}{}
		}
	}
	if len(p.sentences) == 0 && len(p.documents) == 0 {
		return nil, fmt.Errorf("%w: retain needs at least one reference", domain.ErrInvalidInput)
	}
	return p, nil
}

// cutIndex splits "doc:idx" at the last colon when the suffix is numeric.
// Document ids may themselves contain colons.
func cutIndex(ref string) (doc, idx string, ok bool) {
	sep := strings.LastIndexByte(ref, ':')
	if sep < 0 {
		return ref, "", false
	}
	suffix := ref[sep+1:]
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return ref, "", false
		}
	}
	return ref[:sep], suffix, true
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "retain"
}

// Process drops every link that references none of the configured targets.
func (p *Processor) Process(
	_ context.Context,
	_ domain.GroupPair,
	links []domain.AlignmentLink,
) ([]domain.AlignmentLink, error) {
	kept := make([]domain.AlignmentLink, 0, len(links))
	for _, link := range links {
		if p.Retain(link) {
			kept = append(kept, link)
		}
	}
	return kept, nil
}

// Retain reports whether a single link passes the filter.
func (p *Processor) Retain(link domain.AlignmentLink) bool {
	if len(link.SourceIndices) > 0 && p.hasDocument(link.SourceDoc) {
		return true
	}
	if len(link.TargetIndices) > 0 && p.hasDocument(link.TargetDoc) {
		return true
	}
	for _, ref := range link.Refs() {
		if _, ok := p.sentences[ref]; ok {
			return true
		}
	}
	return false
}

func (p *Processor) hasDocument(doc string) bool {
	_, ok := p.documents[doc]
	return ok
}
