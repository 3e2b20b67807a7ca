package driven

import "context"

// IndexGroup is one raw correspondence produced by an aligner: ascending
// sentence indices on the source side and on the target side. Either side
// may be empty for insertions and deletions.
type IndexGroup struct {
	Source []int
	Target []int
}

// SentenceAligner aligns two sentence lists.
// Any aligner satisfying "two texts plus language hints in, ordered index
// groups out" can be substituted without touching the orchestration.
//
// Implementations may include:
//   - Length-based dynamic programming (Gale-Church)
//   - Embedding similarity (Bertalign-style)
type SentenceAligner interface {
	// Align returns index groups in source order. Both inputs are non-empty.
	Align(ctx context.Context, source, target []string, sourceLang, targetLang string) ([]IndexGroup, error)

	// Name identifies the aligner in logs and the run ledger.
	Name() string

	// Close releases resources held for the run (e.g. an embedding client).
	Close() error
}
