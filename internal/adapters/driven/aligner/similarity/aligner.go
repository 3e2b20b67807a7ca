// Package similarity provides a sentence aligner driven by sentence embeddings.
//
// Every sentence, and every pair of adjacent sentences, is embedded through a
// driven.EmbeddingService. A monotonic dynamic program then picks the bead
// sequence with the highest total cosine similarity, weighted by how well
// the character lengths agree. Unmatched sentences become 1-0 or 0-1 beads
// at a fixed skip score.
package similarity

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/eptalign/internal/core/ports/driven"
)

// Ensure Aligner implements the interface.
var _ driven.SentenceAligner = (*Aligner)(nil)

// Name identifies this aligner.
const Name = "embedding"

// DefaultSkipScore is the score of a 1-0 or 0-1 bead.
const DefaultSkipScore = -0.1

// Options tune the aligner.
type Options struct {
	// SkipScore is added for each unmatched sentence (default: -0.1).
	SkipScore float64
}

type bead struct {
	src, tgt int
}

var beads = []bead{{1, 1}, {1, 0}, {0, 1}, {2, 1}, {1, 2}}

// Aligner aligns sentences by embedding similarity. It owns the embedding
// service and closes it on Close.
type Aligner struct {
	embedder driven.EmbeddingService
	skip     float64
}

// New creates an aligner over embedder.
func New(embedder driven.EmbeddingService, opts Options) *Aligner {
	if opts.SkipScore == 0 {
		opts.SkipScore = DefaultSkipScore
	}
	return &Aligner{embedder: embedder, skip: opts.SkipScore}
}

// Name identifies the aligner, including the embedding model.
func (a *Aligner) Name() string {
	return Name + ":" + a.embedder.ModelName()
}

// Close closes the embedding service.
func (a *Aligner) Close() error {
	return a.embedder.Close()
}

// Align returns the highest-scoring bead sequence covering both inputs.
// The language hints are accepted for interface compatibility and ignored;
// the embedding model handles both languages itself.
func (a *Aligner) Align(ctx context.Context, source, target []string, _, _ string) ([]driven.IndexGroup, error) {
	src, err := a.embedSide(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("embedding source: %w", err)
	}
	tgt, err := a.embedSide(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("embedding target: %w", err)
	}

	n, m := len(source), len(target)
	score := make([][]float64, n+1)
	back := make([][]int, n+1)
	for i := range score {
		score[i] = make([]float64, m+1)
		back[i] = make([]int, m+1)
		for j := range score[i] {
			score[i][j] = math.Inf(-1)
			back[i][j] = -1
		}
	}
	score[0][0] = 0

	for i := 0; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j := 0; j <= m; j++ {
			if i == 0 && j == 0 {
				continue
			}
			for k, b := range beads {
				pi, pj := i-b.src, j-b.tgt
				if pi < 0 || pj < 0 || math.IsInf(score[pi][pj], -1) {
					continue
				}
				s := score[pi][pj] + a.beadScore(b, src.window(pi, b.src), tgt.window(pj, b.tgt))
				if s > score[i][j] {
					score[i][j] = s
					back[i][j] = k
				}
			}
		}
	}

	return tracePath(back, n, m), nil
}

func (a *Aligner) beadScore(b bead, src, tgt segment) float64 {
	if b.src == 0 || b.tgt == 0 {
		return a.skip
	}
	return cosine(src.vec, tgt.vec) * lengthWeight(src.chars, tgt.chars)
}

// side holds the embedded windows of one document.
type side struct {
	singles []segment
	pairs   []segment // pairs[i] covers sentences i and i+1
}

type segment struct {
	vec   []float32
	chars int
}

func (s side) window(start, size int) segment {
	switch size {
	case 1:
		return s.singles[start]
	case 2:
		return s.pairs[start]
	default:
		return segment{}
	}
}

// embedSide embeds all sentences and adjacent pairs in one batch.
func (a *Aligner) embedSide(ctx context.Context, sentences []string) (side, error) {
	texts := make([]string, 0, 2*len(sentences))
	texts = append(texts, sentences...)
	for i := 0; i+1 < len(sentences); i++ {
		texts = append(texts, sentences[i]+" "+sentences[i+1])
	}

	vectors, err := a.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return side{}, err
	}
	if len(vectors) != len(texts) {
		return side{}, fmt.Errorf("got %d embeddings for %d texts", len(vectors), len(texts))
	}

	var out side
	for i, text := range texts {
		seg := segment{vec: vectors[i], chars: utf8.RuneCountInString(strings.TrimSpace(text))}
		if i < len(sentences) {
			out.singles = append(out.singles, seg)
		} else {
			out.pairs = append(out.pairs, seg)
		}
	}
	return out, nil
}

func tracePath(back [][]int, n, m int) []driven.IndexGroup {
	var groups []driven.IndexGroup
	for i, j := n, m; i > 0 || j > 0; {
		b := beads[back[i][j]]
		groups = append(groups, driven.IndexGroup{
			Source: indexRange(i-b.src, i),
			Target: indexRange(j-b.tgt, j),
		})
		i -= b.src
		j -= b.tgt
	}
	for l, r := 0, len(groups)-1; l < r; l, r = l+1, r-1 {
		groups[l], groups[r] = groups[r], groups[l]
	}
	return groups
}

// cosine returns 0 when either vector has no magnitude or the sizes differ.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// lengthWeight scales similarity into [0.5, 1] by the shorter/longer length ratio.
func lengthWeight(a, b int) float64 {
	if a == 0 && b == 0 {
		return 1
	}
	lo, hi := float64(min(a, b)), float64(max(a, b))
	return 0.5 + 0.5*lo/hi
}

func indexRange(from, to int) []int {
	if from == to {
		return nil
	}
	out := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}
