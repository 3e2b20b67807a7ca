// Package length provides a sentence aligner based on sentence lengths.
//
// It implements the Gale-Church model: the character length of a target
// segment is assumed normally distributed around the source length, and a
// dynamic program picks the bead sequence with the lowest total cost.
// No external service is needed, so it is the default aligner.
package length

import (
	"context"
	"math"
	"unicode/utf8"

	"github.com/custodia-labs/eptalign/internal/core/ports/driven"
)

// Ensure Aligner implements the interface.
var _ driven.SentenceAligner = (*Aligner)(nil)

// Name identifies this aligner.
const Name = "length"

// Model parameters from Gale & Church (1993).
const (
	// expansionRatio is the expected target characters per source character.
	expansionRatio = 1.0

	// variance is the variance of the length difference per character.
	variance = 6.8
)

// bead is an allowed alignment shape with its prior probability.
type bead struct {
	src, tgt int
	prior    float64
}

var beads = []bead{
	{1, 1, 0.89},
	{1, 0, 0.0099 / 2},
	{0, 1, 0.0099 / 2},
	{2, 1, 0.089 / 2},
	{1, 2, 0.089 / 2},
	{2, 2, 0.011},
}

// Aligner aligns sentences by length.
type Aligner struct{}

// New creates a length-based aligner.
func New() *Aligner {
	return &Aligner{}
}

// Name identifies the aligner.
func (a *Aligner) Name() string {
	return Name
}

// Close releases nothing.
func (a *Aligner) Close() error {
	return nil
}

// Align returns the lowest-cost bead sequence covering both inputs.
// The language hints are accepted for interface compatibility and ignored:
// the length model is language independent.
func (a *Aligner) Align(ctx context.Context, source, target []string, _, _ string) ([]driven.IndexGroup, error) {
	srcLen := runeLengths(source)
	tgtLen := runeLengths(target)
	n, m := len(source), len(target)

	cost := make([][]float64, n+1)
	back := make([][]int, n+1)
	for i := range cost {
		cost[i] = make([]float64, m+1)
		back[i] = make([]int, m+1)
		for j := range cost[i] {
			cost[i][j] = math.Inf(1)
			back[i][j] = -1
		}
	}
	cost[0][0] = 0

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
				if pi < 0 || pj < 0 || math.IsInf(cost[pi][pj], 1) {
					continue
				}
				c := cost[pi][pj] + beadCost(b, sum(srcLen[pi:i]), sum(tgtLen[pj:j]))
				if c < cost[i][j] {
					cost[i][j] = c
					back[i][j] = k
				}
			}
		}
	}

	return tracePath(back, n, m), nil
}

// tracePath follows back pointers from (n, m) to the origin.
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

// beadCost is -log(P(bead) * P(length difference | match)).
func beadCost(b bead, srcChars, tgtChars int) float64 {
	return -math.Log(b.prior) + lengthCost(srcChars, tgtChars)
}

func lengthCost(srcChars, tgtChars int) float64 {
	l1, l2 := float64(srcChars), float64(tgtChars)
	mean := (l1 + l2/expansionRatio) / 2
	if mean == 0 {
		return 0
	}
	z := (expansionRatio*l1 - l2) / math.Sqrt(variance*mean)
	// Two-tailed probability of a deviation at least this large.
	p := math.Erfc(math.Abs(z) / math.Sqrt2)
	if p < 1e-300 {
		p = 1e-300
	}
	return -math.Log(p)
}

func runeLengths(sentences []string) []int {
	out := make([]int, len(sentences))
	for i, s := range sentences {
		out[i] = utf8.RuneCountInString(s)
	}
	return out
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
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
