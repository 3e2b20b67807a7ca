package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/eptalign/internal/core/domain"
	"github.com/custodia-labs/eptalign/internal/core/ports/driven"
)

// AlignmentAdapter wraps a SentenceAligner for document pairs.
// It short-circuits empty texts, bounds every call with a timeout and maps
// raw index groups to AlignmentLinks.
type AlignmentAdapter struct {
	aligner driven.SentenceAligner
	timeout time.Duration
}

// NewAlignmentAdapter creates an adapter. A zero timeout disables it.
func NewAlignmentAdapter(aligner driven.SentenceAligner, timeout time.Duration) *AlignmentAdapter {
	return &AlignmentAdapter{
		aligner: aligner,
		timeout: timeout,
	}
}

// Align aligns the sentences of source against those of target.
//
// Errors are classified with domain sentinels:
//   - ErrEmptyText when either document has no text (a skip)
//   - ErrAlignTimeout when the aligner does not answer in time
//   - ErrAlignerFault for any other aligner failure, including bad indices
//
// Cancellation of ctx itself is returned unwrapped.
func (a *AlignmentAdapter) Align(ctx context.Context, source, target domain.Document) ([]domain.AlignmentLink, error) {
	srcSentences := source.Sentences()
	tgtSentences := target.Sentences()
	if len(srcSentences) == 0 || len(tgtSentences) == 0 {
		return nil, fmt.Errorf("%w: %s/%s", domain.ErrEmptyText, source.ID, target.ID)
	}
	if a.aligner == nil {
		return nil, fmt.Errorf("%w: no aligner configured", domain.ErrAlignerFault)
	}

	groups, err := a.call(ctx, srcSentences, tgtSentences, source.Language, target.Language)
	if err != nil {
		return nil, err
	}

	links := make([]domain.AlignmentLink, 0, len(groups))
	for i, g := range groups {
		if err := checkIndices(g.Source, len(srcSentences)); err != nil {
			return nil, fmt.Errorf("%w: group %d source: %w", domain.ErrAlignerFault, i, err)
		}
		if err := checkIndices(g.Target, len(tgtSentences)); err != nil {
			return nil, fmt.Errorf("%w: group %d target: %w", domain.ErrAlignerFault, i, err)
		}
		links = append(links, domain.AlignmentLink{
			SourceDoc:     source.ID,
			TargetDoc:     target.ID,
			SourceIndices: append([]int(nil), g.Source...),
			TargetIndices: append([]int(nil), g.Target...),
		})
	}
	return links, nil
}

type alignResult struct {
	groups []driven.IndexGroup
	err    error
}

// call runs the aligner in its own goroutine so a hung aligner cannot block
// the run past the timeout.
func (a *AlignmentAdapter) call(
	ctx context.Context, source, target []string, sourceLang, targetLang string,
) ([]driven.IndexGroup, error) {
	callCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	done := make(chan alignResult, 1)
	go func() {
		groups, err := a.aligner.Align(callCtx, source, target, sourceLang, targetLang)
		done <- alignResult{groups: groups, err: err}
	}()

	select {
	case res := <-done:
		if res.err == nil {
			return res.groups, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(res.err, context.DeadlineExceeded) && callCtx.Err() != nil {
			return nil, fmt.Errorf("%w after %s", domain.ErrAlignTimeout, a.timeout)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrAlignerFault, res.err)
	case <-callCtx.Done():
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w after %s", domain.ErrAlignTimeout, a.timeout)
	}
}

func checkIndices(indices []int, n int) error {
	prev := -1
	for _, idx := range indices {
		if idx < 0 || idx >= n {
			return fmt.Errorf("index %d out of range [0,%d)", idx, n)
		}
		if idx <= prev {
			return fmt.Errorf("indices not ascending")
		}
		prev = idx
	}
	return nil
}
