package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/eptalign/internal/core/domain"
	"github.com/custodia-labs/eptalign/internal/logger"
)

// PairOutcome is the result of processing one group pair.
type PairOutcome struct {
	Plan domain.PairPlan

	// Results holds one entry per document pair, in cross-product order.
	Results []domain.DocumentPairResult

	// Links are the unfiltered links of every successful attempt, in
	// discovery order.
	Links []domain.AlignmentLink
}

// Aggregator aligns the full cross product of a group pair.
// It is safe for concurrent use: each call accumulates into its own outcome
// and only the fault counter is shared.
type Aggregator struct {
	adapter *AlignmentAdapter
	faults  *faultTracker
}

// NewAggregator creates an aggregator. maxConsecutiveFaults of zero never
// escalates aligner faults.
func NewAggregator(adapter *AlignmentAdapter, maxConsecutiveFaults int) *Aggregator {
	return &Aggregator{
		adapter: adapter,
		faults:  &faultTracker{limit: maxConsecutiveFaults},
	}
}

// Process aligns every document of plan.First against every document of
// plan.Second. Failed attempts are recorded, never returned as errors.
// onResult, if set, is called after each attempt.
//
// Returns an error only when ctx is cancelled or consecutive aligner faults
// reach the configured limit.
func (g *Aggregator) Process(
	ctx context.Context,
	plan domain.PairPlan,
	onResult func(domain.DocumentPairResult),
) (*PairOutcome, error) {
	outcome := &PairOutcome{
		Plan:    plan,
		Results: make([]domain.DocumentPairResult, 0, plan.Attempts()),
	}

	for _, src := range plan.First {
		for _, tgt := range plan.Second {
			if err := ctx.Err(); err != nil {
				return outcome, err
			}

			links, err := g.adapter.Align(ctx, src, tgt)
			if err != nil && ctx.Err() != nil {
				return outcome, ctx.Err()
			}

			result := domain.DocumentPairResult{
				SourceDocID: src.ID,
				TargetDocID: tgt.ID,
				PairName:    plan.Pair.Name,
			}
			if err != nil {
				result.Outcome = domain.OutcomeFailure
				result.Reason = domain.ReasonFor(err)
				if errors.Is(err, domain.ErrEmptyText) {
					logger.Debug("Skipping %s/%s: %v", src.ID, tgt.ID, err)
				} else {
					logger.Warn("Alignment of %s/%s failed: %v", src.ID, tgt.ID, err)
				}
			} else {
				result.Outcome = domain.OutcomeSuccess
				result.Links = links
				outcome.Links = append(outcome.Links, links...)
			}

			outcome.Results = append(outcome.Results, result)
			if onResult != nil {
				onResult(result)
			}

			if escalate := g.faults.observe(err); escalate != nil {
				return outcome, escalate
			}
		}
	}

	return outcome, nil
}

// faultTracker counts consecutive aligner faults across all workers.
// Empty-text skips leave the count untouched; a success resets it.
type faultTracker struct {
	mu          sync.Mutex
	limit       int
	consecutive int
}

func (t *faultTracker) observe(err error) error {
	if errors.Is(err, domain.ErrEmptyText) {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err == nil {
		t.consecutive = 0
		return nil
	}
	t.consecutive++
	if t.limit > 0 && t.consecutive >= t.limit {
		return fmt.Errorf("%w: %d in a row, last: %w", domain.ErrTooManyFaults, t.consecutive, err)
	}
	return nil
}
