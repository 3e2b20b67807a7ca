package embedding

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/eptalign/internal/core/ports/driven"
	"github.com/custodia-labs/eptalign/internal/logger"
)

// Defaults for rate-limited services.
const (
	// DefaultBackoff applies after a 429 without Retry-After.
	DefaultBackoff = 10 * time.Second

	// DefaultMaxRetries is how often a rate-limited call is retried.
	DefaultMaxRetries = 2
)

// RateLimiter is a token bucket with a server-requested backoff window.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewRateLimiter creates a limiter allowing requestsPerSecond sustained calls.
// A rate of zero or less disables throttling; backoff after 429s still applies.
func NewRateLimiter(requestsPerSecond float64) *RateLimiter {
	limit := rate.Inf
	burst := 1
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
		if requestsPerSecond > 1 {
			burst = int(requestsPerSecond)
		}
	}
	return &RateLimiter{limiter: rate.NewLimiter(limit, burst)}
}

// Wait blocks until a request may be made.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if wait := time.Until(retryAt); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.limiter.Wait(ctx)
}

// RecordRateLimitError pauses all callers for the given backoff.
func (r *RateLimiter) RecordRateLimitError(backoff time.Duration) {
	if backoff <= 0 {
		backoff = DefaultBackoff
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	until := time.Now().Add(backoff)
	if until.After(r.retryAt) {
		r.retryAt = until
	}
}

// Ensure Limited implements the interface.
var _ driven.EmbeddingService = (*Limited)(nil)

// Limited throttles an EmbeddingService and retries rate-limited calls.
type Limited struct {
	next       driven.EmbeddingService
	limiter    *RateLimiter
	maxRetries int
}

// NewLimited wraps next with a limiter of requestsPerSecond.
func NewLimited(next driven.EmbeddingService, requestsPerSecond float64) *Limited {
	return &Limited{
		next:       next,
		limiter:    NewRateLimiter(requestsPerSecond),
		maxRetries: DefaultMaxRetries,
	}
}

// Embed generates a vector embedding for the given text.
func (l *Limited) Embed(ctx context.Context, text string) ([]float32, error) {
	var out []float32
	err := l.do(ctx, func() error {
		var err error
		out, err = l.next.Embed(ctx, text)
		return err
	})
	return out, err
}

// EmbedBatch generates embeddings for multiple texts as one limited call.
func (l *Limited) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var out [][]float32
	err := l.do(ctx, func() error {
		var err error
		out, err = l.next.EmbedBatch(ctx, texts)
		return err
	})
	return out, err
}

// ModelName returns the wrapped model name.
func (l *Limited) ModelName() string {
	return l.next.ModelName()
}

// Ping is not throttled.
func (l *Limited) Ping(ctx context.Context) error {
	return l.next.Ping(ctx)
}

// Close closes the wrapped service.
func (l *Limited) Close() error {
	return l.next.Close()
}

func (l *Limited) do(ctx context.Context, call func() error) error {
	for attempt := 0; ; attempt++ {
		if err := l.limiter.Wait(ctx); err != nil {
			return err
		}
		err := call()
		var statusErr *StatusError
		if err == nil || !errors.As(err, &statusErr) || !statusErr.RateLimited() || attempt >= l.maxRetries {
			return err
		}
		logger.Debug("embedding: rate limited by %s, backing off %s", statusErr.Provider, statusErr.RetryAfter)
		l.limiter.RecordRateLimitError(statusErr.RetryAfter)
	}
}
