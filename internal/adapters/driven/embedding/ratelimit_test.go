package embedding

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockService fails with queued errors before succeeding.
type mockService struct {
	errs   []error
	calls  int
	closed bool
}

func (m *mockService) next() error {
	m.calls++
	if len(m.errs) == 0 {
		return nil
	}
	err := m.errs[0]
	m.errs = m.errs[1:]
	return err
}

func (m *mockService) Embed(_ context.Context, _ string) ([]float32, error) {
	if err := m.next(); err != nil {
		return nil, err
	}
	return []float32{1}, nil
}

func (m *mockService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if err := m.next(); err != nil {
		return nil, err
	}
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{float32(i)}
	}
	return out, nil
}

func (m *mockService) ModelName() string            { return "mock" }
func (m *mockService) Ping(_ context.Context) error { return nil }
func (m *mockService) Close() error {
	m.closed = true
	return nil
}

func tooMany() error {
	return &StatusError{Provider: "mock", StatusCode: http.StatusTooManyRequests, RetryAfter: time.Millisecond}
}

func TestStatusError(t *testing.T) {
	resp := &http.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{}}
	resp.Header.Set("Retry-After", "7")

	err := NewStatusError("openai", resp, []byte("slow down"))

	assert.True(t, err.RateLimited())
	assert.Equal(t, 7*time.Second, err.RetryAfter)
	assert.Equal(t, "openai error (status 429): slow down", err.Error())

	resp.Header.Set("Retry-After", "Wed, 21 Oct 2026 07:28:00 GMT")
	assert.Zero(t, NewStatusError("openai", resp, nil).RetryAfter)
}

func TestLimited_PassesThrough(t *testing.T) {
	svc := &mockService{}
	l := NewLimited(svc, 0)

	got, err := l.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	vec, err := l.Embed(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, vec)

	assert.Equal(t, "mock", l.ModelName())
	assert.NoError(t, l.Ping(context.Background()))
	assert.NoError(t, l.Close())
	assert.True(t, svc.closed)
}

func TestLimited_RetriesRateLimited(t *testing.T) {
	svc := &mockService{errs: []error{tooMany(), tooMany()}}
	l := NewLimited(svc, 0)

	_, err := l.EmbedBatch(context.Background(), []string{"a"})

	require.NoError(t, err)
	assert.Equal(t, 3, svc.calls)
}

func TestLimited_GivesUpAfterMaxRetries(t *testing.T) {
	svc := &mockService{errs: []error{tooMany(), tooMany(), tooMany(), tooMany()}}
	l := NewLimited(svc, 0)

	_, err := l.EmbedBatch(context.Background(), []string{"a"})

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, DefaultMaxRetries+1, svc.calls)
}

func TestLimited_DoesNotRetryOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	svc := &mockService{errs: []error{boom}}
	l := NewLimited(svc, 0)

	_, err := l.Embed(context.Background(), "a")

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, svc.calls)
}

func TestRateLimiter_WaitRespectsBackoffAndContext(t *testing.T) {
	r := NewRateLimiter(0)
	r.RecordRateLimitError(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, r.Wait(ctx), context.DeadlineExceeded)
}

func TestRateLimiter_DefaultBackoff(t *testing.T) {
	r := NewRateLimiter(5)
	before := time.Now()

	r.RecordRateLimitError(0)

	assert.WithinDuration(t, before.Add(DefaultBackoff), r.retryAt, time.Second)
}

func TestRateLimiter_Throttles(t *testing.T) {
	r := NewRateLimiter(50)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 60; i++ {
		require.NoError(t, r.Wait(ctx))
	}

	// 50 burst tokens, then 10 more at 50/s.
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}
