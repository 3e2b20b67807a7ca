package similarity

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/eptalign/internal/core/ports/driven"
)

// dictEmbedder maps words to shared dimensions, so translations embed alike.
type dictEmbedder struct {
	dims   map[string]int
	err    error
	calls  int
	closed bool
}

func newDictEmbedder() *dictEmbedder {
	return &dictEmbedder{dims: map[string]int{
		"cat": 0, "gato": 0,
		"dog": 1, "perro": 1,
		"sun": 2, "sol": 2,
	}}
}

func (e *dictEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (e *dictEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, 3)
		for _, word := range strings.Fields(strings.ToLower(text)) {
			if d, ok := e.dims[strings.Trim(word, ".,")]; ok {
				vec[d]++
			}
		}
		out[i] = vec
	}
	return out, nil
}

func (e *dictEmbedder) ModelName() string            { return "dict" }
func (e *dictEmbedder) Ping(_ context.Context) error { return nil }
func (e *dictEmbedder) Close() error {
	e.closed = true
	return nil
}

func TestAligner_NameAndClose(t *testing.T) {
	emb := newDictEmbedder()
	a := New(emb, Options{})

	assert.Equal(t, "embedding:dict", a.Name())
	assert.Equal(t, DefaultSkipScore, a.skip)
	assert.NoError(t, a.Close())
	assert.True(t, emb.closed)
}

func TestAligner_OneToOne(t *testing.T) {
	emb := newDictEmbedder()

	groups, err := New(emb, Options{}).Align(context.Background(),
		[]string{"cat", "sun"}, []string{"gato", "sol"}, "en", "es")

	require.NoError(t, err)
	assert.Equal(t, []driven.IndexGroup{
		{Source: []int{0}, Target: []int{0}},
		{Source: []int{1}, Target: []int{1}},
	}, groups)
	assert.Equal(t, 2, emb.calls)
}

func TestAligner_MergesAcrossTargetSentences(t *testing.T) {
	groups, err := New(newDictEmbedder(), Options{}).Align(context.Background(),
		[]string{"cat dog", "sun"}, []string{"gato", "perro", "sol"}, "en", "es")

	require.NoError(t, err)
	assert.Equal(t, []driven.IndexGroup{
		{Source: []int{0}, Target: []int{0, 1}},
		{Source: []int{1}, Target: []int{2}},
	}, groups)
}

func TestAligner_SkipsUnmatchedSentence(t *testing.T) {
	groups, err := New(newDictEmbedder(), Options{}).Align(context.Background(),
		[]string{"cat", "something", "sun"}, []string{"gato", "sol"}, "en", "es")

	require.NoError(t, err)
	assert.Equal(t, []driven.IndexGroup{
		{Source: []int{0}, Target: []int{0}},
		{Source: []int{1}},
		{Source: []int{2}, Target: []int{1}},
	}, groups)
}

func TestAligner_EmbeddingError(t *testing.T) {
	emb := newDictEmbedder()
	emb.err = errors.New("connection refused")

	_, err := New(emb, Options{}).Align(context.Background(), []string{"cat"}, []string{"gato"}, "en", "es")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding source")
}

func TestAligner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(newDictEmbedder(), Options{}).Align(ctx, []string{"cat"}, []string{"gato"}, "en", "es")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, cosine([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Zero(t, cosine([]float32{0, 0}, []float32{1, 1}))
	assert.Zero(t, cosine([]float32{1}, []float32{1, 1}))
}

func TestLengthWeight(t *testing.T) {
	assert.Equal(t, 1.0, lengthWeight(0, 0))
	assert.Equal(t, 1.0, lengthWeight(10, 10))
	assert.InDelta(t, 0.75, lengthWeight(5, 10), 1e-9)
}

func TestAligner_IgnoresLanguageHints(t *testing.T) {
	source, target := []string{"cat dog", "sun"}, []string{"gato", "perro", "sol"}

	withHints, err := New(newDictEmbedder(), Options{}).Align(context.Background(), source, target, "en", "es")
	require.NoError(t, err)
	without, err := New(newDictEmbedder(), Options{}).Align(context.Background(), source, target, "xx", "yy")
	require.NoError(t, err)

	assert.Equal(t, withHints, without)
}
