package index

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapEmbedder struct {
	vectors  map[string][]float64
	prepared []string
	failOn   string
}

func (m *mapEmbedder) Name() string   { return "map" }
func (m *mapEmbedder) Dimension() int { return 2 }
func (m *mapEmbedder) Prepare(corpus []string) error {
	m.prepared = corpus
	return nil
}
func (m *mapEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	if text == m.failOn {
		return nil, errors.New("boom")
	}
	return m.vectors[text], nil
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float64{1, 0}, []float64{2, 0}), 1e-12)
	assert.InDelta(t, 0.0, Cosine([]float64{1, 0}, []float64{0, 3}), 1e-12)
	assert.InDelta(t, -1.0, Cosine([]float64{1, 1}, []float64{-1, -1}), 1e-12)
	assert.Zero(t, Cosine([]float64{0, 0}, []float64{1, 0}))
	assert.Zero(t, Cosine(nil, nil))
}

func TestBuildKeepsOrderAndReportsProgress(t *testing.T) {
	emb := &mapEmbedder{vectors: map[string][]float64{"a": {1, 0}, "b": {0, 1}}}
	var calls [][2]int
	ix, err := Build(context.Background(), emb, []string{"a", "b"}, func(done, total int) {
		calls = append(calls, [2]int{done, total})
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, emb.prepared)
	assert.Equal(t, [][]float64{{1, 0}, {0, 1}}, ix.Vectors)
	assert.Equal(t, 2, ix.Len())
	assert.Equal(t, [][2]int{{1, 2}, {2, 2}}, calls)
	assert.Same(t, emb, ix.Embedder)

	q, err := ix.EmbedQuery(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, q)
}

func TestEmbedQueryWithoutEmbedder(t *testing.T) {
	_, err := Index{}.EmbedQuery(context.Background(), "q")
	assert.Error(t, err)
}

func TestBuildFailureReturnsNoIndex(t *testing.T) {
	emb := &mapEmbedder{vectors: map[string][]float64{"a": {1, 0}}, failOn: "b"}
	ix, err := Build(context.Background(), emb, []string{"a", "b"}, nil)
	assert.Error(t, err)
	assert.Equal(t, 0, ix.Len())
	assert.Nil(t, ix.Embedder)
}

func TestBestTiesResolveToLowestIndex(t *testing.T) {
	ix := Index{Vectors: [][]float64{{0, 1}, {1, 0}, {2, 0}}}
	idx, score, ok := ix.Best([]float64{1, 0})
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.InDelta(t, 1.0, score, 1e-12)

	_, _, ok = Index{}.Best([]float64{1})
	assert.False(t, ok)
}
