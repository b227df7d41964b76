package search

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wordEmbedder produces bag-of-words vectors over a fixed vocabulary.
type wordEmbedder struct{ vocab []string }

func (e wordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, len(e.vocab))
	lower := strings.ToLower(text)
	for i, w := range e.vocab {
		if strings.Contains(lower, w) {
			vec[i] = 1
		}
	}
	return vec, nil
}

func newTestIndex(t *testing.T) *InMemoryIndex {
	t.Helper()
	idx := NewInMemoryIndex(wordEmbedder{vocab: []string{"go", "backend", "sql", "analyst", "frontend"}})
	ctx := context.Background()

	docs := []Document{
		{ID: "job-1", Title: "Backend Engineer", Snippet: "Go services, SQL storage"},
		{ID: "job-2", Title: "Data Analyst", Snippet: "SQL dashboards and reporting"},
		{ID: "job-3", Title: "Frontend Developer", Snippet: "Component work"},
	}
	for _, doc := range docs {
		require.NoError(t, idx.Add(ctx, doc))
	}
	return idx
}

func TestInMemoryIndex_RanksByCosineSimilarity(t *testing.T) {
	idx := newTestIndex(t)

	hits, err := idx.Search(context.Background(), "backend go developer", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)

	assert.Equal(t, "job-1", hits[0].ID)
	for i := 1; i < len(hits); i++ {
		assert.LessOrEqual(t, hits[i].Score, hits[i-1].Score)
	}
}

func TestInMemoryIndex_Limit(t *testing.T) {
	idx := newTestIndex(t)

	hits, err := idx.Search(context.Background(), "sql", 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestInMemoryIndex_EmptyIndex(t *testing.T) {
	idx := NewInMemoryIndex(wordEmbedder{vocab: []string{"go"}})

	hits, err := idx.Search(context.Background(), "go", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, cosine([]float32{1, 0}, []float32{1, 0}), 1e-6)
	assert.InDelta(t, 0.0, cosine([]float32{1, 0}, []float32{0, 1}), 1e-6)
	// Mismatched or zero vectors degrade to zero similarity.
	assert.Equal(t, float32(0), cosine([]float32{1}, []float32{1, 2}))
	assert.Equal(t, float32(0), cosine([]float32{0, 0}, []float32{1, 1}))
}
