package search

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// InMemoryIndex is a Searcher holding documents and their vectors in
// memory, ranking by cosine similarity. Suitable for tests and small
// single-binary deployments.
type InMemoryIndex struct {
	embedder Embedder

	mu   sync.RWMutex
	docs []Document
	vecs [][]float32
}

// NewInMemoryIndex constructs an empty index using embedder for both
// documents and queries.
func NewInMemoryIndex(embedder Embedder) *InMemoryIndex {
	return &InMemoryIndex{embedder: embedder}
}

// Add embeds and indexes a document.
func (i *InMemoryIndex) Add(ctx context.Context, doc Document) error {
	vec, err := i.embedder.Embed(ctx, doc.Title+"\n"+doc.Snippet)
	if err != nil {
		return fmt.Errorf("search: embed document %q: %w", doc.ID, err)
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.docs = append(i.docs, doc)
	i.vecs = append(i.vecs, vec)
	return nil
}

// Search implements Searcher.
func (i *InMemoryIndex) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	qv, err := i.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search: embed query: %w", err)
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	hits := make([]Hit, 0, len(i.docs))
	for idx, doc := range i.docs {
		hits = append(hits, Hit{
			ID:      doc.ID,
			Title:   doc.Title,
			Snippet: doc.Snippet,
			Score:   cosine(qv, i.vecs[idx]),
		})
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Score > hits[b].Score })

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func cosine(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
