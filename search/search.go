// Package search provides the semantic search collaborator used by the
// search_jobs and search_resources tools: an Embedder turning text into
// vectors and a Searcher returning ranked hits for a query. A Qdrant-backed
// index serves production; an in-memory cosine index serves tests and
// single-binary deployments.
package search

import "context"

// Hit is one ranked search result.
type Hit struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Snippet string  `json:"snippet"`
	Score   float32 `json:"score"`
}

// Searcher answers free-text queries against one collection (jobs or
// resources). Zero matches is a normal outcome: an empty slice, never an
// error.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]Hit, error)
}

// Embedder turns text into a dense vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Document is an indexable item.
type Document struct {
	ID      string
	Title   string
	Snippet string
}
