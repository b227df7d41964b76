package search

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/careerpilot/careerpilot/logging"
)

// QdrantConfig holds configuration for one Qdrant-backed collection.
type QdrantConfig struct {
	URL        string // e.g. "https://xyz.cloud.qdrant.io:6333" or "http://localhost:6333"
	APIKey     string
	Collection string
	Dims       uint64
}

// QdrantIndex implements Searcher backed by a Qdrant collection.
type QdrantIndex struct {
	client     *qdrant.Client
	collection string
	dims       uint64
	embedder   Embedder
	logger     logging.Logger
}

// parseQdrantURL extracts host, port, and TLS flag from a Qdrant URL.
// Accepts forms like "https://host:6333", "http://host:6333", or "host:6334".
func parseQdrantURL(rawURL string) (host string, port int, useTLS bool, err error) {
	u, parseErr := url.Parse(rawURL)
	if parseErr != nil || u.Host == "" {
		return "", 0, false, fmt.Errorf("search: invalid qdrant URL: %q", rawURL)
	}

	useTLS = u.Scheme == "https"
	host = u.Hostname()

	if portStr := u.Port(); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return "", 0, false, fmt.Errorf("search: invalid port in qdrant URL: %q", portStr)
		}
		// If the user specified the REST port (6333), use the gRPC port (6334).
		if p == 6333 {
			port = 6334
		} else {
			port = p
		}
	} else {
		port = 6334
	}

	return host, port, useTLS, nil
}

// NewQdrantIndex connects to the Qdrant server via gRPC and returns an
// index over cfg.Collection.
func NewQdrantIndex(cfg QdrantConfig, embedder Embedder, logger logging.Logger) (*QdrantIndex, error) {
	host, port, useTLS, err := parseQdrantURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("search: connect to qdrant at %s:%d: %w", host, port, err)
	}

	if logger == nil {
		logger = logging.NoOpLogger{}
	}

	return &QdrantIndex{
		client:     client,
		collection: cfg.Collection,
		dims:       cfg.Dims,
		embedder:   embedder,
		logger:     logger,
	}, nil
}

// EnsureCollection creates the collection if it doesn't already exist.
func (q *QdrantIndex) EnsureCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collection)
	if err != nil {
		return fmt.Errorf("search: check collection exists: %w", err)
	}
	if exists {
		q.logger.Debug("qdrant: collection already exists", "collection", q.collection)
		return nil
	}

	if err := q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.dims,
			Distance: qdrant.Distance_Cosine,
		}),
	}); err != nil {
		return fmt.Errorf("search: create collection %q: %w", q.collection, err)
	}
	q.logger.Info("qdrant: created collection", "collection", q.collection, "dims", q.dims)
	return nil
}

// Add embeds and upserts a document into the collection.
func (q *QdrantIndex) Add(ctx context.Context, doc Document) error {
	vec, err := q.embedder.Embed(ctx, doc.Title+"\n"+doc.Snippet)
	if err != nil {
		return fmt.Errorf("search: embed document %q: %w", doc.ID, err)
	}

	id := doc.ID
	if _, err := uuid.Parse(id); err != nil {
		// Qdrant point ids must be UUIDs or integers.
		id = uuid.NewSHA1(uuid.NameSpaceOID, []byte(doc.ID)).String()
	}

	_, err = q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collection,
		Points: []*qdrant.PointStruct{{
			Id:      qdrant.NewIDUUID(id),
			Vectors: qdrant.NewVectors(vec...),
			Payload: qdrant.NewValueMap(map[string]any{
				"doc_id":  doc.ID,
				"title":   doc.Title,
				"snippet": doc.Snippet,
			}),
		}},
	})
	if err != nil {
		return fmt.Errorf("search: upsert document %q: %w", doc.ID, err)
	}
	return nil
}

// Search implements Searcher.
func (q *QdrantIndex) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	vec, err := q.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search: embed query: %w", err)
	}

	fetchLimit := uint64(limit)
	scored, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collection,
		Query:          qdrant.NewQueryDense(vec),
		Limit:          &fetchLimit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("search: qdrant query: %w", err)
	}

	hits := make([]Hit, 0, len(scored))
	for _, pt := range scored {
		hit := Hit{Score: pt.Score}
		if payload := pt.Payload; payload != nil {
			if v, ok := payload["doc_id"]; ok {
				hit.ID = v.GetStringValue()
			}
			if v, ok := payload["title"]; ok {
				hit.Title = v.GetStringValue()
			}
			if v, ok := payload["snippet"]; ok {
				hit.Snippet = v.GetStringValue()
			}
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
