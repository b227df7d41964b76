package transcript

import (
	"context"
	"sync"

	"github.com/careerpilot/careerpilot/core"
)

// InMemoryStore is a volatile Store implementation holding transcripts in a
// process local map. It is safe for concurrent access and best suited for
// tests or ephemeral demo servers. History returns a copy to prevent
// external mutation of internal state.
type InMemoryStore struct {
	mu      sync.RWMutex
	threads map[string][]core.Message
}

// NewInMemoryStore constructs an empty in-memory transcript store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{threads: make(map[string][]core.Message)}
}

// History returns a defensive copy of the thread's messages, oldest first.
func (s *InMemoryStore) History(_ context.Context, threadID string) ([]core.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.threads[threadID]
	out := make([]core.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

// Append adds a message to the thread, creating the thread lazily.
func (s *InMemoryStore) Append(_ context.Context, threadID, _ string, msg core.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threads[threadID] = append(s.threads[threadID], msg)
	return nil
}
