package model

import (
	"context"
	"sync"

	"github.com/careerpilot/careerpilot/core"
)

// MockModel is a lightweight in-memory Model useful for tests. Behavior is
// supplied as a function so tests can script arbitrary responses, including
// tool call requests and failures.
type MockModel struct {
	info Info
	fn   func(ctx context.Context, req Request) (Response, error)

	mu    sync.Mutex
	calls int
}

// NewMockModel constructs a MockModel driven by fn. A nil fn echoes the last
// message back as an assistant reply.
func NewMockModel(name string, fn func(ctx context.Context, req Request) (Response, error)) *MockModel {
	if fn == nil {
		fn = func(_ context.Context, req Request) (Response, error) {
			last, _ := core.LastMessage(req.Messages)
			return Response{
				Message:      core.NewAssistantMessage("Mock response to: " + last.Content),
				FinishReason: "stop",
			}, nil
		}
	}
	return &MockModel{info: Info{Name: name, Provider: "mock", SupportsTools: true}, fn: fn}
}

// Invoke implements Model.
func (m *MockModel) Invoke(ctx context.Context, req Request) (Response, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.fn(ctx, req)
}

// Calls returns how many times Invoke has been called.
func (m *MockModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
