package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/careerpilot/careerpilot/core"
	"github.com/careerpilot/careerpilot/logging"
	"github.com/careerpilot/careerpilot/transcript"
	"github.com/careerpilot/careerpilot/workflow"
)

// ErrEmptyReply reports that the graph terminated without producing an
// assistant reply. It indicates a misbehaving backend, not caller error.
var ErrEmptyReply = errors.New("chat: graph produced no assistant reply")

// ServiceOptions configure a Service.
type ServiceOptions struct {
	Logger logging.Logger
}

// Service drives complete chat turns: it loads the persisted transcript,
// invokes the graph under the caller's ambient identity, and persists the
// durable pair (user message, final reply). The graph and store are shared
// read-only across concurrent turns.
type Service struct {
	graph  *workflow.Graph[State]
	store  transcript.Store
	logger logging.Logger
}

// NewService constructs a Service over a compiled graph and transcript store.
func NewService(graph *workflow.Graph[State], store transcript.Store, optFns ...func(o *ServiceOptions)) *Service {
	opts := ServiceOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Service{graph: graph, store: store, logger: opts.Logger}
}

// SendTurn processes one inbound user turn for a thread and returns the
// assistant's reply text.
//
// A reply is only reported as successful when both generation and
// persistence succeed: an unpersisted conversation would break later
// resumption. Nothing is persisted when the graph fails, so a failed turn
// leaves the thread exactly as it was.
func (s *Service) SendTurn(ctx context.Context, threadID, userID, text string) (string, error) {
	history, err := s.store.History(ctx, threadID)
	if err != nil {
		return "", fmt.Errorf("chat: load history for thread %q: %w", threadID, err)
	}

	userMsg := core.NewUserMessage(text)
	ctx = core.WithIdentity(ctx, core.Identity{UserID: userID, ThreadID: threadID})

	final, err := s.graph.Invoke(ctx, State{Messages: append(history, userMsg)})
	if err != nil {
		s.logger.Error("chat.turn.failed", "thread_id", threadID, "error", err.Error())
		return "", err
	}

	reply, ok := finalReply(final)
	if !ok {
		return "", ErrEmptyReply
	}

	// Only the user message and the final reply are durable; tool traffic
	// within the turn is ephemeral.
	if err := s.store.Append(ctx, threadID, userID, userMsg); err != nil {
		return "", fmt.Errorf("chat: persist user message: %w", err)
	}
	if err := s.store.Append(ctx, threadID, userID, reply); err != nil {
		return "", fmt.Errorf("chat: persist reply: %w", err)
	}

	s.logger.Info("chat.turn.completed", "thread_id", threadID, "route", string(final.Route))
	return reply.Content, nil
}

// finalReply extracts the last assistant message of a finished invocation.
func finalReply(state State) (core.Message, bool) {
	last, ok := core.LastMessage(state.Messages)
	if !ok || last.Role != core.RoleAssistant || last.HasToolCalls() {
		return core.Message{}, false
	}
	return last, true
}
