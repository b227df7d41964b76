package chat

import (
	"context"
	"fmt"

	"github.com/careerpilot/careerpilot/logging"
	"github.com/careerpilot/careerpilot/model"
	"github.com/careerpilot/careerpilot/tool"
)

// MentorOptions configure a Mentor node.
type MentorOptions struct {
	SystemPrompt string
	Logger       logging.Logger
}

// Mentor is the career-coaching agent. Its backend sees the tool registry
// and may answer with tool call requests instead of (or in addition to)
// text; the graph loops tool results back until it produces a plain reply.
// All I/O is delegated to the model backend.
type Mentor struct {
	model    model.Model
	registry *tool.Registry
	prompt   string
	logger   logging.Logger
}

// NewMentor constructs a Mentor bound to a backend and tool registry.
func NewMentor(m model.Model, registry *tool.Registry, optFns ...func(o *MentorOptions)) *Mentor {
	opts := MentorOptions{
		SystemPrompt: MustPrompt("mentor"),
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Mentor{model: m, registry: registry, prompt: opts.SystemPrompt, logger: opts.Logger}
}

// Node invokes the backend over the transcript and appends exactly one new
// assistant message.
func (m *Mentor) Node(ctx context.Context, state State) (State, error) {
	resp, err := m.model.Invoke(ctx, model.Request{
		Instructions: m.prompt,
		Messages:     state.Messages,
		Tools:        m.registry.Definitions(),
	})
	if err != nil {
		return state, fmt.Errorf("chat: mentor: %w", err)
	}

	if resp.Message.HasToolCalls() {
		m.logger.Debug("chat.mentor.tool_calls", "count", len(resp.Message.ToolCalls))
	}
	return state.withMessage(resp.Message), nil
}

// GenericOptions configure a Generic node.
type GenericOptions struct {
	SystemPrompt string
	Logger       logging.Logger
}

// Generic handles small talk and out-of-domain turns. It never sees tools.
type Generic struct {
	model  model.Model
	prompt string
	logger logging.Logger
}

// NewGeneric constructs a Generic agent bound to the given backend.
func NewGeneric(m model.Model, optFns ...func(o *GenericOptions)) *Generic {
	opts := GenericOptions{
		SystemPrompt: MustPrompt("generic"),
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Generic{model: m, prompt: opts.SystemPrompt, logger: opts.Logger}
}

// Node invokes the backend over the transcript and appends exactly one new
// assistant message.
func (g *Generic) Node(ctx context.Context, state State) (State, error) {
	resp, err := g.model.Invoke(ctx, model.Request{
		Instructions: g.prompt,
		Messages:     state.Messages,
	})
	if err != nil {
		return state, fmt.Errorf("chat: generic: %w", err)
	}
	return state.withMessage(resp.Message), nil
}
