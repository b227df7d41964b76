package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/careerpilot/careerpilot/core"
	"github.com/careerpilot/careerpilot/logging"
	"github.com/careerpilot/careerpilot/tool"
)

// ToolExecutorOptions configure a ToolExecutor node.
type ToolExecutorOptions struct {
	// MaxParallel bounds concurrent tool executions within one turn.
	MaxParallel int
	Logger      logging.Logger
}

// ToolExecutor runs the tool call requests carried by the latest assistant
// message and appends exactly one tool result message per request,
// correlated by call id and in request order.
//
// A failing or panicking handler is converted into an error-text result; it
// never aborts the turn. The calling agent sees the error text and decides
// whether to retry, rephrase, or give up.
type ToolExecutor struct {
	registry    *tool.Registry
	maxParallel int
	logger      logging.Logger
}

// NewToolExecutor constructs an executor over the given registry.
func NewToolExecutor(registry *tool.Registry, optFns ...func(o *ToolExecutorOptions)) *ToolExecutor {
	opts := ToolExecutorOptions{
		MaxParallel: 4,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxParallel < 1 {
		opts.MaxParallel = 1
	}
	return &ToolExecutor{registry: registry, maxParallel: opts.MaxParallel, logger: opts.Logger}
}

// Node executes all requested tools of the latest assistant message. The
// graph's conditional edge skips this node entirely when there are none.
func (e *ToolExecutor) Node(ctx context.Context, state State) (State, error) {
	last, ok := core.LastMessage(state.Messages)
	if !ok || !last.HasToolCalls() {
		return state, nil
	}

	results := make([]core.Message, len(last.ToolCalls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxParallel)
	for i, call := range last.ToolCalls {
		g.Go(func() error {
			results[i] = e.execute(gctx, call)
			return nil
		})
	}
	// Workers never return errors; failures become error-text results.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return state, err
	}
	return state.withMessages(results), nil
}

// execute runs one tool call, converting every failure mode (unknown tool,
// bad arguments, handler error, handler panic) into a result message.
func (e *ToolExecutor) execute(ctx context.Context, call core.ToolCall) (result core.Message) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("chat.tool.panic", "tool", call.Name, "recover", fmt.Sprintf("%v", r))
			result = core.NewToolResultMessage(call.ID, fmt.Sprintf("Error: tool %q failed unexpectedly.", call.Name))
		}
	}()

	t, ok := e.registry.Get(call.Name)
	if !ok {
		return core.NewToolResultMessage(call.ID, fmt.Sprintf("Error: unknown tool %q.", call.Name))
	}

	args := map[string]any{}
	if len(call.Arguments) > 0 {
		if err := json.Unmarshal(call.Arguments, &args); err != nil {
			return core.NewToolResultMessage(call.ID,
				fmt.Sprintf("Error: arguments for tool %q are not a JSON object: %v.", call.Name, err))
		}
	}

	start := time.Now()
	text, err := t.Call(ctx, args)
	if err != nil {
		e.logger.Warn("chat.tool.error", "tool", call.Name, "error", err.Error())
		return core.NewToolResultMessage(call.ID, fmt.Sprintf("Error: %v", err))
	}

	e.logger.Info("chat.tool.executed",
		"tool", call.Name,
		"call_id", call.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return core.NewToolResultMessage(call.ID, text)
}
