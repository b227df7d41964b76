package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/careerpilot/careerpilot/logging"
	"github.com/careerpilot/careerpilot/model"
)

// ErrRoutingContract reports that the routing backend produced a label
// outside the closed {mentor, generic} enumeration. This is fatal for the
// turn: misrouting has behavioral consequences downstream, so it is never
// silently defaulted.
var ErrRoutingContract = errors.New("chat: router returned label outside enumeration")

// routeSchema constrains the structured routing call to the closed label set.
var routeSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"decided_node": map[string]any{
			"type":        "string",
			"enum":        []string{string(RouteMentor), string(RouteGeneric)},
			"description": "Which agent should handle the user's message.",
		},
	},
	"required":             []string{"decided_node"},
	"additionalProperties": false,
}

type routeDecision struct {
	DecidedNode string `json:"decided_node"`
}

// RouterOptions configure a Router node.
type RouterOptions struct {
	// SystemPrompt overrides the embedded default routing prompt.
	SystemPrompt string
	Logger       logging.Logger
}

// Router classifies an incoming user turn into a Route via a
// schema-constrained model call. It has no side effects.
type Router struct {
	model  model.Model
	prompt string
	logger logging.Logger
}

// NewRouter constructs a Router bound to the given backend.
func NewRouter(m model.Model, optFns ...func(o *RouterOptions)) *Router {
	opts := RouterOptions{
		SystemPrompt: MustPrompt("router"),
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Router{model: m, prompt: opts.SystemPrompt, logger: opts.Logger}
}

// Node executes the routing decision for the current state.
func (r *Router) Node(ctx context.Context, state State) (State, error) {
	var decision routeDecision
	err := model.InvokeStructured(ctx, r.model,
		model.Request{Instructions: r.prompt, Messages: state.Messages},
		"route",
		"Select the agent that should handle the user's message.",
		routeSchema,
		&decision,
	)
	if err != nil {
		return state, fmt.Errorf("chat: router: %w", err)
	}

	switch Route(decision.DecidedNode) {
	case RouteMentor, RouteGeneric:
		state.Route = Route(decision.DecidedNode)
	default:
		return state, fmt.Errorf("%w: %q", ErrRoutingContract, decision.DecidedNode)
	}

	r.logger.Info("chat.router.decided", "route", string(state.Route))
	return state, nil
}
