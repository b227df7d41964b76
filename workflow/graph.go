// Package workflow implements a small synchronous state-machine engine:
// named nodes connected by fixed or conditional edges, driven from an entry
// node to a terminal marker. It owns the execution loop and the termination
// policy; node logic may perform blocking network I/O and Invoke blocks
// until the graph terminates.
//
// A compiled Graph holds no mutable state and is safely shared across
// concurrent invocations; all per-invocation state lives in the caller's
// state value.
package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/careerpilot/careerpilot/logging"
)

// End is the terminal marker. Transitioning to it finishes the invocation.
const End = "__end__"

// ErrExhausted is returned when an invocation exceeds the configured step
// ceiling. It distinguishes "model stuck in a loop" from a backend outage.
var ErrExhausted = errors.New("workflow: step limit exceeded")

// NodeFunc executes one node: it receives the current state and returns the
// next state. Errors propagate immediately and abort the invocation.
type NodeFunc[S any] func(ctx context.Context, state S) (S, error)

// EdgeFunc is a conditional edge: a pure function evaluated after its source
// node completes, selecting the next node name from the resulting state.
type EdgeFunc[S any] func(state S) string

type conditionalEdge[S any] struct {
	fn      EdgeFunc[S]
	targets map[string]bool
}

// Builder accumulates nodes and edges before compilation.
type Builder[S any] struct {
	nodes       map[string]NodeFunc[S]
	edges       map[string]string
	conditional map[string]conditionalEdge[S]
	entry       string
	errs        []error
}

// NewBuilder creates an empty graph builder.
func NewBuilder[S any]() *Builder[S] {
	return &Builder[S]{
		nodes:       map[string]NodeFunc[S]{},
		edges:       map[string]string{},
		conditional: map[string]conditionalEdge[S]{},
	}
}

// AddNode registers a named node. The first node added becomes the entry
// node unless SetEntry overrides it.
func (b *Builder[S]) AddNode(name string, fn NodeFunc[S]) *Builder[S] {
	if name == End {
		b.errs = append(b.errs, fmt.Errorf("workflow: %q is reserved", End))
		return b
	}
	if _, exists := b.nodes[name]; exists {
		b.errs = append(b.errs, fmt.Errorf("workflow: duplicate node %q", name))
		return b
	}
	b.nodes[name] = fn
	if b.entry == "" {
		b.entry = name
	}
	return b
}

// AddEdge registers a fixed transition from one node to another (or to End).
func (b *Builder[S]) AddEdge(from, to string) *Builder[S] {
	if _, exists := b.edges[from]; exists {
		b.errs = append(b.errs, fmt.Errorf("workflow: node %q already has an outgoing edge", from))
		return b
	}
	b.edges[from] = to
	return b
}

// AddConditionalEdge registers a routing function for a node together with
// the closed set of destinations it may return. The set is checked at
// compile time against declared nodes, and at run time against the
// function's result, so a router can never select an undeclared node.
func (b *Builder[S]) AddConditionalEdge(from string, fn EdgeFunc[S], targets ...string) *Builder[S] {
	if _, exists := b.conditional[from]; exists {
		b.errs = append(b.errs, fmt.Errorf("workflow: node %q already has a conditional edge", from))
		return b
	}
	set := make(map[string]bool, len(targets))
	for _, t := range targets {
		set[t] = true
	}
	b.conditional[from] = conditionalEdge[S]{fn: fn, targets: set}
	return b
}

// SetEntry designates the start node.
func (b *Builder[S]) SetEntry(name string) *Builder[S] {
	b.entry = name
	return b
}

// Options configure a compiled graph.
type Options struct {
	// MaxSteps caps the number of node executions per invocation. Exceeding
	// it fails the invocation with ErrExhausted. Required for correctness:
	// it bounds worst-case latency and cost when a model keeps requesting
	// tools without converging.
	MaxSteps int
	// Logger records node transitions; defaults to NoOp.
	Logger logging.Logger
}

// Graph is a compiled, immutable workflow.
type Graph[S any] struct {
	nodes       map[string]NodeFunc[S]
	edges       map[string]string
	conditional map[string]conditionalEdge[S]
	entry       string
	opts        Options
}

// Compile validates the builder and produces an executable graph. Every
// edge target must be a declared node or End, every node must have exactly
// one outgoing edge (fixed or conditional), and an entry node must exist.
func (b *Builder[S]) Compile(optFns ...func(o *Options)) (*Graph[S], error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	if b.entry == "" {
		return nil, errors.New("workflow: no entry node")
	}
	if _, ok := b.nodes[b.entry]; !ok {
		return nil, fmt.Errorf("workflow: entry node %q not declared", b.entry)
	}

	validTarget := func(name string) bool {
		if name == End {
			return true
		}
		_, ok := b.nodes[name]
		return ok
	}

	for from, to := range b.edges {
		if _, ok := b.nodes[from]; !ok {
			return nil, fmt.Errorf("workflow: edge from undeclared node %q", from)
		}
		if !validTarget(to) {
			return nil, fmt.Errorf("workflow: edge %q -> %q targets undeclared node", from, to)
		}
	}
	for from, ce := range b.conditional {
		if _, ok := b.nodes[from]; !ok {
			return nil, fmt.Errorf("workflow: conditional edge from undeclared node %q", from)
		}
		if len(ce.targets) == 0 {
			return nil, fmt.Errorf("workflow: conditional edge from %q declares no targets", from)
		}
		for t := range ce.targets {
			if !validTarget(t) {
				return nil, fmt.Errorf("workflow: conditional edge %q -> %q targets undeclared node", from, t)
			}
		}
	}
	for name := range b.nodes {
		_, hasFixed := b.edges[name]
		_, hasCond := b.conditional[name]
		if hasFixed && hasCond {
			return nil, fmt.Errorf("workflow: node %q has both a fixed and a conditional edge", name)
		}
		if !hasFixed && !hasCond {
			return nil, fmt.Errorf("workflow: node %q has no outgoing edge", name)
		}
	}

	opts := Options{
		MaxSteps: 25,
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxSteps <= 0 {
		return nil, fmt.Errorf("workflow: MaxSteps must be positive, got %d", opts.MaxSteps)
	}

	return &Graph[S]{
		nodes:       b.nodes,
		edges:       b.edges,
		conditional: b.conditional,
		entry:       b.entry,
		opts:        opts,
	}, nil
}

// Invoke runs the graph from the entry node until a transition to End,
// returning the final state. Execution is single-threaded and synchronous;
// any node error aborts the invocation and propagates unchanged.
func (g *Graph[S]) Invoke(ctx context.Context, state S) (S, error) {
	current := g.entry
	steps := 0

	for current != End {
		if err := ctx.Err(); err != nil {
			return state, err
		}

		steps++
		if steps > g.opts.MaxSteps {
			return state, fmt.Errorf("%w: %d node executions (limit %d), last node %q",
				ErrExhausted, steps-1, g.opts.MaxSteps, current)
		}

		g.opts.Logger.Debug("workflow.node.start", "node", current, "step", steps)

		var err error
		state, err = g.nodes[current](ctx, state)
		if err != nil {
			return state, err
		}

		next, err := g.next(current, state)
		if err != nil {
			return state, err
		}

		g.opts.Logger.Debug("workflow.node.done", "node", current, "next", next)
		current = next
	}

	return state, nil
}

func (g *Graph[S]) next(current string, state S) (string, error) {
	if to, ok := g.edges[current]; ok {
		return to, nil
	}
	ce := g.conditional[current]
	next := ce.fn(state)
	if !ce.targets[next] {
		return "", fmt.Errorf("workflow: conditional edge from %q selected undeclared target %q", current, next)
	}
	return next, nil
}
