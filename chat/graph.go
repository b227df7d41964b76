package chat

import (
	"github.com/careerpilot/careerpilot/core"
	"github.com/careerpilot/careerpilot/logging"
	"github.com/careerpilot/careerpilot/workflow"
)

// Node names of the chat graph.
const (
	nodeRouter  = "router"
	nodeMentor  = "mentor"
	nodeGeneric = "generic"
	nodeTools   = "mentor_tools"
)

// DefaultToolLoopLimit caps mentor→tools round trips per turn.
const DefaultToolLoopLimit = 10

// GraphOptions configure the compiled chat graph.
type GraphOptions struct {
	// ToolLoopLimit is the maximum number of tool execution rounds in one
	// turn before the invocation fails with workflow.ErrExhausted.
	ToolLoopLimit int
	Logger        logging.Logger
}

// NewGraph wires the chat state machine:
//
//	Start → router
//	router → mentor | generic   (routing decision)
//	mentor → mentor_tools | End (tool calls present?)
//	mentor_tools → mentor
//	generic → End
func NewGraph(
	router *Router,
	mentor *Mentor,
	generic *Generic,
	executor *ToolExecutor,
	optFns ...func(o *GraphOptions),
) (*workflow.Graph[State], error) {
	opts := GraphOptions{
		ToolLoopLimit: DefaultToolLoopLimit,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	b := workflow.NewBuilder[State]()
	b.AddNode(nodeRouter, router.Node)
	b.AddNode(nodeMentor, mentor.Node)
	b.AddNode(nodeGeneric, generic.Node)
	b.AddNode(nodeTools, executor.Node)

	b.SetEntry(nodeRouter)
	b.AddConditionalEdge(nodeRouter, routeEdge, nodeMentor, nodeGeneric)
	b.AddConditionalEdge(nodeMentor, mentorToolEdge, nodeTools, workflow.End)
	b.AddEdge(nodeTools, nodeMentor)
	b.AddEdge(nodeGeneric, workflow.End)

	// Step budget: router + one mentor/tools pair per loop round + the
	// final mentor pass. Exceeding it means the model never converged.
	maxSteps := 2*opts.ToolLoopLimit + 2

	return b.Compile(func(o *workflow.Options) {
		o.MaxSteps = maxSteps
		o.Logger = opts.Logger
	})
}

// routeEdge dispatches on the Router's decision. The Router node has
// already rejected anything outside the enumeration.
func routeEdge(state State) string {
	if state.Route == RouteMentor {
		return nodeMentor
	}
	return nodeGeneric
}

// mentorToolEdge loops through tool execution while the mentor keeps
// requesting calls, and terminates once it answers with plain text.
func mentorToolEdge(state State) string {
	if last, ok := core.LastMessage(state.Messages); ok && last.HasToolCalls() {
		return nodeTools
	}
	return workflow.End
}
