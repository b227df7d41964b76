package chat

import "github.com/careerpilot/careerpilot/core"

// Route is the Router's classification of a user turn. The set is closed;
// anything else is a contract violation.
type Route string

const (
	// RouteMentor selects the tools-equipped career mentor agent.
	RouteMentor Route = "mentor"
	// RouteGeneric selects the lightweight general-purpose agent.
	RouteGeneric Route = "generic"
)

// State is the per-invocation record threaded through the graph: the
// running transcript plus the routing decision. It is created fresh per
// user turn and discarded after the turn completes; only the final
// assistant reply (and the user message) outlive it.
type State struct {
	Messages []core.Message
	Route    Route
}

// withMessage returns a copy of the state with msg appended. The original
// message slice is never mutated in place.
func (s State) withMessage(msg core.Message) State {
	msgs := make([]core.Message, 0, len(s.Messages)+1)
	msgs = append(msgs, s.Messages...)
	msgs = append(msgs, msg)
	s.Messages = msgs
	return s
}

// withMessages returns a copy of the state with msgs appended.
func (s State) withMessages(msgs []core.Message) State {
	out := make([]core.Message, 0, len(s.Messages)+len(msgs))
	out = append(out, s.Messages...)
	out = append(out, msgs...)
	s.Messages = out
	return s
}
