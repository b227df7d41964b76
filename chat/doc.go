// Package chat assembles the conversational career-coaching assistant: a
// workflow graph that classifies each user turn (Router), dispatches it to
// a tools-equipped career mentor or a lightweight generic agent, executes
// requested tool calls in a bounded loop, and returns the final reply.
//
// Node objects are constructed once at process start with their model
// backends and tool registry injected, then shared read-only across
// concurrent turns; all per-turn state flows through State.
package chat
