// Package model defines the provider-agnostic abstractions for the LLM
// backends that power the agent nodes.
//
// Core goals:
//   - Keep request/response shapes minimal and transport independent
//   - Normalize tool / function call representation (ToolDefinition, core.ToolCall)
//   - Isolate callers from backend outages via FallbackChain
//   - Facilitate lightweight stubbing for tests (MockModel)
//
// Providers (OpenAI, Anthropic) implement the Model interface from this
// package so agent nodes remain decoupled from vendor SDKs. Invocation is
// synchronous: a node call blocks until the backend returns a complete
// message.
package model

import (
	"context"

	"github.com/careerpilot/careerpilot/core"
)

// ToolDefinition declaratively exposes a callable tool to the model.
// Parameters is a JSON Schema object (minimal subset expected).
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Request captures the normalized model input produced by agent nodes.
type Request struct {
	// Instructions is the system prompt prefixed to the transcript.
	Instructions string
	// Messages is the running transcript, oldest first.
	Messages []core.Message
	// Tools the model may request; empty for tool-less agents.
	Tools []ToolDefinition
	// ForceTool requires the model to answer with a tool call. Used to
	// obtain schema-constrained structured output.
	ForceTool bool
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the complete model output for one invocation.
type Response struct {
	Message      core.Message
	FinishReason string // "stop", "tool_calls", "length", ...
	Usage        *TokenUsage
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "mock", ...
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required by agent nodes to drive generation.
// Implementations must be safe for concurrent use after construction.
type Model interface {
	Invoke(ctx context.Context, req Request) (Response, error)

	// Info returns information about the model implementation.
	Info() Info
}
