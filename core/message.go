package core

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Role identifies the producer of a Message within a transcript.
type Role string

const (
	// RoleUser marks a message authored by the end user.
	RoleUser Role = "user"
	// RoleAssistant marks a message produced by an agent node.
	RoleAssistant Role = "assistant"
	// RoleSystem marks an instruction message prefixed to a model call.
	RoleSystem Role = "system"
	// RoleTool marks the result of a single tool call, correlated by ToolCallID.
	RoleTool Role = "tool"
)

// ToolCall is a structured request, embedded in an assistant message, to
// invoke a named tool with JSON encoded arguments. Each call carries a
// unique ID so its result can be correlated back.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// Message is one entry of a conversation transcript. Messages are immutable
// once created; a transcript only ever grows by appending new ones.
type Message struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// ToolCalls is populated only on assistant messages that request tool
	// execution instead of (or in addition to) natural language text.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolCallID links a RoleTool message to the ToolCall it answers.
	ToolCallID string `json:"tool_call_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// HasToolCalls reports whether the message requests at least one tool call.
func (m Message) HasToolCalls() bool { return len(m.ToolCalls) > 0 }

// NewUserMessage creates a user authored message.
func NewUserMessage(text string) Message {
	return Message{ID: uuid.NewString(), Role: RoleUser, Content: text, CreatedAt: time.Now()}
}

// NewSystemMessage creates a system instruction message.
func NewSystemMessage(text string) Message {
	return Message{ID: uuid.NewString(), Role: RoleSystem, Content: text, CreatedAt: time.Now()}
}

// NewAssistantMessage creates an agent message with optional tool calls.
func NewAssistantMessage(text string, toolCalls ...ToolCall) Message {
	return Message{ID: uuid.NewString(), Role: RoleAssistant, Content: text, ToolCalls: toolCalls, CreatedAt: time.Now()}
}

// NewToolResultMessage wraps a tool handler's text payload as a transcript
// entry answering the call identified by callID.
func NewToolResultMessage(callID, text string) Message {
	return Message{ID: uuid.NewString(), Role: RoleTool, Content: text, ToolCallID: callID, CreatedAt: time.Now()}
}

// LastMessage returns the final message of a transcript, or a zero Message
// when the transcript is empty.
func LastMessage(msgs []Message) (Message, bool) {
	if len(msgs) == 0 {
		return Message{}, false
	}
	return msgs[len(msgs)-1], true
}
