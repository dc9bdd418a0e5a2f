package llm

import "context"

type Message struct {
	Role       string     `json:"role"` // system, user, assistant, tool
	Content    string     `json:"content,omitempty"`
	Name       string     `json:"name,omitempty"`         // tool name, for tool result messages
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`   // set on assistant messages
	ToolCallID string     `json:"tool_call_id,omitempty"` // set on tool result messages
}

type ToolCall struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Params map[string]any `json:"params"`
}

// Response is the accumulated result of one generation: the full text plus
// any tool calls the model requested. Streaming clients merge their chunks
// into this before the caller acts on it.
type Response struct {
	Content   string
	ToolCalls []ToolCall
}

type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema
}

// Client streams one chat completion. onDelta is called for every text
// fragment as it arrives, before the next chunk is read from the wire, so
// the caller can forward tokens while generation is still in flight. The
// returned Response carries the accumulated content and tool calls once the
// stream has ended.
type Client interface {
	ChatStream(ctx context.Context, systemPrompt string, messages []Message, tools []Tool, onDelta func(string)) (*Response, error)
}
