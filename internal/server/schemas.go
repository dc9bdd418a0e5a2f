package server

import (
	"strings"

	"github.com/chris/relay/internal/llm"
)

// ChatMessage is the wire shape of one conversation turn, close to the
// OpenAI chat format so frontends can reuse their existing types.
type ChatMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content,omitempty"`
	Name       string         `json:"name,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	ToolCalls  []llm.ToolCall `json:"tool_calls,omitempty"`
}

// ChatRequest covers both request variants: session-based ({session_id,
// query}) and stateless ({messages}).
type ChatRequest struct {
	SessionID          string        `json:"session_id,omitempty"`
	Query              string        `json:"query,omitempty"`
	Messages           []ChatMessage `json:"messages,omitempty"`
	SystemPrompt       string        `json:"system_prompt,omitempty"`
	MaxHistoryMessages int           `json:"max_history_messages,omitempty"`
	UseTools           *bool         `json:"use_tools,omitempty"` // default true
}

func (r *ChatRequest) useTools() bool {
	return r.UseTools == nil || *r.UseTools
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

// Normalize maps raw role-tagged records to the canonical message model.
// Unknown or missing roles default to user; missing optional fields stay
// zero. It never fails.
func Normalize(raw []ChatMessage) []llm.Message {
	messages := make([]llm.Message, 0, len(raw))
	for _, m := range raw {
		role := strings.ToLower(strings.TrimSpace(m.Role))
		switch role {
		case "system", "assistant", "tool":
		default:
			role = "user"
		}
		messages = append(messages, llm.Message{
			Role:       role,
			Content:    m.Content,
			Name:       m.Name,
			ToolCallID: m.ToolCallID,
			ToolCalls:  m.ToolCalls,
		})
	}
	return messages
}
