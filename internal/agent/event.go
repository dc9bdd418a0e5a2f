package agent

// EventType tags the variants of the orchestrator's output stream.
type EventType string

const (
	EventDelta      EventType = "delta"
	EventToolStart  EventType = "tool_start"
	EventToolResult EventType = "tool_result"
	EventDone       EventType = "done"
	EventError      EventType = "error"
)

// Event is one element of the ordered stream a run produces. Which fields
// are set depends on Type: Content for delta, Name/Args for tool_start,
// Name/Result for tool_result, Message for error.
type Event struct {
	Type    EventType      `json:"type"`
	Content string         `json:"content,omitempty"`
	Name    string         `json:"name,omitempty"`
	Args    map[string]any `json:"args,omitempty"`
	Result  any            `json:"result,omitempty"`
	Message string         `json:"message,omitempty"`
}
