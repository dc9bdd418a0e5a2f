package llm

// Trim caps a message history at roughly max messages, keeping the newest.
//
// Two rules make this more than a tail slice:
//   - A leading system message always survives.
//   - An assistant message carrying tool calls and the tool-result messages
//     that follow it form one group; a group is kept or dropped whole, never
//     split across the cut.
//
// The newest group always survives, even when max is smaller than the group
// itself (or smaller than 2 with a leading system message) — dropping the
// active turn would leave the model nothing to answer.
func Trim(messages []Message, max int) []Message {
	if max <= 0 || len(messages) <= max {
		return messages
	}

	var system *Message
	rest := messages
	if messages[0].Role == "system" {
		system = &messages[0]
		rest = messages[1:]
		max--
	}

	groups := groupMessages(rest)

	// Drop the oldest groups until the remainder fits. Stop before dropping
	// the last group.
	count := len(rest)
	dropUntil := 0
	for dropUntil < len(groups)-1 && count > max {
		count -= len(groups[dropUntil].messages)
		dropUntil++
	}

	var trimmed []Message
	if system != nil {
		trimmed = append(trimmed, *system)
	}
	for _, g := range groups[dropUntil:] {
		trimmed = append(trimmed, g.messages...)
	}
	return trimmed
}

// messageGroup is a logical unit of conversation that must be kept or
// dropped as a whole.
type messageGroup struct {
	messages []Message
}

// groupMessages splits a message slice into logical groups:
//
//   - An assistant message with tool calls + the following tool-result
//     messages form a single group.
//   - Any other message is its own group.
func groupMessages(messages []Message) []messageGroup {
	var groups []messageGroup
	i := 0
	for i < len(messages) {
		msg := messages[i]

		if msg.Role == "assistant" && len(msg.ToolCalls) > 0 {
			group := messageGroup{messages: []Message{msg}}
			i++
			for i < len(messages) && messages[i].ToolCallID != "" {
				group.messages = append(group.messages, messages[i])
				i++
			}
			groups = append(groups, group)
			continue
		}

		groups = append(groups, messageGroup{messages: []Message{msg}})
		i++
	}
	return groups
}
