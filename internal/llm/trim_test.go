package llm

import "testing"

func msgs(roles ...string) []Message {
	var out []Message
	for _, r := range roles {
		out = append(out, Message{Role: r, Content: r})
	}
	return out
}

func TestTrim_UnderLimit(t *testing.T) {
	in := msgs("user", "assistant", "user")
	got := Trim(in, 10)
	if len(got) != 3 {
		t.Errorf("expected 3 messages, got %d", len(got))
	}
}

func TestTrim_ZeroMaxMeansNoTrim(t *testing.T) {
	in := msgs("user", "assistant", "user")
	got := Trim(in, 0)
	if len(got) != 3 {
		t.Errorf("expected 3 messages, got %d", len(got))
	}
}

func TestTrim_KeepsNewest(t *testing.T) {
	in := []Message{
		{Role: "user", Content: "old"},
		{Role: "assistant", Content: "old reply"},
		{Role: "user", Content: "new"},
		{Role: "assistant", Content: "new reply"},
	}
	got := Trim(in, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[0].Content != "new" || got[1].Content != "new reply" {
		t.Errorf("expected newest messages, got %+v", got)
	}
}

func TestTrim_PreservesLeadingSystem(t *testing.T) {
	in := []Message{
		{Role: "system", Content: "persona"},
		{Role: "user", Content: "a"},
		{Role: "assistant", Content: "b"},
		{Role: "user", Content: "c"},
	}
	got := Trim(in, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[0].Role != "system" {
		t.Errorf("expected leading system message to survive, got %+v", got[0])
	}
	if got[1].Content != "c" {
		t.Errorf("expected newest user message, got %+v", got[1])
	}
}

func TestTrim_NeverSplitsToolCallGroup(t *testing.T) {
	in := []Message{
		{Role: "user", Content: "old"},
		{Role: "user", Content: "q"},
		{Role: "assistant", ToolCalls: []ToolCall{{ID: "1", Name: "web_search"}}},
		{Role: "tool", Content: "{}", ToolCallID: "1"},
		{Role: "assistant", Content: "answer"},
	}
	got := Trim(in, 3)
	// The tool-call pair must stay together; "old" is the droppable unit.
	for i, m := range got {
		if m.ToolCallID != "" {
			if i == 0 || len(got[i-1].ToolCalls) == 0 {
				t.Fatalf("tool result separated from its tool call: %+v", got)
			}
		}
	}
	if got[0].Content == "old" {
		t.Errorf("expected oldest message dropped, got %+v", got)
	}
}

func TestTrim_MaxSmallerThanActiveTurn(t *testing.T) {
	// max < 2 with a leading system message: system plus the newest whole
	// group both survive even though that exceeds the cap.
	in := []Message{
		{Role: "system", Content: "persona"},
		{Role: "user", Content: "a"},
		{Role: "user", Content: "b"},
	}
	got := Trim(in, 1)
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d: %+v", len(got), got)
	}
	if got[0].Role != "system" || got[1].Content != "b" {
		t.Errorf("expected system + newest message, got %+v", got)
	}
}
