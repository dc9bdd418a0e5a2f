package server

import (
	"encoding/json"
	"testing"

	"github.com/chris/relay/internal/llm"
)

func TestNormalize_UnknownRoleDefaultsToUser(t *testing.T) {
	got := Normalize([]ChatMessage{{Role: "robot", Content: "hi"}})
	if got[0].Role != "user" {
		t.Errorf("expected user, got %s", got[0].Role)
	}
}

func TestNormalize_MissingRoleDefaultsToUser(t *testing.T) {
	got := Normalize([]ChatMessage{{Content: "hi"}})
	if got[0].Role != "user" {
		t.Errorf("expected user, got %s", got[0].Role)
	}
}

func TestNormalize_RoleCaseAndWhitespace(t *testing.T) {
	got := Normalize([]ChatMessage{{Role: " Assistant ", Content: "x"}})
	if got[0].Role != "assistant" {
		t.Errorf("expected assistant, got %s", got[0].Role)
	}
}

func TestNormalize_MissingOptionalFields(t *testing.T) {
	got := Normalize([]ChatMessage{{Role: "user", Content: "q"}})
	if got[0].Name != "" || got[0].ToolCallID != "" || got[0].ToolCalls != nil {
		t.Errorf("expected zero optional fields, got %+v", got[0])
	}
}

func TestNormalize_ToolMessageRoundTrip(t *testing.T) {
	raw := `{"role":"tool","tool_call_id":"x","content":"y"}`
	var msg ChatMessage
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	normalized := Normalize([]ChatMessage{msg})[0]
	if normalized.Role != "tool" || normalized.ToolCallID != "x" || normalized.Content != "y" {
		t.Fatalf("normalize lost fields: %+v", normalized)
	}

	out, err := json.Marshal(normalized)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back llm.Message
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal back: %v", err)
	}
	if back.ToolCallID != "x" || back.Content != "y" {
		t.Errorf("round trip lost tool_call_id/content: %+v", back)
	}
}

func TestChatRequest_UseToolsDefault(t *testing.T) {
	var req ChatRequest
	if err := json.Unmarshal([]byte(`{"query":"q"}`), &req); err != nil {
		t.Fatal(err)
	}
	if !req.useTools() {
		t.Error("use_tools must default to true")
	}

	if err := json.Unmarshal([]byte(`{"query":"q","use_tools":false}`), &req); err != nil {
		t.Fatal(err)
	}
	if req.useTools() {
		t.Error("explicit use_tools=false ignored")
	}
}
