package tools

import (
	"context"
	"encoding/json"
	"log"

	"github.com/chris/relay/internal/llm"
)

// Tool is a function the model can invoke. Invoke must return something
// JSON-serializable; failures are reported inside the result (an
// {"error": ...} map), never by panicking or aborting the run.
type Tool interface {
	Name() string
	Description() string
	Schema() map[string]any // JSON Schema for the arguments
	Invoke(ctx context.Context, args map[string]any) any
}

// Registry is a fixed, name-keyed set of tools.
type Registry struct {
	tools  []Tool
	byName map[string]Tool
}

func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{byName: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		r.tools = append(r.tools, t)
		r.byName[t.Name()] = t
	}
	return r
}

// Declarations returns the tool schemas in the form the LLM client expects.
func (r *Registry) Declarations() []llm.Tool {
	decls := make([]llm.Tool, len(r.tools))
	for i, t := range r.tools {
		decls[i] = llm.Tool{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Schema(),
		}
	}
	return decls
}

// Dispatch invokes the named tool. An unrecognized name fails closed with an
// error payload instead of failing the loop.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any) any {
	t, ok := r.byName[name]
	if !ok {
		return map[string]any{"error": "unknown tool: " + name}
	}
	result := t.Invoke(ctx, args)
	log.Printf("tool %s → %s", name, truncate(marshalForLog(result), 200))
	return result
}

func marshalForLog(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Helper functions for building JSON Schema objects.

func prop(typ, desc string) map[string]any {
	return map[string]any{"type": typ, "description": desc}
}

func obj(properties map[string]any) map[string]any {
	if properties == nil {
		properties = map[string]any{}
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
	}
}

func objReq(properties map[string]any, required ...string) map[string]any {
	s := obj(properties)
	s["required"] = required
	return s
}

// Param extraction helpers — LLMs send numbers as float64 in JSON.

func getInt(params map[string]any, key string) (int64, bool) {
	v, ok := params[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}

func getString(params map[string]any, key string) (string, bool) {
	v, ok := params[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
