package agent

import (
	"context"
	"encoding/json"
	"log"

	"github.com/chris/relay/internal/llm"
)

const maxIterationsWarning = "\n\n[warning] Maximum number of tool-calling rounds reached, stopping here."

// ToolDispatcher is the slice of the tool registry the orchestrator needs.
type ToolDispatcher interface {
	Declarations() []llm.Tool
	Dispatch(ctx context.Context, name string, args map[string]any) any
}

// Agent drives the generate → dispatch-tools → generate loop and exposes
// each run as an ordered stream of events.
type Agent struct {
	client        llm.Client
	tools         ToolDispatcher
	MaxIterations int
}

func New(client llm.Client, tools ToolDispatcher, maxIterations int) *Agent {
	if maxIterations <= 0 {
		maxIterations = 3
	}
	return &Agent{client: client, tools: tools, MaxIterations: maxIterations}
}

// Run starts one orchestration run and returns its event stream. The
// channel is closed when the run ends; the last event is always done or
// error. Canceling ctx stops the run promptly: no further events are
// emitted and no further tools are dispatched.
func (a *Agent) Run(ctx context.Context, systemPrompt string, history []llm.Message, useTools bool) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)
		a.run(ctx, systemPrompt, history, useTools, out)
	}()
	return out
}

func (a *Agent) run(ctx context.Context, systemPrompt string, history []llm.Message, useTools bool, out chan<- Event) {
	messages := make([]llm.Message, len(history))
	copy(messages, history)

	var decls []llm.Tool
	if useTools {
		decls = a.tools.Declarations()
	}

	emit := func(ev Event) bool {
		if ctx.Err() != nil {
			return false
		}
		select {
		case out <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for i := 0; i < a.MaxIterations; i++ {
		// Generating: forward every text fragment the moment it arrives.
		// The accumulated response, not the raw chunks, decides what
		// happens next.
		resp, err := a.client.ChatStream(ctx, systemPrompt, messages, decls, func(fragment string) {
			emit(Event{Type: EventDelta, Content: fragment})
		})
		if err != nil {
			if ctx.Err() != nil {
				return // client went away, nobody is listening
			}
			emit(Event{Type: EventError, Message: err.Error()})
			return
		}

		if ctx.Err() != nil {
			return
		}

		// No tool calls: the text has already been streamed. Terminal.
		if len(resp.ToolCalls) == 0 {
			emit(Event{Type: EventDone})
			return
		}

		log.Printf("tool calls requested: %d", len(resp.ToolCalls))
		messages = append(messages, llm.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		// ToolDispatch: one at a time, in request order. Tool failures come
		// back as error payloads inside the result and are fed to the model;
		// they never abort the run.
		for _, tc := range resp.ToolCalls {
			if ctx.Err() != nil {
				return
			}
			if !emit(Event{Type: EventToolStart, Name: tc.Name, Args: tc.Params}) {
				return
			}
			result := a.tools.Dispatch(ctx, tc.Name, tc.Params)
			if !emit(Event{Type: EventToolResult, Name: tc.Name, Result: result}) {
				return
			}
			serialized, _ := json.Marshal(result)
			messages = append(messages, llm.Message{
				Role:       "tool",
				Content:    string(serialized),
				Name:       tc.Name,
				ToolCallID: tc.ID,
			})
		}
	}

	// Safety valve: the model kept requesting tools past the iteration cap.
	// Not an error — tell the user and finish cleanly.
	log.Printf("max tool iterations (%d) reached, stopping", a.MaxIterations)
	emit(Event{Type: EventDelta, Content: maxIterationsWarning})
	emit(Event{Type: EventDone})
}
