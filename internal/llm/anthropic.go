package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicClient struct {
	client      anthropic.Client
	model       string
	temperature float64
}

func NewAnthropicClient(apiKey, model string, temperature float64) *AnthropicClient {
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	return &AnthropicClient{
		client:      anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:       model,
		temperature: temperature,
	}
}

func (c *AnthropicClient) ChatStream(ctx context.Context, systemPrompt string, messages []Message, tools []Tool, onDelta func(string)) (*Response, error) {
	anthTools := make([]anthropic.ToolUnionParam, len(tools))
	for i, t := range tools {
		schema := anthropic.ToolInputSchemaParam{}
		if props, ok := t.Parameters["properties"]; ok {
			schema.Properties = props
		}
		if req, ok := t.Parameters["required"].([]string); ok {
			schema.Required = req
		}
		anthTools[i] = anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        t.Name,
				Description: anthropic.String(t.Description),
				InputSchema: schema,
			},
		}
	}

	var anthMsgs []anthropic.MessageParam
	for _, m := range messages {
		switch m.Role {
		case "tool":
			anthMsgs = append(anthMsgs, anthropic.NewUserMessage(
				anthropic.NewToolResultBlock(m.ToolCallID, m.Content, false),
			))
		case "assistant":
			if len(m.ToolCalls) > 0 {
				var blocks []anthropic.ContentBlockParamUnion
				if m.Content != "" {
					blocks = append(blocks, anthropic.NewTextBlock(m.Content))
				}
				for _, tc := range m.ToolCalls {
					blocks = append(blocks, anthropic.NewToolUseBlock(tc.ID, tc.Params, tc.Name))
				}
				anthMsgs = append(anthMsgs, anthropic.NewAssistantMessage(blocks...))
			} else {
				anthMsgs = append(anthMsgs, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
			}
		case "system":
			// merged into the top-level system prompt below
			systemPrompt = systemPrompt + "\n\n" + m.Content
		default:
			anthMsgs = append(anthMsgs, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   4096,
		System:      []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages:    anthMsgs,
		Temperature: anthropic.Float(c.temperature),
	}
	if len(anthTools) > 0 {
		params.Tools = anthTools
	}

	stream := c.client.Messages.NewStreaming(ctx, params)
	defer stream.Close()

	message := anthropic.Message{}
	for stream.Next() {
		event := stream.Current()
		if err := message.Accumulate(event); err != nil {
			return nil, fmt.Errorf("accumulating anthropic event: %w", err)
		}
		switch eventVariant := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			if delta, ok := eventVariant.Delta.AsAny().(anthropic.TextDelta); ok && delta.Text != "" {
				onDelta(delta.Text)
			}
		}
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("anthropic chat stream: %w", err)
	}

	result := &Response{}
	for _, block := range message.Content {
		switch blockVariant := block.AsAny().(type) {
		case anthropic.TextBlock:
			result.Content += blockVariant.Text
		case anthropic.ToolUseBlock:
			params := map[string]any{}
			_ = json.Unmarshal([]byte(blockVariant.JSON.Input.Raw()), &params)
			result.ToolCalls = append(result.ToolCalls, ToolCall{
				ID:     blockVariant.ID,
				Name:   blockVariant.Name,
				Params: params,
			})
		}
	}

	return result, nil
}
