package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
)

type OpenAIClient struct {
	client      openai.Client
	model       string
	temperature float64
}

func NewOpenAIClient(apiKey, model, baseURL string, temperature float64) *OpenAIClient {
	var opts []option.RequestOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	if model == "" {
		model = string(openai.ChatModelGPT4o)
	}
	return &OpenAIClient{client: client, model: model, temperature: temperature}
}

func (c *OpenAIClient) ChatStream(ctx context.Context, systemPrompt string, messages []Message, tools []Tool, onDelta func(string)) (*Response, error) {
	oaiTools := make([]openai.ChatCompletionToolUnionParam, len(tools))
	for i, t := range tools {
		oaiTools[i] = openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        t.Name,
			Description: openai.String(t.Description),
			Parameters:  openai.FunctionParameters(t.Parameters),
		})
	}

	oaiMsgs := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt),
	}
	for _, m := range messages {
		switch m.Role {
		case "system":
			oaiMsgs = append(oaiMsgs, openai.SystemMessage(m.Content))
		case "tool":
			oaiMsgs = append(oaiMsgs, openai.ToolMessage(m.Content, m.ToolCallID))
		case "assistant":
			if len(m.ToolCalls) > 0 {
				toolCalls := make([]openai.ChatCompletionMessageToolCallUnionParam, len(m.ToolCalls))
				for j, tc := range m.ToolCalls {
					argsJSON, _ := json.Marshal(tc.Params)
					toolCalls[j] = openai.ChatCompletionMessageToolCallUnionParam{
						OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
							ID: tc.ID,
							Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
								Name:      tc.Name,
								Arguments: string(argsJSON),
							},
						},
					}
				}
				oaiMsgs = append(oaiMsgs, openai.ChatCompletionMessageParamUnion{
					OfAssistant: &openai.ChatCompletionAssistantMessageParam{
						Content: openai.ChatCompletionAssistantMessageParamContentUnion{
							OfString: param.NewOpt(m.Content),
						},
						ToolCalls: toolCalls,
					},
				})
			} else {
				oaiMsgs = append(oaiMsgs, openai.AssistantMessage(m.Content))
			}
		default:
			oaiMsgs = append(oaiMsgs, openai.UserMessage(m.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    oaiMsgs,
		Temperature: openai.Float(c.temperature),
	}
	if len(oaiTools) > 0 {
		params.Tools = oaiTools
	}

	// Forward each text fragment as it arrives; the accumulator merges
	// chunks (including partial tool-call arguments, by index) into the
	// final message.
	stream := c.client.Chat.Completions.NewStreaming(ctx, params)
	defer stream.Close()

	var acc openai.ChatCompletionAccumulator
	for stream.Next() {
		chunk := stream.Current()
		acc.AddChunk(chunk)
		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			onDelta(chunk.Choices[0].Delta.Content)
		}
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("openai chat stream: %w", err)
	}

	if len(acc.Choices) == 0 {
		return &Response{}, nil
	}

	msg := acc.Choices[0].Message
	result := &Response{Content: msg.Content}

	for _, tc := range msg.ToolCalls {
		ftc := tc.AsFunction()
		params := map[string]any{}
		_ = json.Unmarshal([]byte(ftc.Function.Arguments), &params)
		result.ToolCalls = append(result.ToolCalls, ToolCall{
			ID:     ftc.ID,
			Name:   ftc.Function.Name,
			Params: params,
		})
	}

	return result, nil
}
