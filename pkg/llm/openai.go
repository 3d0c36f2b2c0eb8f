package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAIClient speaks the OpenAI chat completions protocol, which DeepSeek also serves.
type OpenAIClient struct {
	client    *openai.Client
	model     openai.ChatModel
	modelName string
	mode      string
}

func NewOpenAIClient(cfg Config) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	mode := cfg.Mode
	if mode != ModeJSON {
		mode = ModeTool
	}

	client := openai.NewClient(opts...)
	return &OpenAIClient{
		client:    &client,
		model:     openai.ChatModel(cfg.Model),
		modelName: cfg.Model,
		mode:      mode,
	}
}

func (c *OpenAIClient) Name() string {
	return "openai:" + c.modelName
}

func (c *OpenAIClient) Analyze(ctx context.Context, req AnalysisRequest) (*Payload, error) {
	userPrompt, err := BuildUserPrompt(req.Posts)
	if err != nil {
		return nil, err
	}

	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(0),
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
	}

	if c.mode == ModeJSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	} else {
		params.Tools = []openai.ChatCompletionToolParam{{
			Function: shared.FunctionDefinitionParam{
				Name:        toolName,
				Description: openai.String(toolDescription),
				Parameters:  shared.FunctionParameters(AnalysisSchema(len(req.Posts))),
			},
		}}
		// Forcing the tool keeps the model from answering with freeform text.
		params.ToolChoice = openai.ChatCompletionToolChoiceOptionUnionParam{
			OfChatCompletionNamedToolChoice: &openai.ChatCompletionNamedToolChoiceParam{
				Function: openai.ChatCompletionNamedToolChoiceFunctionParam{Name: toolName},
			},
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from openai")
	}

	msg := resp.Choices[0].Message

	if len(msg.ToolCalls) > 0 {
		return &Payload{Kind: PayloadStructured, Body: msg.ToolCalls[0].Function.Arguments, Model: c.modelName}, nil
	}
	// Older OpenAI-compatible servers still answer with the legacy function_call field.
	if msg.FunctionCall.Arguments != "" {
		return &Payload{Kind: PayloadStructured, Body: msg.FunctionCall.Arguments, Model: c.modelName}, nil
	}

	return &Payload{Kind: PayloadText, Body: msg.Content, Model: c.modelName}, nil
}
