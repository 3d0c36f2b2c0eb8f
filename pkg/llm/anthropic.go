package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-haiku-4-5"

type AnthropicClient struct {
	client    *anthropic.Client
	model     anthropic.Model
	modelName string
}

func NewAnthropicClient(cfg Config) *AnthropicClient {
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

	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultAnthropicModel
	}

	client := anthropic.NewClient(opts...)
	return &AnthropicClient{
		client:    &client,
		model:     anthropic.Model(modelName),
		modelName: modelName,
	}
}

func (c *AnthropicClient) Name() string {
	return "anthropic:" + c.modelName
}

func (c *AnthropicClient) Analyze(ctx context.Context, req AnalysisRequest) (*Payload, error) {
	userPrompt, err := BuildUserPrompt(req.Posts)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       c.model,
		MaxTokens:   int64(req.MaxTokens),
		Temperature: anthropic.Float(0),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
		Tools: []anthropic.ToolUnionParam{{
			OfTool: &anthropic.ToolParam{
				Name:        toolName,
				Description: anthropic.String(toolDescription),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: map[string]any{"items": itemsProperty(len(req.Posts))},
					Required:   []string{"items"},
				},
			},
		}},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: toolName},
		},
	})

	if err != nil {
		return nil, fmt.Errorf("anthropic API error: %w", err)
	}

	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("no response from anthropic")
	}

	var text strings.Builder
	for _, block := range resp.Content {
		switch block.Type {
		case "tool_use":
			return &Payload{Kind: PayloadStructured, Body: string(block.Input), Model: c.modelName}, nil
		case "text":
			text.WriteString(block.Text)
		}
	}

	return &Payload{Kind: PayloadText, Body: text.String(), Model: c.modelName}, nil
}
