package llm

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiClient relies on response schema enforcement instead of tool calls.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

func NewGeminiClient(ctx context.Context, cfg Config) (*GeminiClient, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	if cfg.Timeout > 0 {
		cc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultGeminiModel
	}

	return &GeminiClient{client: client, modelName: modelName}, nil
}

func (c *GeminiClient) Name() string {
	return "gemini:" + c.modelName
}

func (c *GeminiClient) Analyze(ctx context.Context, req AnalysisRequest) (*Payload, error) {
	userPrompt, err := BuildUserPrompt(req.Posts)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(userPrompt), &genai.GenerateContentConfig{
		SystemInstruction:  genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:        genai.Ptr[float32](0),
		MaxOutputTokens:    int32(req.MaxTokens),
		ResponseMIMEType:   "application/json",
		ResponseJsonSchema: AnalysisSchema(len(req.Posts)),
	})
	if err != nil {
		return nil, fmt.Errorf("gemini API error: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("no response from gemini")
	}

	return &Payload{Kind: PayloadStructured, Body: text, Model: c.modelName}, nil
}
