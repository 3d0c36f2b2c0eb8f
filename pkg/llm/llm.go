package llm

import (
	"context"
	"fmt"
	"time"
)

const (
	ProviderDeepSeek  = "deepseek"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"

	// ModeTool forces a function/tool call carrying the analysis; ModeJSON asks for a JSON object reply.
	ModeTool = "tool"
	ModeJSON = "json"
)

type AnalysisInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type AnalysisRequest struct {
	Posts     []AnalysisInput
	MaxTokens int
}

type PayloadKind int

const (
	// PayloadText is free-form completion text that may carry prose or code fences around the JSON.
	PayloadText PayloadKind = iota
	// PayloadStructured is JSON the provider produced under a declared schema (tool arguments, schema mode).
	PayloadStructured
)

func (k PayloadKind) String() string {
	if k == PayloadStructured {
		return "structured"
	}
	return "text"
}

type Payload struct {
	Kind  PayloadKind
	Body  string
	Model string
}

type Analyzer interface {
	Analyze(ctx context.Context, req AnalysisRequest) (*Payload, error)
	Name() string
}

type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Mode     string
	Timeout  time.Duration
}

// NewAnalyzer builds the completion provider named by cfg.Provider.
func NewAnalyzer(ctx context.Context, cfg Config) (Analyzer, error) {
	switch cfg.Provider {
	case ProviderDeepSeek, "":
		if cfg.BaseURL == "" {
			cfg.BaseURL = "https://api.deepseek.com/v1"
		}
		if cfg.Model == "" {
			cfg.Model = "deepseek-chat"
		}
		return NewOpenAIClient(cfg), nil
	case ProviderOpenAI:
		if cfg.Model == "" {
			cfg.Model = "gpt-4o-mini"
		}
		return NewOpenAIClient(cfg), nil
	case ProviderAnthropic:
		return NewAnthropicClient(cfg), nil
	case ProviderGemini:
		c, err := NewGeminiClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
