package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/viki-m13/reddit-data-api/internal/config"
	"github.com/viki-m13/reddit-data-api/internal/enrich"
	"github.com/viki-m13/reddit-data-api/internal/fetch"
	"github.com/viki-m13/reddit-data-api/internal/model"
	"github.com/viki-m13/reddit-data-api/pkg/llm"
	"github.com/viki-m13/reddit-data-api/pkg/reddit"
)

// App is the fetch-then-enrich pipeline shared by the HTTP server and the CLI.
type App struct {
	Fetcher  *fetch.Adapter
	Enricher *enrich.Enricher
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	client := reddit.NewClient(reddit.Config{
		ClientID:     cfg.Reddit.ClientID,
		ClientSecret: cfg.Reddit.ClientSecret,
		UserAgent:    cfg.Reddit.UserAgent,
		TokenURL:     cfg.Reddit.TokenURL,
		APIBaseURL:   cfg.Reddit.APIBaseURL,
		Timeout:      cfg.Reddit.Timeout,
	})

	var analyzer llm.Analyzer
	if cfg.LLM.Configured() {
		a, err := llm.NewAnalyzer(ctx, llm.Config{
			Provider: cfg.LLM.Provider,
			APIKey:   cfg.LLM.APIKey,
			Model:    cfg.LLM.Model,
			BaseURL:  cfg.LLM.BaseURL,
			Mode:     cfg.LLM.Mode,
			Timeout:  cfg.LLM.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create analyzer: %w", err)
		}
		analyzer = a
		slog.Info("llm provider configured", "provider", a.Name(), "mode", cfg.LLM.Mode, "strategy", cfg.LLM.Strategy)
	} else {
		slog.Warn("no llm api key set, enrichment requests will fail")
	}

	if err := cfg.Reddit.RequireCredentials(); err != nil {
		slog.Warn("reddit credentials incomplete, fetch requests will fail", "error", err)
	}

	return &App{
		Fetcher: fetch.NewAdapter(client, cfg.Reddit.PermalinkBase),
		Enricher: enrich.New(analyzer, enrich.Options{
			Strategy:    strings.ToLower(cfg.LLM.Strategy),
			BatchSize:   cfg.LLM.BatchSize,
			Concurrency: cfg.LLM.Concurrency,
			Timeout:     cfg.LLM.Timeout,
		}),
	}, nil
}

// Run fetches and optionally enriches one batch of posts.
func (a *App) Run(ctx context.Context, subreddit, query string, limit int, enabled bool) ([]model.EnrichedPost, error) {
	posts, err := a.Fetcher.Fetch(ctx, subreddit, query, limit)
	if err != nil {
		return nil, err
	}
	return a.Enricher.Enrich(ctx, posts, enabled)
}
