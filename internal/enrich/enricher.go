package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/viki-m13/reddit-data-api/internal/model"
	"github.com/viki-m13/reddit-data-api/pkg/llm"
)

const (
	// StrategyBatch sends up to BatchSize posts per completion call.
	StrategyBatch = "batch"
	// StrategyParallel sends one completion call per post.
	StrategyParallel = "parallel"

	defaultTimeout = 60 * time.Second
)

type Options struct {
	Strategy    string
	BatchSize   int
	Concurrency int
	Timeout     time.Duration
}

// Enricher attaches an analysis to every post. It holds no per-request state and is
// safe for concurrent use.
type Enricher struct {
	analyzer    llm.Analyzer
	chunkSize   int
	concurrency int
	timeout     time.Duration
}

// New returns an Enricher. A nil analyzer is allowed; Enrich then reports a
// *model.ConfigError whenever enrichment is requested for a non-empty batch.
func New(analyzer llm.Analyzer, opts Options) *Enricher {
	chunkSize := min(opts.BatchSize, llm.MaxBatchSize)
	if opts.Strategy == StrategyParallel || chunkSize < 1 {
		chunkSize = 1
	}
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Enricher{
		analyzer:    analyzer,
		chunkSize:   chunkSize,
		concurrency: concurrency,
		timeout:     timeout,
	}
}

// Enrich returns one EnrichedPost per input post, in input order. Provider failures never
// surface here: they degrade the affected posts to fallback analyses.
func (e *Enricher) Enrich(ctx context.Context, posts []model.RawPost, enabled bool) ([]model.EnrichedPost, error) {
	if !enabled {
		return withoutAnalysis(posts), nil
	}

	if len(posts) == 0 {
		return []model.EnrichedPost{}, nil
	}

	if e.analyzer == nil {
		return nil, &model.ConfigError{Key: "LLM_API_KEY / DEEPSEEK_KEY"}
	}

	analyses := make([]model.EnrichedAnalysis, len(posts))

	var g errgroup.Group
	g.SetLimit(e.concurrency)

	for start := 0; start < len(posts); start += e.chunkSize {
		end := min(start+e.chunkSize, len(posts))
		g.Go(func() error {
			e.analyzeChunk(ctx, posts[start:end], analyses[start:end])
			return nil
		})
	}

	// chunks swallow their own failures, so Wait has nothing to report
	_ = g.Wait()

	enriched := make([]model.EnrichedPost, len(posts))
	for i, post := range posts {
		enriched[i] = model.EnrichedPost{RawPost: post, Enriched: &analyses[i]}
	}

	return enriched, nil
}

func withoutAnalysis(posts []model.RawPost) []model.EnrichedPost {
	enriched := make([]model.EnrichedPost, len(posts))
	for i, post := range posts {
		enriched[i] = model.EnrichedPost{RawPost: post}
	}
	return enriched
}

// analyzeChunk fills out[i] for posts[i]. out is this chunk's window of the shared result
// slice, so results land by originating position regardless of completion order.
func (e *Enricher) analyzeChunk(ctx context.Context, posts []model.RawPost, out []model.EnrichedAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("enrichment panicked, using fallback analyses",
				"error", fmt.Errorf("%w: %v", model.ErrEnrichmentDegraded, r), "posts", len(posts))
			for i, post := range posts {
				out[i] = Fallback(post.Title)
			}
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	inputs := make([]llm.AnalysisInput, len(posts))
	for i, post := range posts {
		inputs[i] = llm.AnalysisInput{Title: post.Title, Content: post.Content}
	}

	payload, err := e.analyzer.Analyze(ctx, llm.AnalysisRequest{
		Posts:     inputs,
		MaxTokens: llm.MaxTokensFor(len(posts)),
	})

	var candidates []map[string]any
	switch {
	case err != nil:
		slog.Warn("enrichment degraded",
			"error", fmt.Errorf("%w: %v", model.ErrEnrichmentDegraded, err),
			"provider", e.analyzer.Name(),
			"posts", len(posts))
	case payload == nil:
		slog.Warn("enrichment degraded", "error", model.ErrEnrichmentDegraded, "provider", e.analyzer.Name(), "reason", "empty payload")
	default:
		candidates = candidatesFrom(payload)
		if len(candidates) != len(posts) {
			slog.Warn("enrichment degraded",
				"error", model.ErrEnrichmentDegraded,
				"provider", e.analyzer.Name(),
				"payload_kind", payload.Kind.String(),
				"want_items", len(posts),
				"got_items", len(candidates))
		}
	}

	for i, post := range posts {
		var candidate map[string]any
		if i < len(candidates) {
			candidate = candidates[i]
		}
		out[i] = Normalize(candidate, post.Title)
	}
}
