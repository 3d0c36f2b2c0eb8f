package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/viki-m13/reddit-data-api/internal/app"
	"github.com/viki-m13/reddit-data-api/internal/config"
	"github.com/viki-m13/reddit-data-api/internal/handler"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "fetcher",
		Short:         "Fetch subreddit search results and print them with optional LLM analysis",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), v)
		},
	}

	flags := cmd.Flags()
	flags.String("subreddit", "python", "subreddit to search")
	flags.String("query", "API", "search terms")
	flags.Int("limit", 5, "maximum number of posts")
	flags.Bool("enrich", true, "attach an LLM analysis to every post")
	flags.String("provider", "", "llm provider (deepseek, openai, anthropic, gemini)")
	flags.String("config", "", "path to a yaml config file")

	_ = v.BindPFlag("defaults.subreddit", flags.Lookup("subreddit"))
	_ = v.BindPFlag("defaults.query", flags.Lookup("query"))
	_ = v.BindPFlag("defaults.limit", flags.Lookup("limit"))
	_ = v.BindPFlag("enrich", flags.Lookup("enrich"))
	_ = v.BindPFlag("llm.provider", flags.Lookup("provider"))
	_ = v.BindPFlag("config", flags.Lookup("config"))

	return cmd
}

func run(ctx context.Context, v *viper.Viper) error {
	_ = godotenv.Load()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
	}

	cfg, err := config.LoadFrom(v)
	if err != nil {
		return err
	}

	// stdout carries the JSON result, logs go to stderr
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	pipeline, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("error building pipeline", "error", err)
		return err
	}

	limit := clampLimit(cfg.Defaults)

	posts, err := pipeline.Run(ctx, cfg.Defaults.Subreddit, cfg.Defaults.Query, limit, v.GetBool("enrich"))
	if err != nil {
		slog.Error("fetch failed", "error", err, "subreddit", cfg.Defaults.Subreddit)
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(handler.NewPostsResponse(posts))
}

// clampLimit applies the same bounds as the HTTP limit parameter.
func clampLimit(d config.Defaults) int {
	limit := d.Limit
	if limit < 1 {
		limit = 5
	}
	if d.MaxLimit > 0 && limit > d.MaxLimit {
		limit = d.MaxLimit
	}
	return limit
}
