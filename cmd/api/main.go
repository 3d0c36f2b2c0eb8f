package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/viki-m13/reddit-data-api/internal/app"
	"github.com/viki-m13/reddit-data-api/internal/config"
	"github.com/viki-m13/reddit-data-api/internal/handler"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	pipeline, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("error building pipeline: %v", err)
	}

	postsHandler := handler.NewPostsHandler(pipeline.Fetcher, pipeline.Enricher, cfg.Defaults)

	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestID(), handler.AccessLog())

	slog.Info("AllowOrigins URL:", "urls", cfg.Server.AllowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.Server.AllowedOrigins,
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
	}))

	r.GET("/", postsHandler.GetPosts)
	r.GET("/healthz", postsHandler.GetHealth)

	slog.Info("server listening", "port", cfg.Server.Port)
	err = r.Run(":" + cfg.Server.Port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
