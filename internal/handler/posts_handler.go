package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/viki-m13/reddit-data-api/internal/config"
	"github.com/viki-m13/reddit-data-api/internal/model"
)

const failureHint = "Check env vars (REDDIT_ID/REDDIT_SECRET/DEEPSEEK_KEY), network, and that the LLM provider is reachable."

type PostSource interface {
	Fetch(ctx context.Context, community, query string, limit int) ([]model.RawPost, error)
}

type PostEnricher interface {
	Enrich(ctx context.Context, posts []model.RawPost, enabled bool) ([]model.EnrichedPost, error)
}

type PostsHandler struct {
	source   PostSource
	enricher PostEnricher
	defaults config.Defaults
}

func NewPostsHandler(source PostSource, enricher PostEnricher, defaults config.Defaults) *PostsHandler {
	return &PostsHandler{source: source, enricher: enricher, defaults: defaults}
}

func (h *PostsHandler) GetPosts(c *gin.Context) {
	subreddit := getQueryString("subreddit", h.defaults.Subreddit, c)
	query := getQueryString("query", h.defaults.Query, c)
	limit := h.getQueryLimit(c)
	enrich := c.Query("enrich") != "false"

	log := slog.With("request_id", c.GetString(requestIDKey), "subreddit", subreddit, "query", query, "limit", limit)

	posts, err := h.source.Fetch(c.Request.Context(), subreddit, query, limit)
	if err != nil {
		log.Error("error fetching posts", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	enriched, err := h.enricher.Enrich(c.Request.Context(), posts, enrich)
	if err != nil {
		log.Error("error enriching posts", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	log.Info("posts served", "count", len(enriched), "enrich", enrich)
	c.JSON(http.StatusOK, NewPostsResponse(enriched))
}

func (h *PostsHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{OK: true})
}

// errorResponse keeps upstream bodies and credentials out of the client-visible message.
func errorResponse(err error) ErrorResponse {
	var cfgErr *model.ConfigError
	var fetchErr *model.FetchError

	switch {
	case errors.As(err, &cfgErr):
		return ErrorResponse{Error: cfgErr.Error(), Hint: failureHint}
	case errors.As(err, &fetchErr):
		msg := fmt.Sprintf("reddit %s request failed", fetchErr.Stage)
		if errors.Is(fetchErr, model.ErrAuth) {
			msg += ": credentials rejected"
		}
		return ErrorResponse{Error: msg, Hint: failureHint}
	default:
		return ErrorResponse{Error: "Unknown error", Hint: failureHint}
	}
}

// getQueryString treats a present-but-empty parameter the same as a missing one.
func getQueryString(name, defaultValue string, c *gin.Context) string {
	if v := c.Query(name); v != "" {
		return v
	}
	return defaultValue
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	param := c.Query(name)

	if param == "" {
		return defaultValue
	}

	// "3.7" reads as 3 and "5abc" as 5; only a missing leading integer is invalid.
	parsedValue, err := strconv.Atoi(leadingInteger(param))
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", param, "error", err)
		return defaultValue
	}

	return parsedValue
}

// leadingInteger returns the optionally signed run of digits at the start of s.
func leadingInteger(s string) string {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}

func (h *PostsHandler) getQueryLimit(c *gin.Context) int {
	limit := getQueryInt("limit", h.defaults.Limit, c)
	if limit < 1 {
		slog.Warn("invalid query parameter, using default", "param", "limit", "value", limit, "default", h.defaults.Limit)
		return h.defaults.Limit
	}

	if h.defaults.MaxLimit > 0 && limit > h.defaults.MaxLimit {
		slog.Warn("query parameter exceeds max, clamping", "param", "limit", "value", limit, "max", h.defaults.MaxLimit)
		return h.defaults.MaxLimit
	}

	return limit
}
