package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/viki-m13/reddit-data-api/internal/model"
	"github.com/viki-m13/reddit-data-api/pkg/reddit"
)

type Searcher interface {
	Token(ctx context.Context) (string, error)
	Search(ctx context.Context, token string, params reddit.SearchParams) (*reddit.Listing, error)
}

// Adapter turns (community, query, limit) into RawPosts in the order Reddit ranked them.
type Adapter struct {
	client        Searcher
	permalinkBase string
}

func NewAdapter(client Searcher, permalinkBase string) *Adapter {
	return &Adapter{client: client, permalinkBase: permalinkBase}
}

func (a *Adapter) Fetch(ctx context.Context, community, query string, limit int) ([]model.RawPost, error) {
	if limit < 1 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	token, err := a.client.Token(ctx)
	if errors.Is(err, reddit.ErrMissingCredentials) {
		return nil, &model.ConfigError{Key: "REDDIT_ID / REDDIT_SECRET"}
	}
	if err != nil {
		return nil, &model.FetchError{Stage: model.StageToken, Err: fmt.Errorf("%w: %v", model.ErrAuth, err)}
	}

	listing, err := a.client.Search(ctx, token, reddit.SearchParams{
		Subreddit: community,
		Query:     query,
		Limit:     limit,
	})
	if err != nil {
		return nil, &model.FetchError{Stage: model.StageSearch, Err: err}
	}

	posts := make([]model.RawPost, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		posts = append(posts, model.RawPost{
			Title:     child.Data.Title,
			Content:   child.Data.Selftext,
			SourceURL: a.permalinkBase + child.Data.Permalink,
		})
	}

	slog.Debug("fetched posts", "subreddit", community, "query", query, "count", len(posts))

	return posts, nil
}
