package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var ErrMissingCredentials = errors.New("reddit client id/secret not configured")

type Config struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
	TokenURL     string
	APIBaseURL   string
	Timeout      time.Duration
}

// Client talks to Reddit as an application-only (client credentials) script app.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: &userAgentTransport{userAgent: cfg.UserAgent, inner: http.DefaultTransport},
		},
	}
}

func (c *Client) Name() string {
	return "Reddit"
}

// Token exchanges the client id/secret for a bearer token. A fresh token is requested on
// every call; nothing is cached between requests.
func (c *Client) Token(ctx context.Context) (string, error) {
	if c.cfg.ClientID == "" || c.cfg.ClientSecret == "" {
		return "", ErrMissingCredentials
	}

	cc := clientcredentials.Config{
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		TokenURL:     c.cfg.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	tok, err := cc.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("reddit token: %w", err)
	}

	return tok.AccessToken, nil
}

type SearchParams struct {
	Subreddit string
	Query     string
	Limit     int
}

// Search runs a subreddit-restricted search and returns the raw listing in Reddit's order.
func (c *Client) Search(ctx context.Context, token string, params SearchParams) (*Listing, error) {
	q := url.Values{}
	q.Set("q", params.Query)
	q.Set("limit", strconv.Itoa(params.Limit))
	q.Set("restrict_sr", "true")

	endpoint := fmt.Sprintf("%s/r/%s/search?%s",
		strings.TrimRight(c.cfg.APIBaseURL, "/"), url.PathEscape(params.Subreddit), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("reddit search request: %w", err)
	}
	req.Header.Set("Authorization", "bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reddit search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("reddit search %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var listing Listing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("reddit decode: %w", err)
	}

	return &listing, nil
}

type Listing struct {
	Kind string      `json:"kind"`
	Data ListingData `json:"data"`
}

type ListingData struct {
	Children []Thing `json:"children"`
	After    string  `json:"after"`
}

type Thing struct {
	Kind string   `json:"kind"`
	Data PostData `json:"data"`
}

type PostData struct {
	ID        string `json:"id"`
	Subreddit string `json:"subreddit"`
	Author    string `json:"author"`
	Title     string `json:"title"`
	Selftext  string `json:"selftext"`
	Permalink string `json:"permalink"`
}

// Reddit rejects requests without a descriptive User-Agent, token exchange included.
type userAgentTransport struct {
	userAgent string
	inner     http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.userAgent == "" {
		return t.inner.RoundTrip(req)
	}
	req2 := req.Clone(req.Context())
	req2.Header.Set("User-Agent", t.userAgent)
	return t.inner.RoundTrip(req2)
}
