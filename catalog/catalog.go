// Package catalog searches video metadata through the YouTube Data API v3
// search.list endpoint.
package catalog

import (
	"context"
	"strconv"

	apperrors "github.com/kbukum/jumptube/errors"
	"github.com/kbukum/jumptube/httpclient"
	"github.com/kbukum/jumptube/logger"
	"github.com/kbukum/jumptube/observability"
	"github.com/kbukum/jumptube/provider"
	"github.com/kbukum/jumptube/resilience"
)

const serviceName = "youtube"

// Video is one search hit.
type Video struct {
	ID          string `json:"video_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Query is a metadata search request.
type Query struct {
	Term       string
	MaxResults int
}

// Client searches the catalog through a resilient provider chain.
type Client struct {
	search provider.RequestResponse[Query, []Video]
}

// New creates a Client. The chain applies tracing, metrics and logging
// around a rate limiter, retry and circuit breaker.
func New(cfg Config, log *logger.Logger, metrics *observability.Metrics) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := httpclient.New(httpclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Auth:    httpclient.APIKeyQuery(cfg.APIKey, "key"),
	})
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}

	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = cfg.MaxAttempts
	retry.RetryIf = provider.RetryIfRetryable
	cb := resilience.DefaultCircuitBreakerConfig(serviceName)

	search := provider.Chain(
		provider.WithTracing[Query, []Video]("catalog"),
		provider.WithMetrics[Query, []Video](metrics, "search"),
		provider.WithLogging[Query, []Video](log.WithComponent("catalog")),
		provider.WithResilience[Query, []Video](provider.ResilienceConfig{
			RateLimiter:    &resilience.RateLimiterConfig{Name: serviceName, Rate: cfg.RateLimit, Burst: cfg.Burst},
			Retry:          &retry,
			CircuitBreaker: &cb,
		}),
	)(&youtube{client: client, apiKey: cfg.APIKey})

	return &Client{search: search}, nil
}

// Search returns up to maxResults videos matching term; maxResults is
// clamped to 1..50.
func (c *Client) Search(ctx context.Context, term string, maxResults int) ([]Video, error) {
	return c.search.Execute(ctx, Query{Term: term, MaxResults: ClampMaxResults(maxResults)})
}

// youtube is the raw search.list call.
type youtube struct {
	client *httpclient.Client
	apiKey string
}

func (y *youtube) Name() string { return serviceName }

func (y *youtube) IsAvailable(context.Context) bool { return y.apiKey != "" }

type searchListResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"snippet"`
	} `json:"items"`
}

func (y *youtube) Execute(ctx context.Context, q Query) ([]Video, error) {
	if y.apiKey == "" {
		appErr := apperrors.ServiceUnavailable("video catalog").WithDetail("reason", "api key not configured")
		appErr.Retryable = false
		return nil, appErr
	}
	resp, err := httpclient.GetJSON[searchListResponse](ctx, y.client, "/search", map[string]string{
		"part":       "snippet",
		"type":       "video",
		"q":          q.Term,
		"maxResults": strconv.Itoa(q.MaxResults),
	})
	if err != nil {
		return nil, httpclient.ToAppError("video catalog", err)
	}

	videos := make([]Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ID.VideoID == "" {
			continue
		}
		videos = append(videos, Video{
			ID:          item.ID.VideoID,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			URL:         WatchURL(item.ID.VideoID),
		})
	}
	return videos, nil
}

// WatchURL is the short link for a video id.
func WatchURL(id string) string {
	return "https://youtu.be/" + id
}
