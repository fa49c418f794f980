// Package sources queries external headline APIs: a Google News style search
// API and a NewsAPI-compatible article API. Both return raw records carrying
// the query that produced them.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/846serj/headline-engine/internal/headline"
	"github.com/846serj/headline-engine/internal/logger"
	"github.com/846serj/headline-engine/internal/metrics"
	"github.com/846serj/headline-engine/internal/ratelimit"
	"github.com/846serj/headline-engine/internal/retry"
)

const (
	ProviderSearch = "search"
	ProviderNews   = "news"
)

type Client struct {
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	retryCfg   retry.Config

	searchAPIKey  string
	searchBaseURL string
	newsAPIKey    string
	newsBaseURL   string
}

type Options struct {
	SearchAPIKey     string
	SearchAPIBaseURL string
	NewsAPIKey       string
	NewsAPIBaseURL   string
	Timeout          time.Duration
	RetryAttempts    int
	RetryDelay       time.Duration
	Limiter          *ratelimit.Limiter
}

func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	attempts := opts.RetryAttempts
	if attempts <= 0 {
		attempts = 3
	}
	delay := opts.RetryDelay
	if delay <= 0 {
		delay = 5 * time.Second
	}

	return &Client{
		httpClient:    &http.Client{Timeout: timeout},
		limiter:       opts.Limiter,
		retryCfg:      retry.Config{MaxAttempts: attempts, Delay: delay, Backoff: true},
		searchAPIKey:  opts.SearchAPIKey,
		searchBaseURL: opts.SearchAPIBaseURL,
		newsAPIKey:    opts.NewsAPIKey,
		newsBaseURL:   opts.NewsAPIBaseURL,
	}
}

// searchResponse mirrors the news_results block of a SerpAPI Google News
// response. Unknown fields are ignored.
type searchResponse struct {
	NewsResults []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
		Date    string `json:"date"`
		Source  struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"news_results"`
}

// Search runs one query against the search API. The returned records carry
// the keyword and the literal query string for provenance.
func (c *Client) Search(ctx context.Context, keyword, query string) ([]headline.RawHeadline, error) {
	if c.searchAPIKey == "" {
		return nil, nil
	}
	if c.limiter != nil && !c.limiter.Allow(ProviderSearch) {
		logger.With("sources").Warn("search API budget exhausted, skipping", "keyword", keyword)
		return nil, nil
	}

	params := url.Values{}
	params.Set("engine", "google_news")
	params.Set("q", query)
	params.Set("api_key", c.searchAPIKey)

	body, err := c.getJSON(ctx, c.searchBaseURL+"?"+params.Encode())
	if err != nil {
		metrics.Global.IncrementSourceFetchErrors()
		return nil, fmt.Errorf("search API request for %q: %w", keyword, err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		metrics.Global.IncrementSourceFetchErrors()
		return nil, fmt.Errorf("search API decode for %q: %w", keyword, err)
	}

	records := make([]headline.RawHeadline, 0, len(resp.NewsResults))
	for _, r := range resp.NewsResults {
		if r.Title == "" {
			continue
		}
		records = append(records, headline.RawHeadline{
			Title:       r.Title,
			Description: r.Snippet,
			URL:         r.Link,
			Source:      r.Source.Name,
			PublishedAt: r.Date,
			Keyword:     keyword,
			QueryUsed:   query,
		})
	}
	return records, nil
}

// newsResponse mirrors the relevant part of a NewsAPI "everything" response.
type newsResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// FetchNews queries the news API with one search expression.
func (c *Client) FetchNews(ctx context.Context, searchQuery string) ([]headline.RawHeadline, error) {
	if c.newsAPIKey == "" {
		return nil, nil
	}
	if c.limiter != nil && !c.limiter.Allow(ProviderNews) {
		logger.With("sources").Warn("news API budget exhausted, skipping", "query", searchQuery)
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", searchQuery)
	params.Set("apiKey", c.newsAPIKey)
	params.Set("sortBy", "publishedAt")

	body, err := c.getJSON(ctx, c.newsBaseURL+"?"+params.Encode())
	if err != nil {
		metrics.Global.IncrementSourceFetchErrors()
		return nil, fmt.Errorf("news API request for %q: %w", searchQuery, err)
	}

	var resp newsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		metrics.Global.IncrementSourceFetchErrors()
		return nil, fmt.Errorf("news API decode for %q: %w", searchQuery, err)
	}
	if resp.Status != "" && resp.Status != "ok" {
		metrics.Global.IncrementSourceFetchErrors()
		return nil, fmt.Errorf("news API error for %q: %s", searchQuery, resp.Message)
	}

	records := make([]headline.RawHeadline, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		if a.Title == "" {
			continue
		}
		records = append(records, headline.RawHeadline{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
			SearchQuery: searchQuery,
		})
	}
	return records, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string) ([]byte, error) {
	var body []byte

	err := retry.WithRetry(ctx, c.retryCfg, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		return err
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}
