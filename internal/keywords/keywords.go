// Package keywords asks Gemini to turn a free-form topic description into a
// handful of search keywords. Results are cached so repeated runs on the
// same topic cost no model calls.
package keywords

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/846serj/headline-engine/internal/cache"
	"github.com/846serj/headline-engine/internal/logger"
	"github.com/846serj/headline-engine/internal/metrics"
	"github.com/846serj/headline-engine/internal/ratelimit"
)

const (
	ProviderModel = "gemini"

	modelName   = "gemini-1.5-flash"
	cacheTTL    = 12 * time.Hour
	maxKeywords = 5
)

type Client struct {
	client  *genai.Client
	cache   *cache.Cache
	limiter *ratelimit.Limiter
}

func NewClient(apiKey string, c *cache.Cache, limiter *ratelimit.Limiter) (*Client, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{client: client, cache: c, limiter: limiter}, nil
}

func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// Infer returns up to five search keywords for a topic description.
func (c *Client) Infer(ctx context.Context, topic string) ([]string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, nil
	}

	key := c.cache.GenerateKey("keywords", topic)
	if cached, ok := c.cache.Get(key); ok {
		metrics.Global.IncrementKeywordCacheHits()
		if kws, ok := cached.([]string); ok {
			return kws, nil
		}
	}
	metrics.Global.IncrementKeywordCacheMisses()

	if c.limiter != nil && !c.limiter.Allow(ProviderModel) {
		logger.With("keywords").Warn("model budget exhausted, falling back to topic text", "topic", topic)
		return fallbackKeywords(topic), nil
	}

	model := c.client.GenerativeModel(modelName)

	prompt := fmt.Sprintf(`You are helping a news aggregator find coverage of a topic.

TOPIC: %s

TASK: Produce up to %d short search keywords or phrases that a news search
engine would match against headlines about this topic.

REQUIREMENTS:
- One keyword per line, nothing else.
- No numbering, no quotes, no explanations.
- Prefer concrete nouns and named entities over generic words.
`, topic, maxKeywords)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate keywords: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from Gemini")
	}

	raw := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	keywords := parseKeywords(raw)
	if len(keywords) == 0 {
		keywords = fallbackKeywords(topic)
	}

	c.cache.Set(key, keywords, cacheTTL)
	return keywords, nil
}

// parseKeywords extracts cleaned keywords from the model's line-per-keyword
// response, tolerating stray bullets and numbering.
func parseKeywords(raw string) []string {
	var keywords []string
	seen := make(map[string]bool)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*•0123456789. ")
		line = strings.Trim(line, `"'`)
		line = strings.TrimSpace(line)
		if line == "" || len(line) > 80 {
			continue
		}

		lower := strings.ToLower(line)
		if seen[lower] {
			continue
		}
		seen[lower] = true

		keywords = append(keywords, line)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}

// fallbackKeywords uses the topic text itself when the model is unavailable.
func fallbackKeywords(topic string) []string {
	return []string{topic}
}
