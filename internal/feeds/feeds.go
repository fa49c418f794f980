// Package feeds pulls candidate headlines from a configured list of RSS and
// Atom feeds.
package feeds

import (
	"context"
	"os"
	"time"

	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"

	"github.com/846serj/headline-engine/internal/headline"
	"github.com/846serj/headline-engine/internal/logger"
	"github.com/846serj/headline-engine/internal/metrics"
)

// Config is the YAML feed list:
//
//	feeds:
//	  - url: https://example.com/rss
//	    source: Example
type Config struct {
	Feeds []Feed `yaml:"feeds"`
}

type Feed struct {
	URL    string `yaml:"url"`
	Source string `yaml:"source"`
}

// LoadConfig reads the feed list from a YAML file.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Fetcher downloads and parses the configured feeds.
type Fetcher struct {
	parser *gofeed.Parser
	maxAge time.Duration
}

func NewFetcher(maxAge time.Duration) *Fetcher {
	return &Fetcher{
		parser: gofeed.NewParser(),
		maxAge: maxAge,
	}
}

// FetchAll parses every feed, skipping ones that fail. Items older than the
// freshness window are dropped; items without a publication time are kept.
func (f *Fetcher) FetchAll(ctx context.Context, feeds []Feed) []headline.RawHeadline {
	log := logger.With("feeds")
	cutoff := time.Now().Add(-f.maxAge)

	var records []headline.RawHeadline
	successCount := 0

	for _, feed := range feeds {
		parsed, err := f.parser.ParseURLWithContext(feed.URL, ctx)
		if err != nil {
			log.Warn("failed to parse feed", "url", feed.URL, "error", err)
			metrics.Global.IncrementFeedFetchErrors()
			continue
		}

		source := feed.Source
		if source == "" {
			source = parsed.Title
		}

		for _, item := range parsed.Items {
			if item.PublishedParsed != nil && item.PublishedParsed.Before(cutoff) {
				continue
			}
			records = append(records, itemToRecord(item, source))
		}
		successCount++
		log.Debug("loaded feed", "url", feed.URL, "items", len(parsed.Items))
	}

	log.Info("fetched feeds", "ok", successCount, "total", len(feeds), "records", len(records))
	return records
}

func itemToRecord(item *gofeed.Item, source string) headline.RawHeadline {
	publishedAt := item.Published
	if item.PublishedParsed != nil {
		publishedAt = item.PublishedParsed.Format(time.RFC3339)
	}

	return headline.RawHeadline{
		Title:       item.Title,
		Description: item.Description,
		URL:         item.Link,
		Source:      source,
		PublishedAt: publishedAt,
	}
}
