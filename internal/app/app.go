// Package app wires the fetchers, the seen-URL store, and the ranking
// engine into one pipeline run.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/846serj/headline-engine/internal/cache"
	"github.com/846serj/headline-engine/internal/config"
	"github.com/846serj/headline-engine/internal/feeds"
	"github.com/846serj/headline-engine/internal/headline"
	"github.com/846serj/headline-engine/internal/keywords"
	"github.com/846serj/headline-engine/internal/logger"
	"github.com/846serj/headline-engine/internal/metrics"
	"github.com/846serj/headline-engine/internal/ratelimit"
	"github.com/846serj/headline-engine/internal/scraper"
	"github.com/846serj/headline-engine/internal/sources"
	"github.com/846serj/headline-engine/internal/storage"
)

type App struct {
	cfg      *config.Config
	log      *slog.Logger
	store    storage.SeenStore
	fetcher  *feeds.Fetcher
	sources  *sources.Client
	scraper  *scraper.Scraper
	keywords *keywords.Client
	out      io.Writer
}

func New(cfg *config.Config, out io.Writer) (*App, error) {
	limiter := ratelimit.New(map[string]int{
		sources.ProviderSearch: cfg.MaxSearchRequests,
		sources.ProviderNews:   cfg.MaxNewsRequests,
		keywords.ProviderModel: cfg.MaxModelRequests,
	}, 0)

	var store storage.SeenStore
	if cfg.DatabaseURL != "" {
		pg, err := storage.NewPostgresSeenStore(cfg.DatabaseURL, cfg.SeenTTLHours)
		if err != nil {
			return nil, fmt.Errorf("failed to open seen store: %w", err)
		}
		store = pg
	} else {
		fs := storage.NewFileSeenStore(cfg.SeenStorePath, cfg.SeenTTLHours)
		if err := fs.Load(); err != nil {
			return nil, fmt.Errorf("failed to load seen store: %w", err)
		}
		store = fs
	}

	a := &App{
		cfg:     cfg,
		log:     logger.With("app"),
		store:   store,
		fetcher: feeds.NewFetcher(cfg.FeedMaxAge),
		sources: sources.NewClient(sources.Options{
			SearchAPIKey:     cfg.SearchAPIKey,
			SearchAPIBaseURL: cfg.SearchAPIBaseURL,
			NewsAPIKey:       cfg.NewsAPIKey,
			NewsAPIBaseURL:   cfg.NewsAPIBaseURL,
			Timeout:          cfg.RequestTimeout,
			RetryAttempts:    cfg.RetryAttempts,
			RetryDelay:       cfg.RetryDelay,
			Limiter:          limiter,
		}),
		scraper: scraper.New(cfg.RequestTimeout, cfg.ScrapeConcurrency, cfg.ScrapeMaxArticles),
		out:     out,
	}

	if cfg.GeminiAPIKey != "" {
		kw, err := keywords.NewClient(cfg.GeminiAPIKey, cache.New(), limiter)
		if err != nil {
			return nil, fmt.Errorf("failed to create keyword client: %w", err)
		}
		a.keywords = kw
	}

	return a, nil
}

// Close releases the seen store and the model client.
func (a *App) Close() error {
	if a.keywords != nil {
		a.keywords.Close()
	}
	return a.store.Close()
}

// Run executes one full aggregation cycle and writes the ranked headlines
// as JSON to the configured output.
func (a *App) Run(ctx context.Context) error {
	start := time.Now()
	a.log.Info("run starting", "mode", a.cfg.DedupeMode, "limit", a.cfg.HeadlineLimit)

	records := a.collect(ctx)
	metrics.Global.AddRecordsFetched(len(records))
	if len(records) == 0 {
		a.log.Warn("no records fetched from any source")
	}

	a.scraper.BackfillDescriptions(ctx, records)

	opts := headline.Options{
		Mode:         headline.Mode(a.cfg.DedupeMode),
		ExcludedURLs: a.excludedURLs(),
	}

	ranked, stats := headline.RankWithStats(records, opts, a.cfg.HeadlineLimit)

	elapsed := time.Since(start)
	metrics.Global.RecordRun(stats.Records, stats.Merged, stats.Excluded, stats.Clusters, elapsed)
	a.log.Info("run finished",
		"records", stats.Records,
		"clusters", stats.Clusters,
		"merged", stats.Merged,
		"excluded", stats.Excluded,
		"returned", len(ranked),
		"elapsed", elapsed)

	if err := a.writeResults(ranked); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	a.markSeen(ranked)
	return nil
}

// collect fetches from every configured source concurrently, then merges in
// a fixed order (feeds, search results, news API) so repeated runs over the
// same inputs cluster identically.
func (a *App) collect(ctx context.Context) []headline.RawHeadline {
	var (
		wg          sync.WaitGroup
		feedRecords []headline.RawHeadline
		searchSets  [][]headline.RawHeadline
		newsRecords []headline.RawHeadline
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		feedRecords = a.fetchFeeds(ctx)
	}()

	kws := a.topicKeywords(ctx)
	searchSets = make([][]headline.RawHeadline, len(kws))
	for i, kw := range kws {
		wg.Add(1)
		go func(i int, kw string) {
			defer wg.Done()
			records, err := a.sources.Search(ctx, kw, kw+" news")
			if err != nil {
				a.log.Error("search fetch failed", "keyword", kw, "error", err)
				return
			}
			searchSets[i] = records
		}(i, kw)
	}

	if a.cfg.Topic != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			records, err := a.sources.FetchNews(ctx, a.cfg.Topic)
			if err != nil {
				a.log.Error("news fetch failed", "error", err)
				return
			}
			newsRecords = records
		}()
	}

	wg.Wait()

	merged := feedRecords
	for _, set := range searchSets {
		merged = append(merged, set...)
	}
	merged = append(merged, newsRecords...)
	return merged
}

func (a *App) fetchFeeds(ctx context.Context) []headline.RawHeadline {
	cfg, err := feeds.LoadConfig(a.cfg.FeedsConfigPath)
	if err != nil {
		a.log.Warn("no feed config, skipping feeds", "path", a.cfg.FeedsConfigPath, "error", err)
		return nil
	}
	return a.fetcher.FetchAll(ctx, cfg.Feeds)
}

// topicKeywords expands the configured topic into search keywords, falling
// back to the raw topic text when no model client is configured.
func (a *App) topicKeywords(ctx context.Context) []string {
	if a.cfg.Topic == "" {
		return nil
	}
	if a.keywords == nil {
		return []string{a.cfg.Topic}
	}

	kws, err := a.keywords.Infer(ctx, a.cfg.Topic)
	if err != nil {
		a.log.Error("keyword inference failed, using topic text", "error", err)
		return []string{a.cfg.Topic}
	}
	return kws
}

func (a *App) excludedURLs() map[string]struct{} {
	urls := a.store.SeenURLs()
	if len(urls) == 0 {
		return nil
	}
	excluded := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		excluded[u] = struct{}{}
	}
	return excluded
}

func (a *App) writeResults(ranked []headline.RankedHeadline) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if ranked == nil {
		ranked = []headline.RankedHeadline{}
	}
	return enc.Encode(ranked)
}

// markSeen records every returned primary so the next run suppresses it.
func (a *App) markSeen(ranked []headline.RankedHeadline) {
	for _, r := range ranked {
		a.store.MarkSeen(headline.NormalizeURL(r.URL), r.Title, r.Source)
	}
}
