package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Dedupe settings
	DedupeMode    string // "default" or "strict"
	HeadlineLimit int

	// Feed settings
	FeedsConfigPath string
	FeedMaxAge      time.Duration

	// Topic steering the search and news API queries. Optional; when empty
	// only the configured feeds are used.
	Topic string

	// Upstream API settings
	SearchAPIKey      string
	SearchAPIBaseURL  string
	NewsAPIKey        string
	NewsAPIBaseURL    string
	GeminiAPIKey      string
	MaxSearchRequests int // per day, 0 = unlimited
	MaxNewsRequests   int
	MaxModelRequests  int

	// Scraper settings
	ScrapeConcurrency int
	ScrapeMaxArticles int

	// Seen-URL store settings
	SeenStorePath string
	SeenTTLHours  int
	DatabaseURL   string // when set, Postgres replaces the file store

	// App settings
	Debug          bool
	RequestTimeout time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
	CronSpec       string // empty = run once and exit
}

func Load() (*Config, error) {
	cfg := &Config{
		DedupeMode:        "default",
		HeadlineLimit:     20,
		FeedsConfigPath:   "configs/feeds.yaml",
		FeedMaxAge:        24 * time.Hour,
		SearchAPIBaseURL:  "https://serpapi.com/search",
		NewsAPIBaseURL:    "https://newsapi.org/v2/everything",
		MaxSearchRequests: 50,
		MaxNewsRequests:   50,
		MaxModelRequests:  10,
		ScrapeConcurrency: 8,
		ScrapeMaxArticles: 10,
		SeenStorePath:     "seen_urls.json",
		SeenTTLHours:      48,
		RequestTimeout:    30 * time.Second,
		RetryAttempts:     3,
		RetryDelay:        5 * time.Second,
	}

	cfg.SearchAPIKey = os.Getenv("SEARCH_API_KEY")
	cfg.NewsAPIKey = os.Getenv("NEWS_API_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.Topic = os.Getenv("TOPIC")
	cfg.CronSpec = os.Getenv("CRON_SPEC")

	if mode := os.Getenv("DEDUPE_MODE"); mode != "" {
		cfg.DedupeMode = mode
	}
	cfg.FeedsConfigPath = getEnvOrDefault("FEEDS_CONFIG_PATH", cfg.FeedsConfigPath)
	cfg.SearchAPIBaseURL = getEnvOrDefault("SEARCH_API_BASE_URL", cfg.SearchAPIBaseURL)
	cfg.NewsAPIBaseURL = getEnvOrDefault("NEWS_API_BASE_URL", cfg.NewsAPIBaseURL)
	cfg.SeenStorePath = getEnvOrDefault("SEEN_STORE_PATH", cfg.SeenStorePath)

	cfg.HeadlineLimit = getEnvIntOrDefault("HEADLINE_LIMIT", cfg.HeadlineLimit)
	cfg.SeenTTLHours = getEnvIntOrDefault("SEEN_TTL_HOURS", cfg.SeenTTLHours)
	cfg.MaxSearchRequests = getEnvIntOrDefault("MAX_SEARCH_REQUESTS", cfg.MaxSearchRequests)
	cfg.MaxNewsRequests = getEnvIntOrDefault("MAX_NEWS_REQUESTS", cfg.MaxNewsRequests)
	cfg.MaxModelRequests = getEnvIntOrDefault("MAX_MODEL_REQUESTS", cfg.MaxModelRequests)
	cfg.ScrapeConcurrency = getEnvIntOrDefault("SCRAPE_CONCURRENCY", cfg.ScrapeConcurrency)
	cfg.ScrapeMaxArticles = getEnvIntOrDefault("SCRAPE_MAX_ARTICLES", cfg.ScrapeMaxArticles)

	if v := os.Getenv("FEED_MAX_AGE_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			cfg.FeedMaxAge = time.Duration(hours) * time.Hour
		}
	}
	if v := os.Getenv("REQUEST_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.RequestTimeout = time.Duration(secs) * time.Second
		}
	}

	if os.Getenv("DEBUG") == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.DedupeMode != "default" && c.DedupeMode != "strict" {
		return fmt.Errorf("DEDUPE_MODE must be 'default' or 'strict', got %q", c.DedupeMode)
	}
	if c.HeadlineLimit < 0 {
		return fmt.Errorf("HEADLINE_LIMIT must not be negative")
	}
	if c.SeenTTLHours <= 0 {
		return fmt.Errorf("SEEN_TTL_HOURS must be positive")
	}
	return nil
}
