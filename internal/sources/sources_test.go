package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/846serj/headline-engine/internal/logger"
	"github.com/846serj/headline-engine/internal/ratelimit"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func newTestClient(searchURL, newsURL string, limiter *ratelimit.Limiter) *Client {
	return NewClient(Options{
		SearchAPIKey:     "test-key",
		SearchAPIBaseURL: searchURL,
		NewsAPIKey:       "test-key",
		NewsAPIBaseURL:   newsURL,
		Timeout:          5 * time.Second,
		RetryAttempts:    1,
		RetryDelay:       time.Millisecond,
		Limiter:          limiter,
	})
}

func TestSearchProvenance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "mars rover landing" {
			t.Errorf("query param q = %q", got)
		}
		w.Write([]byte(`{"news_results":[
			{"title":"Rover lands","link":"https://example.com/a","snippet":"It landed.","date":"2025-06-01T10:00:00Z","source":{"name":"Example"}},
			{"title":"","link":"https://example.com/empty"}
		]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL, nil)
	records, err := c.Search(context.Background(), "mars rover", "mars rover landing")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1 (untitled result dropped)", len(records))
	}
	r := records[0]
	if r.Keyword != "mars rover" || r.QueryUsed != "mars rover landing" {
		t.Errorf("provenance = %q/%q", r.Keyword, r.QueryUsed)
	}
	if r.Source != "Example" || r.Description != "It landed." {
		t.Errorf("record = %+v", r)
	}
}

func TestFetchNewsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","message":"apiKeyInvalid"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL, nil)
	if _, err := c.FetchNews(context.Background(), "solar storm"); err == nil {
		t.Fatal("expected error for non-ok status")
	}
}

func TestFetchNewsProvenance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","articles":[
			{"title":"Storm hits","description":"Big storm.","url":"https://example.com/s","publishedAt":"2025-06-01T08:00:00Z","source":{"name":"Wire"}}
		]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL, nil)
	records, err := c.FetchNews(context.Background(), "solar storm")
	if err != nil {
		t.Fatalf("FetchNews: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].SearchQuery != "solar storm" {
		t.Errorf("SearchQuery = %q", records[0].SearchQuery)
	}
}

func TestBudgetExhaustedSkipsQuietly(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"news_results":[{"title":"X","link":"https://example.com/x"}]}`))
	}))
	defer srv.Close()

	limiter := ratelimit.New(map[string]int{ProviderSearch: 1}, 0)
	c := newTestClient(srv.URL, srv.URL, limiter)

	if _, err := c.Search(context.Background(), "k", "q"); err != nil {
		t.Fatalf("first call: %v", err)
	}
	records, err := c.Search(context.Background(), "k", "q")
	if err != nil {
		t.Fatalf("second call should skip without error, got %v", err)
	}
	if records != nil {
		t.Errorf("expected nil records after budget exhausted")
	}
	if calls != 1 {
		t.Errorf("server called %d times, want 1", calls)
	}
}

func TestServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL, nil)
	if _, err := c.Search(context.Background(), "k", "q"); err == nil {
		t.Fatal("expected error for 500 response")
	}
}
