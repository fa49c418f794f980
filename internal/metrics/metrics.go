package metrics

import (
	"sync"
	"time"
)

// Metrics tracks run counters for the monitoring endpoints. Engine code
// never touches this directly; the orchestration layer records stats
// after every invocation so the engine stays free of shared state.
type Metrics struct {
	mu sync.RWMutex

	// Counters
	RecordsFetched     int64
	RecordsProcessed   int64
	DuplicatesMerged   int64
	ExcludedDropped    int64
	ClustersProduced   int64
	FeedFetchErrors    int64
	SourceFetchErrors  int64
	KeywordCacheHits   int64
	KeywordCacheMisses int64

	// Timings
	LastRankingTime    time.Duration
	TotalRankingTime   time.Duration
	AverageRankingTime time.Duration
	RunCount           int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) AddRecordsFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordsFetched += int64(n)
}

// RecordRun captures the outcome of one ranking invocation.
func (m *Metrics) RecordRun(processed, merged, excluded, clusters int, elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RecordsProcessed += int64(processed)
	m.DuplicatesMerged += int64(merged)
	m.ExcludedDropped += int64(excluded)
	m.ClustersProduced += int64(clusters)

	m.LastRankingTime = elapsed
	m.TotalRankingTime += elapsed
	m.RunCount++
	m.AverageRankingTime = m.TotalRankingTime / time.Duration(m.RunCount)

	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) IncrementFeedFetchErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedFetchErrors++
}

func (m *Metrics) IncrementSourceFetchErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourceFetchErrors++
}

func (m *Metrics) IncrementKeywordCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.KeywordCacheHits++
}

func (m *Metrics) IncrementKeywordCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.KeywordCacheMisses++
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"records_fetched":         m.RecordsFetched,
		"records_processed":       m.RecordsProcessed,
		"duplicates_merged":       m.DuplicatesMerged,
		"excluded_dropped":        m.ExcludedDropped,
		"clusters_produced":       m.ClustersProduced,
		"feed_fetch_errors":       m.FeedFetchErrors,
		"source_fetch_errors":     m.SourceFetchErrors,
		"keyword_cache_hits":      m.KeywordCacheHits,
		"keyword_cache_misses":    m.KeywordCacheMisses,
		"last_ranking_time_ms":    m.LastRankingTime.Milliseconds(),
		"average_ranking_time_ms": m.AverageRankingTime.Milliseconds(),
		"last_run_time":           m.LastRunTime.Format(time.RFC3339),
		"last_error_time":         m.LastErrorTime.Format(time.RFC3339),
		"last_error":              m.LastError,
		"is_healthy":              m.IsHealthy,
	}
}
