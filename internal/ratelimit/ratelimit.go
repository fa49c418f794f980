package ratelimit

import (
	"log"
	"sync"
	"time"
)

// Limiter enforces daily request budgets per upstream provider (search
// API, news API, model API) plus an overall cap. Budgets reset 24h
// after construction or the previous reset.
type Limiter struct {
	mu        sync.Mutex
	counts    map[string]int
	limits    map[string]int
	total     int
	maxTotal  int
	resetTime time.Time
}

// New creates a limiter. A zero limit for a provider (or zero maxTotal)
// means unlimited.
func New(limits map[string]int, maxTotal int) *Limiter {
	l := &Limiter{
		counts:    make(map[string]int, len(limits)),
		limits:    make(map[string]int, len(limits)),
		maxTotal:  maxTotal,
		resetTime: time.Now().Add(24 * time.Hour),
	}
	for provider, limit := range limits {
		l.limits[provider] = limit
	}
	return l
}

// Allow reports whether one more request to the provider fits the
// budget and, if so, records it.
func (l *Limiter) Allow(provider string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.checkReset()

	if limit := l.limits[provider]; limit > 0 && l.counts[provider] >= limit {
		log.Printf("rate limit reached for %s (%d/%d)", provider, l.counts[provider], limit)
		return false
	}
	if l.maxTotal > 0 && l.total >= l.maxTotal {
		log.Printf("total request budget reached (%d/%d)", l.total, l.maxTotal)
		return false
	}

	l.counts[provider]++
	l.total++
	return true
}

// Remaining returns how many requests the provider has left, or -1 for
// unlimited.
func (l *Limiter) Remaining(provider string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.checkReset()

	limit := l.limits[provider]
	if limit <= 0 {
		return -1
	}
	left := limit - l.counts[provider]
	if left < 0 {
		left = 0
	}
	return left
}

// Stats returns current usage per provider.
func (l *Limiter) Stats() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]int, len(l.counts)+1)
	for provider, n := range l.counts {
		out[provider] = n
	}
	out["total"] = l.total
	return out
}

func (l *Limiter) checkReset() {
	if time.Now().Before(l.resetTime) {
		return
	}
	l.counts = make(map[string]int, len(l.limits))
	l.total = 0
	l.resetTime = time.Now().Add(24 * time.Hour)
}
