// Package storage persists URLs that already appeared in earlier runs so
// repeat items can be suppressed before clustering.
package storage

import "time"

// SeenItem records one URL that was returned by a previous run.
type SeenItem struct {
	URL     string    `json:"url"`
	Title   string    `json:"title"`
	Source  string    `json:"source"`
	SeenAt  time.Time `json:"seen_at"`
}

// SeenStore is satisfied by both the file-backed and the Postgres-backed store.
type SeenStore interface {
	IsSeen(normalizedURL string) bool
	MarkSeen(normalizedURL, title, source string)
	// SeenURLs returns every non-expired URL, for building exclusion sets.
	SeenURLs() []string
	Close() error
}
