package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/846serj/headline-engine/internal/logger"
)

// PostgresSeenStore keeps seen URLs in PostgreSQL, for deployments where the
// working directory is not persistent.
type PostgresSeenStore struct {
	db       *sql.DB
	ttlHours int
	log      *slog.Logger
}

func NewPostgresSeenStore(connectionString string, ttlHours int) (*PostgresSeenStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	store := &PostgresSeenStore{
		db:       db,
		ttlHours: ttlHours,
		log:      logger.With("storage"),
	}

	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %v", err)
	}

	store.log.Info("PostgreSQL seen store connected")
	return store, nil
}

func (ps *PostgresSeenStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS seen_urls (
		id SERIAL PRIMARY KEY,
		url TEXT UNIQUE NOT NULL,
		title TEXT,
		source VARCHAR(100),
		seen_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_seen_urls_url ON seen_urls(url);
	CREATE INDEX IF NOT EXISTS idx_seen_urls_seen_at ON seen_urls(seen_at);
	`

	_, err := ps.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %v", err)
	}

	return nil
}

func (ps *PostgresSeenStore) IsSeen(normalizedURL string) bool {
	cutoffTime := time.Now().Add(-time.Duration(ps.ttlHours) * time.Hour)

	var count int
	query := `SELECT COUNT(*) FROM seen_urls WHERE url = $1 AND seen_at > $2`
	err := ps.db.QueryRow(query, normalizedURL, cutoffTime).Scan(&count)
	if err != nil {
		ps.log.Error("failed to check seen URL", "error", err)
		return false
	}

	return count > 0
}

func (ps *PostgresSeenStore) MarkSeen(normalizedURL, title, source string) {
	if normalizedURL == "" {
		return
	}

	query := `
	INSERT INTO seen_urls (url, title, source, seen_at)
	VALUES ($1, $2, $3, NOW())
	ON CONFLICT (url) DO UPDATE SET seen_at = NOW()`

	if _, err := ps.db.Exec(query, normalizedURL, title, source); err != nil {
		ps.log.Error("failed to mark URL as seen", "error", err)
	}
}

func (ps *PostgresSeenStore) SeenURLs() []string {
	cutoffTime := time.Now().Add(-time.Duration(ps.ttlHours) * time.Hour)

	rows, err := ps.db.Query(`SELECT url FROM seen_urls WHERE seen_at > $1`, cutoffTime)
	if err != nil {
		ps.log.Error("failed to list seen URLs", "error", err)
		return nil
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			continue
		}
		urls = append(urls, url)
	}
	return urls
}

// Cleanup deletes rows past their TTL.
func (ps *PostgresSeenStore) Cleanup() error {
	cutoffTime := time.Now().Add(-time.Duration(ps.ttlHours) * time.Hour)

	result, err := ps.db.Exec(`DELETE FROM seen_urls WHERE seen_at < $1`, cutoffTime)
	if err != nil {
		return fmt.Errorf("failed to cleanup seen URLs: %v", err)
	}

	if deleted, err := result.RowsAffected(); err == nil && deleted > 0 {
		ps.log.Info("cleaned up expired seen URLs", "deleted", deleted)
	}
	return nil
}

func (ps *PostgresSeenStore) Close() error {
	return ps.db.Close()
}
