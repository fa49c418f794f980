package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// FileSeenStore keeps seen URLs in a JSON file, keyed by normalized URL.
type FileSeenStore struct {
	filePath string
	ttlHours int
	items    map[string]SeenItem
	mu       sync.RWMutex
}

func NewFileSeenStore(filePath string, ttlHours int) *FileSeenStore {
	return &FileSeenStore{
		filePath: filePath,
		ttlHours: ttlHours,
		items:    make(map[string]SeenItem),
	}
}

// Load reads the store from disk, dropping entries past their TTL.
func (fs *FileSeenStore) Load() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, err := os.Stat(fs.filePath); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(fs.filePath)
	if err != nil {
		return fmt.Errorf("failed to read seen store: %v", err)
	}

	if len(data) == 0 {
		return nil
	}

	var items []SeenItem
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("failed to unmarshal seen store: %v", err)
	}

	cutoffTime := time.Now().Add(-time.Duration(fs.ttlHours) * time.Hour)
	for _, item := range items {
		if item.SeenAt.After(cutoffTime) {
			fs.items[item.URL] = item
		}
	}

	return nil
}

// Save writes the current store to disk.
func (fs *FileSeenStore) Save() error {
	fs.mu.RLock()
	items := make([]SeenItem, 0, len(fs.items))
	for _, item := range fs.items {
		items = append(items, item)
	}
	fs.mu.RUnlock()

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal seen store: %v", err)
	}

	if err := os.WriteFile(fs.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write seen store: %v", err)
	}

	return nil
}

func (fs *FileSeenStore) IsSeen(normalizedURL string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	item, exists := fs.items[normalizedURL]
	if !exists {
		return false
	}

	cutoffTime := time.Now().Add(-time.Duration(fs.ttlHours) * time.Hour)
	return item.SeenAt.After(cutoffTime)
}

func (fs *FileSeenStore) MarkSeen(normalizedURL, title, source string) {
	if normalizedURL == "" {
		return
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.items[normalizedURL] = SeenItem{
		URL:    normalizedURL,
		Title:  title,
		Source: source,
		SeenAt: time.Now(),
	}
}

func (fs *FileSeenStore) SeenURLs() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	cutoffTime := time.Now().Add(-time.Duration(fs.ttlHours) * time.Hour)
	urls := make([]string, 0, len(fs.items))
	for url, item := range fs.items {
		if item.SeenAt.After(cutoffTime) {
			urls = append(urls, url)
		}
	}
	return urls
}

// Cleanup removes expired items from memory.
func (fs *FileSeenStore) Cleanup() {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	cutoffTime := time.Now().Add(-time.Duration(fs.ttlHours) * time.Hour)
	for url, item := range fs.items {
		if item.SeenAt.Before(cutoffTime) {
			delete(fs.items, url)
		}
	}
}

func (fs *FileSeenStore) GetStats() map[string]int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	return map[string]int{
		"total_items": len(fs.items),
	}
}

// Close persists the store one last time.
func (fs *FileSeenStore) Close() error {
	return fs.Save()
}
