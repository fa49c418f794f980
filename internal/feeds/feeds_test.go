package feeds

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	content := `feeds:
  - url: https://example.com/rss
    source: Example Wire
  - url: https://other.example.org/atom.xml
`
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(cfg.Feeds) != 2 {
		t.Fatalf("got %d feeds, want 2", len(cfg.Feeds))
	}
	if cfg.Feeds[0].Source != "Example Wire" {
		t.Errorf("Source = %q, want Example Wire", cfg.Feeds[0].Source)
	}
	if cfg.Feeds[1].Source != "" {
		t.Errorf("missing source should stay empty, got %q", cfg.Feeds[1].Source)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
