// Package scraper backfills missing descriptions by fetching article pages
// and pulling a short excerpt out of the HTML.
package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/846serj/headline-engine/internal/headline"
	"github.com/846serj/headline-engine/internal/logger"
)

const maxExcerptLen = 500

type Scraper struct {
	client      *http.Client
	concurrency int
	maxArticles int
}

func New(timeout time.Duration, concurrency, maxArticles int) *Scraper {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	if maxArticles <= 0 {
		maxArticles = 10
	}
	return &Scraper{
		client:      &http.Client{Timeout: timeout},
		concurrency: concurrency,
		maxArticles: maxArticles,
	}
}

// BackfillDescriptions fetches excerpts for records whose description is
// empty, up to the configured article cap. Records are modified in place;
// failures leave the record untouched.
func (s *Scraper) BackfillDescriptions(ctx context.Context, records []headline.RawHeadline) {
	log := logger.With("scraper")

	var targets []int
	for i := range records {
		if strings.TrimSpace(records[i].Description) == "" && records[i].URL != "" {
			targets = append(targets, i)
			if len(targets) >= s.maxArticles {
				break
			}
		}
	}
	if len(targets) == 0 {
		return
	}

	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, idx := range targets {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			excerpt, err := s.ExtractExcerpt(ctx, records[idx].URL)
			if err != nil {
				log.Debug("failed to extract excerpt", "url", records[idx].URL, "error", err)
				return
			}
			if excerpt != "" {
				mu.Lock()
				records[idx].Description = excerpt
				mu.Unlock()
			}
		}(idx)
	}
	wg.Wait()

	log.Info("backfilled descriptions", "candidates", len(targets))
}

// ExtractExcerpt fetches one page and returns a short excerpt. WordPress
// sites get a REST API fast path; everything else goes through HTML parsing.
func (s *Scraper) ExtractExcerpt(ctx context.Context, pageURL string) (string, error) {
	if excerpt, err := s.tryWordPressAPI(ctx, pageURL); err == nil && excerpt != "" {
		return excerpt, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error loading page: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error parsing HTML: %v", err)
	}

	return extractExcerpt(doc), nil
}

// tryWordPressAPI hits the wp-json posts endpoint with the page slug. Most
// non-WordPress hosts 404 here, which falls back to HTML parsing.
func (s *Scraper) tryWordPressAPI(ctx context.Context, pageURL string) (string, error) {
	base, slug := splitSlug(pageURL)
	if slug == "" {
		return "", fmt.Errorf("no slug")
	}

	apiURL := base + "/wp-json/wp/v2/posts?slug=" + slug
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	var posts []struct {
		Excerpt struct {
			Rendered string `json:"rendered"`
		} `json:"excerpt"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		return "", err
	}
	if len(posts) == 0 {
		return "", fmt.Errorf("no posts")
	}

	return cleanExcerpt(stripTags(posts[0].Excerpt.Rendered)), nil
}

func splitSlug(pageURL string) (base, slug string) {
	trimmed := strings.TrimRight(pageURL, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx <= len("https://") {
		return "", ""
	}
	slug = trimmed[idx+1:]

	schemeEnd := strings.Index(trimmed, "://")
	if schemeEnd < 0 {
		return "", ""
	}
	hostEnd := strings.Index(trimmed[schemeEnd+3:], "/")
	if hostEnd < 0 {
		return "", ""
	}
	base = trimmed[:schemeEnd+3+hostEnd]
	return base, slug
}

func stripTags(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return doc.Text()
}

// extractExcerpt tries meta descriptions first, then the first substantial
// paragraphs of the article body.
func extractExcerpt(doc *goquery.Document) string {
	if desc, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		if excerpt := cleanExcerpt(desc); excerpt != "" {
			return excerpt
		}
	}
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		if excerpt := cleanExcerpt(desc); excerpt != "" {
			return excerpt
		}
	}

	var paragraphs []string
	selectors := []string{
		"article p",
		".article-body p",
		".article-content p",
		".entry-content p",
		".content p",
		"main p",
	}

	for _, selector := range selectors {
		doc.Find(selector).EachWithBreak(func(i int, sel *goquery.Selection) bool {
			text := strings.TrimSpace(sel.Text())
			if len(text) > 40 {
				paragraphs = append(paragraphs, text)
			}
			return len(paragraphs) < 2
		})
		if len(paragraphs) > 0 {
			break
		}
	}

	return cleanExcerpt(strings.Join(paragraphs, " "))
}

func cleanExcerpt(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > maxExcerptLen {
		cut := strings.LastIndex(text[:maxExcerptLen], " ")
		if cut <= 0 {
			cut = maxExcerptLen
		}
		text = text[:cut] + "…"
	}
	return strings.TrimSpace(text)
}
