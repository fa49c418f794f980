// Package headline merges near-duplicate story records pulled from
// several independent feeds into clusters and produces a deterministic,
// explainable ranking over them. The package performs no I/O: callers
// hand it a flat list of records and consume the sorted, annotated
// output.
package headline

// Mode selects how aggressively records are considered duplicates.
type Mode string

const (
	// ModeDefault favors precision: only strong token overlap or exact
	// field matches merge two records.
	ModeDefault Mode = "default"

	// ModeStrict favors recall: lower overlap threshold, suffix
	// stemming, and a title-similarity fallback. Meant for high-volume,
	// noisy aggregation.
	ModeStrict Mode = "strict"
)

// RawHeadline is a normalized story record as supplied by an upstream
// collaborator (feed fetcher, search API client, news API client).
// Missing fields are empty strings, never absent.
type RawHeadline struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"publishedAt"`

	// Provenance tags, passed through untouched and never used for
	// similarity.
	Keyword     string `json:"keyword,omitempty"`
	QueryUsed   string `json:"queryUsed,omitempty"`
	SearchQuery string `json:"searchQuery,omitempty"`
}

// Options configures a single deduplication run. There is no global
// state: every knob flows through here.
type Options struct {
	Mode Mode

	// ExcludedURLs holds normalized URLs to drop silently, typically
	// "already seen" suppression maintained by the caller.
	ExcludedURLs map[string]struct{}
}

// Candidate wraps a RawHeadline with the derived comparison fields.
// Built once per record; a cluster's primary copy may later be
// enriched by merged duplicates.
type Candidate struct {
	RawHeadline

	NormalizedURL   string
	normTitle       string
	normDescription string
	tokens          map[string]struct{}
}

// RelatedArticle is a record that was classified as a duplicate of a
// cluster's primary and retained as supporting evidence.
type RelatedArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"publishedAt"`
}

// Cluster is one deduplicated story: the first record seen for it plus
// every later record merged into it. The token set is the union over
// all members so ranking sees the full topical footprint.
type Cluster struct {
	ID      string
	Primary Candidate
	Related []RelatedArticle

	tokens  map[string]struct{}
	arrival int
}

// Components holds the four ranking components, each in [0,1].
type Components struct {
	Recency         float64 `json:"recency"`
	SourceDiversity float64 `json:"sourceDiversity"`
	TopicCoverage   float64 `json:"topicCoverage"`
	ClusterSupport  float64 `json:"clusterSupport"`
}

// Details exposes the raw inputs behind the components.
type Details struct {
	// AgeHours is nil when the primary's timestamp was absent or
	// unparsable.
	AgeHours          *float64 `json:"ageHours"`
	SourceOccurrences int      `json:"sourceOccurrences"`
	RareTokenRatio    float64  `json:"rareTokenRatio"`
	ClusterSize       int      `json:"clusterSize"`
	UniqueSources     int      `json:"uniqueSources"`
}

// Ranking is the per-cluster score breakdown. Recomputed on every run,
// never persisted.
type Ranking struct {
	Score      float64    `json:"score"`
	Components Components `json:"components"`
	Details    Details    `json:"details"`
	Reasons    []string   `json:"reasons"`
}

// RankedHeadline is the externally visible projection of a ranked
// cluster.
type RankedHeadline struct {
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	URL             string           `json:"url"`
	Source          string           `json:"source"`
	PublishedAt     string           `json:"publishedAt"`
	Keyword         string           `json:"keyword,omitempty"`
	QueryUsed       string           `json:"queryUsed,omitempty"`
	SearchQuery     string           `json:"searchQuery,omitempty"`
	RelatedArticles []RelatedArticle `json:"relatedArticles,omitempty"`
	Ranking         Ranking          `json:"ranking"`
}
