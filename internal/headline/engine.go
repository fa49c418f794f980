package headline

import "time"

// Rank deduplicates and ranks a batch of raw records. The result is
// sorted by descending score and truncated to limit entries; limit <= 0
// means no truncation. A negative limit is a caller bug, not input
// noise, and yields nil.
//
// Rank never fails on malformed input: unparsable URLs, unparsable
// dates, and empty strings degrade to zero-valued components or skipped
// checks, and every returned record is structurally complete.
func Rank(records []RawHeadline, opts Options, limit int) []RankedHeadline {
	return rankAt(records, opts, limit, time.Now())
}

// Stats summarizes one run for the caller's observability layer; the
// engine itself keeps no counters across invocations.
type Stats struct {
	Records   int
	Clusters  int
	Merged    int
	Excluded  int
	Truncated int
}

// RankWithStats is Rank plus run counters.
func RankWithStats(records []RawHeadline, opts Options, limit int) ([]RankedHeadline, Stats) {
	return rankWithStatsAt(records, opts, limit, time.Now())
}

// rankAt exists so tests can pin "now" and assert exact scores.
func rankAt(records []RawHeadline, opts Options, limit int, now time.Time) []RankedHeadline {
	out, _ := rankWithStatsAt(records, opts, limit, now)
	return out
}

func rankWithStatsAt(records []RawHeadline, opts Options, limit int, now time.Time) ([]RankedHeadline, Stats) {
	if limit < 0 {
		return nil, Stats{Records: len(records)}
	}

	agg := newAggregator(opts)
	for _, r := range records {
		agg.add(r)
	}

	// Ranking must see the full cluster pool: diversity, coverage and
	// support are relative measures, so truncation happens last.
	scored := rankClusters(agg.clusters, now)

	out := make([]RankedHeadline, 0, len(scored))
	for _, sc := range scored {
		p := sc.cluster.Primary
		out = append(out, RankedHeadline{
			Title:           p.Title,
			Description:     p.Description,
			URL:             p.URL,
			Source:          p.Source,
			PublishedAt:     p.PublishedAt,
			Keyword:         p.Keyword,
			QueryUsed:       p.QueryUsed,
			SearchQuery:     p.SearchQuery,
			RelatedArticles: sc.cluster.Related,
			Ranking:         sc.ranking,
		})
	}

	stats := Stats{
		Records:  len(records),
		Clusters: len(agg.clusters),
		Merged:   agg.merged,
		Excluded: agg.dropped,
	}
	if limit > 0 && len(out) > limit {
		stats.Truncated = len(out) - limit
		out = out[:limit]
	}
	return out, stats
}
