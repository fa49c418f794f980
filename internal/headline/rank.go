package headline

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Component weights. Recency dominates: a stale story rarely belongs at
// the top no matter how well corroborated it is.
const (
	weightRecency         = 0.45
	weightSourceDiversity = 0.20
	weightTopicCoverage   = 0.20
	weightClusterSupport  = 0.25
)

const (
	// recencyHorizonHours is where the linear decay reaches zero.
	recencyHorizonHours = 72.0

	// Full-score references for the support component.
	supportSizeRef    = 8.0
	supportSourcesRef = 5.0
)

type scoredCluster struct {
	cluster *Cluster
	ranking Ranking
	age     *float64
}

// rankClusters computes the four weighted components for every cluster
// and returns them in descending score order. Everything is derived
// from the clusters themselves; no external calls, so the ordering is
// reproducible for a given input.
func rankClusters(clusters []*Cluster, now time.Time) []scoredCluster {
	sourceCounts := make(map[string]int, len(clusters))
	tokenCounts := make(map[string]int)
	for _, cl := range clusters {
		sourceCounts[strings.ToLower(cl.Primary.Source)]++
		for tok := range cl.tokens {
			tokenCounts[tok]++
		}
	}

	scored := make([]scoredCluster, 0, len(clusters))
	for _, cl := range clusters {
		sc := scoreCluster(cl, now, sourceCounts, tokenCounts)
		scored = append(scored, sc)
	}

	// Ties break by ascending age when both sides have one (younger
	// wins), otherwise arrival order via the stable sort.
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.ranking.Score != b.ranking.Score {
			return a.ranking.Score > b.ranking.Score
		}
		if a.age != nil && b.age != nil && *a.age != *b.age {
			return *a.age < *b.age
		}
		return false
	})
	return scored
}

func scoreCluster(cl *Cluster, now time.Time, sourceCounts, tokenCounts map[string]int) scoredCluster {
	age := ageHours(cl.Primary.PublishedAt, now)
	recency := 0.0
	if age != nil {
		clamped := math.Min(*age, recencyHorizonHours)
		recency = 1 - clamped/recencyHorizonHours
	}

	occurrences := sourceCounts[strings.ToLower(cl.Primary.Source)]
	diversity := 1.0 / float64(occurrences)

	rare := 0
	for tok := range cl.tokens {
		if tokenCounts[tok] <= 1 {
			rare++
		}
	}
	coverage := 0.0
	rareRatio := 0.0
	if len(cl.tokens) > 0 {
		rareRatio = float64(rare) / float64(len(cl.tokens))
		coverage = rareRatio
	}

	size := 1 + len(cl.Related)
	uniqueSources := countUniqueSources(cl)
	sizeScore := math.Min(1, float64(size)/supportSizeRef)
	srcScore := math.Min(1, float64(uniqueSources)/supportSourcesRef)
	support := (sizeScore + srcScore) / 2

	score := recency*weightRecency +
		diversity*weightSourceDiversity +
		coverage*weightTopicCoverage +
		support*weightClusterSupport

	ranking := Ranking{
		Score: score,
		Components: Components{
			Recency:         recency,
			SourceDiversity: diversity,
			TopicCoverage:   coverage,
			ClusterSupport:  support,
		},
		Details: Details{
			AgeHours:          age,
			SourceOccurrences: occurrences,
			RareTokenRatio:    rareRatio,
			ClusterSize:       size,
			UniqueSources:     uniqueSources,
		},
	}
	ranking.Reasons = buildReasons(ranking)
	return scoredCluster{cluster: cl, ranking: ranking, age: age}
}

// ageHours parses the primary timestamp leniently and returns the age
// in hours, floored at zero for future-dated stories. Nil when the
// timestamp is absent or unparsable; that is valid input, not an
// error.
func ageHours(publishedAt string, now time.Time) *float64 {
	s := strings.TrimSpace(publishedAt)
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = dateparse.ParseAny(s)
		if err != nil {
			return nil
		}
	}
	h := now.Sub(t).Hours()
	if h < 0 {
		h = 0
	}
	return &h
}

func countUniqueSources(cl *Cluster) int {
	seen := map[string]struct{}{strings.ToLower(cl.Primary.Source): {}}
	for _, rel := range cl.Related {
		seen[strings.ToLower(rel.Source)] = struct{}{}
	}
	return len(seen)
}

// buildReasons derives 2-4 short human-readable explanations from the
// computed components. Purely explanatory; never feeds back into the
// score.
func buildReasons(r Ranking) []string {
	reasons := make([]string, 0, 4)

	switch {
	case r.Details.AgeHours == nil:
		reasons = append(reasons, "No reliable publication time")
	case *r.Details.AgeHours <= 24:
		hours := int(math.Ceil(*r.Details.AgeHours))
		if hours < 1 {
			hours = 1
		}
		reasons = append(reasons, fmt.Sprintf("Published within the last %d hours", hours))
	default:
		reasons = append(reasons, fmt.Sprintf("Published %d hours ago", int(*r.Details.AgeHours)))
	}

	if r.Details.ClusterSize > 1 {
		reasons = append(reasons, fmt.Sprintf("Corroborated by %d related articles", r.Details.ClusterSize-1))
	} else {
		reasons = append(reasons, "Single report so far")
	}

	if r.Details.UniqueSources >= 3 {
		reasons = append(reasons, "Covered by many outlets")
	} else if r.Details.SourceOccurrences == 1 {
		reasons = append(reasons, "Only story from this source in the run")
	}

	if len(reasons) < 4 && r.Components.TopicCoverage >= 0.5 {
		reasons = append(reasons, "Covers angles not found elsewhere")
	}
	return reasons
}
