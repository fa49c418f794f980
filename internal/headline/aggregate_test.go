package headline

import "testing"

func addAll(agg *aggregator, records ...RawHeadline) {
	for _, r := range records {
		agg.add(r)
	}
}

func TestAggregatorMergeIsIdempotent(t *testing.T) {
	rec := RawHeadline{
		Title:  "Mars rover finds water",
		URL:    "https://a.example/mars",
		Source: "A",
	}
	agg := newAggregator(Options{Mode: ModeDefault})
	addAll(agg, rec, rec)

	if len(agg.clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(agg.clusters))
	}
	if got := len(agg.clusters[0].Related); got != 1 {
		t.Errorf("expected 1 related article, got %d", got)
	}
}

func TestAggregatorPrimaryIsFirstSeen(t *testing.T) {
	agg := newAggregator(Options{Mode: ModeDefault})
	addAll(agg,
		RawHeadline{Title: "Mars rover finds water", Source: "A"},
		RawHeadline{Title: "Mars Rover Finds Water!!", Source: "B"},
	)

	if len(agg.clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(agg.clusters))
	}
	cl := agg.clusters[0]
	if cl.Primary.Source != "A" {
		t.Errorf("primary source = %q, want A (first seen never replaced)", cl.Primary.Source)
	}
	if len(cl.Related) != 1 || cl.Related[0].Source != "B" {
		t.Errorf("duplicate not retained as related article: %+v", cl.Related)
	}
}

func TestAggregatorOverlapThresholdBoundary(t *testing.T) {
	// 10 tokens each; 7 shared gives exactly 0.70 in default mode.
	at := "alpha bravo charlie delta echo foxtrot golf hotel india juliet"
	atBoundary := "alpha bravo charlie delta echo foxtrot golf xray yankee zulu"
	below := "alpha bravo charlie delta echo foxtrot xray yankee zulu whiskey"

	agg := newAggregator(Options{Mode: ModeDefault})
	addAll(agg, RawHeadline{Title: at}, RawHeadline{Title: atBoundary})
	if len(agg.clusters) != 1 {
		t.Errorf("overlap exactly at threshold must merge, got %d clusters", len(agg.clusters))
	}

	agg = newAggregator(Options{Mode: ModeDefault})
	addAll(agg, RawHeadline{Title: at}, RawHeadline{Title: below})
	if len(agg.clusters) != 2 {
		t.Errorf("overlap below threshold must not merge, got %d clusters", len(agg.clusters))
	}
}

func TestAggregatorStrictStemmingMerges(t *testing.T) {
	a := RawHeadline{Title: "AI tests leap ahead", Source: "A"}
	b := RawHeadline{Title: "AI testing leaps ahead", Source: "B"}

	strict := newAggregator(Options{Mode: ModeStrict})
	addAll(strict, a, b)
	if len(strict.clusters) != 1 {
		t.Errorf("strict mode should merge stem-equivalent titles, got %d clusters", len(strict.clusters))
	}

	def := newAggregator(Options{Mode: ModeDefault})
	addAll(def, a, b)
	if len(def.clusters) != 2 {
		t.Errorf("default mode should keep them separate, got %d clusters", len(def.clusters))
	}
}

func TestAggregatorStrictTitleSimilarityFallback(t *testing.T) {
	// Near-identical titles with disjoint-enough tokens still merge in
	// strict mode through the title-similarity check.
	a := RawHeadline{Title: "Centrifuge", URL: "https://a.example/1"}
	b := RawHeadline{Title: "Centrifuges", URL: "https://b.example/2"}

	strict := newAggregator(Options{Mode: ModeStrict})
	addAll(strict, a, b)
	if len(strict.clusters) != 1 {
		t.Errorf("strict title similarity should merge, got %d clusters", len(strict.clusters))
	}
}

func TestAggregatorExcludedURLs(t *testing.T) {
	agg := newAggregator(Options{
		Mode:         ModeDefault,
		ExcludedURLs: map[string]struct{}{"https://x.com/a": {}},
	})
	addAll(agg,
		RawHeadline{Title: "Suppressed story", URL: "https://x.com/a/"},
		RawHeadline{Title: "Kept story", URL: "https://x.com/b"},
	)

	if len(agg.clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(agg.clusters))
	}
	if agg.clusters[0].Primary.Title != "Kept story" {
		t.Errorf("excluded record leaked into clusters: %q", agg.clusters[0].Primary.Title)
	}
	if agg.dropped != 1 {
		t.Errorf("dropped = %d, want 1", agg.dropped)
	}
	for _, cl := range agg.clusters {
		for _, rel := range cl.Related {
			if rel.URL == "https://x.com/a/" {
				t.Errorf("excluded record appeared as related article")
			}
		}
	}
}

func TestAggregatorFirstFitNotBestFit(t *testing.T) {
	// The third record overlaps both earlier clusters; it must land in
	// the first one scanned, not the better match.
	agg := newAggregator(Options{Mode: ModeDefault})
	addAll(agg,
		RawHeadline{Title: "alpha bravo charlie delta echo"},
		RawHeadline{Title: "alpha bravo charlie lima mike november oscar papa quebec romeo"},
		RawHeadline{Title: "alpha bravo charlie delta lima"},
	)

	if len(agg.clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(agg.clusters))
	}
	if got := len(agg.clusters[0].Related); got != 1 {
		t.Errorf("first cluster related = %d, want 1 (first-fit)", got)
	}
	if got := len(agg.clusters[1].Related); got != 0 {
		t.Errorf("second cluster related = %d, want 0", got)
	}
}

func TestMergeBackfillsPrimary(t *testing.T) {
	agg := newAggregator(Options{Mode: ModeDefault})
	addAll(agg,
		RawHeadline{
			Title:       "Mars rover finds water",
			Description: "short",
			Keyword:     "space",
		},
		RawHeadline{
			Title:       "Mars rover finds water",
			Description: "a strictly longer description with detail",
			Keyword:     "mars",
			QueryUsed:   "mars rover water",
			SearchQuery: "rover discovery",
		},
	)

	if len(agg.clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(agg.clusters))
	}
	p := agg.clusters[0].Primary
	if p.Description != "a strictly longer description with detail" {
		t.Errorf("longer description should backfill, got %q", p.Description)
	}
	if p.Keyword != "space" {
		t.Errorf("populated keyword must never be overwritten, got %q", p.Keyword)
	}
	if p.QueryUsed != "mars rover water" || p.SearchQuery != "rover discovery" {
		t.Errorf("missing provenance not backfilled: %+v", p.RawHeadline)
	}
}

func TestMergeUnionsTokenSets(t *testing.T) {
	agg := newAggregator(Options{Mode: ModeDefault})
	addAll(agg,
		RawHeadline{Title: "alpha bravo charlie delta echo"},
		RawHeadline{Title: "alpha bravo charlie delta extraordinary"},
	)

	if len(agg.clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(agg.clusters))
	}
	if _, ok := agg.clusters[0].tokens["extraordinary"]; !ok {
		t.Errorf("cluster token set should cover all members")
	}
}
