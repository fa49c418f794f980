package headline

import "github.com/google/uuid"

// aggregator folds an incoming stream of raw records into a growing
// list of clusters. Linear first-fit scan in arrival order: upstream
// collaborators cap candidate volume at a few hundred records per run,
// so no index structure is needed at this scale.
type aggregator struct {
	mode     Mode
	excluded map[string]struct{}
	clusters []*Cluster
	dropped  int
	merged   int
}

func newAggregator(opts Options) *aggregator {
	mode := opts.Mode
	if mode != ModeStrict {
		mode = ModeDefault
	}
	return &aggregator{mode: mode, excluded: opts.ExcludedURLs}
}

// add processes one raw record: suppress if excluded, merge into the
// first matching cluster, or open a new cluster with this record as
// primary.
func (a *aggregator) add(r RawHeadline) {
	cand := newCandidate(r, a.mode)

	if cand.NormalizedURL != "" {
		if _, drop := a.excluded[cand.NormalizedURL]; drop {
			a.dropped++
			return
		}
	}

	for _, cl := range a.clusters {
		if cl.sameStory(&cand, a.mode) {
			cl.merge(cand)
			a.merged++
			return
		}
	}

	cl := &Cluster{
		ID:      uuid.NewString(),
		Primary: cand,
		tokens:  make(map[string]struct{}, len(cand.tokens)),
		arrival: len(a.clusters),
	}
	for tok := range cand.tokens {
		cl.tokens[tok] = struct{}{}
	}
	a.clusters = append(a.clusters, cl)
}

// merge appends a duplicate as a related article and enriches the
// primary. The primary is never replaced; it only gains a strictly
// longer description or provenance fields it was missing. Populated
// fields are never overwritten.
func (cl *Cluster) merge(cand Candidate) {
	cl.Related = append(cl.Related, RelatedArticle{
		Title:       cand.Title,
		Description: cand.Description,
		URL:         cand.URL,
		Source:      cand.Source,
		PublishedAt: cand.PublishedAt,
	})
	for tok := range cand.tokens {
		cl.tokens[tok] = struct{}{}
	}

	p := &cl.Primary
	if len(cand.Description) > len(p.Description) {
		p.Description = cand.Description
		p.normDescription = cand.normDescription
	}
	if p.Keyword == "" && cand.Keyword != "" {
		p.Keyword = cand.Keyword
	}
	if p.QueryUsed == "" && cand.QueryUsed != "" {
		p.QueryUsed = cand.QueryUsed
	}
	if p.SearchQuery == "" && cand.SearchQuery != "" {
		p.SearchQuery = cand.SearchQuery
	}
}
