package headline

// Duplicate thresholds. Strict mode merges more aggressively, for
// high-volume aggregation where missed merges cost more than false ones.
const (
	overlapThresholdDefault = 0.70
	overlapThresholdStrict  = 0.55
	titleSimilarityStrict   = 0.88
)

// sameStory reports whether a candidate represents the same story as a
// cluster. The predicate is a logical OR of five checks; ordering is
// short-circuit efficiency only. The overlap check runs against the
// cluster's merged token set, not just its primary's.
func (cl *Cluster) sameStory(cand *Candidate, mode Mode) bool {
	p := &cl.Primary
	if cand.NormalizedURL != "" && cand.NormalizedURL == p.NormalizedURL {
		return true
	}
	if cand.normTitle != "" && cand.normTitle == p.normTitle {
		return true
	}
	if cand.normDescription != "" && cand.normDescription == p.normDescription {
		return true
	}

	threshold := overlapThresholdDefault
	if mode == ModeStrict {
		threshold = overlapThresholdStrict
	}
	if overlapRatio(cand.tokens, cl.tokens) >= threshold {
		return true
	}

	if mode == ModeStrict && cand.normTitle != "" && p.normTitle != "" &&
		jaroWinkler(cand.normTitle, p.normTitle) >= titleSimilarityStrict {
		return true
	}
	return false
}
