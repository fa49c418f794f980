package headline

// overlapRatio measures shared vocabulary between two token sets as
// |intersection| / |smaller set|. Dividing by the smaller set lets a
// short, token-sparse title still be fully covered by overlap with a
// longer one. Returns 0 if either set is empty.
func overlapRatio(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	inter := 0
	for tok := range small {
		if _, ok := large[tok]; ok {
			inter++
		}
	}
	return float64(inter) / float64(len(small))
}

// jaroWinkler computes Jaro similarity with the Winkler common-prefix
// boost (up to 4 characters, scaling factor 0.1). Returns 1 for
// identical strings and 0 when nothing matches.
func jaroWinkler(s1, s2 string) float64 {
	j := jaro(s1, s2)
	if j == 0 {
		return 0
	}
	prefix := 0
	for prefix < len(s1) && prefix < len(s2) && prefix < 4 && s1[prefix] == s2[prefix] {
		prefix++
	}
	return j + 0.1*float64(prefix)*(1-j)
}

func jaro(s1, s2 string) float64 {
	if s1 == s2 {
		return 1
	}
	la, lb := len(s1), len(s2)
	if la == 0 || lb == 0 {
		return 0
	}

	window := la
	if lb > window {
		window = lb
	}
	window = window/2 - 1
	if window < 0 {
		window = 0
	}

	matched1 := make([]bool, la)
	matched2 := make([]bool, lb)
	matches := 0
	for i := 0; i < la; i++ {
		lo := i - window
		if lo < 0 {
			lo = 0
		}
		hi := i + window + 1
		if hi > lb {
			hi = lb
		}
		for j := lo; j < hi; j++ {
			if matched2[j] || s1[i] != s2[j] {
				continue
			}
			matched1[i] = true
			matched2[j] = true
			matches++
			break
		}
	}
	if matches == 0 {
		return 0
	}

	// Transpositions are counted over the matched characters only.
	transpositions := 0
	k := 0
	for i := 0; i < la; i++ {
		if !matched1[i] {
			continue
		}
		for !matched2[k] {
			k++
		}
		if s1[i] != s2[k] {
			transpositions++
		}
		k++
	}

	m := float64(matches)
	t := float64(transpositions) / 2
	return (m/float64(la) + m/float64(lb) + (m-t)/m) / 3
}
