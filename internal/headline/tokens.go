package headline

import (
	"regexp"
	"strings"
)

// maxTokens bounds the comparison set per record. First 64 win, in
// order of appearance (title first, then description), so the set is
// deterministic.
const maxTokens = 64

var urlInText = regexp.MustCompile(`https?://\S+`)

// stemSuffixes is checked longest-match-first. The list is deliberately
// short: under-stemming is preferred because over-merging distinct
// stories is the worse failure mode.
var stemSuffixes = []string{
	"ations", "ation", "ments", "ment", "izing", "ingly",
	"ing", "ers", "er", "ied", "ies", "ed", "ly", "es", "s",
}

// minStemLen guards against collapsing short words into noise.
const minStemLen = 3

// buildTokenSet converts a title+description pair into a bounded set of
// comparison tokens. In strict mode tokens as short as 2 characters are
// kept and every token also contributes its stemmed variants.
func buildTokenSet(title, description string, mode Mode) map[string]struct{} {
	minLen := 3
	if mode == ModeStrict {
		minLen = 2
	}

	// Lowercase first so uppercase-scheme URLs still match the strip.
	text := strings.ToLower(title + " " + description)
	text = urlInText.ReplaceAllString(text, " ")
	text = normalizeText(text)

	set := make(map[string]struct{})
	add := func(tok string) {
		if len(set) >= maxTokens {
			return
		}
		set[tok] = struct{}{}
	}

	for _, tok := range strings.Fields(text) {
		if len(tok) < minLen {
			continue
		}
		add(tok)
		if mode == ModeStrict {
			for _, v := range stemVariants(tok) {
				add(v)
			}
		}
		if len(set) >= maxTokens {
			break
		}
	}
	return set
}

// stemVariants returns the stemmed forms of a token, excluding the
// token itself. This is a crude suffix stripper, not a linguistic
// stemmer; its suffix list and ordering are fixed so merge behavior
// stays reproducible.
func stemVariants(tok string) []string {
	var out []string
	seen := map[string]struct{}{tok: {}}
	emit := func(v string) {
		if _, dup := seen[v]; dup || len(v) < minStemLen {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	base := tok
	for _, suf := range []string{"'s", "'re", "'d"} {
		if strings.HasSuffix(base, suf) {
			base = strings.TrimSuffix(base, suf)
			break
		}
	}
	if base != tok {
		emit(base)
	}

	// ies/ied collapse to y ("studies" -> "study", "flies" -> "fly").
	if strings.HasSuffix(base, "ies") || strings.HasSuffix(base, "ied") {
		emit(base[:len(base)-3] + "y")
	}

	for _, suf := range stemSuffixes {
		if !strings.HasSuffix(base, suf) {
			continue
		}
		stem := base[:len(base)-len(suf)]
		if len(stem) >= minStemLen {
			emit(stem)
		}
		break
	}
	return out
}
