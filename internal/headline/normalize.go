package headline

import (
	"net/url"
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeURL canonicalizes a URL for equality comparison:
// scheme://host/path, lowercased, trailing slashes stripped. Malformed
// input is expected from low-quality feeds, so this never fails; it
// falls back to a naive lowercase-and-trim of the raw string.
func NormalizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return strings.TrimRight(strings.ToLower(s), "/")
	}
	out := u.Scheme + "://" + u.Host + u.Path
	return strings.TrimRight(strings.ToLower(out), "/")
}

// normalizeText lowercases and collapses every non-alphanumeric run to
// a single space.
func normalizeText(s string) string {
	s = strings.ToLower(s)
	s = nonAlnum.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// newCandidate derives the comparison fields for one raw record.
func newCandidate(r RawHeadline, mode Mode) Candidate {
	return Candidate{
		RawHeadline:     r,
		NormalizedURL:   NormalizeURL(r.URL),
		normTitle:       normalizeText(r.Title),
		normDescription: normalizeText(r.Description),
		tokens:          buildTokenSet(r.Title, r.Description, mode),
	}
}
