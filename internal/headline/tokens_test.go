package headline

import (
	"fmt"
	"strings"
	"testing"
)

func TestBuildTokenSetMinLength(t *testing.T) {
	title := "AI is up on EU tech"

	def := buildTokenSet(title, "", ModeDefault)
	if _, ok := def["ai"]; ok {
		t.Errorf("default mode should drop 2-char tokens, got %v", def)
	}
	if _, ok := def["tech"]; !ok {
		t.Errorf("default mode lost a valid token, got %v", def)
	}

	strict := buildTokenSet(title, "", ModeStrict)
	if _, ok := strict["ai"]; !ok {
		t.Errorf("strict mode should keep 2-char tokens, got %v", strict)
	}
}

func TestBuildTokenSetStripsURLs(t *testing.T) {
	set := buildTokenSet("Read this https://example.com/big-story now", "", ModeDefault)
	for _, bad := range []string{"https", "example", "com"} {
		if _, ok := set[bad]; ok {
			t.Errorf("URL leaked into token set: %q in %v", bad, set)
		}
	}
	if _, ok := set["read"]; !ok {
		t.Errorf("surrounding words should survive URL stripping, got %v", set)
	}
}

func TestBuildTokenSetStripsUppercaseURLs(t *testing.T) {
	set := buildTokenSet("Read this HTTPS://EXAMPLE.COM/BIG-STORY now", "", ModeDefault)
	for _, bad := range []string{"https", "example", "com", "big", "story"} {
		if _, ok := set[bad]; ok {
			t.Errorf("uppercase URL leaked into token set: %q in %v", bad, set)
		}
	}
	for _, want := range []string{"read", "this", "now"} {
		if _, ok := set[want]; !ok {
			t.Errorf("surrounding words should survive URL stripping, got %v", set)
		}
	}
}

func TestBuildTokenSetCap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&b, "token%03d ", i)
	}
	set := buildTokenSet(b.String(), "", ModeDefault)
	if len(set) != maxTokens {
		t.Errorf("token set size = %d, want %d", len(set), maxTokens)
	}
	// First-64 wins: earliest tokens must be present, the tail dropped.
	if _, ok := set["token000"]; !ok {
		t.Errorf("first token missing from capped set")
	}
	if _, ok := set["token099"]; ok {
		t.Errorf("token past the cap should have been dropped")
	}
}

func TestStemVariants(t *testing.T) {
	tests := []struct {
		tok  string
		want []string
	}{
		{"testing", []string{"test"}},
		{"tests", []string{"test"}},
		{"leaps", []string{"leap"}},
		{"flies", []string{"fly"}},
		{"studies", []string{"study", "stud"}},
		{"payments", []string{"pay"}},
		{"creations", []string{"cre"}},
		{"ahead", nil}, // no matching suffix
		{"ed", nil},    // stem would be too short
	}
	for _, tt := range tests {
		got := stemVariants(tt.tok)
		if len(got) != len(tt.want) {
			t.Errorf("stemVariants(%q) = %v, want %v", tt.tok, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("stemVariants(%q) = %v, want %v", tt.tok, got, tt.want)
				break
			}
		}
	}
}

func TestStemVariantsOnlyInStrictMode(t *testing.T) {
	def := buildTokenSet("testing leaps", "", ModeDefault)
	if _, ok := def["test"]; ok {
		t.Errorf("default mode must not stem, got %v", def)
	}
	strict := buildTokenSet("testing leaps", "", ModeStrict)
	for _, want := range []string{"testing", "test", "leaps", "leap"} {
		if _, ok := strict[want]; !ok {
			t.Errorf("strict set missing %q: %v", want, strict)
		}
	}
}
