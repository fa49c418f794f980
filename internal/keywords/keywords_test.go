package keywords

import (
	"reflect"
	"testing"
)

func TestParseKeywords(t *testing.T) {
	raw := `- carbon credits
1. voluntary carbon market
"emissions trading"
- carbon credits

this line is far far far too long to be a useful search keyword so it gets dropped entirely ok
offset projects
compliance markets
extra keyword beyond the cap
`
	got := parseKeywords(raw)
	want := []string{
		"carbon credits",
		"voluntary carbon market",
		"emissions trading",
		"offset projects",
		"compliance markets",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseKeywords = %v, want %v", got, want)
	}
}

func TestParseKeywordsEmpty(t *testing.T) {
	if got := parseKeywords("\n\n  \n"); got != nil {
		t.Errorf("parseKeywords on blank input = %v, want nil", got)
	}
}

func TestFallbackKeywords(t *testing.T) {
	got := fallbackKeywords("mars exploration")
	if len(got) != 1 || got[0] != "mars exploration" {
		t.Errorf("fallbackKeywords = %v", got)
	}
}
