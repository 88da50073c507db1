package match

import (
	"testing"
)

func TestCountIsCaseInsensitive(t *testing.T) {
	if got := Count("PDV i pdv i Pdv", "pdv"); got != 3 {
		t.Errorf("expected 3 hits, got %d", got)
	}
}

func TestCountNonOverlapping(t *testing.T) {
	if got := Count("aaaa", "aa"); got != 2 {
		t.Errorf("expected 2 non-overlapping hits, got %d", got)
	}
}

// Phrases match as raw substrings, not whole words.
func TestCountMatchesInsideWords(t *testing.T) {
	if got := Count("Taxesonomy of taxes", "taxes"); got != 2 {
		t.Errorf("expected substring match inside word, got %d", got)
	}
	if !Contains("emisije co2e rastu", "CO2") {
		t.Error("expected co2 to match inside co2e")
	}
}

func TestCountEmptyPhrase(t *testing.T) {
	if got := Count("anything", ""); got != 0 {
		t.Errorf("expected empty phrase to count 0, got %d", got)
	}
	if Contains("anything", "") {
		t.Error("empty phrase should not match")
	}
}

func TestFoldNormalizesDiacritics(t *testing.T) {
	decomposed := "C\u030cakovec"
	if !Contains(decomposed, "čakovec") {
		t.Error("expected decomposed and composed forms to match")
	}
}

func TestParseList(t *testing.T) {
	got := ParseList(" sport, nogomet ,, rukomet,sport ")
	want := []string{"sport", "nogomet", "rukomet", "sport"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestMatcherAnyIn(t *testing.T) {
	m := NewMatcher([]string{"Sport", "nogomet"})

	if !m.AnyIn("Vlada", "Rezultati NOGOMET utakmica") {
		t.Error("expected match in second field")
	}
	if m.AnyIn("Porezna reforma", "Vlada najavljuje promjene") {
		t.Error("expected no match")
	}
}

func TestMatcherEmpty(t *testing.T) {
	m := NewMatcher([]string{"", " "})
	if m.AnyIn("anything") {
		t.Error("empty matcher should never match")
	}
	if m.Matches("anything") != nil {
		t.Error("empty matcher should return no matches")
	}
}

func TestMatcherMatches(t *testing.T) {
	m := NewMatcher([]string{"pdv", "porezna reforma", "co2"})
	got := m.Matches("Porezna reforma mijenja PDV, pa opet pdv")
	if len(got) != 2 || got[0] != "pdv" || got[1] != "porezna reforma" {
		t.Errorf("unexpected matches %v", got)
	}
}
