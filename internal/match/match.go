// Package match implements case-insensitive phrase matching over item text.
//
// Phrases are matched as raw substrings of the folded text, not as whole
// words: "co2" matches inside "co2e" and "taxes" inside "taxesonomy". Scores
// stored in the archive depend on this, so it must not be tightened silently.
package match

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
	"golang.org/x/text/unicode/norm"
)

// Fold normalizes s to NFC and lower-cases it so that composed and
// decomposed diacritics compare equal.
func Fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

// Count returns the number of non-overlapping occurrences of phrase in text.
// An empty phrase never matches.
func Count(text, phrase string) int {
	p := Fold(phrase)
	if p == "" {
		return 0
	}
	return strings.Count(Fold(text), p)
}

func Contains(text, phrase string) bool {
	p := Fold(phrase)
	if p == "" {
		return false
	}
	return strings.Contains(Fold(text), p)
}

// ParseList splits a comma separated phrase list, trimming blanks and
// dropping empty entries. Repeats are kept.
func ParseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Matcher answers whether any of a fixed set of phrases occurs in a text.
type Matcher struct {
	phrases []string
	ac      *ahocorasick.Matcher
}

func NewMatcher(phrases []string) *Matcher {
	folded := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if f := Fold(p); strings.TrimSpace(f) != "" {
			folded = append(folded, f)
		}
	}
	m := &Matcher{phrases: folded}
	if len(folded) > 0 {
		m.ac = ahocorasick.NewStringMatcher(folded)
	}
	return m
}

func (m *Matcher) Empty() bool {
	return len(m.phrases) == 0
}

// AnyIn reports whether any phrase occurs in any of the given texts.
func (m *Matcher) AnyIn(texts ...string) bool {
	if m.ac == nil {
		return false
	}
	for _, t := range texts {
		if m.ac.Contains([]byte(Fold(t))) {
			return true
		}
	}
	return false
}

// Matches returns the distinct phrases found in text, in phrase order.
func (m *Matcher) Matches(text string) []string {
	if m.ac == nil {
		return nil
	}
	hits := m.ac.Match([]byte(Fold(text)))
	if len(hits) == 0 {
		return nil
	}
	found := make(map[int]bool, len(hits))
	for _, i := range hits {
		found[i] = true
	}
	var out []string
	for i, p := range m.phrases {
		if found[i] {
			out = append(out, p)
		}
	}
	return out
}
