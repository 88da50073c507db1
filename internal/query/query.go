// Package query builds ranked web search queries for finding reposts of a
// source document.
package query

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	introWords        = 16
	minPhraseWords    = 7
	sentenceCount     = 3
	minKeywordRunes   = 4
	defaultWindow     = 120
	defaultTopKeyword = 8
)

var wordRegex = regexp.MustCompile(`\p{L}+`)

// DefaultStopwords are common Croatian function words ignored when picking
// keywords.
var DefaultStopwords = []string{
	"i", "u", "na", "za", "se", "je", "su", "od", "do", "da", "s", "sa", "o",
	"kao", "koji", "što", "kako", "će", "ćeš", "sam", "si", "smo", "ste",
	"biti", "bila", "bio", "bilo", "te", "ali", "ili", "pa", "dok", "no", "ne",
	"nije", "nisu", "može", "mogu", "njih", "njihov", "ova", "ovaj", "ovo", "tu",
	"tamo", "više", "manje",
}

type Synthesizer struct {
	attribution   string
	targetDomains []string
	window        int
	stopwords     map[string]bool
}

type Options struct {
	// AttributionTag is appended as a second quoted phrase to title and
	// sentence queries, typically the author's name.
	AttributionTag string
	TargetDomains  []string
	// KeywordWindow limits keyword extraction to the first N body words.
	KeywordWindow int
	Stopwords     []string
}

func NewSynthesizer(opts Options) *Synthesizer {
	window := opts.KeywordWindow
	if window <= 0 {
		window = defaultWindow
	}
	words := opts.Stopwords
	if len(words) == 0 {
		words = DefaultStopwords
	}
	stop := make(map[string]bool, len(words))
	for _, w := range words {
		stop[strings.ToLower(w)] = true
	}
	return &Synthesizer{
		attribution:   strings.TrimSpace(opts.AttributionTag),
		targetDomains: opts.TargetDomains,
		window:        window,
		stopwords:     stop,
	}
}

// Build returns the queries for a document, most specific first and
// without duplicates. Site-scoped variants of every query follow the
// unscoped ones.
func (s *Synthesizer) Build(title, body string) []string {
	var queries []string

	if t := strings.TrimSpace(strings.ReplaceAll(title, "\n", " ")); t != "" {
		queries = append(queries, s.attributed(t)...)
	}

	words := strings.Fields(body)
	if len(words) > 0 {
		intro := words[:min(introWords, len(words))]
		if len(intro) >= minPhraseWords {
			queries = append(queries, quote(strings.Join(intro, " ")))
		}
	}

	keywords := s.Keywords(body, defaultTopKeyword)
	if len(keywords) >= 3 {
		queries = append(queries, quote(strings.Join(keywords[:3], " ")))
	}
	if len(keywords) >= 4 {
		queries = append(queries, quote(strings.Join(keywords[:4], " ")))
	}

	sentences := strings.Split(body, ".")
	for _, sent := range sentences[:min(sentenceCount, len(sentences))] {
		sent = strings.TrimSpace(sent)
		if len(strings.Fields(sent)) >= minPhraseWords {
			queries = append(queries, s.attributed(sent)...)
		}
	}

	scoped := make([]string, 0, len(queries)*len(s.targetDomains))
	for _, domain := range s.targetDomains {
		for _, q := range queries {
			scoped = append(scoped, "site:"+domain+" "+q)
		}
	}

	return unique(append(queries, scoped...))
}

// Keywords returns up to n of the most frequent non-stopword words longer
// than three letters among the first window words of body. Ties keep the
// order in which words first appear.
func (s *Synthesizer) Keywords(body string, n int) []string {
	words := wordRegex.FindAllString(strings.ToLower(body), -1)
	if len(words) > s.window {
		words = words[:s.window]
	}

	counts := make(map[string]int)
	var order []string
	for _, w := range words {
		if s.stopwords[w] || utf8.RuneCountInString(w) < minKeywordRunes {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > n {
		order = order[:n]
	}
	return order
}

func (s *Synthesizer) attributed(phrase string) []string {
	if s.attribution == "" {
		return []string{quote(phrase)}
	}
	return []string{quote(phrase) + " " + quote(s.attribution), quote(phrase)}
}

func quote(s string) string {
	return `"` + s + `"`
}

func unique(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, q := range in {
		if seen[q] {
			continue
		}
		seen[q] = true
		out = append(out, q)
	}
	return out
}
