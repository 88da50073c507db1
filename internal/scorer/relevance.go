package scorer

import (
	"sort"
	"strings"
	"time"

	"github.com/julienpequegnot/presswatch/internal/article"
	"github.com/julienpequegnot/presswatch/internal/match"
)

// Per-group weights for hits in the title and in the summary.
var (
	mustHaveWeights = weights{title: 5, summary: 3}
	baseWeights     = weights{title: 3, summary: 2}
	niceWeights     = weights{title: 2, summary: 1}
)

const maxRecencyBonus = 5

type weights struct {
	title   int
	summary int
}

// Criteria holds the phrase sets an item is judged against.
// Phrases may repeat; every repeat is counted again.
type Criteria struct {
	MustHave     []string
	NiceToHave   []string
	BaseKeywords []string
	Exclude      []string
}

// Empty reports whether no phrase could ever make an item relevant.
func (c Criteria) Empty() bool {
	c = c.withoutBlanks()
	return len(c.MustHave) == 0 && len(c.NiceToHave) == 0 && len(c.BaseKeywords) == 0
}

// withoutBlanks drops empty and whitespace-only phrases, keeping repeats.
func (c Criteria) withoutBlanks() Criteria {
	return Criteria{
		MustHave:     nonBlank(c.MustHave),
		NiceToHave:   nonBlank(c.NiceToHave),
		BaseKeywords: nonBlank(c.BaseKeywords),
		Exclude:      nonBlank(c.Exclude),
	}
}

func nonBlank(phrases []string) []string {
	var out []string
	for _, p := range phrases {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

type RelevanceScorer struct {
	criteria Criteria
	exclude  *match.Matcher
}

// NewRelevanceScorer ignores blank phrases in every group.
func NewRelevanceScorer(c Criteria) *RelevanceScorer {
	c = c.withoutBlanks()
	return &RelevanceScorer{
		criteria: c,
		exclude:  match.NewMatcher(c.Exclude),
	}
}

// Score rates an item against the criteria relative to ref. The boolean is
// false when the item is rejected; a kept item always scores at least 1.
func (s *RelevanceScorer) Score(item article.Item, ref time.Time) (int, bool) {
	title, summary := item.Title, item.Summary

	if s.exclude.AnyIn(title, summary) {
		return 0, false
	}

	for _, w := range s.criteria.MustHave {
		if !match.Contains(title, w) && !match.Contains(summary, w) {
			return 0, false
		}
	}

	score := 0
	score += accumulate(title, summary, s.criteria.MustHave, mustHaveWeights)

	baseScore, baseHit := accumulateHits(title, summary, s.criteria.BaseKeywords, baseWeights)
	score += baseScore

	niceScore, niceHit := accumulateHits(title, summary, s.criteria.NiceToHave, niceWeights)
	score += niceScore

	if len(s.criteria.MustHave) == 0 && !baseHit && !niceHit {
		return 0, false
	}

	score += RecencyBonus(item.PublishedAt, ref)

	if score <= 0 {
		return 0, false
	}
	return score, true
}

// Filter scores every item, drops the rejected ones and returns the rest
// ranked. The input slice is not modified.
func (s *RelevanceScorer) Filter(items []article.Item, ref time.Time) []article.Item {
	kept := make([]article.Item, 0, len(items))
	for _, it := range items {
		score, ok := s.Score(it, ref)
		if !ok {
			continue
		}
		it.Score = &score
		kept = append(kept, it)
	}
	Rank(kept)
	return kept
}

// RecencyBonus decays linearly from 5 on the reference day to 0 after five
// days. Future-dated items get the full bonus; a zero publication time
// counts as infinitely old.
func RecencyBonus(published, ref time.Time) int {
	if published.IsZero() {
		return 0
	}
	age := daysBetween(published, ref)
	if age < 0 {
		age = 0
	}
	return max(0, maxRecencyBonus-age)
}

// daysBetween counts calendar days from published to ref, in ref's location.
func daysBetween(published, ref time.Time) int {
	loc := ref.Location()
	p := published.In(loc)
	pd := time.Date(p.Year(), p.Month(), p.Day(), 0, 0, 0, 0, time.UTC)
	rd := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	return int(rd.Sub(pd).Hours() / 24)
}

// Rank orders items by score, then publication time, both descending.
func Rank(items []article.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		si, sj := items[i].ScoreValue(), items[j].ScoreValue()
		if si != sj {
			return si > sj
		}
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
}

func accumulate(title, summary string, phrases []string, w weights) int {
	score, _ := accumulateHits(title, summary, phrases, w)
	return score
}

func accumulateHits(title, summary string, phrases []string, w weights) (int, bool) {
	score := 0
	hit := false
	for _, p := range phrases {
		ht := match.Count(title, p)
		hs := match.Count(summary, p)
		if ht > 0 || hs > 0 {
			hit = true
		}
		score += ht*w.title + hs*w.summary
	}
	return score, hit
}
