package report

import (
	"sort"
	"time"

	"github.com/julienpequegnot/presswatch/internal/article"
	"github.com/julienpequegnot/presswatch/internal/config"
	"github.com/julienpequegnot/presswatch/internal/match"
)

// Trend is how often a profile keyword appeared in stored articles.
type Trend struct {
	Keyword string
	Profile string
	Count   int
	Recent  int
	Score   float64
}

// KeywordTrends counts the profile keywords found in the items and ranks
// them, weighting articles from the last days days twice and boosting
// keywords seen close to ref. A keyword listed by several profiles is
// credited to the first. Ties are broken alphabetically.
func KeywordTrends(items []article.Item, profiles []config.Profile, ref time.Time, days, limit int) []Trend {
	owner := make(map[string]string)
	var phrases []string
	for _, p := range profiles {
		for _, k := range p.Keywords {
			f := match.Fold(k)
			if _, ok := owner[f]; ok || f == "" {
				continue
			}
			owner[f] = p.Name
			phrases = append(phrases, k)
		}
	}
	m := match.NewMatcher(phrases)
	if m.Empty() {
		return nil
	}

	cutoff := ref.AddDate(0, 0, -days)
	byKeyword := make(map[string]*Trend)
	latest := make(map[string]time.Time)

	for _, it := range items {
		for _, k := range m.Matches(it.Title + " " + it.Summary) {
			t, ok := byKeyword[k]
			if !ok {
				t = &Trend{Keyword: k, Profile: owner[k]}
				byKeyword[k] = t
			}
			t.Count++
			if it.PublishedAt.After(cutoff) {
				t.Recent++
			}
			if it.PublishedAt.After(latest[k]) {
				latest[k] = it.PublishedAt
			}
		}
	}

	trends := make([]Trend, 0, len(byKeyword))
	for k, t := range byKeyword {
		boost := 1.0
		if days > 0 && !latest[k].IsZero() {
			since := ref.Sub(latest[k]).Hours() / 24
			if since < float64(days) {
				boost = 1.0 + (float64(days)-max(since, 0))/float64(days)
			}
		}
		t.Score = (float64(t.Recent)*2 + float64(t.Count)) * boost
		trends = append(trends, *t)
	}

	sort.Slice(trends, func(i, j int) bool {
		if trends[i].Score != trends[j].Score {
			return trends[i].Score > trends[j].Score
		}
		return trends[i].Keyword < trends[j].Keyword
	})

	if limit > 0 && len(trends) > limit {
		trends = trends[:limit]
	}
	return trends
}
