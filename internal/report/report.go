// Package report groups scored articles by topic profile and renders them
// as an HTML digest or a CSV export.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julienpequegnot/presswatch/internal/article"
	"github.com/julienpequegnot/presswatch/internal/config"
	"github.com/julienpequegnot/presswatch/internal/match"
)

// OtherBucket collects articles that match no profile.
const OtherBucket = "Ostalo"

// Policy decides how an article matching several profiles is bucketed.
type Policy string

const (
	// PolicyAll places the article under every matching profile.
	PolicyAll Policy = "all"
	// PolicyFirst places it under the first matching profile only.
	PolicyFirst Policy = "first"
)

func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyAll:
		return PolicyAll, nil
	case PolicyFirst:
		return PolicyFirst, nil
	}
	return "", fmt.Errorf("unknown bucket policy %q (want all or first)", s)
}

type Bucket struct {
	Name  string
	Items []article.Item
}

type Report struct {
	From     time.Time
	To       time.Time
	Profiles []string
	Keywords []string
	Buckets  []Bucket
	// SummaryWords truncates summaries in the HTML digest; 0 keeps them whole.
	SummaryWords int
}

// New buckets items by profile. Buckets keep profile order with the
// catch-all bucket last; items keep their input order within a bucket.
func New(items []article.Item, profiles []config.Profile, policy Policy, from, to time.Time) *Report {
	r := &Report{From: from, To: to}

	var keywords []string
	matchers := make([]*match.Matcher, len(profiles))
	buckets := make([]Bucket, len(profiles)+1)
	for i, p := range profiles {
		r.Profiles = append(r.Profiles, p.Name)
		keywords = append(keywords, p.Keywords...)
		matchers[i] = match.NewMatcher(p.Keywords)
		buckets[i].Name = p.Name
	}
	buckets[len(profiles)].Name = OtherBucket
	r.Keywords = sortedUnique(keywords)

	for _, it := range items {
		text := it.Title + " " + it.Summary
		placed := false
		for i, m := range matchers {
			if !m.AnyIn(text) {
				continue
			}
			buckets[i].Items = append(buckets[i].Items, it)
			placed = true
			if policy == PolicyFirst {
				break
			}
		}
		if !placed {
			buckets[len(profiles)].Items = append(buckets[len(profiles)].Items, it)
		}
	}

	r.Buckets = buckets
	return r
}

// Total counts bucket entries; under PolicyAll an article may count more
// than once.
func (r *Report) Total() int {
	n := 0
	for _, b := range r.Buckets {
		n += len(b.Items)
	}
	return n
}

func (r *Report) Subject() string {
	return fmt.Sprintf("Dnevni pregled vijesti %s do %s", r.From.Format("2006-01-02"), r.To.Format("2006-01-02"))
}

func sortedUnique(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
