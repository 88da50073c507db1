package finding

import (
	"net/url"
	"sort"
	"strings"
)

// Outlet is a site that republished at least one source document.
type Outlet struct {
	Domain string
	Count  int
}

// Outlets groups findings by the host of the matched page, without a
// leading "www.", most frequent first. Hosts in known are skipped.
func Outlets(stored []Stored, known map[string]bool) []Outlet {
	counts := make(map[string]int)
	for _, s := range stored {
		host := Host(s.MatchedURL)
		if host == "" || known[host] {
			continue
		}
		counts[host]++
	}

	outlets := make([]Outlet, 0, len(counts))
	for d, n := range counts {
		outlets = append(outlets, Outlet{Domain: d, Count: n})
	}
	sort.Slice(outlets, func(i, j int) bool {
		if outlets[i].Count != outlets[j].Count {
			return outlets[i].Count > outlets[j].Count
		}
		return outlets[i].Domain < outlets[j].Domain
	})
	return outlets
}

// Host returns the lower-cased host of rawURL without "www.", or "" when
// it has none.
func Host(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
