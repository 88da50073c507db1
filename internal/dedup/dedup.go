// Package dedup canonicalizes links and drops repeated items.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
	"sync"

	"github.com/julienpequegnot/presswatch/internal/article"
	"github.com/julienpequegnot/presswatch/internal/match"
)

const fingerprintPrefix = "fp:"

// CanonicalURL lower-cases the host, drops the fragment and strips a
// trailing slash from the path; an empty path becomes "/". Input that does
// not parse as an absolute URL is returned trimmed.
func CanonicalURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" {
		return trimmed
	}

	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""

	u.Path = strings.TrimSuffix(u.Path, "/")
	if u.Path == "" {
		u.Path = "/"
	}
	u.RawPath = ""

	return u.String()
}

// Fingerprint identifies an item without a link by its title and source.
func Fingerprint(title, source string) string {
	norm := strings.Join(strings.Fields(match.Fold(title)), " ")
	sum := sha256.Sum256([]byte(norm + "\x00" + strings.TrimSpace(source)))
	return hex.EncodeToString(sum[:])
}

// Key is the identity used for deduplication: the canonical link, or a
// title/source fingerprint when the link is missing.
func Key(it article.Item) string {
	if c := CanonicalURL(it.Link); c != "" {
		return c
	}
	return fingerprintPrefix + Fingerprint(it.Title, it.Source)
}

// Set is a concurrency-safe set of seen keys.
type Set struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewSet() *Set {
	return &Set{seen: make(map[string]struct{})}
}

// Add records key and reports whether it was not seen before.
func (s *Set) Add(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

func (s *Set) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[key]
	return ok
}

func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

// Deduplicator merges batches into a running collection, keeping the first
// occurrence of every key.
type Deduplicator struct {
	seen *Set
}

func New() *Deduplicator {
	return &Deduplicator{seen: NewSet()}
}

// Seed marks already collected items (or stored keys) as seen.
func (d *Deduplicator) Seed(items []article.Item) {
	for _, it := range items {
		d.seen.Add(Key(it))
	}
}

func (d *Deduplicator) SeedKeys(keys []string) {
	for _, k := range keys {
		d.seen.Add(k)
	}
}

// Merge returns the items of batch whose key has not been seen yet, in
// order, and records them.
func (d *Deduplicator) Merge(batch []article.Item) []article.Item {
	out := make([]article.Item, 0, len(batch))
	for _, it := range batch {
		if d.seen.Add(Key(it)) {
			out = append(out, it)
		}
	}
	return out
}

// Dedup appends the unseen items of incoming to existing.
func Dedup(existing, incoming []article.Item) []article.Item {
	d := New()
	merged := d.Merge(existing)
	return append(merged, d.Merge(incoming)...)
}
