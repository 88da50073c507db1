package repost

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/julienpequegnot/presswatch/internal/dedup"
	"github.com/julienpequegnot/presswatch/internal/query"
	"github.com/julienpequegnot/presswatch/internal/scorer"
)

type Options struct {
	Threshold          float64
	TargetDiscount     float64
	ThresholdFloor     float64
	SnippetMargin      float64
	MaxQueriesPerPost  int
	ShortPostQueries   int
	ShortPostWords     int
	MaxResultsPerQuery int
	MinCandidateWords  int
	Concurrency        int
	TargetDomains      []string
	ExcludedDomains    []string
}

func DefaultOptions() Options {
	return Options{
		Threshold:          0.6,
		TargetDiscount:     0.15,
		ThresholdFloor:     0.05,
		SnippetMargin:      0.05,
		MaxQueriesPerPost:  25,
		ShortPostQueries:   12,
		ShortPostWords:     200,
		MaxResultsPerQuery: 15,
		MinCandidateWords:  30,
		Concurrency:        4,
	}
}

type Detector struct {
	search    SearchProvider
	extractor TextExtractor
	queries   *query.Synthesizer
	opts      Options
	logger    *log.Logger
}

func NewDetector(search SearchProvider, extractor TextExtractor, queries *query.Synthesizer, opts Options, logger *log.Logger) *Detector {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Detector{
		search:    search,
		extractor: extractor,
		queries:   queries,
		opts:      opts,
		logger:    logger,
	}
}

// Detect searches for reposts of every document. Findings come back grouped
// by document in input order, each group in the order it was discovered.
// A URL is only ever considered for the first document, in input order,
// whose searches returned it. Search and extraction failures only cost the
// affected candidate. When ctx is cancelled the findings gathered so far
// are returned.
func (d *Detector) Detect(ctx context.Context, docs []SourceDocument) []Finding {
	perDoc := make([][]candidate, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Concurrency)

	for i, doc := range docs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			perDoc[i] = d.detectDocument(ctx, doc)
			return nil
		})
	}
	_ = g.Wait()

	// Documents run concurrently, so the shared seen set is applied
	// afterwards in input order.
	seen := dedup.NewSet()
	var findings []Finding
	for i, cands := range perDoc {
		kept := 0
		for _, c := range cands {
			if !seen.Add(c.key) || !c.accepted {
				continue
			}
			findings = append(findings, c.finding)
			kept++
		}
		if kept > 0 {
			d.logger.Info("reposts found", "document", docs[i].Title, "count", kept)
		}
	}
	return findings
}

// candidate is one distinct search result evaluated for a document.
type candidate struct {
	key      string
	finding  Finding
	accepted bool
}

func (d *Detector) detectDocument(ctx context.Context, doc SourceDocument) []candidate {
	queries := d.queries.Build(doc.Title, doc.Text)
	if limit := d.queryLimit(doc.Text); len(queries) > limit {
		queries = queries[:limit]
	}

	d.logger.Debug("searching for reposts", "document", doc.Title, "queries", len(queries))

	seen := dedup.NewSet()
	var cands []candidate
	for _, q := range queries {
		if ctx.Err() != nil {
			break
		}
		results, err := d.search.Search(ctx, q, d.opts.MaxResultsPerQuery)
		if err != nil {
			d.logger.Debug("search failed", "query", q, "err", err)
			continue
		}
		for _, r := range results {
			if ctx.Err() != nil {
				break
			}
			key, host, ok := d.candidateKey(r)
			if !ok || !seen.Add(key) {
				continue
			}
			f, accepted := d.evaluate(ctx, doc, r, host)
			cands = append(cands, candidate{key: key, finding: f, accepted: accepted})
		}
	}
	return cands
}

func (d *Detector) queryLimit(text string) int {
	limit := d.opts.MaxQueriesPerPost
	if len(strings.Fields(text)) < d.opts.ShortPostWords {
		limit = min(limit, d.opts.ShortPostQueries)
	}
	return limit
}

// candidateKey returns the canonical URL and host of a usable search
// result. Results without an http(s) URL and results on excluded domains
// are unusable.
func (d *Detector) candidateKey(r SearchResult) (string, string, bool) {
	u, err := url.Parse(strings.TrimSpace(r.URL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", "", false
	}
	host := strings.ToLower(u.Hostname())
	if containsAny(host, d.opts.ExcludedDomains) {
		return "", "", false
	}
	return dedup.CanonicalURL(r.URL), host, true
}

// evaluate decides whether one search result is a repost of doc.
func (d *Detector) evaluate(ctx context.Context, doc SourceDocument, r SearchResult, host string) (Finding, bool) {
	target := containsAny(host, d.opts.TargetDomains)

	text, basis := d.evidence(ctx, r)
	if basis == BasisNone {
		return Finding{}, false
	}

	sim := scorer.Similarity(doc.Text, text)
	if !target && sim < d.threshold(target, basis) {
		return Finding{}, false
	}
	if target {
		d.logger.Debug("target domain match", "url", r.URL, "similarity", sim)
	}

	return Finding{
		SourceTitle:  doc.Title,
		SourceURL:    doc.URL,
		MatchedTitle: r.Title,
		MatchedURL:   r.URL,
		Snippet:      r.Snippet,
		Similarity:   sim,
		Basis:        basis,
		TargetDomain: target,
	}, true
}

// evidence returns the candidate text to compare against: the extracted
// page when it is long enough, else the search title and snippet.
func (d *Detector) evidence(ctx context.Context, r SearchResult) (string, MatchBasis) {
	text, err := d.extractor.Extract(ctx, r.URL)
	if err != nil {
		d.logger.Debug("extraction failed", "url", r.URL, "err", err)
	} else if len(strings.Fields(text)) >= d.opts.MinCandidateWords {
		return text, BasisFull
	}

	fallback := strings.TrimSpace(strings.TrimSpace(r.Title) + " " + strings.TrimSpace(r.Snippet))
	if fallback == "" {
		return "", BasisNone
	}
	return fallback, BasisSnippet
}

// threshold is the similarity a candidate must reach to be accepted.
func (d *Detector) threshold(target bool, basis MatchBasis) float64 {
	t := d.opts.Threshold
	if target {
		t = max(t-d.opts.TargetDiscount, d.opts.ThresholdFloor)
	}
	if basis == BasisSnippet {
		t += d.opts.SnippetMargin
	}
	return t
}

func containsAny(host string, domains []string) bool {
	for _, dom := range domains {
		dom = strings.ToLower(strings.TrimSpace(dom))
		if dom != "" && strings.Contains(host, dom) {
			return true
		}
	}
	return false
}
