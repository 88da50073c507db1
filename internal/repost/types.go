// Package repost searches the web for republished copies of source
// documents and reports the ones similar enough to count as reposts.
package repost

import "context"

type SourceDocument struct {
	Title string
	URL   string
	Text  string
}

type SearchResult struct {
	Title   string
	URL     string
	Snippet string
}

// MatchBasis records which text a similarity was computed from.
type MatchBasis string

const (
	BasisFull    MatchBasis = "full"
	BasisSnippet MatchBasis = "snippet"
	BasisNone    MatchBasis = "none"
)

type Finding struct {
	SourceTitle  string
	SourceURL    string
	MatchedTitle string
	MatchedURL   string
	Snippet      string
	Similarity   float64
	Basis        MatchBasis
	TargetDomain bool
}

// SearchProvider runs one web search. Implementations pace their own calls.
type SearchProvider interface {
	Search(ctx context.Context, query string, max int) ([]SearchResult, error)
}

// TextExtractor fetches a page and returns its readable text.
type TextExtractor interface {
	Extract(ctx context.Context, url string) (string, error)
}
