package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/julienpequegnot/presswatch/internal/article"
	"github.com/julienpequegnot/presswatch/internal/extract"
	"github.com/julienpequegnot/presswatch/internal/repost"
)

// SummaryWords caps summaries built from page and PDF sources.
const SummaryWords = 80

type Fetcher struct {
	parser  *gofeed.Parser
	timeout time.Duration
	now     func() time.Time
}

func NewFetcher(timeout time.Duration) *Fetcher {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	return &Fetcher{
		parser:  parser,
		timeout: timeout,
		now:     time.Now,
	}
}

// FetchFeed parses an RSS or Atom feed into items attributed to source.
// Entries without a publication date fall back to their update date and
// then to the fetch time.
func (f *Fetcher) FetchFeed(ctx context.Context, source, feedURL string) ([]article.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	parsed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	fetchedAt := f.now()
	items := make([]article.Item, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		item := article.Item{
			Title:     strings.TrimSpace(entry.Title),
			Link:      strings.TrimSpace(entry.Link),
			Source:    source,
			FetchedAt: fetchedAt,
		}

		if entry.PublishedParsed != nil {
			item.PublishedAt = *entry.PublishedParsed
		} else if entry.UpdatedParsed != nil {
			item.PublishedAt = *entry.UpdatedParsed
		} else {
			item.PublishedAt = fetchedAt
		}

		if entry.Description != "" {
			item.Summary = extract.PlainText(entry.Description)
		} else {
			item.Summary = extract.PlainText(entry.Content)
		}

		items = append(items, item)
	}

	return items, nil
}

// ItemsFromDocuments turns scraped page or PDF documents into items dated
// at fetch time.
func (f *Fetcher) ItemsFromDocuments(source string, docs []repost.SourceDocument) []article.Item {
	fetchedAt := f.now()
	items := make([]article.Item, 0, len(docs))
	for _, d := range docs {
		items = append(items, article.Item{
			Title:       d.Title,
			Summary:     extract.FirstWords(d.Text, SummaryWords),
			Link:        d.URL,
			Source:      source,
			PublishedAt: fetchedAt,
			FetchedAt:   fetchedAt,
		})
	}
	return items
}
