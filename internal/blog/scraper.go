// Package blog turns a blog index page (or a single page or PDF) into the
// source documents checked for reposts.
package blog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"

	"github.com/julienpequegnot/presswatch/internal/extract"
	"github.com/julienpequegnot/presswatch/internal/repost"
)

const (
	minSinglePageWords = 80
	minPostWords       = 40
)

// Paths that lead back to the blog itself rather than to a post.
var rootPaths = map[string]bool{"": true, "/hr": true, "/hr/blog": true, "/blog": true}

type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*extract.Page, error)
}

type Scraper struct {
	fetcher Fetcher
	logger  *log.Logger
}

func NewScraper(fetcher Fetcher, logger *log.Logger) *Scraper {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Scraper{fetcher: fetcher, logger: logger}
}

type link struct {
	title string
	url   string
}

// Documents returns the posts reachable from indexURL. A PDF becomes a
// single document. A page without a blog listing but with enough text is
// treated as one post. Otherwise the listed posts (or, failing that, the
// site's internal links) are fetched and kept when they carry enough text.
// If nothing qualifies the index page itself is returned.
func (s *Scraper) Documents(ctx context.Context, indexURL string) ([]repost.SourceDocument, error) {
	page, err := s.fetcher.Fetch(ctx, indexURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", indexURL, err)
	}

	if page.IsPDF() {
		text, err := extract.Text(page)
		if err != nil || text == "" {
			return nil, nil
		}
		title := path.Base(page.URL.Path)
		if title == "" || title == "/" || title == "." {
			title = "Dokument"
		}
		return []repost.SourceDocument{{Title: title, URL: indexURL, Text: text}}, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", indexURL, err)
	}
	pageTitle := strings.TrimSpace(doc.Find("title").First().Text())
	if pageTitle == "" {
		pageTitle = indexURL
	}
	pageText, _ := extract.Text(page)

	blogList := doc.Find(".blog-list")
	if blogList.Length() == 0 && len(strings.Fields(pageText)) >= minSinglePageWords {
		return []repost.SourceDocument{{Title: pageTitle, URL: indexURL, Text: pageText}}, nil
	}

	links := listedLinks(blogList, page.URL)
	if len(links) == 0 {
		links = internalLinks(doc, page.URL)
	}

	var docs []repost.SourceDocument
	for _, l := range links {
		if ctx.Err() != nil {
			break
		}
		p, err := s.fetcher.Fetch(ctx, l.url)
		if err != nil {
			s.logger.Debug("skipping post", "url", l.url, "err", err)
			continue
		}
		text, err := extract.Text(p)
		if err != nil || len(strings.Fields(text)) < minPostWords {
			continue
		}
		docs = append(docs, repost.SourceDocument{Title: l.title, URL: l.url, Text: text})
	}

	if len(docs) == 0 && pageText != "" {
		docs = append(docs, repost.SourceDocument{Title: pageTitle, URL: indexURL, Text: pageText})
	}
	return docs, nil
}

func listedLinks(list *goquery.Selection, base *url.URL) []link {
	var links []link
	seen := make(map[string]bool)
	list.Find("a.blog-list-title").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		title := strings.TrimSpace(a.Text())
		if href == "" || title == "" {
			return
		}
		ref, err := base.Parse(href)
		if err != nil || seen[ref.String()] {
			return
		}
		seen[ref.String()] = true
		links = append(links, link{title: title, url: ref.String()})
	})
	return links
}

// internalLinks collects same-site links with anchor text, skipping links
// back to the blog roots.
func internalLinks(doc *goquery.Document, base *url.URL) []link {
	var links []link
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		title := strings.TrimSpace(a.Text())
		if title == "" || !strings.HasPrefix(href, "/") || strings.HasPrefix(href, "//") {
			return
		}
		if rootPaths[strings.TrimRight(href, "/")] {
			return
		}
		ref, err := base.Parse(href)
		if err != nil || seen[ref.String()] {
			return
		}
		seen[ref.String()] = true
		links = append(links, link{title: title, url: ref.String()})
	})
	return links
}
