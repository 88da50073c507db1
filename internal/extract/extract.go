// Package extract downloads web pages and PDF documents and reduces them to
// plain text.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
	"github.com/microcosm-cc/bluemonday"
	xhtml "golang.org/x/net/html"
)

const (
	defaultUserAgent = "presswatch/1.0"
	maxBodyBytes     = 10 * 1024 * 1024
	maxPDFPages      = 6
)

var strict = bluemonday.StrictPolicy()

// Page is a fetched document.
type Page struct {
	URL         *url.URL
	ContentType string
	Body        []byte
}

func (p *Page) IsPDF() bool {
	return strings.Contains(strings.ToLower(p.ContentType), "pdf") ||
		strings.HasSuffix(strings.ToLower(p.URL.Path), ".pdf")
}

type Extractor struct {
	client    *http.Client
	userAgent string
}

func New(timeout time.Duration, userAgent string) *Extractor {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Extractor{client: &http.Client{Timeout: timeout}, userAgent: userAgent}
}

// Fetch downloads rawURL. Non-2xx responses are errors.
func (e *Extractor) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	return &Page{
		URL:         resp.Request.URL,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// Extract fetches rawURL and returns its readable text.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (string, error) {
	page, err := e.Fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}
	return Text(page)
}

// Text returns the whitespace-collapsed text of a fetched page.
func Text(page *Page) (string, error) {
	if page.IsPDF() {
		return PDFText(page.Body, maxPDFPages)
	}
	return HTMLText(page.Body, page.URL)
}

// HTMLText prefers the <article> element, then <main>, then the main
// content found by readability, and finally the whole body. Scripts,
// styles and page chrome are dropped.
func HTMLText(body []byte, pageURL *url.URL) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find("script, style, nav, footer, header, form, noscript").Remove()

	for _, selector := range []string{"article", "main"} {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			return NodeText(sel), nil
		}
	}

	cleaned, err := doc.Html()
	if err != nil {
		return NodeText(doc.Find("body")), nil
	}
	if article, err := readability.FromReader(strings.NewReader(cleaned), pageURL); err == nil {
		var buf strings.Builder
		if err := article.RenderText(&buf); err == nil {
			if text := collapse(buf.String()); text != "" {
				return text, nil
			}
		}
	}

	return NodeText(doc.Find("body")), nil
}

// NodeText joins the text nodes under sel in document order, separated by
// spaces.
func NodeText(sel *goquery.Selection) string {
	var parts []string
	var walk func(n *xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return collapse(strings.Join(parts, " "))
}

// PDFText returns the text of the first maxPages pages. The pdf package
// panics on malformed documents; those panics are returned as errors.
func PDFText(body []byte, maxPages int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("failed to read PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var parts []string
	for i := 1; i <= min(r.NumPage(), maxPages); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		pageText, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		parts = append(parts, pageText)
	}
	return collapse(strings.Join(parts, " ")), nil
}

// PlainText strips all markup from an HTML fragment.
func PlainText(markup string) string {
	return collapse(html.UnescapeString(strict.Sanitize(markup)))
}

// FirstWords returns at most n words of text.
func FirstWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
