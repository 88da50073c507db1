package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var feedPatterns = []string{
	"/feed",
	"/feed.xml",
	"/atom.xml",
	"/rss.xml",
	"/rss",
	"/index.xml",
	"/feed/atom",
	"/feed/rss",
}

const feedLinkSelector = `link[type="application/rss+xml"], link[type="application/atom+xml"]`

// DiscoverFeed finds the feed of a site, first from the page's alternate
// links and then by probing common feed paths.
func DiscoverFeed(ctx context.Context, siteURL string) (string, error) {
	client := &http.Client{Timeout: 10 * time.Second}

	if feedURL, ok := linkedFeed(ctx, client, siteURL); ok {
		return feedURL, nil
	}

	baseURL := strings.TrimSuffix(siteURL, "/")
	for _, pattern := range feedPatterns {
		feedURL := baseURL + pattern
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, feedURL, nil)
		if err != nil {
			continue
		}
		resp, err := client.Do(req)
		if err != nil {
			continue
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			return feedURL, nil
		}
	}

	return "", fmt.Errorf("could not discover feed for %s", siteURL)
}

func linkedFeed(ctx context.Context, client *http.Client, siteURL string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, siteURL, nil)
	if err != nil {
		return "", false
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", false
	}
	href, ok := doc.Find(feedLinkSelector).First().Attr("href")
	if !ok || href == "" {
		return "", false
	}
	ref, err := resp.Request.URL.Parse(href)
	if err != nil {
		return "", false
	}
	return ref.String(), true
}
