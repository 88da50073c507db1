// Package websearch queries the Serper Google search API.
package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/time/rate"

	"github.com/julienpequegnot/presswatch/internal/repost"
)

const (
	DefaultEndpoint = "https://google.serper.dev/search"
	maxSnippetWords = 60
)

type Client struct {
	apiKey   string
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
	policy   *bluemonday.Policy
}

type searchRequest struct {
	Query string `json:"q"`
	Num   int    `json:"num"`
}

type searchResponse struct {
	Organic []organicResult `json:"organic"`
}

type organicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// NewClient returns a client that waits at least minInterval between calls.
func NewClient(apiKey, endpoint string, minInterval, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	return &Client{
		apiKey:   apiKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(limit, 1),
		policy:   bluemonday.StrictPolicy(),
	}
}

func (c *Client) Available() bool {
	return c.apiKey != ""
}

func (c *Client) Search(ctx context.Context, query string, max int) ([]repost.SearchResult, error) {
	if !c.Available() {
		return nil, fmt.Errorf("search: SERPER_API_KEY is not set")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("search: rate limiter: %w", err)
	}

	body, err := json.Marshal(searchRequest{Query: query, Num: max})
	if err != nil {
		return nil, fmt.Errorf("search: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("search: create request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("search: decode response: %w", err)
	}

	results := make([]repost.SearchResult, 0, len(decoded.Organic))
	for _, o := range decoded.Organic {
		if o.Link == "" {
			continue
		}
		results = append(results, repost.SearchResult{
			Title:   c.clean(o.Title, 0),
			URL:     o.Link,
			Snippet: c.clean(o.Snippet, maxSnippetWords),
		})
		if max > 0 && len(results) == max {
			break
		}
	}
	return results, nil
}

// clean strips markup, collapses whitespace and keeps at most limit words.
func (c *Client) clean(s string, limit int) string {
	words := strings.Fields(html.UnescapeString(c.policy.Sanitize(s)))
	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}
	return strings.Join(words, " ")
}
