// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxiv resolves paper titles to arXiv identifiers and builds the
// e-print URLs used to retrieve source bundles.
//
// Implements: prd003-sources (R2); docs/ARCHITECTURE § Source Bundles.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/confcorpus/internal/httputil"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// arxivEPrintBase is the arXiv source bundle endpoint, also overridable
// in tests.
var arxivEPrintBase = "https://export.arxiv.org/e-print"

// Client queries the arXiv API (R2.1). Throttled responses are retried
// through httputil.DoWithRetry; arXiv signals throttling with 503 and a
// Retry-After header.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	// MaxRetries caps throttle retries per query. Zero means the
	// httputil default.
	MaxRetries int
}

// FindByTitle searches arXiv for a title and returns the identifier of the
// best match with any version suffix stripped (R2.2). A query that matches
// nothing is not an error: the identifier is "" (R2.3).
func (c *Client) FindByTitle(ctx context.Context, title string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", fmt.Errorf("empty title")
	}

	params := url.Values{}
	params.Set("search_query", `ti:"`+title+`"`)
	params.Set("start", "0")
	params.Set("max_results", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return "", fmt.Errorf("parsing arXiv response: %w", err)
	}

	if len(feed.Entries) == 0 {
		return "", nil
	}
	return extractArxivID(feed.Entries[0].ID), nil
}

// EPrintURL returns the source bundle URL for an arXiv identifier (R2.4).
func EPrintURL(id string) string {
	return arxivEPrintBase + "/" + id
}

// ResolveSourceURL combines FindByTitle and EPrintURL: it returns the
// e-print URL for the best title match, or "" when nothing matched.
func (c *Client) ResolveSourceURL(ctx context.Context, title string) (string, error) {
	id, err := c.FindByTitle(ctx, title)
	if err != nil || id == "" {
		return "", err
	}
	return EPrintURL(id), nil
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID    string `xml:"id"`
	Title string `xml:"title"`
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
