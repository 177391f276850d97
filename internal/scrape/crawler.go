// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scrape crawls a conference listing and writes one JSON record per
// paper page.
//
// Implements: prd001-crawl (R1-R4); docs/ARCHITECTURE § Crawl Stage.
package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/pdiddy/confcorpus/pkg/types"
)

// Crawler fetches the listing and paper pages of one conference edition.
// The Limiter paces page requests (R1.4); the listing fetch itself is not
// limited.
type Crawler struct {
	Client    *http.Client
	UserAgent string
	Limiter   *rate.Limiter
}

// Run crawls listingURL and writes a <slug>.json record per paper page into
// outDir, printing per-page status to w. Page-level failures are recorded in
// the manifest and do not stop the crawl (R4.1); only a listing that cannot
// be fetched or parsed is fatal (R4.2).
func (c *Crawler) Run(ctx context.Context, listingURL, outDir string, w io.Writer) (*Manifest, error) {
	links, err := c.ListPapers(ctx, listingURL)
	if err != nil {
		return nil, fmt.Errorf("fetching listing: %w", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating records directory %s: %w", outDir, err)
	}

	m := &Manifest{Listing: listingURL, Timestamp: time.Now(), Links: links}
	fmt.Fprintf(w, "Found %d paper pages\n", len(links))

	for _, link := range links {
		if err := c.Limiter.Wait(ctx); err != nil {
			return m, fmt.Errorf("crawl interrupted: %w", err)
		}

		slug := Slug(link)
		if err := c.crawlPage(ctx, link, filepath.Join(outDir, slug+".json")); err != nil {
			fmt.Fprintf(w, "failed: %s (%v)\n", slug, err)
			m.Failed++
			m.Failures = append(m.Failures, PageFailure{URL: link, Reason: err.Error()})
			continue
		}
		fmt.Fprintf(w, "saved: %s\n", slug)
		m.Saved++
	}

	fmt.Fprintf(w, "\nCrawl summary: %d saved, %d failed (total: %d)\n",
		m.Saved, m.Failed, m.Saved+m.Failed)
	return m, nil
}

// ListPapers fetches the listing page and returns the absolute paper page
// URLs it links (R1.1).
func (c *Crawler) ListPapers(ctx context.Context, listingURL string) ([]string, error) {
	doc, base, err := c.fetchDocument(ctx, listingURL)
	if err != nil {
		return nil, err
	}
	return ExtractListing(doc, base), nil
}

// ExtractListing returns the resolved URL of every anchor whose href contains
// "-Paper" (R1.2), the listing's paper-page link pattern.
func ExtractListing(doc *goquery.Document, base *url.URL) []string {
	var links []string
	doc.Find("a[href*='-Paper']").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return
		}
		u, err := url.Parse(href)
		if err != nil {
			return
		}
		links = append(links, base.ResolveReference(u).String())
	})
	return links
}

// Slug returns the corpus identity for a paper page URL: the final path
// segment without its .html extension (R3.1). Every later stage names
// artifacts by this slug.
func Slug(pageURL string) string {
	p := pageURL
	if u, err := url.Parse(pageURL); err == nil {
		p = u.Path
	}
	return strings.TrimSuffix(path.Base(p), ".html")
}

func (c *Crawler) crawlPage(ctx context.Context, pageURL, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, pageURL)
	}

	rec, err := ParsePaper(resp.Body)
	if err != nil {
		return err
	}
	return writeRecord(rec, destPath)
}

func (c *Crawler) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, *url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", pageURL, err)
	}
	// The final request URL resolves relative links correctly across
	// redirects.
	return doc, resp.Request.URL, nil
}

// writeRecord marshals rec as indented JSON (R3.2), matching the on-disk
// record format the download stages read back.
func writeRecord(rec *types.PaperRecord, destPath string) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	return os.WriteFile(destPath, append(data, '\n'), 0o644)
}
