package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/pdiddy/confcorpus/internal/scrape"
	"github.com/pdiddy/confcorpus/pkg/types"
)

const (
	defaultPageTimeout = 60 * time.Second
	defaultCrawlDelay  = 1 * time.Second
)

var crawlCmd = &cobra.Command{
	Use:   "crawl [listing-url]",
	Short: "Crawl a conference listing into per-paper JSON records",
	Long: `Crawl fetches a conference listing page, follows every paper-page link it
finds, and writes one JSON metadata record per page into the records
directory. Page fetches are paced; a page that fails to fetch or parse is
recorded in the crawl manifest and does not stop the crawl.`,
	RunE: runCrawl,
}

func init() {
	crawlCmd.Flags().String("records-dir", "data/records", "directory for per-paper JSON records")
	crawlCmd.Flags().String("manifest", "", "crawl manifest path (default <records-dir>/manifest.yaml)")
	crawlCmd.Flags().Duration("timeout", 0, "HTTP request timeout per page (default 60s)")
	crawlCmd.Flags().Duration("delay", 0, "delay between consecutive page fetches (default 1s)")

	rootCmd.AddCommand(crawlCmd)
}

func runCrawl(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide the conference listing URL")
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultPageTimeout
	}
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultCrawlDelay
	}
	recordsDir, _ := cmd.Flags().GetString("records-dir")
	manifestPath, _ := cmd.Flags().GetString("manifest")
	if manifestPath == "" {
		manifestPath = filepath.Join(recordsDir, "manifest.yaml")
	}

	cfg := types.CrawlConfig{
		HTTPConfig:   types.HTTPConfig{Timeout: timeout, UserAgent: userAgent()},
		ListingURL:   args[0],
		RecordsDir:   recordsDir,
		PageDelay:    delay,
		ManifestPath: manifestPath,
	}

	c := &scrape.Crawler{
		Client:    &http.Client{Timeout: cfg.Timeout},
		UserAgent: cfg.UserAgent,
		Limiter:   rate.NewLimiter(rate.Every(cfg.PageDelay), 1),
	}

	m, err := c.Run(cmd.Context(), cfg.ListingURL, cfg.RecordsDir, os.Stdout)
	if err != nil {
		return err
	}
	return scrape.WriteManifest(cfg.ManifestPath, m)
}
