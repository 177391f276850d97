// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/pdiddy/confcorpus/internal/arxiv"
	"github.com/pdiddy/confcorpus/internal/bundle"
	"github.com/pdiddy/confcorpus/internal/fetch"
	"github.com/pdiddy/confcorpus/internal/records"
	"github.com/pdiddy/confcorpus/internal/runlog"
	"github.com/pdiddy/confcorpus/pkg/types"
)

const defaultResolverDelay = 3 * time.Second

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Fetch arXiv source bundles for every record",
	Long: `Bundle resolves each record's title against the arXiv API, downloads the
matching e-print source archive as <paperID>.tar.gz, and with --unpack
extracts it into a per-paper directory. Resolver queries are paced to one
every few seconds across all workers; the downloads themselves run
concurrently.

Titles without an arXiv match are tallied as failures but do not stop the
run. The command exits non-zero only when the record store itself cannot
be read.`,
	RunE: runBundle,
}

func init() {
	bundleCmd.Flags().String("records-dir", "data/records", "directory of per-paper JSON records")
	bundleCmd.Flags().String("out-dir", "data/sources", "directory for source bundles")
	bundleCmd.Flags().Int("concurrency", 0, "maximum concurrent downloads (default 10)")
	bundleCmd.Flags().Duration("timeout", 0, "per-download budget, connect through body read (default 300s)")
	bundleCmd.Flags().Duration("resolver-delay", 0, "minimum gap between arXiv queries (default 3s)")
	bundleCmd.Flags().Bool("unpack", false, "extract each bundle into a per-paper directory")
	bundleCmd.Flags().String("run-log", "", "append a JSON line per attempt to this file")
	bundleCmd.Flags().Bool("no-progress", false, "disable the progress display")

	rootCmd.AddCommand(bundleCmd)
}

func runBundle(cmd *cobra.Command, args []string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultFetchTimeout
	}
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	if concurrency == 0 {
		concurrency = defaultConcurrency
	}
	resolverDelay, _ := cmd.Flags().GetDuration("resolver-delay")
	if resolverDelay == 0 {
		resolverDelay = defaultResolverDelay
	}
	recordsDir, _ := cmd.Flags().GetString("records-dir")
	outDir, _ := cmd.Flags().GetString("out-dir")
	unpack, _ := cmd.Flags().GetBool("unpack")
	runLogPath, _ := cmd.Flags().GetString("run-log")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	cfg := types.BundleConfig{
		DownloadConfig: types.DownloadConfig{
			HTTPConfig:  types.HTTPConfig{Timeout: timeout, UserAgent: userAgent()},
			RecordsDir:  recordsDir,
			OutputDir:   outDir,
			Concurrency: concurrency,
			LogFile:     runLogPath,
			NoProgress:  noProgress,
		},
		ResolverDelay: resolverDelay,
		Unpack:        unpack,
	}

	log, closer, err := runlog.Open(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closer.Close()

	entries, skipped, err := records.List(cfg.RecordsDir, log)
	if err != nil {
		return err
	}
	if skipped > 0 {
		fmt.Fprintf(os.Stderr, "Skipped %d unreadable or malformed records\n", skipped)
	}
	refs := records.BundleRefs(entries, cfg.OutputDir)
	fmt.Printf("Found %d source bundles to fetch\n", len(refs))

	client := &http.Client{Timeout: cfg.Timeout}
	p := &bundle.Pipeline{
		Resolver: &arxiv.Client{HTTP: client, UserAgent: cfg.UserAgent},
		Limiter:  rate.NewLimiter(rate.Every(cfg.ResolverDelay), 1),
		Fetcher:  &fetch.Fetcher{Client: client, UserAgent: cfg.UserAgent, Log: log},
		Unpack:   cfg.Unpack,
		Log:      log,
	}

	progressW := io.Writer(os.Stderr)
	if cfg.NoProgress {
		progressW = io.Discard
	}
	progress := fetch.NewProgress(len(refs), "bundles", progressW)

	summary := fetch.Run(cmd.Context(), refs, cfg.Concurrency, p.Work, progress.Observe)
	progress.Finish()
	fetch.PrintSummary(summary, os.Stdout)
	return nil
}
