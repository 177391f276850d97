package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/confcorpus/internal/fetch"
	"github.com/pdiddy/confcorpus/internal/records"
	"github.com/pdiddy/confcorpus/internal/runlog"
	"github.com/pdiddy/confcorpus/pkg/types"
)

const (
	defaultConcurrency  = 10
	defaultFetchTimeout = 300 * time.Second
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the PDF document for every record",
	Long: `Fetch reads the record store, derives one document reference per record
that carries a PDF link, and downloads the missing ones concurrently.
Documents already on disk at a plausible size are skipped, so re-running
after an interruption only fetches what is still missing.

Individual download failures are tallied, not fatal: the command exits
non-zero only when the record store itself cannot be read.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("records-dir", "data/records", "directory of per-paper JSON records")
	fetchCmd.Flags().String("out-dir", "data/pdf", "directory for downloaded documents")
	fetchCmd.Flags().Int("concurrency", 0, "maximum concurrent downloads (default 10)")
	fetchCmd.Flags().Duration("timeout", 0, "per-download budget, connect through body read (default 300s)")
	fetchCmd.Flags().String("run-log", "", "append a JSON line per attempt to this file")
	fetchCmd.Flags().Bool("no-progress", false, "disable the progress display")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultFetchTimeout
	}
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	if concurrency == 0 {
		concurrency = defaultConcurrency
	}
	recordsDir, _ := cmd.Flags().GetString("records-dir")
	outDir, _ := cmd.Flags().GetString("out-dir")
	runLogPath, _ := cmd.Flags().GetString("run-log")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	cfg := types.DownloadConfig{
		HTTPConfig:  types.HTTPConfig{Timeout: timeout, UserAgent: userAgent()},
		RecordsDir:  recordsDir,
		OutputDir:   outDir,
		Concurrency: concurrency,
		LogFile:     runLogPath,
		NoProgress:  noProgress,
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
	refs := records.DocumentRefs(entries, cfg.OutputDir)
	fmt.Printf("Found %d documents to fetch\n", len(refs))

	f := &fetch.Fetcher{
		Client:    &http.Client{Timeout: cfg.Timeout},
		UserAgent: cfg.UserAgent,
		Log:       log,
	}

	progressW := io.Writer(os.Stderr)
	if cfg.NoProgress {
		progressW = io.Discard
	}
	progress := fetch.NewProgress(len(refs), "documents", progressW)

	summary := fetch.Run(cmd.Context(), refs, cfg.Concurrency, f.Fetch, progress.Observe)
	progress.Finish()
	fetch.PrintSummary(summary, os.Stdout)
	return nil
}
