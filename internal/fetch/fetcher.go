// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/confcorpus/pkg/types"
)

// Fetcher downloads one artifact per call. The client's Timeout is the total
// budget for an attempt, connection through body read (R3.1). The Fetcher
// never retries: re-invoking the whole run is the retry policy, made cheap
// by the validity check (R3.2).
type Fetcher struct {
	Client    *http.Client
	UserAgent string
	Log       zerolog.Logger
}

// statusError reports a non-200 response. Kept as a type so outcomes can
// classify it apart from transport errors (R3.5).
type statusError struct {
	code int
	url  string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.code, e.url)
}

// Fetch checks the target, then performs at most one GET, returning exactly
// one outcome and logging one line for it (R5.1). A 200 streams the body to
// a scratch file in the target directory and renames it over the target, so
// a partially-written file is never observable at the target path (R3.3).
// Any other status, transport error, or timeout fails the reference without
// writing anything.
func (f *Fetcher) Fetch(ctx context.Context, ref types.ArtifactRef) types.Outcome {
	start := time.Now()

	if IsSatisfied(ref.TargetPath) {
		f.Log.Info().Str("paper_id", ref.PaperID).Str("path", ref.TargetPath).Msg("already satisfied, skipping")
		return types.Outcome{Ref: ref, Status: types.StatusSkipped, Elapsed: time.Since(start)}
	}

	if reason := checkURL(ref.URL); reason != "" {
		return f.fail(ref, types.FailBadReference, reason, start)
	}

	if err := os.MkdirAll(filepath.Dir(ref.TargetPath), 0o755); err != nil {
		return f.fail(ref, types.FailInternal, fmt.Sprintf("creating target directory: %v", err), start)
	}

	if err := f.download(ctx, ref.URL, ref.TargetPath); err != nil {
		kind := types.FailNetwork
		var se *statusError
		if errors.As(err, &se) {
			kind = types.FailHTTPStatus
		}
		return f.fail(ref, kind, err.Error(), start)
	}

	f.Log.Info().Str("paper_id", ref.PaperID).Str("url", ref.URL).Str("path", ref.TargetPath).Msg("downloaded")
	return types.Outcome{Ref: ref, Status: types.StatusDownloaded, Elapsed: time.Since(start)}
}

func (f *Fetcher) fail(ref types.ArtifactRef, kind types.FailureKind, reason string, start time.Time) types.Outcome {
	f.Log.Error().Str("paper_id", ref.PaperID).Str("kind", string(kind)).Str("reason", reason).Msg("fetch failed")
	return types.Outcome{
		Ref:      ref,
		Status:   types.StatusFailed,
		FailKind: kind,
		Reason:   reason,
		Elapsed:  time.Since(start),
	}
}

// checkURL validates that raw is an absolute http(s) URL (R3.4). Returns a
// reason string when it is not, empty when it is.
func checkURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Sprintf("invalid URL %q: %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Sprintf("URL %q is not absolute http(s)", raw)
	}
	if u.Host == "" {
		return fmt.Sprintf("URL %q has no host", raw)
	}
	return ""
}

// download fetches url to destPath via a scratch file (R3.3). The Accept
// header is left open because the same path serves PDFs and tar bundles.
func (f *Fetcher) download(ctx context.Context, rawURL, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &statusError{code: resp.StatusCode, url: rawURL}
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("reading response body: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
