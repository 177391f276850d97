// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bundle drives source-bundle retrieval: resolve a record's title to
// an arXiv e-print, fetch the tarball, and optionally unpack it into a
// per-paper directory.
//
// Implements: prd003-sources (R1-R5); docs/ARCHITECTURE § Source Bundles.
package bundle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pdiddy/confcorpus/internal/archive"
	"github.com/pdiddy/confcorpus/internal/fetch"
	"github.com/pdiddy/confcorpus/pkg/types"
)

// Resolver turns a cleaned paper title into a retrievable source URL.
// A miss is ("", nil), not an error.
type Resolver interface {
	ResolveSourceURL(ctx context.Context, title string) (string, error)
}

// Pipeline holds the collaborators for a source-bundle run. Work is safe for
// concurrent use: the Limiter paces resolver queries across all in-flight
// tasks (R2.5) while downloads themselves proceed in parallel.
type Pipeline struct {
	Resolver Resolver
	Limiter  *rate.Limiter
	Fetcher  *fetch.Fetcher
	Unpack   bool
	Log      zerolog.Logger
}

// Work processes one reference end to end and returns its outcome. A
// reference whose bundle is already on disk is skipped without touching the
// resolver (R1.3); when unpacking is enabled and the per-paper directory is
// missing, the bundle on disk is re-materialized first (R4.4). An
// unresolvable title fails the reference without escalating (R2.3); an
// extraction error fails it with the bundle retained for the next run
// (R4.3).
func (p *Pipeline) Work(ctx context.Context, ref types.ArtifactRef) types.Outcome {
	start := time.Now()

	if fetch.IsSatisfied(ref.TargetPath) {
		if p.Unpack && !archive.Materialized(sourcesDir(ref.TargetPath)) {
			if err := archive.Materialize(ref.TargetPath, sourcesDir(ref.TargetPath)); err != nil {
				return p.fail(ref, types.FailArchive, fmt.Sprintf("unpacking bundle: %v", err), start)
			}
			p.Log.Info().Str("paper_id", ref.PaperID).Str("path", ref.TargetPath).Msg("bundle present, sources re-materialized")
		} else {
			p.Log.Info().Str("paper_id", ref.PaperID).Str("path", ref.TargetPath).Msg("already satisfied, skipping")
		}
		return types.Outcome{Ref: ref, Status: types.StatusSkipped, Elapsed: time.Since(start)}
	}

	if err := p.Limiter.Wait(ctx); err != nil {
		return p.fail(ref, types.FailInternal, fmt.Sprintf("resolver pacing interrupted: %v", err), start)
	}

	srcURL, err := p.Resolver.ResolveSourceURL(ctx, CleanTitle(ref.Title))
	if err != nil {
		return p.fail(ref, types.FailNetwork, fmt.Sprintf("resolving title: %v", err), start)
	}
	if srcURL == "" {
		p.Log.Info().Str("paper_id", ref.PaperID).Str("title", ref.Title).Msg("no arXiv match")
		return types.Outcome{
			Ref:      ref,
			Status:   types.StatusFailed,
			FailKind: types.FailNoMatch,
			Reason:   "no arXiv match for title",
			Elapsed:  time.Since(start),
		}
	}

	resolved := ref
	resolved.URL = srcURL
	out := p.Fetcher.Fetch(ctx, resolved)
	if out.Status != types.StatusDownloaded || !p.Unpack {
		return out
	}

	if err := archive.Materialize(resolved.TargetPath, sourcesDir(resolved.TargetPath)); err != nil {
		// The bundle stays on disk; the next run repairs the unpack
		// without re-downloading (R4.3).
		return p.fail(resolved, types.FailArchive, fmt.Sprintf("unpacking bundle: %v", err), start)
	}
	out.Elapsed = time.Since(start)
	return out
}

func (p *Pipeline) fail(ref types.ArtifactRef, kind types.FailureKind, reason string, start time.Time) types.Outcome {
	p.Log.Error().Str("paper_id", ref.PaperID).Str("kind", string(kind)).Str("reason", reason).Msg("bundle failed")
	return types.Outcome{
		Ref:      ref,
		Status:   types.StatusFailed,
		FailKind: kind,
		Reason:   reason,
		Elapsed:  time.Since(start),
	}
}

// CleanTitle normalizes a record title for quoted-phrase matching: case
// folded, ':' and '-' replaced with spaces, whitespace runs collapsed
// (R2.2). arXiv treats those characters as phrase breaks, so scrubbing them
// up front makes the quoted query match the indexed title.
func CleanTitle(title string) string {
	t := strings.ToLower(title)
	t = strings.NewReplacer(":", " ", "-", " ").Replace(t)
	return strings.Join(strings.Fields(t), " ")
}

// sourcesDir maps a bundle path to its extraction directory
// (<dir>/<paperID>.tar.gz → <dir>/<paperID>).
func sourcesDir(bundlePath string) string {
	return strings.TrimSuffix(bundlePath, ".tar.gz")
}
