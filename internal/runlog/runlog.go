// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runlog configures the append-only run log shared by the pipeline
// stages: one line-oriented JSON entry per attempt, tagged with a run ID so
// entries from successive runs can be told apart in the same file.
// Implements: prd002-documents R5.1;
//
//	docs/ARCHITECTURE § Observability.
package runlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns a logger appending to path, tagged with a fresh run ID.
// An empty path yields a disabled logger and a no-op closer. The file is
// opened append-only so re-runs interleave instead of truncating history.
func Open(path string) (zerolog.Logger, io.Closer, error) {
	if path == "" {
		return zerolog.Nop(), nopCloser{}, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("creating run log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("opening run log %s: %w", path, err)
	}

	log := zerolog.New(f).With().
		Timestamp().
		Str("run_id", uuid.NewString()).
		Logger()
	return log, f, nil
}
