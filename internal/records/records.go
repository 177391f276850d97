// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package records reads the per-paper JSON metadata store and derives the
// artifact references the download stages fetch.
// Implements: prd002-documents (R1); prd003-sources (R1);
//
//	docs/ARCHITECTURE § Record Store.
package records

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/confcorpus/pkg/types"
)

// Entry pairs a parsed record with the paper ID taken from its filename.
// The ID is fixed here, at enumeration, and carried through everything
// downstream (R1.3).
type Entry struct {
	PaperID string
	Path    string
	Record  types.PaperRecord
}

// List enumerates *.json records in dir in name order. Unreadable or
// malformed files are logged and skipped; they contribute nothing to any
// later reference count (R1.4). Only a failure to read the directory itself
// is an error; enumeration has no partial-success mode.
func List(dir string, log zerolog.Logger) (entries []Entry, skipped int, err error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, fmt.Errorf("reading records directory %s: %w", dir, err)
	}

	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		p := filepath.Join(dir, de.Name())

		data, readErr := os.ReadFile(p)
		if readErr != nil {
			log.Error().Str("path", p).Err(readErr).Msg("skipping unreadable record")
			skipped++
			continue
		}

		var rec types.PaperRecord
		if jsonErr := json.Unmarshal(data, &rec); jsonErr != nil {
			log.Error().Str("path", p).Err(jsonErr).Msg("skipping malformed record")
			skipped++
			continue
		}

		entries = append(entries, Entry{
			PaperID: strings.TrimSuffix(de.Name(), ".json"),
			Path:    p,
			Record:  rec,
		})
	}
	return entries, skipped, nil
}

// DocumentRefs returns one document reference per entry carrying a PDF link.
// Entries without one yield no reference (R1.5). Targets are named by paper
// ID with the extension of the referenced URL, ".pdf" when the URL has none.
func DocumentRefs(entries []Entry, outDir string) []types.ArtifactRef {
	var refs []types.ArtifactRef
	for _, e := range entries {
		url := strings.TrimSpace(e.Record.PDF)
		if url == "" {
			continue
		}
		refs = append(refs, types.ArtifactRef{
			PaperID:    e.PaperID,
			Kind:       types.ArtifactDocument,
			URL:        url,
			TargetPath: filepath.Join(outDir, e.PaperID+documentExt(url)),
		})
	}
	return refs
}

// BundleRefs returns one source-bundle reference per entry carrying a title.
// The URL stays empty for the identifier resolver to fill (prd003-sources R2.1).
func BundleRefs(entries []Entry, outDir string) []types.ArtifactRef {
	var refs []types.ArtifactRef
	for _, e := range entries {
		title := strings.TrimSpace(e.Record.Title)
		if title == "" {
			continue
		}
		refs = append(refs, types.ArtifactRef{
			PaperID:    e.PaperID,
			Kind:       types.ArtifactSource,
			Title:      title,
			TargetPath: filepath.Join(outDir, e.PaperID+".tar.gz"),
		})
	}
	return refs
}

// documentExt returns the extension of the URL's last path segment, ".pdf"
// when it has none. Query and fragment are not part of the segment.
func documentExt(rawURL string) string {
	trimmed := rawURL
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	if ext := path.Ext(path.Base(trimmed)); ext != "" {
		return ext
	}
	return ".pdf"
}
