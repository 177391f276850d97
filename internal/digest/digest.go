// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package digest flattens the record store into a single text file of
// title/abstract/topics blocks, for skimming a year's corpus or feeding it
// to search tooling.
//
// Implements: prd004-digest (R1-R2); docs/ARCHITECTURE § Digest.
package digest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/confcorpus/internal/records"
	"github.com/pdiddy/confcorpus/pkg/types"
)

var separator = strings.Repeat("=", 80)

// Write renders every record in recordsDir as a digest block into outPath and
// returns how many records it wrote. Malformed records are skipped, same as
// everywhere else the store is read (R1.2). Human status goes to w.
func Write(recordsDir, outPath string, w io.Writer) (int, error) {
	entries, skipped, err := records.List(recordsDir, zerolog.Nop())
	if err != nil {
		return 0, err
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("creating digest directory: %w", err)
		}
	}
	out, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("creating digest file: %w", err)
	}

	bw := bufio.NewWriter(out)
	for _, e := range entries {
		writeBlock(bw, e.Record)
	}

	if err := bw.Flush(); err != nil {
		out.Close()
		return 0, fmt.Errorf("writing digest: %w", err)
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("closing digest: %w", err)
	}

	if skipped > 0 {
		fmt.Fprintf(w, "skipped %d malformed records\n", skipped)
	}
	fmt.Fprintf(w, "Wrote digest of %d records to %s\n", len(entries), outPath)
	return len(entries), nil
}

// writeBlock emits one record's digest block (R2.1). Empty fields get
// placeholder text so a block is always three labeled lines.
func writeBlock(w *bufio.Writer, rec types.PaperRecord) {
	title := rec.Title
	if title == "" {
		title = "No Title"
	}
	abstract := rec.Abstract
	if abstract == "" {
		abstract = "No Abstract"
	}
	topics := strings.Join(rec.Topics, "; ")
	if topics == "" {
		topics = "No Topics"
	}

	fmt.Fprintf(w, "Title: %s\n", title)
	fmt.Fprintf(w, "Abstract: %s\n", abstract)
	fmt.Fprintf(w, "Topics: %s\n", topics)
	fmt.Fprintf(w, "\n%s\n\n", separator)
}
