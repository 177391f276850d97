// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package records

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pdiddy/confcorpus/pkg/types"
)

func writeRecord(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const sampleRecord = `{
  "Title": "Deep Segmentation of Everything",
  "Author(s)": ["Alice Smith", "Bob Jones"],
  "Abstract": "We segment everything.",
  "PDF": "https://example.com/papers/0001.pdf",
  "BibTex": "@inproceedings{smith2024}",
  "Topics": ["Segmentation"],
  "Reviews": [],
  "Meta-review": [],
  "Author Feedback": "N/A",
  "Code Repository": "N/A",
  "Dataset": "N/A"
}`

func TestList(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "0002-Paper0088.json", sampleRecord)
	writeRecord(t, dir, "0001-Paper0042.json", sampleRecord)
	writeRecord(t, dir, "0003-Paper0099.json", `{"Title": truncated`)
	writeRecord(t, dir, "notes.txt", "not a record")
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}

	entries, skipped, err := List(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}

	// ReadDir yields name order, so enumeration is deterministic.
	if entries[0].PaperID != "0001-Paper0042" {
		t.Errorf("entries[0].PaperID = %q, want %q", entries[0].PaperID, "0001-Paper0042")
	}
	if entries[1].PaperID != "0002-Paper0088" {
		t.Errorf("entries[1].PaperID = %q, want %q", entries[1].PaperID, "0002-Paper0088")
	}
	if entries[0].Record.Title != "Deep Segmentation of Everything" {
		t.Errorf("Title = %q", entries[0].Record.Title)
	}
	if len(entries[0].Record.Authors) != 2 {
		t.Errorf("len(Authors) = %d, want 2", len(entries[0].Record.Authors))
	}
}

func TestListMissingDir(t *testing.T) {
	_, _, err := List(filepath.Join(t.TempDir(), "absent"), zerolog.Nop())
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestDocumentRefs(t *testing.T) {
	entries := []Entry{
		{PaperID: "0001-Paper0042", Record: types.PaperRecord{PDF: "https://example.com/a.pdf"}},
		{PaperID: "0002-Paper0088", Record: types.PaperRecord{PDF: ""}},
		{PaperID: "0003-Paper0099", Record: types.PaperRecord{PDF: "https://example.com/dl?id=9"}},
	}

	refs := DocumentRefs(entries, "/out")
	if len(refs) != 2 {
		t.Fatalf("len(refs) = %d, want 2", len(refs))
	}

	if refs[0].PaperID != "0001-Paper0042" {
		t.Errorf("refs[0].PaperID = %q", refs[0].PaperID)
	}
	if refs[0].Kind != types.ArtifactDocument {
		t.Errorf("refs[0].Kind = %q, want %q", refs[0].Kind, types.ArtifactDocument)
	}
	if refs[0].TargetPath != filepath.Join("/out", "0001-Paper0042.pdf") {
		t.Errorf("refs[0].TargetPath = %q", refs[0].TargetPath)
	}

	// URL without an extension falls back to .pdf.
	if refs[1].TargetPath != filepath.Join("/out", "0003-Paper0099.pdf") {
		t.Errorf("refs[1].TargetPath = %q", refs[1].TargetPath)
	}
}

func TestBundleRefs(t *testing.T) {
	entries := []Entry{
		{PaperID: "0001-Paper0042", Record: types.PaperRecord{Title: "A Title"}},
		{PaperID: "0002-Paper0088", Record: types.PaperRecord{Title: "   "}},
	}

	refs := BundleRefs(entries, "/out")
	if len(refs) != 1 {
		t.Fatalf("len(refs) = %d, want 1", len(refs))
	}
	if refs[0].Kind != types.ArtifactSource {
		t.Errorf("Kind = %q, want %q", refs[0].Kind, types.ArtifactSource)
	}
	if refs[0].Title != "A Title" {
		t.Errorf("Title = %q", refs[0].Title)
	}
	if refs[0].URL != "" {
		t.Errorf("URL = %q, want empty before resolution", refs[0].URL)
	}
	if refs[0].TargetPath != filepath.Join("/out", "0001-Paper0042.tar.gz") {
		t.Errorf("TargetPath = %q", refs[0].TargetPath)
	}
}

func TestDocumentExt(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"pdf", "https://example.com/papers/0001.pdf", ".pdf"},
		{"query string", "https://example.com/p.pdf?download=1", ".pdf"},
		{"fragment", "https://example.com/p.ps#page=2", ".ps"},
		{"no extension", "https://example.com/download/42", ".pdf"},
		{"trailing slash", "https://example.com/download/", ".pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := documentExt(tt.url); got != tt.want {
				t.Errorf("documentExt(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
