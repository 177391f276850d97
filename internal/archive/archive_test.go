// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type bundleEntry struct {
	name     string
	typeflag byte
	body     string
	linkname string
}

func regular(name, body string) bundleEntry {
	return bundleEntry{name: name, typeflag: tar.TypeReg, body: body}
}

// makeBundle writes a .tar.gz containing the given entries and returns its path.
func makeBundle(t *testing.T, entries []bundleEntry) string {
	t.Helper()
	return writeBundle(t, bundleBytes(t, entries))
}

func bundleBytes(t *testing.T, entries []bundleEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, e := range entries {
		hdr := &tar.Header{
			Name:     e.name,
			Typeflag: e.typeflag,
			Mode:     0o644,
			Size:     int64(len(e.body)),
			Linkname: e.linkname,
		}
		if e.typeflag == tar.TypeDir {
			hdr.Mode = 0o755
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("writing header %s: %v", e.name, err)
		}
		if e.body != "" {
			if _, err := tw.Write([]byte(e.body)); err != nil {
				t.Fatalf("writing body %s: %v", e.name, err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("closing tar: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("closing gzip: %v", err)
	}
	return buf.Bytes()
}

func writeBundle(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "paper-001.tar.gz")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing bundle: %v", err)
	}
	return path
}

func TestMaterialize(t *testing.T) {
	bundle := makeBundle(t, []bundleEntry{
		{name: "figs/", typeflag: tar.TypeDir},
		regular("main.tex", "\\documentclass{article}"),
		regular("figs/plot.pdf", "pdf bytes"),
	})
	dest := filepath.Join(t.TempDir(), "paper-001")

	if err := Materialize(bundle, dest); err != nil {
		t.Fatalf("Materialize: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dest, "main.tex"))
	if err != nil {
		t.Fatalf("reading main.tex: %v", err)
	}
	if string(got) != "\\documentclass{article}" {
		t.Errorf("main.tex = %q", got)
	}
	if _, err := os.Stat(filepath.Join(dest, "figs", "plot.pdf")); err != nil {
		t.Errorf("nested file missing: %v", err)
	}
	if !Materialized(dest) {
		t.Error("Materialized = false after successful extraction")
	}
}

func TestMaterializeCreatesParentDirsForNestedFiles(t *testing.T) {
	// Some tarballs omit directory entries entirely.
	bundle := makeBundle(t, []bundleEntry{
		regular("sections/intro/body.tex", "intro"),
	})
	dest := filepath.Join(t.TempDir(), "paper-002")

	if err := Materialize(bundle, dest); err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dest, "sections", "intro", "body.tex"))
	if err != nil {
		t.Fatalf("reading nested file: %v", err)
	}
	if string(got) != "intro" {
		t.Errorf("body.tex = %q", got)
	}
}

func TestMaterializeCorruptBundleRetained(t *testing.T) {
	bundle := writeBundle(t, []byte("definitely not a gzip stream"))
	dest := filepath.Join(t.TempDir(), "paper-003")

	if err := Materialize(bundle, dest); err == nil {
		t.Fatal("expected error for corrupt bundle")
	}
	if _, err := os.Stat(bundle); err != nil {
		t.Errorf("bundle should be retained: %v", err)
	}
	if Materialized(dest) {
		t.Error("destination should not exist after failed extraction")
	}
}

func TestMaterializeTruncatedBundle(t *testing.T) {
	// Incompressible content keeps the compressed stream long enough that
	// truncation lands mid-entry rather than inside the gzip header.
	body := make([]byte, 8192)
	rand.New(rand.NewSource(1)).Read(body)
	data := bundleBytes(t, []bundleEntry{
		regular("main.tex", string(body)),
	})
	bundle := writeBundle(t, data[:len(data)/3])
	dest := filepath.Join(t.TempDir(), "paper-004")

	if err := Materialize(bundle, dest); err == nil {
		t.Fatal("expected error for truncated bundle")
	}
	if Materialized(dest) {
		t.Error("destination should not exist after failed extraction")
	}
	// The scratch directory must not linger either.
	parent, err := os.ReadDir(filepath.Dir(dest))
	if err != nil {
		t.Fatalf("reading parent: %v", err)
	}
	for _, e := range parent {
		if strings.HasPrefix(e.Name(), ".unpack-") {
			t.Errorf("scratch directory %s left behind", e.Name())
		}
	}
}

func TestMaterializeRejectsEscapingEntry(t *testing.T) {
	bundle := makeBundle(t, []bundleEntry{
		regular("../escape.txt", "gotcha"),
	})
	parent := t.TempDir()
	dest := filepath.Join(parent, "nested", "paper-005")

	if err := Materialize(bundle, dest); err == nil {
		t.Fatal("expected error for escaping entry")
	}
	if _, err := os.Stat(filepath.Join(parent, "nested", "escape.txt")); err == nil {
		t.Error("escaping entry was materialized")
	}
	if Materialized(dest) {
		t.Error("destination should not exist after rejected extraction")
	}
}

func TestMaterializeSkipsSpecialEntries(t *testing.T) {
	bundle := makeBundle(t, []bundleEntry{
		{name: "link.tex", typeflag: tar.TypeSymlink, linkname: "/etc/passwd"},
		regular("main.tex", "content"),
	})
	dest := filepath.Join(t.TempDir(), "paper-006")

	if err := Materialize(bundle, dest); err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if _, err := os.Lstat(filepath.Join(dest, "link.tex")); err == nil {
		t.Error("symlink entry was materialized")
	}
	if _, err := os.Stat(filepath.Join(dest, "main.tex")); err != nil {
		t.Errorf("regular file missing: %v", err)
	}
}

func TestMaterializeReplacesEmptyDestination(t *testing.T) {
	bundle := makeBundle(t, []bundleEntry{regular("main.tex", "content")})
	dest := filepath.Join(t.TempDir(), "paper-007")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := Materialize(bundle, dest); err != nil {
		t.Fatalf("Materialize over empty dir: %v", err)
	}
	if !Materialized(dest) {
		t.Error("Materialized = false")
	}
}

func TestMaterialized(t *testing.T) {
	base := t.TempDir()

	if Materialized(filepath.Join(base, "missing")) {
		t.Error("missing dir should not be materialized")
	}

	empty := filepath.Join(base, "empty")
	if err := os.Mkdir(empty, 0o755); err != nil {
		t.Fatal(err)
	}
	if Materialized(empty) {
		t.Error("empty dir should not be materialized")
	}

	full := filepath.Join(base, "full")
	if err := os.Mkdir(full, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(full, "main.tex"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !Materialized(full) {
		t.Error("non-empty dir should be materialized")
	}
}
