// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive unpacks downloaded source bundles (gzipped tarballs) into
// per-paper directories.
//
// Implements: prd003-sources (R4); docs/ARCHITECTURE § Source Bundles.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Materialize unpacks the gzipped tarball at bundlePath into destDir (R4.1).
// Extraction goes through a scratch directory that is renamed into place only
// on success, so a corrupt or hostile archive never leaves a half-populated
// destination; the bundle file itself is never touched (R4.3).
//
// Entries whose names would escape destDir abort the extraction. Symlinks,
// devices, and other special entries are not materialized.
func Materialize(bundlePath, destDir string) error {
	f, err := os.Open(bundlePath)
	if err != nil {
		return fmt.Errorf("opening bundle: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("reading gzip %s: %w", bundlePath, err)
	}
	defer gz.Close()

	parent := filepath.Dir(destDir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", parent, err)
	}

	tmp, err := os.MkdirTemp(parent, ".unpack-*")
	if err != nil {
		return fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	if err := unpack(tar.NewReader(gz), tmp); err != nil {
		return fmt.Errorf("unpacking %s: %w", bundlePath, err)
	}

	// An empty destination left over from an interrupted run would block
	// the rename; clear it. os.Remove refuses non-empty directories.
	os.Remove(destDir)
	if err := os.Rename(tmp, destDir); err != nil {
		return fmt.Errorf("renaming scratch directory: %w", err)
	}
	return nil
}

// Materialized reports whether destDir exists and contains at least one entry
// (R4.2). This is the directory analogue of the artifact validity check:
// re-runs skip extraction when the sources already landed.
func Materialized(destDir string) bool {
	entries, err := os.ReadDir(destDir)
	return err == nil && len(entries) > 0
}

func unpack(tr *tar.Reader, dest string) error {
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		target, err := entryPath(dest, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeEntry(target, tr); err != nil {
				return err
			}
		default:
			// Symlinks, devices, and other special entries are skipped.
		}
	}
}

// entryPath joins an archive member name onto dest, rejecting names that
// resolve outside it.
func entryPath(dest, name string) (string, error) {
	target := filepath.Join(dest, name)
	if target != dest && !strings.HasPrefix(target, dest+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry %q escapes destination", name)
	}
	return target, nil
}

func writeEntry(target string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
