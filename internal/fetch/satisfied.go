// Package fetch implements the concurrent artifact downloader: validity
// checking, single-attempt HTTP fetches with atomic writes, a bounded
// scheduler, and per-run outcome accounting.
// Implements: prd002-documents (R2-R5);
//
//	docs/ARCHITECTURE § Downloader Core.
package fetch

import "os"

// MinArtifactSize is the smallest byte size an artifact may have and still
// count as valid. Anything shorter is treated as a truncated file left by an
// interrupted run (R2.2).
const MinArtifactSize = 1024

// IsSatisfied reports whether path already holds a valid artifact: a regular
// file that exists and meets the minimum size. An undersized file is not
// satisfied, so the next fetch overwrites it (R2.3). Pure metadata read, no
// side effects.
func IsSatisfied(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() >= MinArtifactSize
}
