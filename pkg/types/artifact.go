// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ArtifactKind distinguishes the two companion artifacts a record can reference.
type ArtifactKind string

const (
	// ArtifactDocument is the published manuscript (usually a PDF).
	ArtifactDocument ArtifactKind = "document"

	// ArtifactSource is the arXiv e-print bundle (gzipped tar of TeX sources).
	ArtifactSource ArtifactKind = "source"
)

// ArtifactRef is one fetchable artifact derived from a paper record.
// PaperID is fixed at enumeration and carried through scheduling, fetching,
// and reporting; nothing downstream re-derives identity from paths or URLs.
// Per prd002-documents R1.3.
type ArtifactRef struct {
	// PaperID is the record filename stem (e.g. "0123-Paper0456").
	PaperID string `json:"paper_id" yaml:"paper_id"`

	// Kind selects the artifact variant.
	Kind ArtifactKind `json:"kind" yaml:"kind"`

	// URL is the absolute fetch location. Source refs start with it empty;
	// the identifier resolver fills it in (prd003-sources R2.1).
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Title is the resolution hint for source refs, verbatim from the record.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// TargetPath is the local file this artifact is written to.
	TargetPath string `json:"target_path" yaml:"target_path"`
}

// OutcomeStatus classifies the terminal state of one fetch attempt.
// Per prd002-documents R5.2.
type OutcomeStatus string

const (
	StatusDownloaded OutcomeStatus = "downloaded"
	StatusSkipped    OutcomeStatus = "skipped"
	StatusFailed     OutcomeStatus = "failed"
)

// FailureKind identifies which stage of an attempt failed, so callers and
// tests can assert on the kind rather than parse reason strings. Empty
// unless the outcome status is StatusFailed.
type FailureKind string

const (
	// FailBadReference marks a malformed or non-absolute artifact URL.
	FailBadReference FailureKind = "bad-reference"

	// FailNetwork marks a transport-level error or timeout.
	FailNetwork FailureKind = "network"

	// FailHTTPStatus marks a non-200 response.
	FailHTTPStatus FailureKind = "http-status"

	// FailNoMatch marks a resolver miss: no identifier found for the title.
	FailNoMatch FailureKind = "no-match"

	// FailArchive marks a bundle that downloaded but would not unpack.
	FailArchive FailureKind = "archive"

	// FailInternal marks a recovered panic or a cancelled run.
	FailInternal FailureKind = "internal"
)

// Outcome is the terminal result of exactly one ArtifactRef in a run.
// The scheduler produces one Outcome per reference, in completion order;
// outcomes are never mutated after creation.
type Outcome struct {
	// Ref is the reference this outcome belongs to.
	Ref ArtifactRef

	// Status classifies the attempt.
	Status OutcomeStatus

	// FailKind is set when Status is StatusFailed.
	FailKind FailureKind

	// Reason is the causal message for failures, empty otherwise.
	Reason string

	// Elapsed is the wall time the attempt took.
	Elapsed time.Duration
}

// RunSummary holds the outcome tally of one download run. Created fresh per
// invocation and never persisted; the only durable state a run leaves behind
// is the files it wrote.
type RunSummary struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// Add records one outcome in the summary. Unknown statuses count as failures.
func (s *RunSummary) Add(o Outcome) {
	switch o.Status {
	case StatusDownloaded:
		s.Downloaded++
	case StatusSkipped:
		s.Skipped++
	default:
		s.Failed++
	}
}

// Total returns the total number of references processed.
func (s RunSummary) Total() int {
	return s.Downloaded + s.Skipped + s.Failed
}

// HasFailures reports whether any reference failed.
func (s RunSummary) HasFailures() bool {
	return s.Failed > 0
}
