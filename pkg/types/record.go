// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the confcorpus pipeline.
// Implements: prd001-crawl (PaperRecord, R2.1-R2.9, R3.2);
//
//	prd002-documents (ArtifactRef, Outcome, RunSummary, R1.3, R5.2);
//	prd003-sources (ArtifactRef, R1.2, R2.1).
//
// See docs/ARCHITECTURE.md § Pipeline Interface, § Data Structures.
package types

// PaperRecord is the metadata extracted from one conference paper page.
// The JSON field names are the on-disk record format: one file per paper,
// named <paperID>.json, where the paper ID is the page filename stem.
// Created by the crawl stage; read-only to every stage after it.
type PaperRecord struct {
	// Title is the paper title as shown on the page.
	Title string `json:"Title"`

	// Authors lists the paper authors in page order.
	Authors []string `json:"Author(s)"`

	// Abstract is the paper abstract.
	Abstract string `json:"Abstract"`

	// PDF is the direct URL of the published manuscript, when the page
	// links one. Empty otherwise.
	PDF string `json:"PDF"`

	// BibTex is the citation block as displayed on the page.
	BibTex string `json:"BibTex"`

	// Topics lists the subject categories assigned to the paper.
	Topics []string `json:"Topics"`

	// Reviews holds one map per review, keyed by the review's section
	// headings (e.g. "strengths", "weaknesses").
	Reviews []map[string]string `json:"Reviews"`

	// MetaReviews holds one map per meta-review, same shape as Reviews.
	MetaReviews []map[string]string `json:"Meta-review"`

	// AuthorFeedback is the author rebuttal text, if published.
	AuthorFeedback string `json:"Author Feedback"`

	// CodeRepository is the code link stated on the page ("N/A" when none).
	CodeRepository string `json:"Code Repository"`

	// Dataset is the dataset statement on the page ("N/A" when none).
	Dataset string `json:"Dataset"`
}
