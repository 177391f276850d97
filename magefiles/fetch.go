//go:build mage

package main

import "github.com/magefile/mage/mg"

// Fetch builds the CLI and downloads the PDF for every crawled record.
// See prd002-documents for full requirements.
func Fetch() error {
	mg.Deps(Build)
	return runStage("fetch", "--run-log", "data/fetch-log.jsonl")
}
