//go:build mage

package main

import "github.com/magefile/mage/mg"

// Crawl builds the CLI and crawls a conference listing into data/records.
// See prd001-crawl for full requirements.
func Crawl(listingURL string) error {
	mg.Deps(Build)
	return runStage("crawl", listingURL)
}
