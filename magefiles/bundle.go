//go:build mage

package main

import "github.com/magefile/mage/mg"

// Bundle builds the CLI and fetches arXiv source bundles for every record,
// unpacking each into a per-paper directory.
// See prd003-sources for full requirements.
func Bundle() error {
	mg.Deps(Build)
	return runStage("bundle", "--unpack", "--run-log", "data/bundle-log.jsonl")
}
