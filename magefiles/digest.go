//go:build mage

package main

import "github.com/magefile/mage/mg"

// Digest builds the CLI and exports the title/abstract/topics digest.
// See prd004-digest for full requirements.
func Digest() error {
	mg.Deps(Build)
	return runStage("digest")
}
