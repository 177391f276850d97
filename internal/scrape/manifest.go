// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// Manifest is the on-disk record of one crawl run: which pages the listing
// linked, when the crawl ran, and which pages failed. The researcher can
// audit a crawl without repeating it.
// Implements: prd001-crawl R3.3.
type Manifest struct {
	Listing   string        `yaml:"listing"`
	Timestamp time.Time     `yaml:"timestamp"`
	Saved     int           `yaml:"saved"`
	Failed    int           `yaml:"failed"`
	Links     []string      `yaml:"links"`
	Failures  []PageFailure `yaml:"failures,omitempty"`
}

// PageFailure records one paper page that could not be crawled.
type PageFailure struct {
	URL    string `yaml:"url"`
	Reason string `yaml:"reason"`
}

// WriteManifest saves a crawl manifest to a YAML file.
func WriteManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadManifest loads a previously written crawl manifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}
