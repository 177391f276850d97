// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenWritesTaggedEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	log, closer, err := Open(path)
	require.NoError(t, err)

	log.Info().Str("paper_id", "0001-Paper0001").Msg("skipped")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	line := string(data)
	assert.Contains(t, line, `"run_id"`)
	assert.Contains(t, line, `"paper_id":"0001-Paper0001"`)
	assert.Contains(t, line, `"message":"skipped"`)
	assert.Contains(t, line, `"time"`)
}

func TestOpenAppendsAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	for i := 0; i < 2; i++ {
		log, closer, err := Open(path)
		require.NoError(t, err)
		log.Info().Msg("entry")
		require.NoError(t, closer.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2, "second run must append, not truncate")
	// Each run gets its own ID.
	assert.NotEqual(t, lines[0], lines[1])
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "nested", "run.log")

	log, closer, err := Open(path)
	require.NoError(t, err)
	log.Info().Msg("entry")
	require.NoError(t, closer.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpenEmptyPathDisablesLogging(t *testing.T) {
	log, closer, err := Open("")
	require.NoError(t, err)

	// Must be safe to use and close even though nothing is written.
	log.Info().Msg("discarded")
	assert.NoError(t, closer.Close())
}
