// ABOUTME: Tests for logger construction.
// ABOUTME: Checks level parsing and the verbose override.
package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "info", false)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("shown")
	require.NoError(t, logger.Sync())

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewVerboseForcesDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn", true)
	require.NoError(t, err)

	logger.Debug("details")
	require.NoError(t, logger.Sync())

	assert.Contains(t, buf.String(), "details")
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "chatty", false)
	assert.Error(t, err)
}
