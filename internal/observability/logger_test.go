package observability

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterLoggerEncodesSeverity(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, "warn")
	logger.Info("dropped")
	logger.Warn("kept")
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["severity"])
	assert.Equal(t, "kept", entry["message"])
	assert.Contains(t, entry, "timestamp")
}

func TestParseLevelFallsBack(t *testing.T) {
	assert.Equal(t, "info", parseLevel("").String())
	assert.Equal(t, "info", parseLevel("loud").String())
	assert.Equal(t, "debug", parseLevel(" DEBUG ").String())
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("error")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1))
}
