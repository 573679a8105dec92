package shared

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, false, true)
	logger.Info("Game over", "turns", 4)
	logger.Debug("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Game over", entry["msg"])
	assert.Equal(t, float64(4), entry["turns"])
	assert.Equal(t, "info", entry["level"])
}

func TestNewLoggerDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, true, false)
	logger.Debug("visible", "key", "value")

	assert.Contains(t, buf.String(), "visible")
	assert.Contains(t, buf.String(), "key=value")
}
