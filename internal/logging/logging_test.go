package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "info", Output: &buf})
	log.Info("loaded", "documents", 3)
	log.Debug("hidden")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "loaded", rec["msg"])
	assert.EqualValues(t, 3, rec["documents"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	New(Options{Level: "debug", Format: "text", Output: &buf}).Debug("visible", "k", "v")
	assert.Contains(t, buf.String(), "msg=visible")
	assert.Contains(t, buf.String(), "k=v")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestIsTerminal_Buffer(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}
