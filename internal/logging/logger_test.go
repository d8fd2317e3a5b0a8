package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Level: "debug", Writer: &buf})
	require.NoError(t, err)
	defer closeFn()

	log := NewComponentLogger(logger, "selector")
	log.Info("selected segments", Int("count", 2), String("title", "Você sabia"), Error(errors.New("boom")))

	line := buf.String()
	assert.Contains(t, line, "INFO  selector: selected segments")
	assert.Contains(t, line, "count=2")
	assert.Contains(t, line, `title="Você sabia"`)
	assert.Contains(t, line, `error="boom"`)
	assert.NotContains(t, line, "\x1b[", "buffers are never coloured")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Options{Level: "warn", Writer: &buf})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Options{Format: "json", Writer: &buf})
	require.NoError(t, err)

	logger.With(String(FieldRunID, "abc")).Info("done")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "info", rec["level"])
	assert.Equal(t, "abc", rec[FieldRunID])
	assert.Contains(t, rec, "ts")
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "viralcut.log")
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Writer: &buf, File: path})
	require.NoError(t, err)

	logger.WithGroup("ffmpeg").Info("cut", String("clip", "001"))
	require.NoError(t, closeFn())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), "ffmpeg.clip=001"))
	assert.Equal(t, buf.String(), string(b))
}

func TestUnsupportedFormat(t *testing.T) {
	_, _, err := New(Options{Format: "xml"})
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestNewNop(t *testing.T) {
	logger := NewComponentLogger(nil, "x")
	logger.Error("ignored")
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
}
