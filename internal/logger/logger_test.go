package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/morris-backend/internal/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewWithWriter(t *testing.T) {
	// Given: a logger at warn level
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn")

	// When: info and warn records are written
	log.Info("hidden")
	log.Warn("shown", "component", "test")

	// Then: only the warn record is emitted as JSON
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"component":"test"`)
}

func TestNew_WritesRotatingFile(t *testing.T) {
	// Given: a config with a log file
	path := filepath.Join(t.TempDir(), "morris.log")
	conf := &config.Config{LogLevel: "info", Log: config.Log{File: path, MaxSize: 1}}

	// When: a record is logged
	New(conf).Info("to file")

	// Then: the file holds the record
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}
