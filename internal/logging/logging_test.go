package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "todo.log")

	log, closer, err := New(path, "warn")
	require.NoError(t, err)
	log.Info("hidden")
	log.Warn("shown", "id", 7)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=shown")
	assert.Contains(t, string(data), "id=7")
	assert.NotContains(t, string(data), "hidden")
}

func TestNew_EmptyPathDiscards(t *testing.T) {
	log, closer, err := New("", "debug")
	require.NoError(t, err)
	log.Info("nothing")
	assert.NoError(t, closer.Close())
}
