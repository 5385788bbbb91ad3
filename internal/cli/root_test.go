package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/app"
	"todo/internal/config"
	"todo/internal/storage"
	"todo/internal/task"
)

func stubUI(t *testing.T, fn func(a *app.App, cfg config.Config) error) {
	t.Helper()
	orig := runUIFunc
	runUIFunc = fn
	t.Cleanup(func() { runUIFunc = orig })
}

func TestRootCommand_RunsUIWithOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	var got config.Config
	var gotApp *app.App
	stubUI(t, func(a *app.App, cfg config.Config) error {
		gotApp = a
		got = cfg
		return nil
	})

	cmd := NewRootCommand("test")
	cmd.SetArgs([]string{"--config", path, "--backend", "sqlite", "--filter", "pending", "--sort", "date"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, config.BackendSQLite, got.Backend)
	assert.Equal(t, "pending", got.DefaultFilter)
	assert.Equal(t, "date", got.DefaultSort)
	require.NotNil(t, gotApp)
	assert.False(t, gotApp.IsDark())
}

func TestRootCommand_RejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	stubUI(t, func(*app.App, config.Config) error {
		t.Fatal("ui should not start")
		return nil
	})

	cmd := NewRootCommand("test")
	cmd.SetArgs([]string{"--config", path, "--backend", "redis"})
	err := cmd.Execute()
	assert.ErrorContains(t, err, "backend")
}

func TestConfigCommand_PrintsEffectiveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	var out bytes.Buffer
	cmd := NewRootCommand("test")
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", path, "--sort", "pending-first", "config"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), path)
	assert.Contains(t, out.String(), "default_sort")
	assert.Contains(t, out.String(), "pending-first")
	assert.Contains(t, out.String(), "memory")
}

func TestOpenRepo(t *testing.T) {
	repo, closer, err := openRepo(config.BackendMemory)
	require.NoError(t, err)
	assert.IsType(t, &task.MemoryStore{}, repo)
	assert.NoError(t, closer.Close())

	repo, closer, err = openRepo(config.BackendSQLite)
	require.NoError(t, err)
	assert.IsType(t, &storage.Store{}, repo)
	assert.NoError(t, closer.Close())

	_, _, err = openRepo("redis")
	assert.Error(t, err)
}
