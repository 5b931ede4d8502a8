package config_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tc-cache/tc-cache/config"
)

func TestNewCreatesWorkingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "home")

	cfg, err := config.New(dir)
	require.NoError(t, err)
	require.DirExists(t, cfg.Dir())
}

func TestStateFilePaths(t *testing.T) {
	dir := t.TempDir()

	cfg, err := config.New(dir)
	require.NoError(t, err)

	require.Equal(t, filepath.Join(cfg.Dir(), "cached_dirs.json"), cfg.DirsFile())
	require.Equal(t, filepath.Join(cfg.Dir(), "cached_entries.json"), cfg.EntriesFile())
	require.Equal(t, filepath.Join(cfg.Dir(), "storage.json"), cfg.StorageFile())
	require.Equal(t, filepath.Join(cfg.Dir(), "snapshot.snappy"), cfg.SnapshotFile())
}
