// Package config resolves the tc-cache working directory and the four
// well-known state file paths inside it, grounded on the CLI's
// -d/--home flag and original_source/src/config.rs's Config.
package config

import (
	"os"
	"path/filepath"

	"github.com/tc-cache/tc-cache/internal/errs"
)

const defaultHomeDirName = ".tc-cache"

// Config resolves and owns the tc-cache working directory.
type Config struct {
	dir string
}

// New resolves dir (the default, when dir is empty, is ~/.tc-cache),
// creates it if missing, and returns its canonical path.
func New(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errs.IO(dir, err)
		}

		dir = filepath.Join(home, defaultHomeDirName)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.IO(dir, err)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errs.IO(dir, err)
	}

	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, errs.IO(dir, err)
	}

	return &Config{dir: abs}, nil
}

// Dir returns the working directory.
func (c *Config) Dir() string { return c.dir }

// DirsFile is the set of root paths the user asked to cache.
func (c *Config) DirsFile() string { return filepath.Join(c.dir, "cached_dirs.json") }

// EntriesFile is the entry list restored from the archive.
func (c *Config) EntriesFile() string { return filepath.Join(c.dir, "cached_entries.json") }

// StorageFile is the persisted storage descriptor.
func (c *Config) StorageFile() string { return filepath.Join(c.dir, "storage.json") }

// SnapshotFile is the archive itself.
func (c *Config) SnapshotFile() string { return filepath.Join(c.dir, "snapshot.snappy") }
