// Package orchestrator implements the pull (C8) and push (C9) top-level
// operations: the glue between the CI environment adapter, the storage
// descriptor, the walker/diff/pack/unpack pipeline, and the blob store.
package orchestrator

import (
	"encoding/json"
	"os"

	"github.com/tc-cache/tc-cache/internal/errs"
	"github.com/tc-cache/tc-cache/snapshot"
)

func readDirsFile(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, errs.IO(path, err)
	}

	var dirs []string
	if err := json.Unmarshal(b, &dirs); err != nil {
		return nil, errs.Snapshot("failed to decode cached_dirs.json", err)
	}

	return dirs, nil
}

func writeJSONAtomic(path string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return errs.Snapshot("failed to encode "+path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return errs.IO(path, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return errs.IO(path, err)
	}

	return nil
}

func readEntriesFile(path string) ([]snapshot.Entry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, errs.IO(path, err)
	}

	var entries []snapshot.Entry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, errs.Snapshot("failed to decode cached_entries.json", err)
	}

	return entries, nil
}
