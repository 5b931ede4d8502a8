package orchestrator

import (
	"bytes"
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/tc-cache/tc-cache/config"
	"github.com/tc-cache/tc-cache/internal/errs"
	"github.com/tc-cache/tc-cache/internal/stats"
	"github.com/tc-cache/tc-cache/remote"
	"github.com/tc-cache/tc-cache/snapshot"
)

// Push implements C9: re-walk the registered roots, diff against the
// manifest pull restored, and rebuild + upload the archive only when
// something changed.
func Push(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) error {
	desc, err := remote.Load(cfg.StorageFile())
	if err != nil {
		return err
	}

	roots, err := readDirsFile(cfg.DirsFile())
	if err != nil {
		return err
	}

	if len(roots) == 0 {
		log.Warnw("no cache roots registered, nothing to push")
		return nil
	}

	current, err := snapshot.Walk(ctx, roots)
	if err != nil {
		return err
	}

	previous, err := readEntriesFile(cfg.EntriesFile())
	if err != nil {
		return err
	}

	records := snapshot.Diff(previous, current)

	if len(previous) > 0 && len(records) == 0 {
		log.Infow("no changes detected, skipping archive rebuild")
		return nil
	}

	log.Infow("rebuilding archive", "entries", len(current), "changes", len(records))

	if err := buildArchive(cfg.SnapshotFile(), current); err != nil {
		return err
	}

	if !desc.IsUploadable() {
		log.Infow("archive built locally, not uploading (not an uploadable build)")
		return nil
	}

	if err := uploadArchive(ctx, desc, cfg.SnapshotFile(), log); err != nil {
		log.Warnw("failed to upload snapshot, push still considered successful", "error", err)
	}

	return nil
}

func buildArchive(path string, entries []snapshot.Entry) error {
	var buf bytes.Buffer

	if err := snapshot.Pack(&buf, entries); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return errs.IO(path, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return errs.IO(path, err)
	}

	return nil
}

// uploadArchive is a best-effort publish: any failure is returned to
// the caller for logging, never treated as fatal to the push command.
func uploadArchive(ctx context.Context, desc remote.Descriptor, localPath string, log *zap.SugaredLogger) error {
	timer := stats.Current().Upload.Timer()
	defer timer.Stop()

	store, err := desc.Store()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(localPath)
	if err != nil {
		return errs.IO(localPath, err)
	}

	if err := store.Put(ctx, desc.Key(snapshotKey), data); err != nil {
		return err
	}

	timer.AddBytes(uint64(len(data)))
	log.Infow("uploaded snapshot", "bytes", len(data))

	return nil
}
