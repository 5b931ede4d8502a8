package orchestrator

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tc-cache/tc-cache/cienv"
	"github.com/tc-cache/tc-cache/config"
	"github.com/tc-cache/tc-cache/internal/errs"
	"github.com/tc-cache/tc-cache/internal/stats"
	"github.com/tc-cache/tc-cache/remote"
	"github.com/tc-cache/tc-cache/snapshot"
)

// snapshotKey is the fixed filename used for the archive object in the
// remote blob store, regardless of the local working-directory layout.
const snapshotKey = "snapshot.snappy"

// Pull implements C8: download the archive (best effort), register the
// requested roots, and restore the entry manifest the next Push will
// diff against. prefixOverride and keyOverride let the caller override
// the CI-derived key prefix and the default snapshot object key,
// matching the CLI's -p/--prefix and -k/--key flags.
func Pull(ctx context.Context, cfg *config.Config, buildPropsPath, prefixOverride, keyOverride string, roots []string, log *zap.SugaredLogger) error {
	svc, err := cienv.Resolve(buildPropsPath)
	if err != nil {
		return err
	}

	keyPrefix := svc.ProjectID()
	if prefixOverride != "" {
		keyPrefix = prefixOverride
	}

	desc := remote.Descriptor{
		URI:        svc.RemoteURL(),
		KeyPrefix:  keyPrefix,
		Uploadable: svc.IsUploadable(),
	}

	if err := remote.Save(cfg.StorageFile(), desc); err != nil {
		return err
	}

	log.Infow("resolved CI environment", "service", svc.String())

	key := snapshotKey
	if keyOverride != "" {
		key = keyOverride
	}

	if desc.IsDownloadable() {
		if err := fetchArchive(ctx, desc, key, cfg.SnapshotFile(), log); err != nil {
			log.Warnw("failed to download snapshot, continuing with empty cache", "error", err)
		}
	} else {
		log.Infow("no remote configured, skipping download")
	}

	filtered, err := prepareRoots(roots, log)
	if err != nil {
		return err
	}

	if err := writeJSONAtomic(cfg.DirsFile(), filtered); err != nil {
		return err
	}

	entries, err := restoreEntries(cfg.SnapshotFile(), filtered)
	if err != nil {
		return err
	}

	return writeJSONAtomic(cfg.EntriesFile(), entries)
}

// fetchArchive downloads the archive object to localPath. The caller
// treats any error as non-fatal per §4.8 step 4.
func fetchArchive(ctx context.Context, desc remote.Descriptor, key, localPath string, log *zap.SugaredLogger) error {
	timer := stats.Current().Download.Timer()
	defer timer.Stop()

	store, err := desc.Store()
	if err != nil {
		return err
	}

	data, err := store.Get(ctx, desc.Key(key))
	if err != nil {
		return err
	}

	if err := os.WriteFile(localPath, data, 0o644); err != nil {
		return errs.IO(localPath, err)
	}

	timer.AddBytes(uint64(len(data)))
	log.Infow("downloaded snapshot", "bytes", len(data))

	return nil
}

// prepareRoots creates missing root directories, canonicalizes each,
// and drops any that are themselves symlinks (with a warning), per
// §4.8 step 5.
func prepareRoots(roots []string, log *zap.SugaredLogger) ([]string, error) {
	filtered := make([]string, 0, len(roots))

	for _, root := range roots {
		info, err := os.Lstat(root)
		if os.IsNotExist(err) {
			if err := os.MkdirAll(root, 0o755); err != nil {
				return nil, errs.IO(root, err)
			}

			info, err = os.Lstat(root)
		}

		if err != nil {
			return nil, errs.IO(root, err)
		}

		if info.Mode()&os.ModeSymlink != 0 {
			log.Warnw("skipping cache root that is a symlink", "root", root)
			continue
		}

		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, errs.IO(root, err)
		}

		abs, err = filepath.EvalSymlinks(abs)
		if err != nil {
			return nil, errs.IO(root, err)
		}

		filtered = append(filtered, abs)
	}

	return filtered, nil
}

// restoreEntries unpacks the local archive (if present) filtered by
// roots, returning its entries. A missing archive yields an empty
// manifest rather than an error, per §4.5's "missing-download is not a
// failure" rule.
func restoreEntries(archivePath string, roots []string) ([]snapshot.Entry, error) {
	f, err := os.Open(archivePath)
	if os.IsNotExist(err) {
		return []snapshot.Entry{}, nil
	}

	if err != nil {
		return nil, errs.IO(archivePath, err)
	}

	defer f.Close()

	written, _, err := snapshot.Unpack(f, "", roots)
	if err != nil {
		return nil, err
	}

	if written == nil {
		written = []snapshot.Entry{}
	}

	return written, nil
}
