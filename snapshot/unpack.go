package snapshot

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/s2"

	"github.com/tc-cache/tc-cache/internal/errs"
	"github.com/tc-cache/tc-cache/internal/stats"
)

// Reader consumes the archive format produced by Writer. A Reader owns
// its source stream exclusively for its lifetime and is not safe for
// concurrent use.
type Reader struct {
	dec *s2.Reader
}

// NewReader wraps r in Snappy-frame decompression and validates the
// MAGIC header.
func NewReader(r io.Reader) (*Reader, error) {
	dec := s2.NewReader(r)

	var magic [4]byte

	if _, err := io.ReadFull(dec, magic[:]); err != nil {
		return nil, errs.Snapshot("failed to read archive header", err)
	}

	if magic != Magic {
		return nil, errs.Snapshotf("bad archive magic %x, expected %x", magic, Magic)
	}

	return &Reader{dec: dec}, nil
}

// ReadEntry reads one meta_len/meta_bytes record and decodes it. It
// returns ok=false on a clean EOF before any bytes of meta_len were
// read; a short read mid-record is a fatal Snapshot error.
func (r *Reader) ReadEntry() (entry Entry, ok bool, err error) {
	var lenBytes [4]byte

	n, err := io.ReadFull(r.dec, lenBytes[:])
	if err != nil {
		if n == 0 && err == io.EOF { //nolint:errorlint // io.ReadFull sentinel
			return Entry{}, false, nil
		}

		return Entry{}, false, errs.Snapshot("short read of entry length", err)
	}

	metaLen := FromLEBytes(lenBytes)
	meta := make([]byte, metaLen)

	if _, err := io.ReadFull(r.dec, meta); err != nil {
		return Entry{}, false, errs.Snapshot("short read of entry metadata", err)
	}

	e, err := decodeEntry(meta)
	if err != nil {
		return Entry{}, false, err
	}

	return e, true, nil
}

// CopyTo streams length bytes from the archive to w in fixed chunks.
func (r *Reader) CopyTo(w io.Writer, length uint32) error {
	_, err := io.CopyN(w, r.dec, int64(length))
	if err != nil {
		return errs.Snapshot("short read of file payload", err)
	}

	return nil
}

// Skip discards length bytes from the archive without producing output.
func (r *Reader) Skip(length uint32) error {
	return r.CopyTo(io.Discard, length)
}

// Unpack performs the top-level restore described in §4.5: every entry
// in the archive whose archive path has a prefix in roots is
// materialized under prefix (or at its absolute path if prefix is
// empty); everything else is skipped, advancing the stream past file
// payloads without filesystem effect. It returns the entries written
// (for the caller to persist as the new "previous" manifest) and the
// number of payload bytes read.
func Unpack(r io.Reader, prefix string, roots []string) (written []Entry, bytesRead int64, err error) {
	reader, err := NewReader(r)
	if err != nil {
		return nil, 0, err
	}

	timer := stats.Current().Unpacking.Timer()
	defer timer.Stop()

	for {
		e, ok, err := reader.ReadEntry()
		if err != nil {
			return written, bytesRead, err
		}

		if !ok {
			return written, bytesRead, nil
		}

		if !matchesRoots(e.Path, roots) {
			if e.Type == KindFile && e.Len > 0 {
				if err := reader.Skip(e.Len); err != nil {
					return written, bytesRead, err
				}
			}

			continue
		}

		outPath := effectivePath(e.Path, prefix)

		n, err := materialize(reader, e, outPath)
		if err != nil {
			return written, bytesRead, err
		}

		bytesRead += n
		written = append(written, e)
		timer.AddBytes(uint64(n))
	}
}

// matchesRoots reports whether archivePath has one of roots as a path
// prefix ("/a" matches "/a" and "/a/b" but not "/ab").
func matchesRoots(archivePath string, roots []string) bool {
	if len(roots) == 0 {
		return true
	}

	for _, root := range roots {
		if archivePath == root || strings.HasPrefix(archivePath, strings.TrimSuffix(root, "/")+"/") {
			return true
		}
	}

	return false
}

// effectivePath computes the output path: when prefix is set, the
// archive path is treated as relative (its leading '/' stripped) and
// joined to prefix; otherwise the archive path is used as-is.
func effectivePath(archivePath, prefix string) string {
	if prefix == "" {
		return archivePath
	}

	return filepath.Join(prefix, strings.TrimPrefix(archivePath, "/"))
}

func materialize(r *Reader, e Entry, outPath string) (int64, error) {
	switch e.Type {
	case KindDir:
		if err := os.MkdirAll(outPath, 0o755); err != nil {
			return 0, errs.IO(outPath, err)
		}

		return 0, restoreAttrs(outPath, e.Attr)

	case KindSymlink:
		_ = os.Remove(outPath)
		if err := os.Symlink(e.Target, outPath); err != nil {
			return 0, errs.IO(outPath, err)
		}
		// No attribute restoration for symlinks: not portable, §4.5.
		return 0, nil

	case KindFile:
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return 0, errs.IO(outPath, err)
		}

		f, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			return 0, errs.IO(outPath, err)
		}

		writeErr := r.CopyTo(f, e.Len)
		closeErr := f.Close()

		if writeErr != nil {
			return int64(e.Len), writeErr
		}

		if closeErr != nil {
			return int64(e.Len), errs.IO(outPath, closeErr)
		}

		return int64(e.Len), restoreAttrs(outPath, e.Attr)

	default:
		return 0, errs.Snapshotf("unknown entry type for %q", outPath)
	}
}

func restoreAttrs(path string, attr Attributes) error {
	if err := os.Chmod(path, os.FileMode(attr.Mode&0o7777)); err != nil {
		return errs.IO(path, err)
	}

	atime := time.Unix(attr.Atime, 0)
	mtime := time.Unix(attr.Mtime, 0)

	if err := os.Chtimes(path, atime, mtime); err != nil {
		return errs.IO(path, err)
	}

	return nil
}
