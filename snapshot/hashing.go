package snapshot

import (
	"crypto/md5" //nolint:gosec // non-cryptographic use, chosen for wide tooling support per SPEC_FULL.md
	"encoding/hex"
	"io"
	"os"

	"github.com/tc-cache/tc-cache/internal/errs"
	"github.com/tc-cache/tc-cache/internal/memio"
	"github.com/tc-cache/tc-cache/internal/stats"
)

// mmapThreshold is the file-length boundary at which HashFile switches
// from a fixed stack-sized buffered read to a memory-mapped read.
const mmapThreshold = 64 * 1024

// HashFile computes the MD5 digest of the file at path, whose length is
// already known to be len bytes. Files at or above mmapThreshold are
// memory-mapped; smaller files are read into a single fixed buffer.
func HashFile(path string, length int) (string, error) {
	timer := stats.Current().Hashing.Timer()
	defer timer.Stop()

	timer.AddBytes(uint64(length))

	if length >= mmapThreshold {
		return hashMapped(path, length)
	}

	return hashBuffered(path, length)
}

func hashBuffered(path string, length int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errs.IO(path, err)
	}
	defer f.Close()

	var buf [mmapThreshold]byte

	if _, err := io.ReadFull(f, buf[:length]); err != nil {
		return "", errs.IO(path, err)
	}

	sum := md5.Sum(buf[:length]) //nolint:gosec

	return hex.EncodeToString(sum[:]), nil
}

func hashMapped(path string, length int) (string, error) {
	m, err := memio.ReadMap(path, length)
	if err != nil {
		return "", err
	}
	defer m.Close()

	sum := md5.Sum(m.Bytes()) //nolint:gosec

	return hex.EncodeToString(sum[:]), nil
}

// HashBytes computes the MD5 digest of src directly, used by tests and
// by any caller that already holds the content in memory.
func HashBytes(src []byte) string {
	sum := md5.Sum(src) //nolint:gosec
	return hex.EncodeToString(sum[:])
}
