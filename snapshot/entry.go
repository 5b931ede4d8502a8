// Package snapshot implements the entry model, parallel walker, diff,
// and the binary pack/unpack pipeline of the tc-cache archive format.
package snapshot

import (
	"os"

	"github.com/tc-cache/tc-cache/internal/errs"
)

// Kind discriminates the three Entry shapes. The codec needs this
// closed set to decode, so Entry is implemented as an explicit tagged
// variant rather than an open interface hierarchy.
type Kind uint8

const (
	KindFile Kind = iota
	KindSymlink
	KindDir
)

func (k Kind) tag() string {
	switch k {
	case KindFile:
		return "f"
	case KindSymlink:
		return "s"
	case KindDir:
		return "d"
	default:
		return "?"
	}
}

// Attributes holds the POSIX attributes carried by every Entry.
// Equality (and therefore diff detection) depends only on Mode: atime
// drifts for benign reasons and mtime's role in change detection is
// already played by File.MD5, so both are preserved for restore but not
// compared. This is deliberate, see SPEC_FULL.md's Open Questions.
type Attributes struct {
	Mode  uint32 `cbor:"mode" json:"mode"`
	Atime int64  `cbor:"atime" json:"atime"`
	Mtime int64  `cbor:"mtime" json:"mtime"`
}

// Equal compares two Attributes using only Mode.
func (a Attributes) Equal(o Attributes) bool {
	return a.Mode == o.Mode
}

// Entry is a tagged record describing one filesystem object: a file, a
// symlink, or a directory. Exactly one of the type-specific fields is
// meaningful, selected by Type.
type Entry struct {
	Type Kind       `cbor:"_t" json:"type"`
	Path string     `cbor:"path" json:"path"`
	Attr Attributes `cbor:"attr" json:"attr"`

	// File-only.
	MD5 string `cbor:"md5,omitempty" json:"md5,omitempty"`
	Len uint32 `cbor:"len,omitempty" json:"len,omitempty"`

	// Symlink-only.
	Target string `cbor:"target,omitempty" json:"target,omitempty"`
}

// MaxFileLen is the largest length a File entry may record: invariant 1
// requires every File.Len to fit in a uint32.
const MaxFileLen = 1<<32 - 1

// Equal implements the §3 entry-equality relation used by diff.
func (e Entry) Equal(o Entry) bool {
	if e.Type != o.Type || e.Path != o.Path {
		return false
	}

	switch e.Type {
	case KindFile:
		return e.MD5 == o.MD5 && e.Len == o.Len && e.Attr.Equal(o.Attr)
	case KindSymlink:
		return e.Target == o.Target && e.Attr.Equal(o.Attr)
	case KindDir:
		return e.Attr.Equal(o.Attr)
	default:
		return false
	}
}

// FromPath lstat's p without following symlinks and dispatches on file
// type: regular files are hashed via HashFile, directories yield a Dir
// entry, symlinks have their target read. Any other file type
// (device, socket, fifo) is a fatal error.
func FromPath(p string) (Entry, error) {
	info, err := os.Lstat(p)
	if err != nil {
		return Entry{}, errs.IO(p, err)
	}

	attr := attributesOf(info)

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		target, err := os.Readlink(p)
		if err != nil {
			return Entry{}, errs.IO(p, err)
		}

		return Entry{Type: KindSymlink, Path: p, Attr: attr, Target: target}, nil

	case info.IsDir():
		return Entry{Type: KindDir, Path: p, Attr: attr}, nil

	case info.Mode().IsRegular():
		size := info.Size()
		if size < 0 || size > MaxFileLen {
			return Entry{}, errs.IO(p, errLenOutOfRange(size))
		}

		sum, err := HashFile(p, int(size))
		if err != nil {
			return Entry{}, err
		}

		return Entry{Type: KindFile, Path: p, Attr: attr, MD5: sum, Len: uint32(size)}, nil

	default:
		return Entry{}, errs.IO(p, errUnsupportedFileType())
	}
}

type lenOutOfRangeError struct{ size int64 }

func (e lenOutOfRangeError) Error() string {
	return "file length out of range (exceeds 2^32-1)"
}

func errLenOutOfRange(size int64) error { return lenOutOfRangeError{size} }

type unsupportedFileTypeError struct{}

func (unsupportedFileTypeError) Error() string { return "unsupported file type" }

func errUnsupportedFileType() error { return unsupportedFileTypeError{} }
