// Package errs implements the error-kind taxonomy used across tc-cache:
// Io, Snapshot, UnrecognizedService and Storage, each optionally wrapping
// a cause via github.com/pkg/errors so the original stack trace survives.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind discriminates the class of failure, mirroring the ErrorKind enum
// in the original Rust implementation.
type Kind int

const (
	// KindIO covers filesystem errors: stat, open, create, write.
	KindIO Kind = iota
	// KindSnapshot covers corrupt-archive errors: bad magic, short read, bad CBOR.
	KindSnapshot
	// KindUnrecognizedService covers CI-environment resolution failures.
	KindUnrecognizedService
	// KindStorage covers blob-store/remote-URI errors.
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindSnapshot:
		return "snapshot"
	case KindUnrecognizedService:
		return "unrecognized_service"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Error is the error type returned from every tc-cache package boundary.
type Error struct {
	Kind    Kind
	Path    string
	Message string
	cause   error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindIO:
		if e.cause != nil {
			return fmt.Sprintf("file %q error: %s", e.Path, e.cause)
		}
		return fmt.Sprintf("file %q error", e.Path)
	case KindUnrecognizedService:
		return fmt.Sprintf("unrecognized CI service: %s", e.Message)
	case KindStorage:
		if e.cause != nil {
			return fmt.Sprintf("storage error: %s: %s", e.Message, e.cause)
		}
		return fmt.Sprintf("storage error: %s", e.Message)
	default:
		if e.cause != nil {
			return fmt.Sprintf("snapshot error: %s: %s", e.Message, e.cause)
		}
		return fmt.Sprintf("snapshot error: %s", e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.cause
}

// IO wraps err as an Io(path) error, or returns nil if err is nil.
func IO(path string, err error) error {
	if err == nil {
		return nil
	}

	return &Error{Kind: KindIO, Path: path, cause: errors.WithStack(err)}
}

// Snapshot builds a Snapshot(msg) error, optionally wrapping a cause.
func Snapshot(message string, cause error) error {
	return &Error{Kind: KindSnapshot, Message: message, cause: cause}
}

// Snapshotf is the formatted variant of Snapshot with no cause.
func Snapshotf(format string, args ...any) error {
	return &Error{Kind: KindSnapshot, Message: fmt.Sprintf(format, args...)}
}

// UnrecognizedService builds an UnrecognizedService error.
func UnrecognizedService(message string) error {
	return &Error{Kind: KindUnrecognizedService, Message: message}
}

// Storage builds a Storage error, optionally wrapping a cause.
func Storage(message string, cause error) error {
	return &Error{Kind: KindStorage, Message: message, cause: cause}
}

// Storagef is the formatted variant of Storage with no cause.
func Storagef(format string, args ...any) error {
	return &Error{Kind: KindStorage, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind of err, or false if err isn't a *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}

	return 0, false
}
