package verifier

import (
	"errors"
	"fmt"
)

// ErrChecksFailed is returned when a run completes but at least one check
// did not pass.
var ErrChecksFailed = errors.New("one or more checks failed")

// FileErrorKind classifies a failure to obtain the target content.
type FileErrorKind int

const (
	// KindNotFound means the target path does not exist.
	KindNotFound FileErrorKind = iota
	// KindUnreadable means the target exists but could not be read.
	KindUnreadable
	// KindDecode means the target is not valid UTF-8 text.
	KindDecode
)

// String returns the string representation of FileErrorKind.
func (k FileErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnreadable:
		return "unreadable"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// FileError is a hard failure: no checks are evaluated when it occurs.
type FileError struct {
	Kind FileErrorKind
	Path string
	Err  error // Underlying error (optional)
}

// Error implements the error interface for FileError.
func (e *FileError) Error() string {
	var msg string
	switch e.Kind {
	case KindNotFound:
		msg = fmt.Sprintf("file not found: %s", e.Path)
	case KindDecode:
		msg = fmt.Sprintf("file is not valid UTF-8: %s", e.Path)
	default:
		msg = fmt.Sprintf("cannot read file: %s", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for error wrapping support.
func (e *FileError) Unwrap() error {
	return e.Err
}

// IsFileError reports whether err is (or wraps) a FileError and returns it.
func IsFileError(err error) (*FileError, bool) {
	var fe *FileError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
