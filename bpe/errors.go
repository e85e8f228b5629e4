package bpe

import (
	"errors"
	"fmt"
)

// Sentinel errors for simple, context-free failure modes.
var (
	// ErrNoBoundaries indicates fewer than two boundaries were supplied.
	ErrNoBoundaries = errors.New("bpe: at least two boundaries are required")

	// ErrNoFile indicates Train was called without WithFile.
	ErrNoFile = errors.New("bpe: no input file configured")
)

// IOError wraps a file open, seek, or read failure encountered while
// scanning a chunk of the corpus.
type IOError struct {
	Op   string // operation that failed, e.g. "open", "read"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("bpe: io error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// BoundaryError indicates the supplied chunk boundaries are not
// monotonically increasing, or fall outside the file's byte range.
type BoundaryError struct {
	Op  string
	Err error
}

func (e *BoundaryError) Error() string {
	return fmt.Sprintf("bpe: boundary error: %s: %v", e.Op, e.Err)
}

func (e *BoundaryError) Unwrap() error { return e.Err }

// RegexError indicates the compiled special-token alternation failed,
// which in practice only happens if escaping a special token produced an
// invalid pattern. The fixed pre-token pattern itself is known-valid.
type RegexError struct {
	Pattern string
	Err     error
}

func (e *RegexError) Error() string {
	return fmt.Sprintf("bpe: regex error: compiling %q: %v", e.Pattern, e.Err)
}

func (e *RegexError) Unwrap() error { return e.Err }

// NewIOError wraps err as an IOError.
func NewIOError(op, path string, err error) error {
	return &IOError{Op: op, Path: path, Err: err}
}

// NewBoundaryError wraps err as a BoundaryError.
func NewBoundaryError(op string, err error) error {
	return &BoundaryError{Op: op, Err: err}
}

// NewRegexError wraps err as a RegexError.
func NewRegexError(pattern string, err error) error {
	return &RegexError{Pattern: pattern, Err: err}
}
