// Package errs defines the structured error kinds used across the manager
// core. Every failure surfaced to a caller is an *Error carrying a Kind, the
// operation that produced it, and an optional wrapped cause.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure by which contract it broke.
type Kind int

const (
	// KindParse covers metablock failures: no metablock, or no @name.
	KindParse Kind = iota
	// KindValidation covers filename collisions, over-long filenames, and
	// other precondition failures detected before any write happens.
	KindValidation
	// KindIO covers read/write/trash failures at the storage collaborator.
	KindIO
	// KindNetwork covers fetch failures and timeouts.
	KindNetwork
	// KindPattern covers patterns that fail their dialect grammar.
	KindPattern
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindValidation:
		return "validation"
	case KindIO:
		return "io"
	case KindNetwork:
		return "network"
	case KindPattern:
		return "pattern"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for Kind.
func (k Kind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// Error is the structured error type returned by the core packages.
type Error struct {
	Kind Kind   // classification
	Op   string // operation that failed, e.g. "manager.Save"
	File string // filename involved, when one exists
	Msg  string // human-readable message
	Err  error  // wrapped cause, may be nil
}

// Error implements the error interface.
func (e *Error) Error() string {
	prefix := e.Op
	if e.File != "" {
		prefix = fmt.Sprintf("%s [%s]", e.Op, e.File)
	}
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", prefix, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", prefix, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", prefix, e.Err)
	default:
		return fmt.Sprintf("%s: %s failure", prefix, e.Kind)
	}
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error with a message and no wrapped cause.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// Newf creates an Error with a formatted message.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around a cause.
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// WithFile returns a copy of the error annotated with a filename.
func (e *Error) WithFile(file string) *Error {
	dup := *e
	dup.File = file
	return &dup
}

// KindOf extracts the Kind from an error chain. The second return is false
// when no *Error is present in the chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsKind reports whether the error chain contains an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
