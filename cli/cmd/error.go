package cmd

import (
	"log/slog"
	"strings"

	"github.com/ardnew/lotr/lang"
)

// Error represents a CLI command error with structured logging support.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

func NewError(msg string) *Error {
	return &Error{msg: msg}
}

func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.err == nil && len(t.attrs) == 0 && t.msg == e.msg
}

func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

var (
	ErrReadInput      = NewError("read input")
	ErrWriteOutput    = NewError("write output")
	ErrScriptNotFound = NewError("script not found")
	ErrLoadScript     = NewError("load script")
	ErrYAMLMarshal    = NewError("marshal YAML")
	ErrWriteConfig    = NewError("write configuration file")
	ErrFileExists     = NewError("file exists (use --force to overwrite)")
	ErrTimeout        = NewError("script timed out")
)

// ExitStatus is a process exit code. Commands return a nonzero ExitStatus as
// an error when the outcome is not success but nothing went wrong.
type ExitStatus int

const (
	StatusPassed  ExitStatus = 0 // script passed
	StatusError   ExitStatus = 1 // error
	StatusFailed  ExitStatus = 2 // script failed
	StatusAborted ExitStatus = 3 // script aborted
)

func (s ExitStatus) Error() string {
	switch s {
	case StatusPassed:
		return "script passed"
	case StatusFailed:
		return "script failed"
	case StatusAborted:
		return "script aborted"
	default:
		return "error"
	}
}

// statusOf returns the error reporting r, or nil if r passed.
func statusOf(r lang.Result) error {
	switch r {
	case lang.Passed:
		return nil
	case lang.Aborted:
		return StatusAborted
	default:
		return StatusFailed
	}
}
