package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrReadScript    = NewError("failed to read script")
	ErrSyntax        = NewError("invalid script syntax")
	ErrCommandShape  = NewError("invalid command")
	ErrUnknownOpcode = NewError("unknown operation")
	ErrArgument      = NewError("invalid argument")
	ErrUnknownTag    = NewError("unknown tag")
	ErrPattern       = NewError("invalid regular expression")
	ErrExprCompile   = NewError("expression compilation failed")
	ErrExprEvaluate  = NewError("expression evaluation failed")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error implements the error interface.
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

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.msg == e.msg && t.err == nil && len(t.attrs) == 0
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
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
// This creates a new Error instance to maintain immutability.
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

// DecodeError reports a problem found while decoding a script, along with
// the position of the offending node.
type DecodeError struct {
	Name   string // Script name, empty for anonymous sources
	Line   int    // 1-based; zero if unknown
	Column int    // 1-based; zero if unknown
	Err    error
}

// Error implements the error interface.
// The message has the form "name:line:column: cause", omitting unknown parts.
func (e *DecodeError) Error() string {
	var b strings.Builder

	if e.Name != "" {
		b.WriteString(e.Name)
		b.WriteByte(':')
	}

	if e.Line > 0 {
		b.WriteString(strconv.Itoa(e.Line))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(e.Column))
		b.WriteByte(':')
	}

	if b.Len() > 0 {
		b.WriteByte(' ')
	}

	b.WriteString(e.Err.Error())

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *DecodeError) Unwrap() error { return e.Err }

// LogValue implements slog.LogValuer.
func (e *DecodeError) LogValue() slog.Value {
	attrs := []slog.Attr{}

	if e.Name != "" {
		attrs = append(attrs, slog.String("script", e.Name))
	}

	if e.Line > 0 {
		attrs = append(attrs, slog.Int("line", e.Line), slog.Int("column", e.Column))
	}

	var le slog.LogValuer
	if errors.As(e.Err, &le) {
		attrs = append(attrs, slog.Any("cause", le))
	} else {
		attrs = append(attrs, slog.String("cause", e.Err.Error()))
	}

	return slog.GroupValue(attrs...)
}
