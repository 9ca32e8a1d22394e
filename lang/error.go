package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values). All errors returned by this
// package and the calc package match one of these with errors.Is.
var (
	ErrParse               = NewError("parse error")
	ErrInvalidChar         = NewError("invalid character")
	ErrLower               = NewError("expression not supported by style backend")
	ErrUnsupportedFunction = NewError("unsupported function")
	ErrBadArity            = NewError("wrong number of arguments")
	ErrDimensionMismatch   = NewError("input rasters differ in shape")
	ErrUnknownVariable     = NewError("unknown variable")
	ErrUnknownBand         = NewError("unknown band")
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

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
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

// Is reports whether target is the same sentinel this error was
// derived from, so With/Wrap copies still match errors.Is.
func (e *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}

	return te.msg == e.msg
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
		attrs: e.attrs, // Share attrs
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

// ParseError describes a malformed token stream: an unexpected or
// missing token, or a stream that ended too early. Pos is the byte
// offset into Source where the problem was detected.
type ParseError struct {
	Msg    string
	Source string
	Pos    int
}

// Error implements the error interface. When the source is available
// the message includes a snippet with a caret marking the offset.
func (e *ParseError) Error() string {
	var buf strings.Builder

	buf.WriteString("parse error at column ")
	buf.WriteString(strconv.Itoa(e.Pos + 1))
	buf.WriteString(": ")
	buf.WriteString(e.Msg)

	if e.Source != "" {
		buf.WriteString("\n  ")
		buf.WriteString(e.Source)
		buf.WriteString("\n  ")
		buf.WriteString(strings.Repeat(" ", e.Pos))
		buf.WriteString("^")
	}

	return buf.String()
}

// Is matches ParseError against the ErrParse sentinel.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", e.Msg),
		slog.Int("pos", e.Pos),
		slog.String("source", e.Source),
	)
}
