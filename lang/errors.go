package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrSyntax            = NewError("invalid expression syntax")
	ErrEmptyExpression   = NewError("empty expressions are not allowed")
	ErrUnmatchedOpen     = NewError("unmatched opening '('")
	ErrUnmatchedClose    = NewError("unmatched closing ')'")
	ErrUnexpectedToken   = NewError("unexpected token")
	ErrCallNonOperator   = NewError("only operators can be applied")
	ErrUnknownOperator   = NewError("unknown operator")
	ErrOperandCount      = NewError("operand count out of range")
	ErrOperatorType      = NewError("operand kind not accepted by operator")
	ErrOverflow          = NewError("arithmetic overflow")
	ErrTypeMismatch      = NewError("value kind does not match declared type")
	ErrUnknownType       = NewError("unknown type")
	ErrDuplicateType     = NewError("duplicate type definition")
	ErrDuplicateConstant = NewError("duplicate constant definition")
	ErrUnknownReference  = NewError("reference to undeclared constant")
	ErrCyclicDependency  = NewError("cyclic dependency between constants")
)

// Location identifies a span of an expression source string.
// It is attached to errors so diagnostics can point at the offending text.
type Location struct {
	Source string
	Start  int
	Len    int
}

// String renders the source line with a caret marker under the span.
func (l Location) String() string {
	return fmt.Sprintf(
		"  %s\n  %s%s",
		l.Source,
		strings.Repeat(" ", l.Start),
		strings.Repeat("^", max(l.Len, 1)),
	)
}

// Error represents an error with optional structured logging attributes
// and an optional source location.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
	loc   *Location
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
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
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

// Is reports whether target is the same sentinel this error was derived
// from. Derived errors (via With, Wrap, At) share the sentinel's message.
func (e *Error) Is(target error) bool {
	te := &Error{}
	if !errors.As(target, &te) {
		return false
	}

	return e.msg == te.msg
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
		loc:   e.loc,
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
		loc:   e.loc,
	}
}

// At attaches a source location to the error.
// This creates a new Error instance to maintain immutability.
func (e *Error) At(loc Location) *Error {
	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: e.attrs,
		loc:   &loc,
	}
}

// Location returns the source location attached to the error, if any.
func (e *Error) Location() (Location, bool) {
	if e.loc == nil {
		return Location{}, false
	}

	return *e.loc, true
}
