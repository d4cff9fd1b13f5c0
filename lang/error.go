package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
//
// Every typed fault below reports itself as one of these under [errors.Is],
// so callers can branch on the fault category without a type switch.
var (
	ErrParse         = NewError("parse error")
	ErrName          = NewError("name error")
	ErrType          = NewError("type error")
	ErrArity         = NewError("arity error")
	ErrDivideByZero  = NewError("division by zero")
	ErrUse           = NewError("use error")
	ErrStackOverflow = NewError("stack overflow")
	ErrInterrupted   = NewError("evaluation interrupted")
	ErrOutput        = NewError("failed to write output")
	ErrReadInput     = NewError("failed to read input")
	ErrNoProgram     = NewError("no program")
	ErrInvalidNode   = NewError("invalid syntax node")
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

// Is reports whether target is an [Error] with the same message, so that
// errors derived from a sentinel via [Error.Wrap] or [Error.With] still match
// it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg != "" && t.msg == e.msg
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

// ParseError reports source text that does not match the grammar.
type ParseError struct {
	Message  string
	Source   string   // The original source input
	Expected []string // Optional expected tokens
	Line     int
	Column   int
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var buf strings.Builder

	buf.WriteString("parse error at line ")
	buf.WriteString(strconv.Itoa(e.Line))
	buf.WriteString(", column ")
	buf.WriteString(strconv.Itoa(e.Column))
	buf.WriteString(": ")
	buf.WriteString(e.Message)

	if snippet := e.Snippet(); snippet != "" {
		buf.WriteRune('\n')
		buf.WriteString(snippet)
	}

	if len(e.Expected) > 0 {
		if !strings.HasSuffix(buf.String(), "\n") {
			buf.WriteRune('\n')
		}

		buf.WriteString("\texpected: ")
		buf.WriteString(strings.Join(e.quotedExpected(), ", "))
	}

	return buf.String()
}

// Is matches [ErrParse].
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// Position returns the location of the failure.
func (e *ParseError) Position() Position {
	return Position{Line: e.Line, Column: e.Column}
}

// Snippet renders the offending source line with a caret under the failing
// column. It returns an empty string if the source is unknown or the line is
// out of range.
func (e *ParseError) Snippet() string {
	if e.Source == "" {
		return ""
	}

	lines := strings.Split(e.Source, "\n")
	if e.Line <= 0 || e.Line > len(lines) {
		return ""
	}

	var src strings.Builder

	line := strings.TrimRight(lines[e.Line-1], "\r")

	src.WriteString("  ")
	src.WriteString(strconv.Itoa(e.Line))
	src.WriteString(" | ")
	src.WriteString(line)
	src.WriteRune('\n')

	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	padding := strings.Repeat(" ", len(strconv.Itoa(e.Line))+5)
	if e.Column > 0 {
		padding += strings.Repeat(" ", e.Column-1)
	}

	src.WriteString(padding + "^\n")

	return src.String()
}

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", e.Message),
		slog.Int("line", e.Line),
		slog.Int("column", e.Column),
		slog.Any("expected", e.Expected),
	)
}

func (e *ParseError) quotedExpected() []string {
	exp := make([]string, 0, len(e.Expected))
	for _, s := range e.Expected {
		exp = append(exp, strconv.Quote(s))
	}

	slices.Sort(exp)

	return slices.Compact(exp)
}

// NameError reports a reference to, or assignment of, an undefined name.
type NameError struct {
	Name string
	Pos  Position
}

func (e *NameError) Error() string {
	return fmt.Sprintf("name error%s: undefined name %q", e.Pos.suffix(), e.Name)
}

// Is matches [ErrName].
func (e *NameError) Is(target error) bool { return target == ErrName }

// LogValue implements slog.LogValuer.
func (e *NameError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrName.msg),
		slog.String("name", e.Name),
		slog.Any("pos", e.Pos),
	)
}

// TypeError reports an operand, condition, or callee of the wrong kind.
// Context names the operator or construct that rejected the value.
type TypeError struct {
	Context string
	Kinds   []Kind
	Pos     Position
}

func (e *TypeError) Error() string {
	kinds := make([]string, len(e.Kinds))
	for i, k := range e.Kinds {
		kinds[i] = k.String()
	}

	return fmt.Sprintf("type error%s: %s (got %s)",
		e.Pos.suffix(), e.Context, strings.Join(kinds, ", "))
}

// Is matches [ErrType].
func (e *TypeError) Is(target error) bool { return target == ErrType }

// LogValue implements slog.LogValuer.
func (e *TypeError) LogValue() slog.Value {
	kinds := make([]string, len(e.Kinds))
	for i, k := range e.Kinds {
		kinds[i] = k.String()
	}

	return slog.GroupValue(
		slog.String("error", ErrType.msg),
		slog.String("context", e.Context),
		slog.Any("kinds", kinds),
		slog.Any("pos", e.Pos),
	)
}

// ArityError reports a call whose argument count differs from the callee's
// parameter count.
type ArityError struct {
	Function string
	Expected int
	Got      int
	Pos      Position
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("arity error%s: %s expects %d %s, got %d",
		e.Pos.suffix(), e.Function, e.Expected, plural(e.Expected, "argument"),
		e.Got)
}

// Is matches [ErrArity].
func (e *ArityError) Is(target error) bool { return target == ErrArity }

// LogValue implements slog.LogValuer.
func (e *ArityError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrArity.msg),
		slog.String("function", e.Function),
		slog.Int("expected", e.Expected),
		slog.Int("got", e.Got),
		slog.Any("pos", e.Pos),
	)
}

// DivideByZeroError reports a division whose divisor is zero.
type DivideByZeroError struct {
	Pos Position
}

func (e *DivideByZeroError) Error() string {
	return ErrDivideByZero.msg + e.Pos.suffix()
}

// Is matches [ErrDivideByZero].
func (e *DivideByZeroError) Is(target error) bool {
	return target == ErrDivideByZero
}

// LogValue implements slog.LogValuer.
func (e *DivideByZeroError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrDivideByZero.msg),
		slog.Any("pos", e.Pos),
	)
}

// UseError reports a control-flow statement outside the construct that
// handles it: break or continue outside a loop, return outside a function.
type UseError struct {
	Construct string
	Pos       Position
}

func (e *UseError) Error() string {
	where := "a loop"
	if e.Construct == "return" {
		where = "a function"
	}

	return fmt.Sprintf("use error%s: %q outside of %s",
		e.Pos.suffix(), e.Construct, where)
}

// Is matches [ErrUse].
func (e *UseError) Is(target error) bool { return target == ErrUse }

// LogValue implements slog.LogValuer.
func (e *UseError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrUse.msg),
		slog.String("construct", e.Construct),
		slog.Any("pos", e.Pos),
	)
}

// StackOverflowError reports a call that would exceed the configured call
// depth ceiling.
type StackOverflowError struct {
	Function string
	Depth    int
	Pos      Position
}

func (e *StackOverflowError) Error() string {
	return fmt.Sprintf("stack overflow%s: calling %s exceeds depth %d",
		e.Pos.suffix(), e.Function, e.Depth)
}

// Is matches [ErrStackOverflow].
func (e *StackOverflowError) Is(target error) bool {
	return target == ErrStackOverflow
}

// LogValue implements slog.LogValuer.
func (e *StackOverflowError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrStackOverflow.msg),
		slog.String("function", e.Function),
		slog.Int("depth", e.Depth),
		slog.Any("pos", e.Pos),
	)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}

	return word + "s"
}
