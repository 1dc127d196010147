package lang

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/alecthomas/repr"
)

// ErrUnknownType is returned by [ParseType] for a name that is not a [Type].
var ErrUnknownType = errors.New("unknown type")

// RuntimeError is implemented by every error an evaluator raises on its own
// account. Failures inside host functions are reported as [*HostError]
// instead.
type RuntimeError interface {
	error
	runtimeError()
}

// ReferenceError reports an identifier that resolves to nothing.
type ReferenceError struct {
	Name string
}

// PropertyError reports a member access of a property the receiver does
// not have.
type PropertyError struct {
	Property string
}

// RangeError reports an element index outside the bounds of its array.
type RangeError struct {
	Index float64
}

// TypeError reports a value that does not satisfy a type contract.
// Expected is one of "number", "boolean", "object", "array", "integer" or
// "function".
type TypeError struct {
	Expected string
	Actual   any
}

// SecurityError reports an access that reached a denied property or value.
type SecurityError struct {
	Target string
}

func (e *ReferenceError) Error() string { return e.Name + " is not defined" }

func (e *PropertyError) Error() string {
	return "property " + strconv.Quote(e.Property) + " is not defined"
}

func (e *RangeError) Error() string {
	return "index " + describe(e.Index) + " is out of range"
}

func (e *TypeError) Error() string {
	return "expected " + e.Expected + ", got " + describe(e.Actual)
}

func (e *SecurityError) Error() string { return "access to " + e.Target + " is denied" }

func (*ReferenceError) runtimeError() {}
func (*PropertyError) runtimeError()  {}
func (*RangeError) runtimeError()     {}
func (*TypeError) runtimeError()      {}
func (*SecurityError) runtimeError()  {}

// HostError wraps an error returned or raised by a host function.
type HostError struct {
	Err error
}

func (e *HostError) Error() string { return "host call failed: " + e.Err.Error() }

func (e *HostError) Unwrap() error { return e.Err }

// ParseError is returned by [Compile] when the source is not a valid
// expression. Err is the error produced by the parser.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return inlineParseErrorFormatter([]byte(e.Source), e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Pos returns the position of the deepest parse failure, or -1.
func (e *ParseError) Pos() int {
	type positioned interface{ Pos() int }

	if p, ok := e.Err.(positioned); ok {
		return p.Pos()
	}

	return -1
}

// Describe renders a value the way diagnostics refer to it: numbers in
// shortest form, strings quoted, nil as undefined and host values by name.
func Describe(v any) string { return describe(v) }

func describe(v any) string {
	switch v := v.(type) {
	case nil:
		return "undefined"
	case float64:
		return formatNumber(v)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return strconv.Quote(v)
	case *Sentinel:
		return v.name
	case *Builtin:
		return "function " + v.name
	case *Namespace:
		return v.name
	}

	return repr.String(v, repr.OmitEmpty(true))
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func runtimeErrorName(err error) string {
	switch err.(type) {
	case *ReferenceError:
		return "ReferenceError"
	case *PropertyError:
		return "PropertyError"
	case *RangeError:
		return "RangeError"
	case *TypeError:
		return "TypeError"
	case *SecurityError:
		return "SecurityError"
	case *HostError:
		return "HostError"
	}

	return "Error"
}

// FormatRuntimeError renders an evaluation error as "Name: message".
func FormatRuntimeError(err error) string {
	if err == nil {
		return ""
	}

	var rt RuntimeError
	if errors.As(err, &rt) {
		return runtimeErrorName(rt) + ": " + rt.Error()
	}

	var host *HostError
	if errors.As(err, &host) {
		return runtimeErrorName(host) + ": " + host.Err.Error()
	}

	return fmt.Sprint(err)
}
