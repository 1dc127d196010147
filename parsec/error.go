package parsec

import (
	"errors"
	"fmt"
	"strings"
)

// Programming errors. These are raised as panics, never returned.
var (
	ErrUnbound       = errors.New("parser is not bound")
	ErrLeftRecursion = errors.New("left-recursive memoized parser")
	ErrPosition      = errors.New("position out of range")
)

func errPosition(pos, size int) error {
	return fmt.Errorf("%w: %d not in [0, %d]", ErrPosition, pos, size)
}

func errUnboundRule(name string) error {
	if name == "" {
		return ErrUnbound
	}

	return fmt.Errorf("%w: rule %q", ErrUnbound, name)
}

func errReboundRule(name string) error {
	if name == "" {
		return errors.New("rule is already bound")
	}

	return fmt.Errorf("rule %q is already bound", name)
}

// Positioned is implemented by every parse failure that knows where it
// happened.
type Positioned interface {
	error
	Pos() int
}

// TokenError reports that a leaf recognizer did not match.
type TokenError[E any] struct {
	Cause error
	Ctx   Context[E]
}

func (e *TokenError[E]) Error() string {
	return fmt.Sprintf("unexpected input at %d: %v", e.Ctx.Position, e.Cause)
}

func (e *TokenError[E]) Unwrap() error { return e.Cause }

// Pos returns the position where recognition was attempted.
func (e *TokenError[E]) Pos() int { return e.Ctx.Position }

// EoiError reports input left over where the end of input was expected.
type EoiError[E any] struct {
	Ctx Context[E]
}

func (e *EoiError[E]) Error() string {
	return fmt.Sprintf("expected end of input at %d", e.Ctx.Position)
}

// Pos returns the position of the first unconsumed item.
func (e *EoiError[E]) Pos() int { return e.Ctx.Position }

// AndError reports that the predicate of [And] did not match.
type AndError[E any] struct {
	Err error
	Ctx Context[E]
}

func (e *AndError[E]) Error() string {
	return fmt.Sprintf("lookahead failed at %d: %v", e.Ctx.Position, e.Err)
}

func (e *AndError[E]) Unwrap() error { return e.Err }

// Pos returns the position of the lookahead.
func (e *AndError[E]) Pos() int { return e.Ctx.Position }

// NotError reports that the predicate of [Not] matched.
type NotError[E any] struct {
	Value any
	Ctx   Context[E]
}

func (e *NotError[E]) Error() string {
	return fmt.Sprintf("unexpected match at %d", e.Ctx.Position)
}

// Pos returns the position of the lookahead.
func (e *NotError[E]) Pos() int { return e.Ctx.Position }

// ValidationError reports a parsed value rejected by [Validate].
type ValidationError[E any] struct {
	Cause error
	Ctx   Context[E]
}

func (e *ValidationError[E]) Error() string {
	return fmt.Sprintf("invalid value at %d: %v", e.Ctx.Position, e.Cause)
}

func (e *ValidationError[E]) Unwrap() error { return e.Cause }

// Pos returns the position where the rejected value started.
func (e *ValidationError[E]) Pos() int { return e.Ctx.Position }

// OneOfError holds the errors of every failed alternative of [OneOf], in
// the order the alternatives were tried.
type OneOfError []error

func (e OneOfError) Error() string {
	if len(e) == 0 {
		return "no alternatives"
	}

	var sb strings.Builder

	sb.WriteString("no alternative matched: ")

	for i, err := range e {
		if i > 0 {
			sb.WriteString("; ")
		}

		sb.WriteString(err.Error())
	}

	return sb.String()
}

func (e OneOfError) Unwrap() []error { return e }

// Pos returns the position of the deepest alternative, or -1 when e is
// empty.
func (e OneOfError) Pos() int {
	if len(e) == 0 {
		return -1
	}

	if p, ok := Deepest(e).(Positioned); ok {
		return p.Pos()
	}

	return -1
}

// FatalError is the panic value raised by [Parse].
type FatalError struct {
	Err     error
	Message string
}

func (e *FatalError) Error() string { return e.Message }

func (e *FatalError) Unwrap() error { return e.Err }
