package parsec

import "sync/atomic"

// Rule is a placeholder for a parser that is defined after the parsers
// that refer to it. It is how recursive grammars are built:
//
//	expr := NewRule[byte, Node]()
//	term := OneOf(number, Right(open, Left(expr.Parser(), closing)))
//	expr.Bind(term)
//
// Running a rule before it is bound panics with [ErrUnbound].
type Rule[E, T any] struct {
	target atomic.Pointer[Parser[E, T]]
	self   Parser[E, T]
	name   string
}

// NewRule declares a rule. The optional name is only used in panics.
func NewRule[E, T any](name ...string) *Rule[E, T] {
	r := &Rule[E, T]{}
	if len(name) > 0 {
		r.name = name[0]
	}

	r.self = newParser(func(ctx Context[E]) (T, Context[E], error) {
		p := r.target.Load()
		if p == nil {
			panic(errUnboundRule(r.name))
		}

		return p.Run(ctx)
	})

	return r
}

// Parser returns a parser that delegates to whatever is bound to r.
// It may be used before [Rule.Bind] is called.
func (r *Rule[E, T]) Parser() Parser[E, T] { return r.self }

// Bind attaches the parser r stands for. A rule may be bound only once.
func (r *Rule[E, T]) Bind(p Parser[E, T]) *Rule[E, T] {
	if !r.target.CompareAndSwap(nil, &p) {
		panic(errReboundRule(r.name))
	}

	return r
}

// Bound reports whether r has been bound.
func (r *Rule[E, T]) Bound() bool { return r.target.Load() != nil }
