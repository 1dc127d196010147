package parsec

import "sync/atomic"

// Accept is a low-level recognizer. Given the whole source and a position it
// returns the recognized value and the position just past it, or a cause
// describing why nothing was recognized.
type Accept[E, T any] func(source []E, pos int) (T, int, error)

// Parser recognizes a T from a sequence of E.
//
// The zero Parser is not usable. Every constructed Parser has a unique
// identity that is preserved by copying, which is what [Memo] keys on.
type Parser[E, T any] struct {
	run func(Context[E]) (T, Context[E], error)
	id  uint64
}

var lastID atomic.Uint64

func nextID() uint64 { return lastID.Add(1) }

func newParser[E, T any](run func(Context[E]) (T, Context[E], error)) Parser[E, T] {
	return Parser[E, T]{run: run, id: nextID()}
}

// ID returns the identity of p.
func (p Parser[E, T]) ID() uint64 { return p.id }

// Run applies p at the position of ctx.
// On failure the returned context is ctx itself.
func (p Parser[E, T]) Run(ctx Context[E]) (T, Context[E], error) {
	if p.run == nil {
		panic(ErrUnbound)
	}

	return p.run(ctx)
}

// Token lifts a recognizer into a parser. A failing recognizer's cause is
// wrapped in a [TokenError] at the position where recognition started.
func Token[E, T any](accept Accept[E, T]) Parser[E, T] {
	return newParser(func(ctx Context[E]) (T, Context[E], error) {
		v, next, err := accept(ctx.Source, ctx.Position)
		if err != nil {
			var zero T

			return zero, ctx, &TokenError[E]{Ctx: ctx.bare(), Cause: err}
		}

		if next < ctx.Position {
			panic(errPosition(next, len(ctx.Source)))
		}

		return v, ctx.At(next), nil
	})
}

// Eoi succeeds without consuming anything when the whole source has been
// consumed and fails with an [EoiError] otherwise.
func Eoi[E any]() Parser[E, struct{}] {
	return newParser(func(ctx Context[E]) (struct{}, Context[E], error) {
		if !ctx.Done() {
			return struct{}{}, ctx, &EoiError[E]{Ctx: ctx.bare()}
		}

		return struct{}{}, ctx, nil
	})
}

// Succeed returns a parser that always succeeds with v without consuming
// any input.
func Succeed[E, T any](v T) Parser[E, T] {
	return newParser(func(ctx Context[E]) (T, Context[E], error) {
		return v, ctx, nil
	})
}

// Fail returns a parser that always fails with err without consuming any
// input.
func Fail[E, T any](err error) Parser[E, T] {
	return newParser(func(ctx Context[E]) (T, Context[E], error) {
		var zero T

		return zero, ctx, err
	})
}
