package parsec

import "sync"

// Pair holds the values of two sequenced parsers.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Triple holds the values of three sequenced parsers.
type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// AndThen runs p and feeds its value to f to obtain the parser that runs
// next. Errors from either stage propagate untouched.
func AndThen[E, T, U any](p Parser[E, T], f func(T) Parser[E, U]) Parser[E, U] {
	return newParser(func(ctx Context[E]) (U, Context[E], error) {
		v, next, err := p.Run(ctx)
		if err != nil {
			var zero U

			return zero, ctx, err
		}

		u, end, err := f(v).Run(next)
		if err != nil {
			return u, ctx, err
		}

		return u, end, nil
	})
}

// OrElse runs p and, if it fails, feeds the error to f to obtain a
// fallback parser that runs at the original position.
func OrElse[E, T any](p Parser[E, T], f func(error) Parser[E, T]) Parser[E, T] {
	return newParser(func(ctx Context[E]) (T, Context[E], error) {
		v, next, err := p.Run(ctx)
		if err == nil {
			return v, next, nil
		}

		return f(err).Run(ctx)
	})
}

// If runs cond and commits to a branch: then receives cond's value and
// continues after it; otherwise receives cond's error and runs at the
// original position. There is no backtracking into cond once a branch has
// been taken.
func If[E, T, U any](
	cond Parser[E, T],
	then func(T) Parser[E, U],
	otherwise func(error) Parser[E, U],
) Parser[E, U] {
	return newParser(func(ctx Context[E]) (U, Context[E], error) {
		v, next, err := cond.Run(ctx)
		if err != nil {
			return otherwise(err).Run(ctx)
		}

		u, end, err := then(v).Run(next)
		if err != nil {
			return u, ctx, err
		}

		return u, end, nil
	})
}

// Map transforms the value of a successful parse.
func Map[E, T, U any](p Parser[E, T], f func(T) U) Parser[E, U] {
	return newParser(func(ctx Context[E]) (U, Context[E], error) {
		v, next, err := p.Run(ctx)
		if err != nil {
			var zero U

			return zero, ctx, err
		}

		return f(v), next, nil
	})
}

// MapError transforms the error of a failed parse.
func MapError[E, T any](p Parser[E, T], f func(error) error) Parser[E, T] {
	return newParser(func(ctx Context[E]) (T, Context[E], error) {
		v, next, err := p.Run(ctx)
		if err != nil {
			return v, ctx, f(err)
		}

		return v, next, nil
	})
}

// Seq runs ps in order and collects their values. The first failure is
// returned as is.
func Seq[E, T any](ps ...Parser[E, T]) Parser[E, []T] {
	return newParser(func(ctx Context[E]) ([]T, Context[E], error) {
		values := make([]T, 0, len(ps))
		next := ctx

		for _, p := range ps {
			v, end, err := p.Run(next)
			if err != nil {
				return nil, ctx, err
			}

			values = append(values, v)
			next = end
		}

		return values, next, nil
	})
}

// Seq2 runs a then b and pairs their values.
func Seq2[E, A, B any](a Parser[E, A], b Parser[E, B]) Parser[E, Pair[A, B]] {
	return newParser(func(ctx Context[E]) (Pair[A, B], Context[E], error) {
		var out Pair[A, B]

		va, next, err := a.Run(ctx)
		if err != nil {
			return out, ctx, err
		}

		vb, next, err := b.Run(next)
		if err != nil {
			return out, ctx, err
		}

		return Pair[A, B]{First: va, Second: vb}, next, nil
	})
}

// Seq3 runs a, b, and c in order and groups their values.
func Seq3[E, A, B, C any](
	a Parser[E, A],
	b Parser[E, B],
	c Parser[E, C],
) Parser[E, Triple[A, B, C]] {
	return newParser(func(ctx Context[E]) (Triple[A, B, C], Context[E], error) {
		var out Triple[A, B, C]

		va, next, err := a.Run(ctx)
		if err != nil {
			return out, ctx, err
		}

		vb, next, err := b.Run(next)
		if err != nil {
			return out, ctx, err
		}

		vc, next, err := c.Run(next)
		if err != nil {
			return out, ctx, err
		}

		return Triple[A, B, C]{First: va, Second: vb, Third: vc}, next, nil
	})
}

// Left runs p then skip and keeps the value of p.
func Left[E, T, S any](p Parser[E, T], skip Parser[E, S]) Parser[E, T] {
	return Map(Seq2(p, skip), func(v Pair[T, S]) T { return v.First })
}

// Right runs skip then p and keeps the value of p.
func Right[E, S, T any](skip Parser[E, S], p Parser[E, T]) Parser[E, T] {
	return Map(Seq2(skip, p), func(v Pair[S, T]) T { return v.Second })
}

// OneOf tries ps in order at the same position and returns the first
// success. If every alternative fails, the error is a [OneOfError] holding
// all of their errors in order.
func OneOf[E, T any](ps ...Parser[E, T]) Parser[E, T] {
	return newParser(func(ctx Context[E]) (T, Context[E], error) {
		errs := make(OneOfError, 0, len(ps))

		for _, p := range ps {
			v, next, err := p.Run(ctx)
			if err == nil {
				return v, next, nil
			}

			errs = append(errs, err)
		}

		var zero T

		return zero, ctx, errs
	})
}

// Optional never fails. It yields [Some] of the value of p, or [None]
// without consuming input when p fails.
func Optional[E, T any](p Parser[E, T]) Parser[E, Maybe[T]] {
	return newParser(func(ctx Context[E]) (Maybe[T], Context[E], error) {
		v, next, err := p.Run(ctx)
		if err != nil {
			return None[T](), ctx, nil
		}

		return Some(v), next, nil
	})
}

// Many applies p zero or more times. Repetition stops at the first failure
// of p, which is discarded, or at the first success that consumes nothing.
func Many[E, T any](p Parser[E, T]) Parser[E, []T] {
	return newParser(func(ctx Context[E]) ([]T, Context[E], error) {
		values, next := repeat(p, ctx, nil)

		return values, next, nil
	})
}

// Many1 is like [Many] but fails with the error of p when p does not match
// at least once.
func Many1[E, T any](p Parser[E, T]) Parser[E, []T] {
	return newParser(func(ctx Context[E]) ([]T, Context[E], error) {
		first, next, err := p.Run(ctx)
		if err != nil {
			return nil, ctx, err
		}

		values, next := repeat(p, next, []T{first})

		return values, next, nil
	})
}

func repeat[E, T any](p Parser[E, T], ctx Context[E], values []T) ([]T, Context[E]) {
	for {
		v, next, err := p.Run(ctx)
		if err != nil {
			return values, ctx
		}

		values = append(values, v)

		if next.Position == ctx.Position {
			return values, next
		}

		ctx = next
	}
}

// And is a positive lookahead. It runs p only if pred matches at the same
// position; pred consumes nothing. A failing pred is reported as an
// [AndError].
func And[E, P, T any](pred Parser[E, P], p Parser[E, T]) Parser[E, T] {
	return newParser(func(ctx Context[E]) (T, Context[E], error) {
		_, _, err := pred.Run(ctx)
		if err != nil {
			var zero T

			return zero, ctx, &AndError[E]{Ctx: ctx.bare(), Err: err}
		}

		return p.Run(ctx)
	})
}

// Not is a negative lookahead. It runs p only if pred does not match at the
// same position. A matching pred is reported as a [NotError] carrying the
// value it produced.
func Not[E, P, T any](pred Parser[E, P], p Parser[E, T]) Parser[E, T] {
	return newParser(func(ctx Context[E]) (T, Context[E], error) {
		v, _, err := pred.Run(ctx)
		if err == nil {
			var zero T

			return zero, ctx, &NotError[E]{Ctx: ctx.bare(), Value: v}
		}

		return p.Run(ctx)
	})
}

// Validate runs p and checks its value with fn. A rejected value is
// reported as a [ValidationError] at the position where p started.
func Validate[E, T any](p Parser[E, T], fn func(T) error) Parser[E, T] {
	return newParser(func(ctx Context[E]) (T, Context[E], error) {
		v, next, err := p.Run(ctx)
		if err != nil {
			return v, ctx, err
		}

		err = fn(v)
		if err != nil {
			var zero T

			return zero, ctx, &ValidationError[E]{Ctx: ctx.bare(), Cause: err}
		}

		return v, next, nil
	})
}

// Memo caches the outcome of p by (identity, position) in the memo table of
// the running driver. Without a memo table it simply runs p.
//
// Reentering the same memoized parser at the same position before it has
// produced a result means the grammar is left-recursive; that panics with
// [ErrLeftRecursion].
func Memo[E, T any](p Parser[E, T]) Parser[E, T] {
	id := nextID()

	return Parser[E, T]{
		id: id,
		run: func(ctx Context[E]) (T, Context[E], error) {
			m := ctx.memo
			if m == nil {
				return p.Run(ctx)
			}

			if e, ok := m.lookup(ctx.Position, id); ok {
				if e.pending {
					panic(ErrLeftRecursion)
				}

				m.hits++

				v, _ := e.value.(T)
				if e.err != nil {
					return v, ctx, e.err
				}

				return v, ctx.At(e.next), nil
			}

			m.misses++

			index := m.reserve(ctx.Position, id)
			v, next, err := p.Run(ctx)

			m.store(ctx.Position, index, memoEntry{
				id:    id,
				value: v,
				err:   err,
				next:  next.Position,
			})

			return v, next, err
		},
	}
}

// LazyRef defers the construction of a parser until it first runs. get is
// called at most once.
func LazyRef[E, T any](get func() Parser[E, T]) Parser[E, T] {
	build := sync.OnceValue(get)

	return newParser(func(ctx Context[E]) (T, Context[E], error) {
		return build().Run(ctx)
	})
}
