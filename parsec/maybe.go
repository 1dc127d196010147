package parsec

// Maybe is an optional value produced by [Optional].
type Maybe[T any] struct {
	Value T
	Valid bool
}

// Some wraps a present value.
func Some[T any](v T) Maybe[T] { return Maybe[T]{Value: v, Valid: true} }

// None returns the absent value.
func None[T any]() Maybe[T] { return Maybe[T]{} }

// Get returns the value and whether it is present.
func (m Maybe[T]) Get() (T, bool) { return m.Value, m.Valid }

// OrElse returns the value if present and v otherwise.
func (m Maybe[T]) OrElse(v T) T {
	if m.Valid {
		return m.Value
	}

	return v
}
