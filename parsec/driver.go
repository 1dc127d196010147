package parsec

import (
	"fmt"
	"log/slog"

	"github.com/f-space/rmmz-plugins-sub000/log"
)

// Option configures a driver created by [Make] or [Mk].
type Option func(config) config

type config struct {
	logger log.Logger
	memo   bool
}

func makeConfig(opts ...Option) config {
	c := config{memo: true}
	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

// WithMemo enables or disables the memo table of each driver run.
// Memoization is enabled by default.
func WithMemo(enable bool) Option {
	return func(c config) config {
		c.memo = enable

		return c
	}
}

// WithLogger sets the logger that receives a Trace record for every driver
// run. The zero [log.Logger] discards everything.
func WithLogger(logger log.Logger) Option {
	return func(c config) config {
		c.logger = logger

		return c
	}
}

// Runner parses source starting at start and returns the value together
// with the position where parsing stopped. It is safe for concurrent use.
type Runner[E, T any] func(source []E, start int) (T, int, error)

// Make returns a resumable driver for p. Every call creates its own context
// and, unless disabled with [WithMemo], its own memo table.
func Make[E, T any](p Parser[E, T], opts ...Option) Runner[E, T] {
	cfg := makeConfig(opts...)

	return func(source []E, start int) (T, int, error) {
		if start < 0 || start > len(source) {
			var zero T

			return zero, start, errPosition(start, len(source))
		}

		ctx := Context[E]{Source: source, Position: start}
		if cfg.memo {
			ctx.memo = newMemoTable(len(source))
		}

		v, end, err := p.Run(ctx)

		trace(cfg.logger, ctx, end, err)

		return v, end.Position, err
	}
}

// Mk returns a whole-input driver for p that always starts at position 0
// and discards the end position.
func Mk[E, T any](p Parser[E, T], opts ...Option) func(source []E) (T, error) {
	run := Make(p, opts...)

	return func(source []E) (T, error) {
		v, _, err := run(source, 0)

		return v, err
	}
}

// Parse runs simple over source and returns its value. A failure panics
// with a [*FatalError] whose message is produced by format, or by
// [DefaultErrorFormatter] when format is nil.
func Parse[E, T any](
	source []E,
	simple func([]E) (T, error),
	format ErrorFormatter,
) T {
	v, err := simple(source)
	if err != nil {
		if format == nil {
			format = DefaultErrorFormatter
		}

		panic(&FatalError{Message: format(err), Err: err})
	}

	return v
}

func trace[E any](logger log.Logger, start, end Context[E], err error) {
	if !logger.Allows(log.LevelTrace) {
		return
	}

	attrs := []slog.Attr{
		slog.Int("source_len", len(start.Source)),
		slog.Int("start", start.Position),
		slog.Int("end", end.Position),
		slog.Bool("ok", err == nil),
	}

	if m := start.memo; m != nil {
		attrs = append(attrs,
			slog.Int("memo_hits", m.hits),
			slog.Int("memo_misses", m.misses),
			slog.Int("memo_entries", m.entries()),
		)
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", fmt.Sprint(err)))
	}

	logger.Trace("parse run", attrs...)
}
