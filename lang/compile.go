package lang

import (
	"log/slog"
	"time"

	"github.com/f-space/rmmz-plugins-sub000/log"
	"github.com/f-space/rmmz-plugins-sub000/parsec"
)

// Option configures [Compile] and the programs it returns.
type Option func(config) config

type config struct {
	logger       log.Logger
	memo         bool
	parseError   ParseErrorFormatter
	runtimeError func(error) string
}

func makeConfig(opts ...Option) config {
	c := config{
		memo:         true,
		parseError:   FormatParseError,
		runtimeError: FormatRuntimeError,
	}

	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

// WithLogger sets the logger receiving Trace records for parses and
// evaluations.
func WithLogger(logger log.Logger) Option {
	return func(c config) config {
		c.logger = logger

		return c
	}
}

// WithMemo enables or disables packrat memoization while parsing.
func WithMemo(enable bool) Option {
	return func(c config) config {
		c.memo = enable

		return c
	}
}

// WithParseErrorFormatter sets the message of the panics raised by
// [Expect] and [Interpret] for invalid source.
func WithParseErrorFormatter(f ParseErrorFormatter) Option {
	return func(c config) config {
		if f != nil {
			c.parseError = f
		}

		return c
	}
}

// WithRuntimeErrorFormatter sets the message of the panics raised by [Run]
// and [Interpret] for failed evaluations.
func WithRuntimeErrorFormatter(f func(error) string) Option {
	return func(c config) config {
		if f != nil {
			c.runtimeError = f
		}

		return c
	}
}

func (c config) parserOptions() []parsec.Option {
	return []parsec.Option{parsec.WithMemo(c.memo), parsec.WithLogger(c.logger)}
}

// Program is a compiled expression. It is immutable and safe for
// concurrent use.
type Program struct {
	typ    Type
	source string
	ast    Node
	eval   Evaluator
	config config
}

// Compile parses src and builds an evaluator whose result must be of type
// t. An invalid src is reported as a [*ParseError].
func Compile(t Type, src string, opts ...Option) (*Program, error) {
	cfg := makeConfig(opts...)
	buf := []byte(src)

	started := time.Now()
	node, err := ParseExpression(buf, cfg.parserOptions()...)

	if cfg.logger.Allows(log.LevelTrace) {
		cfg.logger.Trace("compile",
			slog.String("type", t.String()),
			slog.String("source", src),
			slog.Bool("ok", err == nil),
			slog.Duration("elapsed", time.Since(started)),
		)
	}

	if err != nil {
		return nil, &ParseError{Source: src, Err: err}
	}

	return &Program{
		typ:    t,
		source: src,
		ast:    node,
		eval:   Build(t, node, buf),
		config: cfg,
	}, nil
}

// Type returns the result type p was compiled against.
func (p *Program) Type() Type { return p.typ }

// Source returns the text p was compiled from.
func (p *Program) Source() string { return p.source }

// AST returns the parsed expression.
func (p *Program) AST() Node { return p.ast }

// String returns the fully parenthesized form of the expression.
func (p *Program) String() string { return Format(p.ast, []byte(p.source)) }

// Eval evaluates p in env.
func (p *Program) Eval(env Env) (any, error) {
	v, err := p.eval(env)

	if l := p.config.logger; l.Allows(log.LevelTrace) {
		attrs := []slog.Attr{
			slog.String("source", p.source),
			slog.Bool("ok", err == nil),
		}

		if err != nil {
			attrs = append(attrs, slog.String("error", p.config.runtimeError(err)))
		} else {
			attrs = append(attrs, slog.String("value", describe(v)))
		}

		l.Trace("eval", attrs...)
	}

	return v, err
}

// EvalNative evaluates p against the Go value root; see [Native].
func (p *Program) EvalNative(root any) (any, error) { return p.Eval(Native(root)) }

// Expect compiles src and panics with a [*parsec.FatalError] if it is not
// a valid expression.
func Expect(t Type, src string, opts ...Option) *Program {
	cfg := makeConfig(opts...)

	return parsec.Parse([]byte(src), func(b []byte) (*Program, error) {
		return Compile(t, string(b), opts...)
	}, func(err error) string {
		if pe, ok := err.(*ParseError); ok {
			return cfg.parseError([]byte(pe.Source), pe.Err)
		}

		return err.Error()
	})
}

// Run evaluates p in env and panics with a [*parsec.FatalError] if the
// evaluation fails. opts are applied over the options p was compiled with;
// only [WithRuntimeErrorFormatter] affects the outcome.
func Run(p *Program, env Env, opts ...Option) any {
	v, err := p.Eval(env)
	if err != nil {
		cfg := p.config
		for _, opt := range opts {
			cfg = opt(cfg)
		}

		panic(&parsec.FatalError{Message: cfg.runtimeError(err), Err: err})
	}

	return v
}

// Interpret compiles src and evaluates it in env, panicking on either kind
// of failure like [Expect] and [Run].
func Interpret(t Type, src string, env Env, opts ...Option) any {
	return Run(Expect(t, src, opts...), env)
}
