package cmd

import (
	"context"
	"log/slog"

	"github.com/f-space/rmmz-plugins-sub000/lang"
	"github.com/f-space/rmmz-plugins-sub000/log"
)

// Eval compiles an expression and evaluates it against an environment.
type Eval struct {
	EnvFlags `embed:""`

	Expr   string    `arg:"" help:"Expression to evaluate, or '-' to read it from stdin" name:"expr"`
	Type   lang.Type `       help:"Required result type (any, number, boolean)"                       default:"any"    short:"t"`
	Output string    `       help:"Output format (${enum})"                                            default:"native" short:"o" enum:"native,json,yaml"`
	NoMemo bool      `       help:"Disable packrat memoization while parsing"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := readExpr(e.Expr)
	if err != nil {
		return err
	}

	env, err := e.Load(ctx)
	if err != nil {
		return err
	}

	prog, err := lang.Compile(e.Type, src, compileOptions(ctx, e.NoMemo)...)
	if err != nil {
		return ErrCompile.
			With(slog.String("source", src)).
			Wrap(err)
	}

	v, err := prog.EvalNative(env)
	if err != nil {
		return ErrEvaluate.
			With(
				slog.String("source", src),
				slog.String("type", e.Type.String()),
			).
			Wrap(err)
	}

	err = writeFormatted(stdout(ctx), e.Output, v, lang.Describe(v))
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	log.DebugContext(ctx, "evaluated expression",
		slog.String("source", src),
		slog.String("value", lang.Describe(v)),
	)

	return nil
}

// compileOptions returns the options shared by every command that
// compiles expressions.
func compileOptions(ctx context.Context, noMemo bool) []lang.Option {
	return []lang.Option{
		lang.WithLogger(log.FromContext(ctx)),
		lang.WithMemo(!noMemo),
	}
}
