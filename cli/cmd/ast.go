package cmd

import (
	"context"
	"log/slog"

	"github.com/f-space/rmmz-plugins-sub000/lang"
)

// AST prints the syntax tree of an expression.
type AST struct {
	Expr   string `arg:"" help:"Expression to parse, or '-' to read it from stdin" name:"expr"`
	Output string `       help:"Output format (${enum})"                             default:"native" short:"o" enum:"native,json,yaml"`
	NoMemo bool   `       help:"Disable packrat memoization while parsing"`
}

// Run executes the ast command. The native format is the fully
// parenthesized expression; json and yaml print the node tree.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := readExpr(a.Expr)
	if err != nil {
		return err
	}

	prog, err := lang.Compile(lang.TypeAny, src, compileOptions(ctx, a.NoMemo)...)
	if err != nil {
		return ErrCompile.
			With(slog.String("source", src)).
			Wrap(err)
	}

	tree := lang.ToMap(prog.AST(), []byte(src))

	err = writeFormatted(stdout(ctx), a.Output, tree, prog.String())
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
