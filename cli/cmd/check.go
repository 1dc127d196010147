package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/fatih/color"

	"github.com/f-space/rmmz-plugins-sub000/lang"
)

// Check reports whether an expression parses. A parse failure is printed
// as a caret diagnostic on stderr.
type Check struct {
	Expr   string `arg:"" help:"Expression to check, or '-' to read it from stdin" name:"expr"`
	NoMemo bool   `       help:"Disable packrat memoization while parsing"`
}

var (
	locationFmt = color.New(color.FgYellow, color.Bold).SprintFunc()
	caretFmt    = color.New(color.FgRed, color.Bold).SprintFunc()
)

// diagnostics is the wording of check diagnostics.
var diagnostics = lang.Messages{
	Location: func(line, col int) string {
		return locationFmt(strconv.Itoa(line) + ":" + strconv.Itoa(col))
	},
	Excerpt: true,
	Caret: func(s string) string {
		return caretFmt(s)
	},
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := readExpr(c.Expr)
	if err != nil {
		return err
	}

	prog, err := lang.Compile(lang.TypeAny, src, compileOptions(ctx, c.NoMemo)...)
	if err != nil {
		if pe := (*lang.ParseError)(nil); errors.As(err, &pe) {
			format := lang.MakeParseErrorFormatter(diagnostics)
			fmt.Fprintln(stderr(ctx), format([]byte(pe.Source), pe.Err))
		}

		return ErrCompile.
			With(slog.String("source", src)).
			Wrap(err)
	}

	_, err = fmt.Fprintln(stdout(ctx), prog.String())
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
