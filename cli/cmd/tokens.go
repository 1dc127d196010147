package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/f-space/rmmz-plugins-sub000/lang"
)

// Tokens prints the lexemes of an expression, one per line.
type Tokens struct {
	Expr       string `arg:"" help:"Expression to tokenize, or '-' to read it from stdin" name:"expr"`
	Whitespace bool   `       help:"Include whitespace lexemes"                                         short:"w"`
}

var (
	classStyle = lipgloss.NewStyle().Width(12)
	spanStyle  = lipgloss.NewStyle().Width(6).Align(lipgloss.Right)
	textStyle  = lipgloss.NewStyle().PaddingLeft(2)

	unknownStyle = textStyle.Foreground(lipgloss.Color("9"))
)

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := readExpr(t.Expr)
	if err != nil {
		return err
	}

	buf := []byte(src)

	var sb strings.Builder

	for _, lx := range lang.Tokenize(buf) {
		if lx.Type == lang.ClassWhitespace && !t.Whitespace {
			continue
		}

		text := textStyle
		if lx.Type == lang.ClassUnknown {
			text = unknownStyle
		}

		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			classStyle.Render(lx.Type.String()),
			spanStyle.Render(strconv.Itoa(lx.Start)),
			spanStyle.Render(strconv.Itoa(lx.End)),
			text.Render(strconv.Quote(lx.Text(buf))),
		))
		sb.WriteByte('\n')
	}

	_, err = fmt.Fprint(stdout(ctx), sb.String())
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
