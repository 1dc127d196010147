package lang

import (
	"bytes"
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/f-space/rmmz-plugins-sub000/parsec"
)

// Messages supplies the wording of parse error diagnostics.
type Messages struct {
	// Location renders a 1-based line and column.
	Location func(line, col int) string
	// Expected renders what the parser could have accepted and what it
	// found instead.
	Expected func(want []string, found string) string
	// Excerpt includes the offending source line and a caret under the
	// failing column.
	Excerpt bool
	// Caret, if set, decorates the caret of the excerpt.
	Caret func(string) string
}

// DefaultMessages is the wording used by [FormatParseError].
var DefaultMessages = Messages{
	Location: func(line, col int) string {
		return "parse error at " + strconv.Itoa(line) + ":" + strconv.Itoa(col)
	},
	Expected: func(want []string, found string) string {
		return "expected " + joinAlternatives(want) + ", found " + found
	},
	Excerpt: true,
}

// ParseErrorFormatter renders a parse failure over src.
type ParseErrorFormatter func(src []byte, err error) string

// FormatParseError renders err with [DefaultMessages].
func FormatParseError(src []byte, err error) string {
	return defaultParseErrorFormatter(src, err)
}

var (
	defaultParseErrorFormatter = MakeParseErrorFormatter(DefaultMessages)
	inlineParseErrorFormatter  = MakeParseErrorFormatter(Messages{})
)

// MakeParseErrorFormatter returns a formatter using the wording of m. The
// failure reported is the deepest one; every alternative that failed at
// that same position contributes to the expected list.
func MakeParseErrorFormatter(m Messages) ParseErrorFormatter {
	if m.Location == nil {
		m.Location = DefaultMessages.Location
	}

	if m.Expected == nil {
		m.Expected = DefaultMessages.Expected
	}

	return func(src []byte, err error) string {
		if err == nil {
			return ""
		}

		pos := errorPos(err)
		if pos < 0 {
			return parsec.DefaultErrorFormatter(err)
		}

		want := expectedAt(err, pos)
		found := describeAt(src, pos)
		line, col, text := locate(src, pos)

		var sb strings.Builder

		sb.WriteString(m.Location(line, col))
		sb.WriteString(": ")
		sb.WriteString(m.Expected(want, found))

		if m.Excerpt {
			sb.WriteString("\n  ")
			sb.WriteString(text)
			sb.WriteString("\n  ")
			sb.WriteString(strings.Repeat(" ", col-1))

			if m.Caret != nil {
				sb.WriteString(m.Caret("^"))
			} else {
				sb.WriteByte('^')
			}
		}

		return sb.String()
	}
}

func errorPos(err error) int {
	var p parsec.Positioned
	if d, ok := parsec.Deepest(err).(parsec.Positioned); ok {
		return d.Pos()
	}

	if errors.As(err, &p) {
		return p.Pos()
	}

	return -1
}

// expectedAt lists, in order and without duplicates, what the failures at
// pos were looking for.
func expectedAt(err error, pos int) []string {
	var want []string

	var visit func(error)

	visit = func(err error) {
		if multi, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range multi.Unwrap() {
				visit(e)
			}

			return
		}

		p, ok := err.(parsec.Positioned)
		if !ok || p.Pos() != pos {
			return
		}

		if w := expectation(err); w != "" && !slices.Contains(want, w) {
			want = append(want, w)
		}
	}

	visit(err)

	return want
}

func expectation(err error) string {
	switch e := err.(type) {
	case *parsec.TokenError[byte]:
		var lex *LexError
		if errors.As(e.Cause, &lex) {
			return lex.Expected
		}

		return e.Cause.Error()

	case *parsec.EoiError[byte]:
		return "end of input"

	case *parsec.ValidationError[byte]:
		return e.Cause.Error()

	case *parsec.NotError[byte]:
		return "something else"

	case *parsec.AndError[byte]:
		return expectation(parsec.Deepest(e.Err))
	}

	return ""
}

func joinAlternatives(want []string) string {
	switch len(want) {
	case 0:
		return "nothing"
	case 1:
		return want[0]
	}

	return strings.Join(want[:len(want)-1], ", ") + " or " + want[len(want)-1]
}

// locate returns the 1-based line and column of pos and the text of its
// line. Columns count bytes.
func locate(src []byte, pos int) (line, col int, text string) {
	pos = min(pos, len(src))
	start := bytes.LastIndexByte(src[:pos], '\n') + 1

	end := bytes.IndexByte(src[pos:], '\n')
	if end < 0 {
		end = len(src)
	} else {
		end += pos
	}

	line = bytes.Count(src[:start], []byte{'\n'}) + 1
	col = pos - start + 1
	text = strings.TrimRight(string(src[start:end]), "\r")

	return line, col, text
}
