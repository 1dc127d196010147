package lang

import (
	"errors"
	"strings"
	"testing"

	"github.com/f-space/rmmz-plugins-sub000/parsec"
)

func TestParseExpression_Grouping(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"12 - 34 - 56", "((12 - 34) - 56)"},
		{"12 ** 34 ** 56", "(12 ** (34 ** 56))"},
		{"12 ? 34 : 56 ? 78 : 90", "(12 ? 34 : (56 ? 78 : 90))"},
		{"a ? b ? c : d : e", "(a ? (b ? c : d) : e)"},
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"1 * 2 + 3 % 4 / 5", "((1 * 2) + ((3 % 4) / 5))"},
		{"2 ** -1", "(2 ** (-1))"},
		{"-2 ** 2", "((-2) ** 2)"},
		{"!!x", "(!(!x))"},
		{"- -x", "(-(-x))"},
		{"a <= b <= c", "((a <= b) <= c)"},
		{"a === b < c", "(a === (b < c))"},
		{"a !== b === c", "((a !== b) === c)"},
		{"a || b && c", "(a || (b && c))"},
		{"a && b || c && d", "((a && b) || (c && d))"},
		{"a < b ? c + 1 : d", "((a < b) ? (c + 1) : d)"},
		{"a.b.c", "a.b.c"},
		{"a[0][1]", "a[0][1]"},
		{"f()", "f()"},
		{"f(1, 2,)", "f(1, 2)"},
		{"o.m(x)(y)", "o.m(x)(y)"},
		{"-a.b[c](d, e)", "(-a.b[c](d, e))"},
		{"Math.max(1, a + b)", "Math.max(1, (a + b))"},
		{"  1\t", "1"},
		{"1 +\v2", "(1 + 2)"},
		{"true && false", "(true && false)"},
		{"0x1F + 0b1", "(0x1F + 0b1)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			src := []byte(tt.input)

			n, err := ParseExpression(src)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if got := Format(n, src); got != tt.want {
				t.Errorf("Format = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseExpression_Spans(t *testing.T) {
	src := []byte(" a.b[1] + f(2) ")

	n, err := ParseExpression(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	want := map[string]string{
		"BinaryOp":      "a.b[1] + f(2)",
		"ElementAccess": "a.b[1]",
		"MemberAccess":  "a.b",
		"FunctionCall":  "f(2)",
	}

	Walk(n, func(n Node) bool {
		start, end := n.Span()
		if start > end {
			t.Errorf("node %T has inverted span [%d, %d)", n, start, end)
		}

		typ, _ := ToMap(n, src)["type"].(string)
		if w, ok := want[typ]; ok {
			if got := string(src[start:end]); got != w {
				t.Errorf("%s spans %q, want %q", typ, got, w)
			}
		}

		return true
	})
}

func TestParseExpression_Errors(t *testing.T) {
	tests := []struct {
		input string
		pos   int
		eoi   bool
	}{
		{"", 0, false},
		{"   ", 3, false},
		{"1 2", 2, true},
		{"a b", 2, true},
		{"(1", 2, false},
		// An unfinished postfix or conditional ends the expression early.
		{"f(1", 1, true},
		{"a[", 1, true},
		{"a ? b", 2, true},
		{"(f(1)", 5, false},
		{"1 @ 2", 2, true},
		{"_x", 0, false},
		{"12abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseExpression([]byte(tt.input))
			if err == nil {
				t.Fatal("expected parse error")
			}

			var eoi *parsec.EoiError[byte]
			if got := errors.As(err, &eoi); got != tt.eoi {
				t.Errorf("EoiError = %v, want %v (%v)", got, tt.eoi, err)
			}

			d, ok := parsec.Deepest(err).(parsec.Positioned)
			if !ok {
				t.Fatalf("deepest error %T has no position", parsec.Deepest(err))
			}

			if d.Pos() != tt.pos {
				t.Errorf("deepest position = %d, want %d (%v)", d.Pos(), tt.pos, err)
			}
		})
	}
}

func TestParsePrefix(t *testing.T) {
	src := []byte("x: a + 1 ; rest")

	n, end, err := ParsePrefix(src, 3)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if got := Format(n, src); got != "(a + 1)" {
		t.Errorf("Format = %q", got)
	}

	if end != 8 {
		t.Errorf("end = %d, want 8", end)
	}
}

func TestParseExpression_MemoTransparent(t *testing.T) {
	inputs := []string{
		"a + b * c",
		"12 ? 34 : 56 ? 78 : 90",
		"f(a, g(b)[c].d, )",
		"((((1))))",
		"1 +",
		"a.)",
		"",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			src := []byte(input)

			memo, memoErr := ParseExpression(src, parsec.WithMemo(true))
			bare, bareErr := ParseExpression(src, parsec.WithMemo(false))

			if (memoErr == nil) != (bareErr == nil) {
				t.Fatalf("memo err %v, bare err %v", memoErr, bareErr)
			}

			if memoErr != nil {
				if a, b := FormatParseError(src, memoErr), FormatParseError(src, bareErr); a != b {
					t.Errorf("diagnostics differ:\n%s\n%s", a, b)
				}

				return
			}

			if a, b := Format(memo, src), Format(bare, src); a != b {
				t.Errorf("trees differ: %s vs %s", a, b)
			}
		})
	}
}

func TestFormatParseError(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"(1", "parse error at 1:3: expected ')', found end of input\n  (1\n    ^"},
		{"1 2", "parse error at 1:3: expected end of input, found '2'\n  1 2\n    ^"},
		{"a\n  + )", "parse error at 2:3: expected end of input, found '+'\n    + )\n    ^"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseExpression([]byte(tt.input))
			if err == nil {
				t.Fatal("expected parse error")
			}

			got := FormatParseError([]byte(tt.input), err)
			if !strings.HasPrefix(got, tt.want) {
				t.Errorf("FormatParseError =\n%s\nwant prefix\n%s", got, tt.want)
			}
		})
	}
}

func TestFormatParseError_Alternatives(t *testing.T) {
	_, err := ParseExpression(nil)
	if err == nil {
		t.Fatal("expected parse error")
	}

	got := FormatParseError(nil, err)

	for _, want := range []string{"number", "boolean", "identifier", "'('", "'-'", "found end of input"} {
		if !strings.Contains(got, want) {
			t.Errorf("diagnostic %q does not mention %s", got, want)
		}
	}
}

func TestMakeParseErrorFormatter(t *testing.T) {
	format := MakeParseErrorFormatter(Messages{
		Location: func(line, col int) string { return "col " + string(rune('0'+col)) },
		Expected: func(want []string, found string) string {
			return strings.Join(want, "|") + " @ " + found
		},
	})

	_, err := ParseExpression([]byte("(1"))
	if err == nil {
		t.Fatal("expected parse error")
	}

	if got, want := format([]byte("(1"), err), "col 3: ')' @ end of input"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
