package lang

import (
	"strings"
	"testing"

	"github.com/expr-lang/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEval_Oracle compares results with expr-lang on the subset of syntax
// both languages share. Strict equality is spelled == over there.
func TestEval_Oracle(t *testing.T) {
	env := map[string]any{"a": 3.0, "b": 4.0, "c": 0.5, "t": true, "f": false}

	for _, src := range []string{
		"a + b * c",
		"(a + b) * c",
		"a - b - c",
		"a / b / c",
		"a ** c",
		"a * -b + +c",
		"a < b",
		"a <= b && b <= a",
		"a > b || c >= c",
		"!t || f",
		"t && !f && a < b",
		"a === b",
		"a !== b",
		"t === f",
		"a > 1 ? b : c",
		"f ? a : t ? b : c",
		"(a < b ? a : b) * 10",
		"1 + 2 + 3 * 4",
		"10 / 4",
		"2 ** 10",
	} {
		t.Run(src, func(t *testing.T) {
			want, err := expr.Eval(strings.NewReplacer("===", "==", "!==", "!=").Replace(src), env)
			require.NoError(t, err)

			got, err := evalSource(t, TypeAny, src, env)
			require.NoError(t, err)

			if n, ok := want.(int); ok {
				want = float64(n)
			}

			assert.Equal(t, want, got)
		})
	}
}
