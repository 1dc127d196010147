package parsec

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f-space/rmmz-plugins-sub000/log"
)

var errNoMatch = errors.New("no match")

func char(c byte) Parser[byte, byte] {
	return Token(func(src []byte, pos int) (byte, int, error) {
		if pos < len(src) && src[pos] == c {
			return c, pos + 1, nil
		}

		return 0, pos, errNoMatch
	})
}

var digit = Token(func(src []byte, pos int) (int, int, error) {
	if pos < len(src) && src[pos] >= '0' && src[pos] <= '9' {
		return int(src[pos] - '0'), pos + 1, nil
	}

	return 0, pos, errNoMatch
})

func run[T any](t *testing.T, p Parser[byte, T], src string) (T, int, error) {
	t.Helper()

	return Make(p)([]byte(src), 0)
}

func TestToken(t *testing.T) {
	v, end, err := run(t, digit, "7x")
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, 1, end)

	_, end, err = run(t, digit, "x")

	var tokErr *TokenError[byte]
	require.ErrorAs(t, err, &tokErr)
	assert.Equal(t, 0, tokErr.Pos())
	assert.Equal(t, 0, end)
	assert.ErrorIs(t, err, errNoMatch)
	assert.False(t, tokErr.Ctx.Memoized())
}

func TestSequence(t *testing.T) {
	pair, end, err := run(t, Seq2(digit, char('+')), "1+")
	require.NoError(t, err)
	assert.Equal(t, Pair[int, byte]{First: 1, Second: '+'}, pair)
	assert.Equal(t, 2, end)

	triple, _, err := run(t, Seq3(digit, char('+'), digit), "1+2")
	require.NoError(t, err)
	assert.Equal(t, Triple[int, byte, int]{First: 1, Second: '+', Third: 2}, triple)

	values, _, err := run(t, Seq(digit, digit, digit), "123")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, values)

	_, end, err = run(t, Seq(digit, digit, digit), "12x")

	var tokErr *TokenError[byte]
	require.ErrorAs(t, err, &tokErr)
	assert.Equal(t, 2, tokErr.Pos())
	assert.Equal(t, 0, end)

	left, end, err := run(t, Left(digit, char(';')), "4;")
	require.NoError(t, err)
	assert.Equal(t, 4, left)
	assert.Equal(t, 2, end)

	right, _, err := run(t, Right(char('-'), digit), "-4")
	require.NoError(t, err)
	assert.Equal(t, 4, right)
}

func TestOneOf(t *testing.T) {
	p := OneOf(char('a'), char('b'))

	v, _, err := run(t, p, "b")
	require.NoError(t, err)
	assert.Equal(t, byte('b'), v)

	_, _, err = run(t, p, "c")

	var oneOf OneOfError
	require.ErrorAs(t, err, &oneOf)
	assert.Len(t, oneOf, 2)
	assert.Equal(t, 0, oneOf.Pos())

	_, _, err = run(t, OneOf[byte, byte](), "a")
	require.ErrorAs(t, err, &oneOf)
	assert.Empty(t, oneOf)
	assert.Equal(t, -1, oneOf.Pos())
}

func TestOneOf_Backtracks(t *testing.T) {
	ab := Map(Seq2(char('a'), char('b')), func(Pair[byte, byte]) string { return "ab" })
	ac := Map(Seq2(char('a'), char('c')), func(Pair[byte, byte]) string { return "ac" })

	v, end, err := run(t, OneOf(ab, ac), "ac")
	require.NoError(t, err)
	assert.Equal(t, "ac", v)
	assert.Equal(t, 2, end)
}

func TestOptional(t *testing.T) {
	v, end, err := run(t, Optional(digit), "5")
	require.NoError(t, err)
	assert.Equal(t, Some(5), v)
	assert.Equal(t, 1, end)

	v, end, err = run(t, Optional(digit), "x")
	require.NoError(t, err)
	assert.Equal(t, None[int](), v)
	assert.Equal(t, 0, end)
	assert.Equal(t, 9, v.OrElse(9))

	_, ok := v.Get()
	assert.False(t, ok)
}

func TestMany(t *testing.T) {
	values, end, err := run(t, Many(digit), "123x")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, values)
	assert.Equal(t, 3, end)

	values, end, err = run(t, Many(digit), "x")
	require.NoError(t, err)
	assert.Empty(t, values)
	assert.Equal(t, 0, end)

	_, _, err = run(t, Many1(digit), "x")
	assert.Error(t, err)

	values, _, err = run(t, Many1(digit), "42")
	require.NoError(t, err)
	assert.Equal(t, []int{4, 2}, values)

	// A parser that never consumes stops the repetition after one match.
	empty, end, err := run(t, Many(Succeed[byte](1)), "abc")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, empty)
	assert.Equal(t, 0, end)
}

func TestLookahead(t *testing.T) {
	v, end, err := run(t, And(digit, digit), "3")
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	assert.Equal(t, 1, end)

	_, _, err = run(t, And(char('x'), digit), "3")

	var andErr *AndError[byte]
	require.ErrorAs(t, err, &andErr)
	assert.Equal(t, 0, andErr.Pos())
	assert.ErrorIs(t, err, errNoMatch)

	_, _, err = run(t, Not(char('0'), digit), "0")

	var notErr *NotError[byte]
	require.ErrorAs(t, err, &notErr)
	assert.Equal(t, byte('0'), notErr.Value)

	v, _, err = run(t, Not(char('0'), digit), "7")
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestValidate(t *testing.T) {
	errOdd := errors.New("odd")
	even := Validate(Right(char(' '), digit), func(n int) error {
		if n%2 != 0 {
			return errOdd
		}

		return nil
	})

	v, _, err := run(t, even, " 4")
	require.NoError(t, err)
	assert.Equal(t, 4, v)

	_, end, err := run(t, even, " 3")

	var valErr *ValidationError[byte]
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, 0, valErr.Pos())
	assert.Equal(t, 0, end)
	assert.ErrorIs(t, err, errOdd)
}

func TestEoi(t *testing.T) {
	_, _, err := run(t, Left(digit, Eoi[byte]()), "1")
	require.NoError(t, err)

	_, _, err = run(t, Left(digit, Eoi[byte]()), "12")

	var eoi *EoiError[byte]
	require.ErrorAs(t, err, &eoi)
	assert.Equal(t, 1, eoi.Pos())
}

func TestMapAndBind(t *testing.T) {
	twice := Map(digit, func(n int) int { return n * 2 })

	v, _, err := run(t, twice, "4")
	require.NoError(t, err)
	assert.Equal(t, 8, v)

	// The first digit says how many more digits follow.
	counted := AndThen(digit, func(n int) Parser[byte, []int] {
		ps := make([]Parser[byte, int], n)
		for i := range ps {
			ps[i] = digit
		}

		return Seq(ps...)
	})

	values, end, err := run(t, counted, "3123")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, values)
	assert.Equal(t, 4, end)

	_, end, err = run(t, counted, "312")
	require.Error(t, err)
	assert.Equal(t, 0, end)

	errWrapped := errors.New("wrapped")
	_, _, err = run(t, MapError(digit, func(error) error { return errWrapped }), "x")
	assert.ErrorIs(t, err, errWrapped)

	fallback := OrElse(digit, func(error) Parser[byte, int] {
		return Map(char('x'), func(byte) int { return -1 })
	})

	v, _, err = run(t, fallback, "x")
	require.NoError(t, err)
	assert.Equal(t, -1, v)
}

func TestIf(t *testing.T) {
	signed := If(char('-'),
		func(byte) Parser[byte, int] { return Map(digit, func(n int) int { return -n }) },
		func(error) Parser[byte, int] { return digit },
	)

	v, _, err := run(t, signed, "-3")
	require.NoError(t, err)
	assert.Equal(t, -3, v)

	v, _, err = run(t, signed, "3")
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	// Once '-' matched there is no retry through the other branch.
	_, end, err := run(t, signed, "-x")
	require.Error(t, err)
	assert.Equal(t, 0, end)
}

func TestMake_Start(t *testing.T) {
	r := Make(digit)

	v, end, err := r([]byte("ab5"), 2)
	require.NoError(t, err)
	assert.Equal(t, 5, v)
	assert.Equal(t, 3, end)

	_, _, err = r([]byte("ab"), 3)
	assert.ErrorIs(t, err, ErrPosition)

	_, _, err = r([]byte("ab"), -1)
	assert.ErrorIs(t, err, ErrPosition)

	whole := Mk(Many(digit))

	values, err := whole([]byte("12"))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, values)
}

func TestRule(t *testing.T) {
	// nested → '(' nested ')' | digit
	nested := NewRule[byte, int]("nested")
	nested.Bind(OneOf(
		Map(Seq3(char('('), nested.Parser(), char(')')),
			func(v Triple[byte, int, byte]) int { return v.Second + 10 }),
		digit,
	))

	assert.True(t, nested.Bound())

	v, _, err := run(t, nested.Parser(), "((3))")
	require.NoError(t, err)
	assert.Equal(t, 23, v)

	assert.PanicsWithError(t, `rule "nested" is already bound`, func() {
		nested.Bind(digit)
	})

	unbound := NewRule[byte, int]("later")
	assert.False(t, unbound.Bound())
	assert.Panics(t, func() { _, _, _ = run(t, unbound.Parser(), "1") })

	defer func() {
		err, _ := recover().(error)
		assert.ErrorIs(t, err, ErrUnbound)
	}()

	_, _, _ = run(t, NewRule[byte, int]().Parser(), "1")
}

func TestLazyRef(t *testing.T) {
	calls := 0
	lazy := LazyRef(func() Parser[byte, int] {
		calls++

		return digit
	})

	for range 3 {
		_, _, err := run(t, lazy, "1")
		require.NoError(t, err)
	}

	assert.Equal(t, 1, calls)
}

func TestMemo(t *testing.T) {
	calls := 0
	counted := Token(func(src []byte, pos int) (int, int, error) {
		calls++

		if pos < len(src) && src[pos] >= '0' && src[pos] <= '9' {
			return int(src[pos] - '0'), pos + 1, nil
		}

		return 0, pos, errNoMatch
	})

	m := Memo(counted)
	grammar := OneOf(Left(m, char('a')), Left(m, char('b')), m)

	for _, tt := range []struct {
		memo  bool
		calls int
	}{
		{true, 1},
		{false, 3},
	} {
		calls = 0

		v, end, err := Make(grammar, WithMemo(tt.memo))([]byte("7c"), 0)
		require.NoError(t, err)
		assert.Equal(t, 7, v)
		assert.Equal(t, 1, end)
		assert.Equal(t, tt.calls, calls, "memo=%v", tt.memo)
	}

	// Failures are cached too.
	calls = 0
	_, _, err := Make(OneOf(m, m))([]byte("x"), 0)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestMemo_PreservesIdentity(t *testing.T) {
	m := Memo(digit)
	copied := m

	assert.Equal(t, m.ID(), copied.ID())
	assert.NotEqual(t, m.ID(), digit.ID())
	assert.NotEqual(t, Memo(digit).ID(), m.ID())
}

func TestMemo_LeftRecursion(t *testing.T) {
	// sum → sum '+' digit | digit
	sum := NewRule[byte, int]()
	sum.Bind(Memo(OneOf(
		Map(Seq3(sum.Parser(), char('+'), digit),
			func(v Triple[int, byte, int]) int { return v.First + v.Third }),
		digit,
	)))

	assert.PanicsWithValue(t, ErrLeftRecursion, func() {
		_, _, _ = run(t, sum.Parser(), "1+2")
	})
}

func TestDeepest(t *testing.T) {
	at := func(pos int, cause string) error {
		return &TokenError[byte]{Ctx: Context[byte]{Position: pos}, Cause: errors.New(cause)}
	}

	err := OneOfError{
		at(0, "a"),
		OneOfError{at(2, "b"), at(1, "c")},
		at(2, "d"),
		errors.New("unpositioned"),
	}

	d := Deepest(err)
	require.IsType(t, &TokenError[byte]{}, d)
	assert.EqualError(t, d.(*TokenError[byte]).Cause, "b")
	assert.Equal(t, 2, err.Pos())

	joined := errors.Join(errors.New("x"), at(1, "y"))
	assert.EqualError(t, Deepest(joined).(*TokenError[byte]).Cause, "y")

	plain := errors.New("plain")
	assert.Same(t, plain, Deepest(plain))
}

func TestParse(t *testing.T) {
	assert.Equal(t, 5, Parse([]byte("5"), Mk(digit), nil))

	defer func() {
		fatal, ok := recover().(*FatalError)
		require.True(t, ok)
		assert.Equal(t, "parse error at position 0: unexpected input at 0: no match", fatal.Error())
		assert.ErrorIs(t, fatal, errNoMatch)
	}()

	Parse([]byte("x"), Mk(digit), nil)
}

func TestMakeErrorFormatter(t *testing.T) {
	format := MakeErrorFormatter(func(err error) (string, bool) {
		if e, ok := err.(*EoiError[byte]); ok {
			return "trailing input at " + string(rune('0'+e.Pos())), true
		}

		return "", false
	})

	_, err := Mk(Left(digit, Eoi[byte]()))([]byte("12"))
	assert.Equal(t, "trailing input at 1", format(err))

	_, err = Mk(digit)([]byte("x"))
	assert.True(t, strings.HasPrefix(format(err), "parse error at position 0"))

	assert.True(t, strings.HasPrefix(format(errors.New("odd")), "parse error: "))
	assert.Equal(t, "parse error: no alternatives", format(OneOfError{}))
	assert.Empty(t, format(nil))
}

func TestMake_Trace(t *testing.T) {
	var buf bytes.Buffer

	logger := log.Make(&buf,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false),
	)

	_, _, err := Make(Memo(digit), WithLogger(logger))([]byte("1"), 0)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "parse run")
	assert.Contains(t, out, `"memo_misses":1`)

	buf.Reset()

	_, _, err = Make(digit, WithLogger(logger), WithMemo(false))([]byte("x"), 0)
	require.Error(t, err)
	assert.Contains(t, buf.String(), `"ok":false`)
	assert.NotContains(t, buf.String(), "memo_hits")

	buf.Reset()

	_, _, _ = Make(digit, WithLogger(logger.Wrap(log.WithLevel(log.LevelDebug))))([]byte("1"), 0)
	assert.Zero(t, buf.Len())
}

func TestContext_At(t *testing.T) {
	ctx := Context[byte]{Source: []byte("abc")}

	assert.Equal(t, []byte("bc"), ctx.At(1).Rest())
	assert.True(t, ctx.At(3).Done())
	assert.Equal(t, 0, ctx.Position)
	assert.Panics(t, func() { ctx.At(4) })
}
