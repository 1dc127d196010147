package lang

import (
	"errors"
	"regexp"
	"strings"

	"github.com/f-space/rmmz-plugins-sub000/parsec"
)

// ErrNoMatch is the root cause of every lexer failure.
var ErrNoMatch = errors.New("no match")

// LexError is the cause carried by a [parsec.TokenError] raised by one of
// the lexer recognizers.
type LexError struct {
	Expected string
}

func (e *LexError) Error() string { return "expected " + e.Expected }

func (e *LexError) Unwrap() error { return ErrNoMatch }

var (
	binaryPattern  = regexp.MustCompile(`\A0[bB][01](?:_?[01])*`)
	octalPattern   = regexp.MustCompile(`\A0[oO][0-7](?:_?[0-7])*`)
	hexPattern     = regexp.MustCompile(`\A0[xX][0-9a-fA-F](?:_?[0-9a-fA-F])*`)
	decimalPattern = regexp.MustCompile(
		`\A(?:(?:0|[1-9](?:_?[0-9])*)(?:\.(?:[0-9](?:_?[0-9])*)?)?|\.[0-9](?:_?[0-9])*)` +
			`(?:[eE][+-]?[0-9](?:_?[0-9])*)?`,
	)
	booleanPattern    = regexp.MustCompile(`\A(?:true|false)`)
	identifierPattern = regexp.MustCompile(`\A[A-Za-z$][A-Za-z0-9_$]*`)
	whitespacePattern = regexp.MustCompile(`\A[\s\v\p{Z}\x{FEFF}]+`)
	unknownPattern    = regexp.MustCompile(`\A(?:[\p{L}\p{N}\p{M}]+|[\p{P}\p{S}]+|[^\s\v\p{Z}\x{FEFF}])`)
)

// isWordByte reports whether b may continue an identifier or a literal.
func isWordByte(b byte) bool {
	return b == '_' || b == '$' ||
		(b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// wordEnd reports whether a word-like lexeme may end at pos.
func wordEnd(src []byte, pos int) bool {
	return pos >= len(src) || !isWordByte(src[pos])
}

func match(re *regexp.Regexp, src []byte, pos int) int {
	loc := re.FindIndex(src[pos:])
	if loc == nil || loc[1] == 0 {
		return -1
	}

	return pos + loc[1]
}

func acceptNumber(src []byte, pos int) (Token[NumberFormat], int, error) {
	for _, f := range []struct {
		re     *regexp.Regexp
		format NumberFormat
	}{
		{binaryPattern, Binary},
		{octalPattern, Octal},
		{hexPattern, Hex},
		{decimalPattern, Decimal},
	} {
		end := match(f.re, src, pos)
		if end < 0 {
			continue
		}

		if !wordEnd(src, end) {
			break
		}

		return Token[NumberFormat]{Type: f.format, Start: pos, End: end}, end, nil
	}

	return Token[NumberFormat]{}, pos, &LexError{Expected: "number"}
}

func acceptBoolean(src []byte, pos int) (Token[bool], int, error) {
	end := match(booleanPattern, src, pos)
	if end < 0 || !wordEnd(src, end) {
		return Token[bool]{}, pos, &LexError{Expected: "boolean"}
	}

	return Token[bool]{Type: src[pos] == 't', Start: pos, End: end}, end, nil
}

func acceptIdentifier(src []byte, pos int) (Token[Class], int, error) {
	end := match(identifierPattern, src, pos)
	if end < 0 || !wordEnd(src, end) {
		return Token[Class]{}, pos, &LexError{Expected: "identifier"}
	}

	return Token[Class]{Type: ClassIdentifier, Start: pos, End: end}, end, nil
}

func acceptWhitespace(src []byte, pos int) (Token[Class], int, error) {
	end := match(whitespacePattern, src, pos)
	if end < 0 {
		return Token[Class]{}, pos, &LexError{Expected: "whitespace"}
	}

	return Token[Class]{Type: ClassWhitespace, Start: pos, End: end}, end, nil
}

func acceptUnknown(src []byte, pos int) (Token[Class], int, error) {
	end := match(unknownPattern, src, pos)
	if end < 0 {
		return Token[Class]{}, pos, &LexError{Expected: "any character"}
	}

	return Token[Class]{Type: ClassUnknown, Start: pos, End: end}, end, nil
}

// longestSymbol returns the longest symbol that is a prefix of src[pos:].
func longestSymbol(src []byte, pos int) (Symbol, bool) {
	rest := src[pos:]
	for _, s := range Symbols {
		if len(rest) >= len(s) && string(rest[:len(s)]) == string(s) {
			return s, true
		}
	}

	return "", false
}

func acceptSymbol(want Symbol) parsec.Accept[byte, Token[Symbol]] {
	expected := "'" + string(want) + "'"

	return func(src []byte, pos int) (Token[Symbol], int, error) {
		got, ok := longestSymbol(src, pos)
		if !ok || got != want {
			return Token[Symbol]{}, pos, &LexError{Expected: expected}
		}

		end := pos + len(got)

		return Token[Symbol]{Type: got, Start: pos, End: end}, end, nil
	}
}

// The lexer recognizers. Each is memoized and matches exactly at the
// current position; none of them skips leading whitespace.
var (
	LexNumber     = parsec.Memo(parsec.Token(acceptNumber))
	LexBoolean    = parsec.Memo(parsec.Token(acceptBoolean))
	LexIdentifier = parsec.Memo(parsec.Token(acceptIdentifier))
	LexWhitespace = parsec.Memo(parsec.Token(acceptWhitespace))
	LexUnknown    = parsec.Memo(parsec.Token(acceptUnknown))

	lexSymbols = func() map[Symbol]parsec.Parser[byte, Token[Symbol]] {
		m := make(map[Symbol]parsec.Parser[byte, Token[Symbol]], len(Symbols))
		for _, s := range Symbols {
			m[s] = parsec.Memo(parsec.Token(acceptSymbol(s)))
		}

		return m
	}()
)

// LexSymbol returns the recognizer of s. It does not match where a longer
// symbol starts with s, so "<" never matches the start of "<=".
// It panics if s is not in [Symbols].
func LexSymbol(s Symbol) parsec.Parser[byte, Token[Symbol]] {
	p, ok := lexSymbols[s]
	if !ok {
		panic("lang: unknown symbol " + string(s))
	}

	return p
}

// Tokenize splits src into lexemes. It never fails: text that is not part
// of the vocabulary becomes [ClassUnknown] lexemes. Whitespace lexemes are
// included, so the spans of the result cover src exactly.
func Tokenize(src []byte) []Lexeme {
	var out []Lexeme

	for pos := 0; pos < len(src); {
		lx := nextLexeme(src, pos)
		out = append(out, lx)
		pos = lx.End
	}

	return out
}

func nextLexeme(src []byte, pos int) Lexeme {
	if t, end, err := acceptWhitespace(src, pos); err == nil {
		return Lexeme{Type: t.Type, Start: pos, End: end}
	}

	if _, end, err := acceptNumber(src, pos); err == nil {
		return Lexeme{Type: ClassNumber, Start: pos, End: end}
	}

	if _, end, err := acceptBoolean(src, pos); err == nil {
		return Lexeme{Type: ClassBoolean, Start: pos, End: end}
	}

	if _, end, err := acceptIdentifier(src, pos); err == nil {
		return Lexeme{Type: ClassIdentifier, Start: pos, End: end}
	}

	if s, ok := longestSymbol(src, pos); ok {
		return Lexeme{Type: ClassSymbol, Start: pos, End: pos + len(s)}
	}

	if _, end, err := acceptUnknown(src, pos); err == nil {
		return Lexeme{Type: ClassUnknown, Start: pos, End: end}
	}

	return Lexeme{Type: ClassUnknown, Start: pos, End: pos + 1}
}

// describeAt renders the lexeme at pos for diagnostics.
func describeAt(src []byte, pos int) string {
	if pos >= len(src) {
		return "end of input"
	}

	lx := nextLexeme(src, pos)
	text := lx.Text(src)

	if lx.Type == ClassWhitespace {
		return "whitespace"
	}

	if len(text) > 24 {
		text = text[:24] + "..."
	}

	return "'" + strings.ToValidUTF8(text, "�") + "'"
}
