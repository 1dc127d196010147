package lang

import "fmt"

// Token is a half-open span [Start, End) of the source together with what
// the lexer recognized there. The matched text is never stored; it is
// recovered with [Token.Text].
type Token[T any] struct {
	Type  T
	Start int
	End   int
}

// Text returns the source text covered by t.
func (t Token[T]) Text(src []byte) string { return string(src[t.Start:t.End]) }

// Len returns the number of bytes covered by t.
func (t Token[T]) Len() int { return t.End - t.Start }

// NumberFormat is the notation of a numeric literal.
type NumberFormat int

const (
	Decimal NumberFormat = iota // decimal
	Binary                      // binary
	Octal                       // octal
	Hex                         // hex
)

func (f NumberFormat) String() string {
	switch f {
	case Decimal:
		return "decimal"
	case Binary:
		return "binary"
	case Octal:
		return "octal"
	case Hex:
		return "hex"
	default:
		return fmt.Sprintf("NumberFormat(%d)", int(f))
	}
}

// Class is the category of a lexeme.
type Class int

const (
	ClassWhitespace Class = iota // whitespace
	ClassNumber                  // number
	ClassBoolean                 // boolean
	ClassIdentifier              // identifier
	ClassSymbol                  // symbol
	ClassUnknown                 // unknown
)

var className = [...]string{
	ClassWhitespace: "whitespace",
	ClassNumber:     "number",
	ClassBoolean:    "boolean",
	ClassIdentifier: "identifier",
	ClassSymbol:     "symbol",
	ClassUnknown:    "unknown",
}

func (c Class) String() string {
	if c < 0 || int(c) >= len(className) {
		return fmt.Sprintf("Class(%d)", int(c))
	}

	return className[c]
}

// Symbol is an operator or punctuation lexeme.
type Symbol string

// The symbol vocabulary.
const (
	SymPow       Symbol = "**"
	SymMul       Symbol = "*"
	SymDiv       Symbol = "/"
	SymMod       Symbol = "%"
	SymAdd       Symbol = "+"
	SymSub       Symbol = "-"
	SymLessEq    Symbol = "<="
	SymGreaterEq Symbol = ">="
	SymLess      Symbol = "<"
	SymGreater   Symbol = ">"
	SymStrictEq  Symbol = "==="
	SymStrictNe  Symbol = "!=="
	SymAnd       Symbol = "&&"
	SymOr        Symbol = "||"
	SymNot       Symbol = "!"
	SymQuestion  Symbol = "?"
	SymColon     Symbol = ":"
	SymLParen    Symbol = "("
	SymRParen    Symbol = ")"
	SymLBracket  Symbol = "["
	SymRBracket  Symbol = "]"
	SymDot       Symbol = "."
	SymComma     Symbol = ","
)

// Symbols lists every symbol, longest first.
var Symbols = []Symbol{
	SymStrictEq, SymStrictNe,
	SymPow, SymLessEq, SymGreaterEq, SymAnd, SymOr,
	SymMul, SymDiv, SymMod, SymAdd, SymSub, SymLess, SymGreater,
	SymNot, SymQuestion, SymColon,
	SymLParen, SymRParen, SymLBracket, SymRBracket, SymDot, SymComma,
}

// Lexeme is one token of a full [Tokenize] pass.
type Lexeme = Token[Class]
