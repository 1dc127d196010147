// Package parsec implements a generic backtracking parser-combinator engine
// with optional packrat memoization.
//
// A [Parser] runs over any slice of items (bytes, runes, tokens) and returns
// either a value together with the advanced [Context], or an error describing
// where and why it failed. Combinators never mutate their input context; a
// failed branch leaves no visible consumption behind, so every choice point
// backtracks for free.
//
// # Building Grammars
//
// Leaf recognizers are lifted into parsers with [Token]. Larger grammars are
// assembled from the combinators in this package:
//
//	digits := parsec.Token(scanDigits)
//	plus := parsec.Token(scanPlus)
//	sum := parsec.Seq3(digits, plus, digits)
//
// Self-recursive and mutually recursive rules use two-phase construction: a
// placeholder is declared with [NewRule], dependent rules are built against
// [Rule.Parser], and the real parser is attached with [Rule.Bind].
//
//	expr := parsec.NewRule[byte, Node]()
//	group := parsec.Right(open, parsec.Left(expr.Parser(), closing))
//	expr.Bind(parsec.OneOf(number, group))
//
// # Memoization
//
// Each parser carries a stable identity assigned at construction. [Memo]
// caches results by (identity, position) in a table owned by exactly one
// driver invocation. Tables are created by [Make] and [Mk] for every call and
// never shared, so grammars may be used from many goroutines at once.
// Memoization can be disabled per driver with [WithMemo].
//
// # Errors
//
// Failures are plain values: [TokenError], [EoiError], [AndError],
// [NotError], [ValidationError], and [OneOfError], which collects every
// failed branch of [OneOf] in order. [Deepest] chooses the branch that got
// furthest into the input, and [MakeErrorFormatter] builds human-readable
// messages on top of it. Only [Parse] turns a failure into a panic.
package parsec
