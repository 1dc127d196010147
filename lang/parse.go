package lang

import (
	"sync"

	"github.com/f-space/rmmz-plugins-sub000/parsec"
)

type (
	nodeParser   = parsec.Parser[byte, Node]
	symbolParser = parsec.Parser[byte, Token[Symbol]]
	postfix      = func(Node) Node
)

// grammar holds the expression grammar. It is built once and shared by all
// parses; every parse supplies its own memo table.
type grammar struct {
	expression nodeParser
	top        nodeParser
}

var exprGrammar = sync.OnceValue(buildGrammar)

// lexeme skips optional leading whitespace before p.
func lexeme[T any](p parsec.Parser[byte, Token[T]]) parsec.Parser[byte, Token[T]] {
	return parsec.Memo(parsec.Right(parsec.Optional(LexWhitespace), p))
}

func symbol(s Symbol) symbolParser { return lexeme(LexSymbol(s)) }

func symbols(ss ...Symbol) symbolParser {
	ps := make([]symbolParser, len(ss))
	for i, s := range ss {
		ps[i] = symbol(s)
	}

	return parsec.OneOf(ps...)
}

func buildGrammar() *grammar {
	expression := parsec.NewRule[byte, Node]("expression")
	unary := parsec.NewRule[byte, Node]("unary")
	conditional := parsec.NewRule[byte, Node]("conditional")

	number := parsec.Map(lexeme(LexNumber), func(t Token[NumberFormat]) Node {
		return &NumberNode{Token: t}
	})
	boolean := parsec.Map(lexeme(LexBoolean), func(t Token[bool]) Node {
		return &BooleanNode{Token: t}
	})
	name := parsec.Map(lexeme(LexIdentifier), func(t Token[Class]) *IdentifierNode {
		return &IdentifierNode{Token: t}
	})
	identifier := parsec.Map(name, func(n *IdentifierNode) Node { return n })
	group := parsec.Map(
		parsec.Seq3(symbol(SymLParen), expression.Parser(), symbol(SymRParen)),
		func(v parsec.Triple[Token[Symbol], Node, Token[Symbol]]) Node { return v.Second },
	)

	atom := parsec.Memo(parsec.OneOf(number, boolean, identifier, group))

	// Each postfix operator parses to a continuation that wraps whatever
	// precedes it.
	member := parsec.Map(
		parsec.Right(symbol(SymDot), name),
		func(prop *IdentifierNode) postfix {
			return func(obj Node) Node { return &MemberNode{Object: obj, Property: prop} }
		},
	)
	element := parsec.Map(
		parsec.Seq3(symbol(SymLBracket), expression.Parser(), symbol(SymRBracket)),
		func(v parsec.Triple[Token[Symbol], Node, Token[Symbol]]) postfix {
			return func(arr Node) Node { return &ElementNode{Array: arr, Index: v.Second, Close: v.Third} }
		},
	)
	arguments := parsec.Map(
		parsec.Optional(parsec.Left(
			parsec.Seq2(
				expression.Parser(),
				parsec.Many(parsec.Right(symbol(SymComma), expression.Parser())),
			),
			parsec.Optional(symbol(SymComma)),
		)),
		func(m parsec.Maybe[parsec.Pair[Node, []Node]]) []Node {
			v, ok := m.Get()
			if !ok {
				return nil
			}

			return append([]Node{v.First}, v.Second...)
		},
	)
	call := parsec.Map(
		parsec.Seq3(symbol(SymLParen), arguments, symbol(SymRParen)),
		func(v parsec.Triple[Token[Symbol], []Node, Token[Symbol]]) postfix {
			return func(callee Node) Node { return &CallNode{Callee: callee, Args: v.Second, Close: v.Third} }
		},
	)

	chain := parsec.Memo(parsec.Map(
		parsec.Seq2(atom, parsec.Many(parsec.OneOf(member, element, call))),
		func(v parsec.Pair[Node, []postfix]) Node {
			n := v.First
			for _, wrap := range v.Second {
				n = wrap(n)
			}

			return n
		},
	))

	unary.Bind(parsec.Memo(parsec.OneOf(
		parsec.Map(
			parsec.Seq2(symbols(SymAdd, SymSub, SymNot), unary.Parser()),
			func(v parsec.Pair[Token[Symbol], Node]) Node {
				return &UnaryNode{Op: v.First, Expr: v.Second}
			},
		),
		chain,
	)))

	exponent := binaryLevel(unary.Parser(), true, SymPow)
	multiplicative := binaryLevel(exponent, false, SymMul, SymDiv, SymMod)
	additive := binaryLevel(multiplicative, false, SymAdd, SymSub)
	relational := binaryLevel(additive, false, SymLessEq, SymGreaterEq, SymLess, SymGreater)
	equality := binaryLevel(relational, false, SymStrictEq, SymStrictNe)
	logicalAnd := binaryLevel(equality, false, SymAnd)
	logicalOr := binaryLevel(logicalAnd, false, SymOr)

	conditional.Bind(parsec.Memo(parsec.Map(
		parsec.Seq2(logicalOr, parsec.Optional(parsec.Seq2(
			parsec.Right(symbol(SymQuestion), conditional.Parser()),
			parsec.Right(symbol(SymColon), conditional.Parser()),
		))),
		func(v parsec.Pair[Node, parsec.Maybe[parsec.Pair[Node, Node]]]) Node {
			branches, ok := v.Second.Get()
			if !ok {
				return v.First
			}

			return &ConditionalNode{Cond: v.First, Then: branches.First, Else: branches.Second}
		},
	)))

	expression.Bind(conditional.Parser())

	top := parsec.Left(
		parsec.Left(expression.Parser(), parsec.Optional(LexWhitespace)),
		parsec.Eoi[byte](),
	)

	return &grammar{expression: expression.Parser(), top: top}
}

// binaryLevel parses operand (op operand)* as a flat list and folds it into
// nested binary nodes, from the left or, when right is set, from the right.
func binaryLevel(operand nodeParser, right bool, ops ...Symbol) nodeParser {
	flat := parsec.Seq2(operand, parsec.Many(parsec.Seq2(symbols(ops...), operand)))

	fold := foldLeft
	if right {
		fold = foldRight
	}

	return parsec.Memo(parsec.Map(flat, fold))
}

type operation = parsec.Pair[Token[Symbol], Node]

func foldLeft(v parsec.Pair[Node, []operation]) Node {
	n := v.First
	for _, op := range v.Second {
		n = &BinaryNode{Op: op.First, LHS: n, RHS: op.Second}
	}

	return n
}

func foldRight(v parsec.Pair[Node, []operation]) Node {
	if len(v.Second) == 0 {
		return v.First
	}

	last := len(v.Second) - 1
	n := v.Second[last].Second

	for i := last; i > 0; i-- {
		n = &BinaryNode{Op: v.Second[i].First, LHS: v.Second[i-1].Second, RHS: n}
	}

	return &BinaryNode{Op: v.Second[0].First, LHS: v.First, RHS: n}
}

// ParseExpression parses src as a complete expression. Trailing input
// other than whitespace is reported as a [parsec.EoiError].
func ParseExpression(src []byte, opts ...parsec.Option) (Node, error) {
	return parsec.Mk(exprGrammar().top, opts...)(src)
}

// ParsePrefix parses the longest expression at the start of src[start:] and
// returns the position just past it. Whitespace after the expression is
// not consumed.
func ParsePrefix(src []byte, start int, opts ...parsec.Option) (Node, int, error) {
	return parsec.Make(exprGrammar().expression, opts...)(src, start)
}
