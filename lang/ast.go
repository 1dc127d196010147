package lang

import (
	"strings"
)

// Node is an expression tree node. The set of node types is closed: it is
// exactly the pointer types declared in this file. Trees are immutable once
// parsed and never share nodes.
type Node interface {
	// Span returns the half-open source range covered by the node.
	Span() (start, end int)

	node()
}

// NumberNode is a numeric literal.
type NumberNode struct {
	Token Token[NumberFormat]
}

// BooleanNode is a true or false literal.
type BooleanNode struct {
	Token Token[bool]
}

// IdentifierNode is a name.
type IdentifierNode struct {
	Token Token[Class]
}

// MemberNode is Object.Property.
type MemberNode struct {
	Object   Node
	Property *IdentifierNode
}

// ElementNode is Array[Index].
type ElementNode struct {
	Array Node
	Index Node
	Close Token[Symbol]
}

// CallNode is Callee(Args...).
type CallNode struct {
	Callee Node
	Args   []Node
	Close  Token[Symbol]
}

// UnaryNode is a prefix operator applied to Expr.
type UnaryNode struct {
	Op   Token[Symbol]
	Expr Node
}

// BinaryNode is LHS Op RHS.
type BinaryNode struct {
	Op  Token[Symbol]
	LHS Node
	RHS Node
}

// ConditionalNode is Cond ? Then : Else.
type ConditionalNode struct {
	Cond Node
	Then Node
	Else Node
}

func (n *NumberNode) Span() (int, int)     { return n.Token.Start, n.Token.End }
func (n *BooleanNode) Span() (int, int)    { return n.Token.Start, n.Token.End }
func (n *IdentifierNode) Span() (int, int) { return n.Token.Start, n.Token.End }
func (n *MemberNode) Span() (int, int)     { return spanStart(n.Object), n.Property.Token.End }
func (n *ElementNode) Span() (int, int)    { return spanStart(n.Array), n.Close.End }
func (n *CallNode) Span() (int, int)       { return spanStart(n.Callee), n.Close.End }
func (n *UnaryNode) Span() (int, int)      { return n.Op.Start, spanEnd(n.Expr) }
func (n *BinaryNode) Span() (int, int)     { return spanStart(n.LHS), spanEnd(n.RHS) }
func (n *ConditionalNode) Span() (int, int) {
	return spanStart(n.Cond), spanEnd(n.Else)
}

func (*NumberNode) node()      {}
func (*BooleanNode) node()     {}
func (*IdentifierNode) node()  {}
func (*MemberNode) node()      {}
func (*ElementNode) node()     {}
func (*CallNode) node()        {}
func (*UnaryNode) node()       {}
func (*BinaryNode) node()      {}
func (*ConditionalNode) node() {}

func spanStart(n Node) int {
	s, _ := n.Span()

	return s
}

func spanEnd(n Node) int {
	_, e := n.Span()

	return e
}

// Name returns the identifier text.
func (n *IdentifierNode) Name(src []byte) string { return n.Token.Text(src) }

// Format renders n in a canonical fully parenthesized form, so that the
// grouping chosen by the parser is explicit:
//
//	Format(parse("1 + 2 * 3")) == "(1 + (2 * 3))"
func Format(n Node, src []byte) string {
	var sb strings.Builder

	writeNode(&sb, n, src)

	return sb.String()
}

func writeNode(sb *strings.Builder, n Node, src []byte) {
	switch n := n.(type) {
	case *NumberNode:
		sb.WriteString(n.Token.Text(src))

	case *BooleanNode:
		sb.WriteString(n.Token.Text(src))

	case *IdentifierNode:
		sb.WriteString(n.Name(src))

	case *MemberNode:
		writeNode(sb, n.Object, src)
		sb.WriteByte('.')
		sb.WriteString(n.Property.Name(src))

	case *ElementNode:
		writeNode(sb, n.Array, src)
		sb.WriteByte('[')
		writeNode(sb, n.Index, src)
		sb.WriteByte(']')

	case *CallNode:
		writeNode(sb, n.Callee, src)
		sb.WriteByte('(')

		for i, arg := range n.Args {
			if i > 0 {
				sb.WriteString(", ")
			}

			writeNode(sb, arg, src)
		}

		sb.WriteByte(')')

	case *UnaryNode:
		sb.WriteByte('(')
		sb.WriteString(string(n.Op.Type))
		writeNode(sb, n.Expr, src)
		sb.WriteByte(')')

	case *BinaryNode:
		sb.WriteByte('(')
		writeNode(sb, n.LHS, src)
		sb.WriteString(" " + string(n.Op.Type) + " ")
		writeNode(sb, n.RHS, src)
		sb.WriteByte(')')

	case *ConditionalNode:
		sb.WriteByte('(')
		writeNode(sb, n.Cond, src)
		sb.WriteString(" ? ")
		writeNode(sb, n.Then, src)
		sb.WriteString(" : ")
		writeNode(sb, n.Else, src)
		sb.WriteByte(')')
	}
}

// Walk calls fn for n and each of its descendants in depth-first order,
// parents before children. A false result skips the children of that node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	switch n := n.(type) {
	case *MemberNode:
		Walk(n.Object, fn)
		Walk(n.Property, fn)

	case *ElementNode:
		Walk(n.Array, fn)
		Walk(n.Index, fn)

	case *CallNode:
		Walk(n.Callee, fn)

		for _, arg := range n.Args {
			Walk(arg, fn)
		}

	case *UnaryNode:
		Walk(n.Expr, fn)

	case *BinaryNode:
		Walk(n.LHS, fn)
		Walk(n.RHS, fn)

	case *ConditionalNode:
		Walk(n.Cond, fn)
		Walk(n.Then, fn)
		Walk(n.Else, fn)
	}
}
