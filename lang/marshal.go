package lang

// ToMap converts n into nested maps and slices built only from strings,
// numbers, and booleans, suitable for JSON or YAML encoding.
//
// Every map has a "type" key naming the node and "start"/"end" keys holding
// its span. Literal and identifier nodes add "text"; operator nodes add
// "operator".
func ToMap(n Node, src []byte) map[string]any {
	start, end := n.Span()
	m := map[string]any{"start": start, "end": end}

	switch n := n.(type) {
	case *NumberNode:
		m["type"] = "Number"
		m["text"] = n.Token.Text(src)
		m["format"] = n.Token.Type.String()

	case *BooleanNode:
		m["type"] = "Boolean"
		m["text"] = n.Token.Text(src)

	case *IdentifierNode:
		m["type"] = "Identifier"
		m["text"] = n.Name(src)

	case *MemberNode:
		m["type"] = "MemberAccess"
		m["object"] = ToMap(n.Object, src)
		m["property"] = ToMap(n.Property, src)

	case *ElementNode:
		m["type"] = "ElementAccess"
		m["array"] = ToMap(n.Array, src)
		m["index"] = ToMap(n.Index, src)

	case *CallNode:
		args := make([]any, len(n.Args))
		for i, arg := range n.Args {
			args[i] = ToMap(arg, src)
		}

		m["type"] = "FunctionCall"
		m["callee"] = ToMap(n.Callee, src)
		m["args"] = args

	case *UnaryNode:
		m["type"] = "UnaryOp"
		m["operator"] = string(n.Op.Type)
		m["expr"] = ToMap(n.Expr, src)

	case *BinaryNode:
		m["type"] = "BinaryOp"
		m["operator"] = string(n.Op.Type)
		m["lhs"] = ToMap(n.LHS, src)
		m["rhs"] = ToMap(n.RHS, src)

	case *ConditionalNode:
		m["type"] = "ConditionalOp"
		m["cond"] = ToMap(n.Cond, src)
		m["then"] = ToMap(n.Then, src)
		m["else"] = ToMap(n.Else, src)
	}

	return m
}
