// Package lang implements a small JavaScript-like expression language for
// evaluating untrusted text against a host object graph.
//
// # Grammar
//
// From loosest to tightest binding:
//
//	Conditional → Or ('?' Conditional ':' Conditional)?
//	Or          → And ('||' And)*
//	And         → Equality ('&&' Equality)*
//	Equality    → Relational (('===' | '!==') Relational)*
//	Relational  → Additive (('<=' | '>=' | '<' | '>') Additive)*
//	Additive    → Mult (('+' | '-') Mult)*
//	Mult        → Power (('*' | '/' | '%') Power)*
//	Power       → Unary ('**' Power)?
//	Unary       → ('+' | '-' | '!') Unary | Postfix
//	Postfix     → Atom ('.' Identifier | '[' Conditional ']' | '(' Args? ')')*
//	Args        → Conditional (',' Conditional)* ','?
//	Atom        → Number | Boolean | Identifier | '(' Conditional ')'
//
// Numbers are decimal, 0b binary, 0o octal or 0x hex, with optional single
// underscores between digits. Identifiers are ASCII and may not start with
// a digit or an underscore.
//
// # Evaluation
//
// Every operator checks the types of its operands: arithmetic and
// comparison need numbers, logical operators and the condition of '?:'
// need booleans. '&&' and '||' do not evaluate their right operand when the
// left one decides the result. '===' and '!==' accept any operands.
//
// Names resolve to the builtins Math, Infinity and NaN before the
// environment. Member access, element access, calls and their results are
// checked against a fixed deny-list: the properties __proto__, prototype
// and constructor, and the host objects [Global], [ObjectConstructor],
// [ObjectPrototype], [FunctionConstructor] and [FunctionPrototype]. A hit
// fails with a [*SecurityError] before the value is returned.
//
// # Example
//
//	p, err := lang.Compile(lang.TypeNumber, "a + b * c")
//	if err != nil {
//		return err
//	}
//
//	v, err := p.EvalNative(map[string]any{"a": 1, "b": 2, "c": 3}) // 7
package lang
