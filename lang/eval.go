package lang

import (
	"errors"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
)

// Evaluator computes the value of a compiled expression in env. A nil env
// has no names besides the builtins.
type Evaluator func(env Env) (any, error)

// maxSafeInteger is the largest integer n such that n and n+1 are both
// exactly representable as float64.
const maxSafeInteger = 1<<53 - 1

type evalFunc func(s *scope) (any, error)

// scope resolves builtins ahead of the host environment.
type scope struct {
	env Env
}

func (s *scope) kind(v any) Kind {
	switch v := v.(type) {
	case nil:
		return KindUndefined
	case float64:
		return KindNumber
	case bool:
		return KindBoolean
	case string:
		return KindString
	case *Builtin:
		return KindFunction
	case *Namespace:
		return KindObject
	case *Sentinel:
		return v.kind
	}

	if s.env == nil {
		return KindObject
	}

	return s.env.Kind(v)
}

func (s *scope) lookup(name string) (any, bool) {
	if v, ok := builtins[name]; ok {
		return v, true
	}

	if s.env == nil {
		return nil, false
	}

	return s.env.Lookup(name)
}

func (s *scope) member(recv any, name string) (any, bool) {
	switch r := recv.(type) {
	case *Namespace:
		return r.Member(name)
	case *Builtin, *Sentinel:
		return nil, false
	}

	if s.env == nil {
		return nil, false
	}

	return s.env.Member(recv, name)
}

func (s *scope) index(recv any, i int) (any, bool) {
	if s.env == nil {
		return nil, false
	}

	return s.env.Index(recv, i)
}

func (s *scope) call(callee, recv any, args []any) (any, error) {
	if b, ok := callee.(*Builtin); ok {
		return b.Call(args)
	}

	if s.env == nil {
		return nil, &TypeError{Expected: "function", Actual: callee}
	}

	v, err := s.env.Call(callee, recv, args)
	if err != nil {
		var host *HostError
		if errors.As(err, &host) {
			return nil, host
		}

		return nil, &HostError{Err: err}
	}

	return v, nil
}

// Build turns a parsed expression into an evaluator whose result must be of
// type t. src is the source the node was parsed from.
func Build(t Type, n Node, src []byte) Evaluator {
	eval := build(n, src)

	var check func(any) error

	switch t {
	case TypeNumber:
		check = expectNumber
	case TypeBoolean:
		check = expectBoolean
	}

	return func(env Env) (any, error) {
		v, err := eval(&scope{env: env})
		if err != nil {
			return nil, err
		}

		if check != nil {
			if err := check(v); err != nil {
				return nil, err
			}
		}

		return v, nil
	}
}

func expectNumber(v any) error {
	if _, ok := v.(float64); !ok {
		return &TypeError{Expected: "number", Actual: v}
	}

	return nil
}

func expectBoolean(v any) error {
	if _, ok := v.(bool); !ok {
		return &TypeError{Expected: "boolean", Actual: v}
	}

	return nil
}

func build(n Node, src []byte) evalFunc {
	switch n := n.(type) {
	case *NumberNode:
		v := NumberValue(n.Token, src)

		return func(*scope) (any, error) { return v, nil }

	case *BooleanNode:
		v := n.Token.Type

		return func(*scope) (any, error) { return v, nil }

	case *IdentifierNode:
		return buildIdentifier(n.Name(src))

	case *MemberNode:
		access := buildMember(n, src)

		return func(s *scope) (any, error) {
			_, v, err := access(s)

			return v, err
		}

	case *ElementNode:
		access := buildElement(n, src)

		return func(s *scope) (any, error) {
			_, v, err := access(s)

			return v, err
		}

	case *CallNode:
		return buildCall(n, src)

	case *UnaryNode:
		return buildUnary(n, src)

	case *BinaryNode:
		return buildBinary(n, src)

	case *ConditionalNode:
		return buildConditional(n, src)
	}

	panic("lang: unknown node type " + reflect.TypeOf(n).String())
}

// NumberValue returns the value of a numeric literal. Literals too large
// for float64 are infinite.
func NumberValue(t Token[NumberFormat], src []byte) float64 {
	text := strings.ReplaceAll(t.Text(src), "_", "")

	base := 0

	switch t.Type {
	case Binary:
		base = 2
	case Octal:
		base = 8
	case Hex:
		base = 16
	case Decimal:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return math.NaN()
		}

		return f
	}

	i, ok := new(big.Int).SetString(text[2:], base)
	if !ok {
		return math.NaN()
	}

	f, _ := new(big.Float).SetInt(i).Float64()

	return f
}

func buildIdentifier(name string) evalFunc {
	return func(s *scope) (any, error) {
		v, ok := s.lookup(name)
		if !ok {
			return nil, &ReferenceError{Name: name}
		}

		if err := checkValue(v); err != nil {
			return nil, err
		}

		return v, nil
	}
}

// accessFunc evaluates a member or element access and returns the receiver
// along with the accessed value.
type accessFunc func(s *scope) (recv, v any, err error)

func buildMember(n *MemberNode, src []byte) accessFunc {
	object := build(n.Object, src)
	name := n.Property.Name(src)
	denied := checkProperty(name)

	return func(s *scope) (any, any, error) {
		if denied != nil {
			return nil, nil, denied
		}

		recv, err := object(s)
		if err != nil {
			return nil, nil, err
		}

		switch s.kind(recv) {
		case KindObject, KindArray, KindFunction:
		default:
			return nil, nil, &TypeError{Expected: "object", Actual: recv}
		}

		v, ok := s.member(recv, name)
		if !ok {
			return nil, nil, &PropertyError{Property: name}
		}

		if err := checkValue(v); err != nil {
			return nil, nil, err
		}

		return recv, v, nil
	}
}

func buildElement(n *ElementNode, src []byte) accessFunc {
	array := build(n.Array, src)
	index := build(n.Index, src)

	return func(s *scope) (any, any, error) {
		recv, err := array(s)
		if err != nil {
			return nil, nil, err
		}

		if s.kind(recv) != KindArray {
			return nil, nil, &TypeError{Expected: "array", Actual: recv}
		}

		iv, err := index(s)
		if err != nil {
			return nil, nil, err
		}

		f, ok := iv.(float64)
		if !ok || f != math.Trunc(f) || math.Abs(f) > maxSafeInteger {
			return nil, nil, &TypeError{Expected: "integer", Actual: iv}
		}

		if f < 0 {
			return nil, nil, &RangeError{Index: f}
		}

		v, ok := s.index(recv, int(f))
		if !ok {
			return nil, nil, &RangeError{Index: f}
		}

		if err := checkValue(v); err != nil {
			return nil, nil, err
		}

		return recv, v, nil
	}
}

func buildCall(n *CallNode, src []byte) evalFunc {
	var callee accessFunc

	switch c := n.Callee.(type) {
	case *MemberNode:
		callee = buildMember(c, src)
	case *ElementNode:
		callee = buildElement(c, src)
	default:
		plain := build(c, src)
		callee = func(s *scope) (any, any, error) {
			v, err := plain(s)

			return nil, v, err
		}
	}

	args := make([]evalFunc, len(n.Args))
	for i, arg := range n.Args {
		args[i] = build(arg, src)
	}

	return func(s *scope) (any, error) {
		recv, fn, err := callee(s)
		if err != nil {
			return nil, err
		}

		if err := checkValue(fn); err != nil {
			return nil, err
		}

		if err := checkValue(recv); err != nil {
			return nil, err
		}

		if s.kind(fn) != KindFunction {
			return nil, &TypeError{Expected: "function", Actual: fn}
		}

		values := make([]any, len(args))
		for i, arg := range args {
			v, err := arg(s)
			if err != nil {
				return nil, err
			}

			values[i] = v
		}

		v, err := s.call(fn, recv, values)
		if err != nil {
			return nil, err
		}

		if err := checkValue(v); err != nil {
			return nil, err
		}

		return v, nil
	}
}

func evalNumber(eval evalFunc, s *scope) (float64, error) {
	v, err := eval(s)
	if err != nil {
		return 0, err
	}

	f, ok := v.(float64)
	if !ok {
		return 0, &TypeError{Expected: "number", Actual: v}
	}

	return f, nil
}

func evalBoolean(eval evalFunc, s *scope) (bool, error) {
	v, err := eval(s)
	if err != nil {
		return false, err
	}

	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Expected: "boolean", Actual: v}
	}

	return b, nil
}

func buildUnary(n *UnaryNode, src []byte) evalFunc {
	operand := build(n.Expr, src)

	switch n.Op.Type {
	case SymAdd:
		return func(s *scope) (any, error) {
			f, err := evalNumber(operand, s)
			if err != nil {
				return nil, err
			}

			return f, nil
		}

	case SymSub:
		return func(s *scope) (any, error) {
			f, err := evalNumber(operand, s)
			if err != nil {
				return nil, err
			}

			return -f, nil
		}

	case SymNot:
		return func(s *scope) (any, error) {
			b, err := evalBoolean(operand, s)
			if err != nil {
				return nil, err
			}

			return !b, nil
		}
	}

	panic("lang: unknown unary operator " + string(n.Op.Type))
}

var numeric = map[Symbol]func(x, y float64) any{
	SymPow:       func(x, y float64) any { return power(x, y) },
	SymMul:       func(x, y float64) any { return x * y },
	SymDiv:       func(x, y float64) any { return x / y },
	SymMod:       func(x, y float64) any { return math.Mod(x, y) },
	SymAdd:       func(x, y float64) any { return x + y },
	SymSub:       func(x, y float64) any { return x - y },
	SymLessEq:    func(x, y float64) any { return x <= y },
	SymGreaterEq: func(x, y float64) any { return x >= y },
	SymLess:      func(x, y float64) any { return x < y },
	SymGreater:   func(x, y float64) any { return x > y },
}

func buildBinary(n *BinaryNode, src []byte) evalFunc {
	lhs := build(n.LHS, src)
	rhs := build(n.RHS, src)

	if op, ok := numeric[n.Op.Type]; ok {
		return func(s *scope) (any, error) {
			x, err := evalNumber(lhs, s)
			if err != nil {
				return nil, err
			}

			y, err := evalNumber(rhs, s)
			if err != nil {
				return nil, err
			}

			return op(x, y), nil
		}
	}

	switch n.Op.Type {
	case SymStrictEq, SymStrictNe:
		negate := n.Op.Type == SymStrictNe

		return func(s *scope) (any, error) {
			x, err := lhs(s)
			if err != nil {
				return nil, err
			}

			y, err := rhs(s)
			if err != nil {
				return nil, err
			}

			return StrictEqual(x, y) != negate, nil
		}

	case SymAnd, SymOr:
		// The right operand is neither evaluated nor checked once the left
		// one decides the result.
		decisive := n.Op.Type == SymOr

		return func(s *scope) (any, error) {
			x, err := evalBoolean(lhs, s)
			if err != nil {
				return nil, err
			}

			if x == decisive {
				return x, nil
			}

			y, err := evalBoolean(rhs, s)
			if err != nil {
				return nil, err
			}

			return y, nil
		}
	}

	panic("lang: unknown binary operator " + string(n.Op.Type))
}

func buildConditional(n *ConditionalNode, src []byte) evalFunc {
	cond := build(n.Cond, src)
	then := build(n.Then, src)
	otherwise := build(n.Else, src)

	return func(s *scope) (any, error) {
		c, err := evalBoolean(cond, s)
		if err != nil {
			return nil, err
		}

		if c {
			return then(s)
		}

		return otherwise(s)
	}
}

// StrictEqual compares two runtime values without conversion. Numbers
// compare by value, so NaN differs from itself. Maps, slices, functions and
// pointers compare by identity; structs and arrays compare element-wise
// under the same rules.
func StrictEqual(x, y any) bool {
	if x == nil || y == nil {
		return x == nil && y == nil
	}

	if fx, ok := x.(float64); ok {
		fy, ok := y.(float64)

		return ok && fx == fy
	}

	return identical(reflect.ValueOf(x), reflect.ValueOf(y))
}

// identical reports whether x and y are the same value. It reads fields
// without Interface, so unexported fields are compared too.
func identical(x, y reflect.Value) bool {
	if !x.IsValid() || !y.IsValid() {
		return x.IsValid() == y.IsValid()
	}

	if x.Type() != y.Type() {
		return false
	}

	switch x.Kind() {
	case reflect.Bool:
		return x.Bool() == y.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return x.Int() == y.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return x.Uint() == y.Uint()
	case reflect.Float32, reflect.Float64:
		return x.Float() == y.Float()
	case reflect.Complex64, reflect.Complex128:
		return x.Complex() == y.Complex()
	case reflect.String:
		return x.String() == y.String()
	case reflect.Map, reflect.Func, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return x.Pointer() == y.Pointer()
	case reflect.Slice:
		return x.Pointer() == y.Pointer() && x.Len() == y.Len()
	case reflect.Interface:
		if x.IsNil() || y.IsNil() {
			return x.IsNil() && y.IsNil()
		}

		return identical(x.Elem(), y.Elem())
	case reflect.Array:
		for i := range x.Len() {
			if !identical(x.Index(i), y.Index(i)) {
				return false
			}
		}

		return true
	case reflect.Struct:
		for i := range x.NumField() {
			if !identical(x.Field(i), y.Field(i)) {
				return false
			}
		}

		return true
	}

	return false
}
