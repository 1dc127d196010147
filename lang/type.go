package lang

import (
	"fmt"
	"slices"
	"strings"
)

// Type is the result type an expression is compiled against.
type Type int

const (
	TypeAny Type = iota
	TypeNumber
	TypeBoolean
)

var typeName = [...]string{
	TypeAny:     "any",
	TypeNumber:  "number",
	TypeBoolean: "boolean",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeName) {
		return fmt.Sprintf("Type(%d)", int(t))
	}

	return typeName[t]
}

// Types returns the names of all result types.
func Types() []string { return slices.Clone(typeName[:]) }

// ParseType returns the Type named s, ignoring case and surrounding space.
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range typeName {
		if s == name {
			return Type(i), nil
		}
	}

	return TypeAny, fmt.Errorf("%w: %q (want one of %s)",
		ErrUnknownType, s, strings.Join(typeName[:], ", "))
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (t *Type) UnmarshalText(text []byte) error {
	v, err := ParseType(string(text))
	if err != nil {
		return err
	}

	*t = v

	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Kind classifies a runtime value.
type Kind int

const (
	KindUndefined Kind = iota
	KindNumber
	KindBoolean
	KindString
	KindArray
	KindObject
	KindFunction
)

var kindName = [...]string{
	KindUndefined: "undefined",
	KindNumber:    "number",
	KindBoolean:   "boolean",
	KindString:    "string",
	KindArray:     "array",
	KindObject:    "object",
	KindFunction:  "function",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindName) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}

	return kindName[k]
}

// Env is the host object graph an expression is evaluated against.
//
// Numbers are float64 and booleans are bool throughout; nil is undefined.
// Every other value is opaque to the evaluator and only ever handed back to
// the Env that produced it.
type Env interface {
	// Lookup resolves a top-level name.
	Lookup(name string) (any, bool)
	// Member resolves the named property of recv.
	Member(recv any, name string) (any, bool)
	// Index resolves element i of the array recv. It is only called with
	// i >= 0 and reports false when i is out of bounds.
	Index(recv any, i int) (any, bool)
	// Call invokes callee with receiver recv, which is nil for a plain call.
	Call(callee, recv any, args []any) (any, error)
	// Kind classifies v.
	Kind(v any) Kind
}
