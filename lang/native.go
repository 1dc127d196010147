package lang

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Method is a host function that receives the object it was accessed on.
// A Method called without a receiver gets nil.
type Method func(recv any, args ...any) (any, error)

// ErrArgument is the cause of a host call whose arguments cannot be
// converted to the parameters of the Go function.
var ErrArgument = errors.New("invalid argument")

var errorType = reflect.TypeFor[error]()

// native is an [Env] over ordinary Go values.
type native struct {
	root reflect.Value
}

// Native returns an [Env] that resolves names against root, which is
// typically a map[string]any or a struct (or a pointer to one).
//
// Maps with string keys and structs are objects; struct fields are named by
// their json tag when present. Exported methods are inherited members,
// never top-level names. Slices and arrays are arrays with a "length"
// member. Funcs and [Method] values are functions. Every Go numeric type is
// presented as float64.
func Native(root any) Env {
	return &native{root: reflect.ValueOf(root)}
}

func (n *native) Lookup(name string) (any, bool) {
	v, ok := ownMember(n.root, name)
	if !ok {
		return nil, false
	}

	return normalize(v), true
}

func (n *native) Member(recv any, name string) (any, bool) {
	rv := reflect.ValueOf(recv)

	if v, ok := ownMember(rv, name); ok {
		return normalize(v), true
	}

	if name == "length" {
		if e := indirect(rv); e.Kind() == reflect.Slice || e.Kind() == reflect.Array {
			return float64(e.Len()), true
		}
	}

	if rv.IsValid() {
		if m := rv.MethodByName(name); m.IsValid() {
			return m.Interface(), true
		}
	}

	return nil, false
}

func (n *native) Index(recv any, i int) (any, bool) {
	rv := indirect(reflect.ValueOf(recv))

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if i < 0 || i >= rv.Len() {
			return nil, false
		}

		return normalize(rv.Index(i)), true
	}

	return nil, false
}

func (n *native) Kind(v any) Kind { return nativeKind(reflect.ValueOf(v)) }

func (n *native) Call(callee, recv any, args []any) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	if m, ok := callee.(Method); ok {
		v, err := m(recv, args...)
		if err != nil {
			return nil, err
		}

		return normalize(reflect.ValueOf(v)), nil
	}

	fn := reflect.ValueOf(callee)
	if fn.Kind() != reflect.Func || fn.IsNil() {
		return nil, fmt.Errorf("%T is not callable", callee)
	}

	in, err := convertArgs(fn.Type(), args)
	if err != nil {
		return nil, err
	}

	return results(fn.Call(in))
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}

		v = v.Elem()
	}

	return v
}

// ownMember resolves a map key or struct field of v.
func ownMember(v reflect.Value, name string) (reflect.Value, bool) {
	v = indirect(v)

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}

		e := v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))

		return e, e.IsValid()

	case reflect.Struct:
		for _, f := range reflect.VisibleFields(v.Type()) {
			if f.Anonymous || !f.IsExported() || fieldName(f) != name {
				continue
			}

			e, err := v.FieldByIndexErr(f.Index)
			if err != nil {
				return reflect.Value{}, false
			}

			return e, true
		}
	}

	return reflect.Value{}, false
}

func fieldName(f reflect.StructField) string {
	tag, ok := f.Tag.Lookup("json")
	if !ok {
		return f.Name
	}

	name, _, _ := strings.Cut(tag, ",")

	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}

	return name
}

// normalize converts v to the representation seen by expressions.
func normalize(v reflect.Value) any {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}

		v = v.Elem()
	}

	if !v.IsValid() {
		return nil
	}

	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.Bool:
		return v.Bool()
	case reflect.String:
		return v.String()
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func:
		if v.IsNil() {
			return nil
		}
	}

	if !v.CanInterface() {
		return nil
	}

	return v.Interface()
}

func nativeKind(v reflect.Value) Kind {
	if !v.IsValid() {
		return KindUndefined
	}

	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return KindNumber
	case reflect.Bool:
		return KindBoolean
	case reflect.String:
		return KindString
	case reflect.Slice, reflect.Array:
		return KindArray
	case reflect.Func:
		return KindFunction
	case reflect.Map, reflect.Struct:
		return KindObject
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return KindUndefined
		}

		return nativeKind(v.Elem())
	}

	return KindObject
}

func convertArgs(t reflect.Type, args []any) ([]reflect.Value, error) {
	fixed := t.NumIn()
	if t.IsVariadic() {
		fixed--
	}

	if len(args) < fixed || (!t.IsVariadic() && len(args) > fixed) {
		return nil, fmt.Errorf("%w: got %d arguments, want %d", ErrArgument, len(args), fixed)
	}

	in := make([]reflect.Value, len(args))

	for i, arg := range args {
		var pt reflect.Type
		if i < fixed {
			pt = t.In(i)
		} else {
			pt = t.In(fixed).Elem()
		}

		v, err := convertArg(arg, pt)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}

		in[i] = v
	}

	return in, nil
}

func convertArg(arg any, t reflect.Type) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(t), nil
	}

	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(t) {
		return v, nil
	}

	if f, ok := arg.(float64); ok {
		switch t.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if f != float64(int64(f)) {
				return reflect.Value{}, fmt.Errorf("%w: %v is not an integer", ErrArgument, f)
			}

			return v.Convert(t), nil
		case reflect.Float32:
			return v.Convert(t), nil
		}
	}

	if v.Type().ConvertibleTo(t) && v.Kind() == t.Kind() {
		return v.Convert(t), nil
	}

	return reflect.Value{}, fmt.Errorf("%w: cannot use %s as %s", ErrArgument, describe(arg), t)
}

func results(out []reflect.Value) (any, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if out[0].Type() == errorType {
			err, _ := out[0].Interface().(error)

			return nil, err
		}

		return normalize(out[0]), nil
	case 2:
		if out[1].Type() == errorType {
			err, _ := out[1].Interface().(error)
			if err != nil {
				return nil, err
			}

			return normalize(out[0]), nil
		}
	}

	return nil, fmt.Errorf("unsupported result count %d", len(out))
}
