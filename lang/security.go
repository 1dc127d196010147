package lang

// Sentinel is a host value that expressions must never reach. Hosts put
// the sentinels below wherever their object graph would expose the
// corresponding object, and the evaluator refuses to hand them out.
type Sentinel struct {
	name string
	kind Kind
}

func (s *Sentinel) String() string { return s.name }

// The denied host objects.
var (
	Global              = &Sentinel{name: "global object", kind: KindObject}
	ObjectConstructor   = &Sentinel{name: "Object", kind: KindFunction}
	ObjectPrototype     = &Sentinel{name: "Object.prototype", kind: KindObject}
	FunctionConstructor = &Sentinel{name: "Function", kind: KindFunction}
	FunctionPrototype   = &Sentinel{name: "Function.prototype", kind: KindFunction}
)

var deniedValues = map[*Sentinel]string{
	Global:              "global object",
	ObjectConstructor:   "Object constructor",
	ObjectPrototype:     "Object prototype",
	FunctionConstructor: "Function constructor",
	FunctionPrototype:   "Function prototype",
}

// deniedProperties are refused by name on any receiver.
var deniedProperties = map[string]string{
	"__proto__":   "__proto__ property",
	"prototype":   "prototype property",
	"constructor": "constructor property",
}

// DeniedProperty reports whether name is a property expressions may not
// access, and if so what it is.
func DeniedProperty(name string) (string, bool) {
	target, ok := deniedProperties[name]

	return target, ok
}

// Denied reports whether v is a value expressions may not reach, and if so
// what it is.
func Denied(v any) (string, bool) {
	s, ok := v.(*Sentinel)
	if !ok {
		return "", false
	}

	target, ok := deniedValues[s]

	return target, ok
}

func checkValue(v any) error {
	if target, ok := Denied(v); ok {
		return &SecurityError{Target: target}
	}

	return nil
}

func checkProperty(name string) error {
	if target, ok := DeniedProperty(name); ok {
		return &SecurityError{Target: target}
	}

	return nil
}
