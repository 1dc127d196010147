package lang

import (
	"math"
	"slices"
)

// Builtin is a function provided by the language itself.
type Builtin struct {
	name   string
	params []string
	fn     func(args []float64) float64
}

// Name returns the qualified name of b, such as "Math.max".
func (b *Builtin) Name() string { return b.name }

// Params returns the parameter names of b. A variadic parameter is
// prefixed with "...".
func (b *Builtin) Params() []string { return slices.Clone(b.params) }

// Call applies b. Missing arguments are NaN and extra ones are ignored by
// fixed-arity functions.
func (b *Builtin) Call(args []any) (any, error) {
	nums := make([]float64, len(args))
	for i, arg := range args {
		f, ok := arg.(float64)
		if !ok {
			return nil, &TypeError{Expected: "number", Actual: arg}
		}

		nums[i] = f
	}

	return b.fn(nums), nil
}

// Namespace is a builtin object holding constants and functions.
type Namespace struct {
	name    string
	members map[string]any
}

// Name returns the name of ns.
func (ns *Namespace) Name() string { return ns.name }

// Member returns the named member of ns.
func (ns *Namespace) Member(name string) (any, bool) {
	v, ok := ns.members[name]

	return v, ok
}

// Keys returns the member names of ns in sorted order.
func (ns *Namespace) Keys() []string {
	keys := make([]string, 0, len(ns.members))
	for k := range ns.members {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

func argAt(args []float64, i int) float64 {
	if i < len(args) {
		return args[i]
	}

	return math.NaN()
}

func mathUnary(name string, fn func(float64) float64) *Builtin {
	return &Builtin{
		name:   "Math." + name,
		params: []string{"x"},
		fn:     func(a []float64) float64 { return fn(argAt(a, 0)) },
	}
}

func mathBinary(name string, fn func(x, y float64) float64, x, y string) *Builtin {
	return &Builtin{
		name:   "Math." + name,
		params: []string{x, y},
		fn:     func(a []float64) float64 { return fn(argAt(a, 0), argAt(a, 1)) },
	}
}

func mathVariadic(name string, fn func([]float64) float64) *Builtin {
	return &Builtin{name: "Math." + name, params: []string{"...values"}, fn: fn}
}

// Math is the builtin namespace of mathematical constants and functions.
var Math = &Namespace{name: "Math", members: map[string]any{
	"E":       math.E,
	"LN2":     math.Ln2,
	"LN10":    math.Ln10,
	"LOG2E":   math.Log2E,
	"LOG10E":  math.Log10E,
	"PI":      math.Pi,
	"SQRT1_2": math.Sqrt2 / 2,
	"SQRT2":   math.Sqrt2,

	"abs":   mathUnary("abs", math.Abs),
	"acos":  mathUnary("acos", math.Acos),
	"asin":  mathUnary("asin", math.Asin),
	"atan":  mathUnary("atan", math.Atan),
	"atan2": mathBinary("atan2", math.Atan2, "y", "x"),
	"cbrt":  mathUnary("cbrt", math.Cbrt),
	"ceil":  mathUnary("ceil", math.Ceil),
	"cos":   mathUnary("cos", math.Cos),
	"exp":   mathUnary("exp", math.Exp),
	"floor": mathUnary("floor", math.Floor),
	"hypot": mathVariadic("hypot", hypot),
	"log":   mathUnary("log", math.Log),
	"log10": mathUnary("log10", math.Log10),
	"log2":  mathUnary("log2", math.Log2),
	"max":   mathVariadic("max", maximum),
	"min":   mathVariadic("min", minimum),
	"pow":   mathBinary("pow", power, "base", "exponent"),
	"round": mathUnary("round", round),
	"sign":  mathUnary("sign", sign),
	"sin":   mathUnary("sin", math.Sin),
	"sqrt":  mathUnary("sqrt", math.Sqrt),
	"tan":   mathUnary("tan", math.Tan),
	"trunc": mathUnary("trunc", math.Trunc),
}}

// builtins are resolved before the environment.
var builtins = map[string]any{
	"Math":     Math,
	"Infinity": math.Inf(1),
	"NaN":      math.NaN(),
}

// BuiltinNames returns the names resolved ahead of any environment.
func BuiltinNames() []string { return []string{"Infinity", "Math", "NaN"} }

// LookupBuiltin returns the builtin value called name.
func LookupBuiltin(name string) (any, bool) {
	v, ok := builtins[name]

	return v, ok
}

func hypot(a []float64) float64 {
	sum := 0.0
	for _, x := range a {
		if math.IsInf(x, 0) {
			return math.Inf(1)
		}

		sum += x * x
	}

	return math.Sqrt(sum)
}

func maximum(a []float64) float64 {
	out := math.Inf(-1)
	for _, x := range a {
		if math.IsNaN(x) {
			return x
		}

		out = math.Max(out, x)
	}

	return out
}

func minimum(a []float64) float64 {
	out := math.Inf(1)
	for _, x := range a {
		if math.IsNaN(x) {
			return x
		}

		out = math.Min(out, x)
	}

	return out
}

// round rounds half up, toward positive infinity.
func round(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}

	r := math.Floor(x)
	if x-r >= 0.5 {
		r++
	}

	return r
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}

	return x
}

// power is exponentiation where 1 ** ±Infinity and (±1) ** NaN are NaN.
func power(x, y float64) float64 {
	if math.IsNaN(y) {
		return math.NaN()
	}

	if math.Abs(x) == 1 && math.IsInf(y, 0) {
		return math.NaN()
	}

	return math.Pow(x, y)
}
