package lang

import (
	"math"
	"strconv"
	"strings"
)

// Kind discriminates the variants of [Value].
type Kind int

const (
	KindUnit     Kind = iota // unit
	KindNumber               // number
	KindString               // string
	KindBool                 // bool
	KindFunction             // function
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Value is a runtime value. The zero Value is Unit.
//
// Numbers are either integers or floating point. Arithmetic on two integers
// stays integral; any floating operand makes the result floating.
type Value struct {
	fn      *Function
	str     string
	num     float64
	i       int64
	kind    Kind
	isFloat bool
	b       bool
}

// Function is a closure: a parameter list and body together with the scope
// the function was defined in.
type Function struct {
	Env    *Env
	Name   string
	Params []string
	Body   []Stmt
}

// Signature renders the function head, such as "add(a, b)".
func (f *Function) Signature() string {
	return f.Name + "(" + strings.Join(f.Params, ", ") + ")"
}

// UnitValue returns the Unit value.
func UnitValue() Value { return Value{} }

// IntValue returns an integer Number.
func IntValue(n int64) Value { return Value{kind: KindNumber, i: n} }

// FloatValue returns a floating-point Number.
func FloatValue(f float64) Value {
	return Value{kind: KindNumber, num: f, isFloat: true}
}

// StringValue returns a String.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// BoolValue returns a Bool.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// FunctionValue returns a Function value.
func FunctionValue(f *Function) Value {
	return Value{kind: KindFunction, fn: f}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsUnit reports whether v is Unit.
func (v Value) IsUnit() bool { return v.kind == KindUnit }

// IsFloat reports whether v is a floating-point Number.
func (v Value) IsFloat() bool { return v.kind == KindNumber && v.isFloat }

// Int returns the integer held by v. Floating Numbers are truncated.
func (v Value) Int() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}

	if v.isFloat {
		return int64(v.num), true
	}

	return v.i, true
}

// Float returns the Number held by v as a float64.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}

	if v.isFloat {
		return v.num, true
	}

	return float64(v.i), true
}

// Str returns the String held by v.
func (v Value) Str() (string, bool) {
	return v.str, v.kind == KindString
}

// Bool returns the Bool held by v.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Func returns the Function held by v.
func (v Value) Func() (*Function, bool) {
	return v.fn, v.kind == KindFunction
}

// Render returns the text written by a print statement.
func (v Value) Render() string {
	switch v.kind {
	case KindUnit:
		return ""
	case KindNumber:
		if v.isFloat {
			return formatFloat(v.num)
		}

		return strconv.FormatInt(v.i, 10)
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindFunction:
		return "<fn " + v.fn.Signature() + ">"
	default:
		return ""
	}
}

// String returns a source-like representation: strings are quoted and Unit
// is "()".
func (v Value) String() string {
	switch v.kind {
	case KindUnit:
		return "()"
	case KindString:
		return quote(v.str)
	default:
		return v.Render()
	}
}

// Equal reports whether v and w have the same kind and value. Integer and
// floating Numbers compare numerically; Functions compare by identity.
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}

	switch v.kind {
	case KindUnit:
		return true
	case KindNumber:
		if !v.isFloat && !w.isFloat {
			return v.i == w.i
		}

		a, _ := v.Float()
		b, _ := w.Float()

		return a == b
	case KindString:
		return v.str == w.str
	case KindBool:
		return v.b == w.b
	case KindFunction:
		return v.fn == w.fn
	default:
		return false
	}
}

// Native converts v to a plain Go value: nil, int64, float64, string, bool,
// or the function signature string.
func (v Value) Native() any {
	switch v.kind {
	case KindNumber:
		if v.isFloat {
			return v.num
		}

		return v.i
	case KindString:
		return v.str
	case KindBool:
		return v.b
	case KindFunction:
		return v.fn.Signature()
	default:
		return nil
	}
}

// FromNative converts a Go value into a Value. It accepts nil, bool, string,
// all integer and float types; anything else yields false.
func FromNative(x any) (Value, bool) {
	switch n := x.(type) {
	case nil:
		return Value{}, true
	case Value:
		return n, true
	case bool:
		return BoolValue(n), true
	case string:
		return StringValue(n), true
	case int:
		return IntValue(int64(n)), true
	case int8:
		return IntValue(int64(n)), true
	case int16:
		return IntValue(int64(n)), true
	case int32:
		return IntValue(int64(n)), true
	case int64:
		return IntValue(n), true
	case uint:
		return IntValue(int64(n)), true //nolint:gosec
	case uint8:
		return IntValue(int64(n)), true
	case uint16:
		return IntValue(int64(n)), true
	case uint32:
		return IntValue(int64(n)), true
	case uint64:
		return IntValue(int64(n)), true //nolint:gosec
	case float32:
		return FloatValue(float64(n)), true
	case float64:
		return FloatValue(n), true
	default:
		return Value{}, false
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}
