package lang

import (
	"math"
	"testing"
)

func TestValue_Render(t *testing.T) {
	fn := &Function{Name: "add", Params: []string{"a", "b"}}

	tests := []struct {
		name   string
		value  Value
		render string
		str    string
	}{
		{"unit", UnitValue(), "", "()"},
		{"int", IntValue(42), "42", "42"},
		{"negative int", IntValue(-7), "-7", "-7"},
		{"float", FloatValue(3.5), "3.5", "3.5"},
		{"whole float", FloatValue(2), "2", "2"},
		{"infinity", FloatValue(math.Inf(1)), "inf", "inf"},
		{"string", StringValue("a\"b"), "a\"b", `"a\"b"`},
		{"newline string", StringValue("x\ny"), "x\ny", `"x\ny"`},
		{"true", BoolValue(true), "true", "true"},
		{"false", BoolValue(false), "false", "false"},
		{"function", FunctionValue(fn), "<fn add(a, b)>", "<fn add(a, b)>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.Render(); got != tt.render {
				t.Errorf("Render() = %q, want %q", got, tt.render)
			}

			if got := tt.value.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
		})
	}
}

func TestValue_Equal(t *testing.T) {
	f1 := FunctionValue(&Function{Name: "f"})
	f2 := FunctionValue(&Function{Name: "f"})

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"int int", IntValue(1), IntValue(1), true},
		{"int float", IntValue(1), FloatValue(1), true},
		{"int float differ", IntValue(1), FloatValue(1.5), false},
		{"string", StringValue("a"), StringValue("a"), true},
		{"string differ", StringValue("a"), StringValue("b"), false},
		{"bool", BoolValue(true), BoolValue(true), true},
		{"kinds differ", IntValue(0), BoolValue(false), false},
		{"unit", UnitValue(), Value{}, true},
		{"unit vs string", UnitValue(), StringValue(""), false},
		{"same function", f1, f1, true},
		{"distinct functions", f1, f2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("%v.Equal(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestValue_Accessors(t *testing.T) {
	if n, ok := FloatValue(2.9).Int(); !ok || n != 2 {
		t.Errorf("expected truncated 2, got %d (%v)", n, ok)
	}

	if f, ok := IntValue(3).Float(); !ok || f != 3 {
		t.Errorf("expected 3.0, got %v (%v)", f, ok)
	}

	if _, ok := StringValue("x").Int(); ok {
		t.Error("string must not convert to int")
	}

	if s, ok := StringValue("x").Str(); !ok || s != "x" {
		t.Errorf("expected x, got %q (%v)", s, ok)
	}

	if _, ok := IntValue(1).Bool(); ok {
		t.Error("number must not convert to bool")
	}

	if IntValue(1).Kind() != KindNumber {
		t.Error("expected number kind")
	}

	if !FloatValue(1).IsFloat() || IntValue(1).IsFloat() {
		t.Error("IsFloat mismatch")
	}

	if !UnitValue().IsUnit() || IntValue(0).IsUnit() {
		t.Error("IsUnit mismatch")
	}
}

func TestValue_Native(t *testing.T) {
	tests := []struct {
		in   any
		want Value
	}{
		{nil, UnitValue()},
		{true, BoolValue(true)},
		{"s", StringValue("s")},
		{7, IntValue(7)},
		{int32(-2), IntValue(-2)},
		{uint8(9), IntValue(9)},
		{1.25, FloatValue(1.25)},
		{float32(0.5), FloatValue(0.5)},
	}

	for _, tt := range tests {
		v, ok := FromNative(tt.in)
		if !ok {
			t.Errorf("FromNative(%#v) rejected", tt.in)

			continue
		}

		if !v.Equal(tt.want) || v.IsFloat() != tt.want.IsFloat() {
			t.Errorf("FromNative(%#v) = %v, want %v", tt.in, v, tt.want)
		}

		back, _ := FromNative(v.Native())
		if !back.Equal(v) {
			t.Errorf("Native round trip of %v gave %v", v, back)
		}
	}

	if _, ok := FromNative([]int{1}); ok {
		t.Error("expected slices to be rejected")
	}
}

func TestKind_String(t *testing.T) {
	want := map[Kind]string{
		KindUnit:     "unit",
		KindNumber:   "number",
		KindString:   "string",
		KindBool:     "bool",
		KindFunction: "function",
		Kind(99):     "unknown",
	}

	for k, s := range want {
		if k.String() != s {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), k.String(), s)
		}
	}
}
