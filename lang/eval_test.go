package lang

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
	"testing"
)

// run parses and evaluates src, returning the printed lines.
func run(t *testing.T, src string, opts ...Option) ([]string, Value, error) {
	t.Helper()

	prog, err := Parse(t.Context(), src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	var out Lines

	v, err := Evaluate(t.Context(), prog, &out, opts...)

	return out.Lines(), v, err
}

func TestEvaluate_Output(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "precedence",
			input: `print 2 + 3 * 4`,
			want:  []string{"14"},
		},
		{
			name:  "left associative subtraction",
			input: `print 10 - 3 - 2`,
			want:  []string{"5"},
		},
		{
			name:  "shadowing in nested scope",
			input: `let x = 1; if true { let x = 2; print(x) }; print(x)`,
			want:  []string{"2", "1"},
		},
		{
			name:  "loop scope rebinding",
			input: `let x = 0; while x < 3 { print(x); let x = x + 1 }`,
			want:  []string{"0", "1", "2"},
		},
		{
			name:  "let in loop body leaves outer binding",
			input: `let x = 0; while x < 3 { let x = x + 1 }; print x`,
			want:  []string{"0"},
		},
		{
			name:  "assignment in loop body reaches outer binding",
			input: `let x = 0; while x < 3 { x = x + 1 }; print x`,
			want:  []string{"3"},
		},
		{
			name: "break exits immediately",
			input: `let i = 0
				while true {
					if i == 3 { break }
					print i
					i = i + 1
				}`,
			want: []string{"0", "1", "2"},
		},
		{
			name: "continue re-tests condition",
			input: `let i = 0
				while i < 5 {
					let i = i + 1
					if i == 2 { continue }
					if i == 4 { continue }
					print i
				}`,
			want: []string{"1", "3", "5"},
		},
		{
			name: "factorial",
			input: `fn fact(n) {
					if n <= 1 { return 1 }
					return n * fact(n - 1)
				}
				print fact(5)
				print fact(10)`,
			want: []string{"120", "3628800"},
		},
		{
			name: "first return wins",
			input: `fn f() { return 1; return 2 }
				print f()`,
			want: []string{"1"},
		},
		{
			name: "return from inside loop",
			input: `fn find(limit) {
					let i = 0
					while true {
						if i * i > limit { return i }
						i = i + 1
					}
				}
				print find(50)`,
			want: []string{"8"},
		},
		{
			name:  "no return yields unit",
			input: `fn f() { let x = 1 } print f()`,
			want:  []string{""},
		},
		{
			name:  "bare return yields unit",
			input: `fn f() { return } print f() == f()`,
			want:  []string{"true"},
		},
		{
			name:  "string concatenation",
			input: `print "foo" + "bar"`,
			want:  []string{"foobar"},
		},
		{
			name:  "string comparison",
			input: `print "abc" < "abd"; print "b" >= "a"`,
			want:  []string{"true", "true"},
		},
		{
			name:  "integer division truncates",
			input: `print 7 / 2; print -7 / 2`,
			want:  []string{"3", "-3"},
		},
		{
			name:  "float arithmetic",
			input: `print 7.0 / 2; print 0.1 + 0.2 > 0.3; print 1.5 * 2`,
			want:  []string{"3.5", "true", "3"},
		},
		{
			name:  "mixed equality",
			input: `print 1 == 1.0; print 1 == "1"; print true != false`,
			want:  []string{"true", "false", "true"},
		},
		{
			name:  "unary operators",
			input: `let x = 5; print -x; print !true; print --x`,
			want:  []string{"-5", "false", "5"},
		},
		{
			name: "closures capture defining scope",
			input: `let x = "global"
				fn show() { print x }
				fn caller() { let x = "local"; show() }
				caller()`,
			want: []string{"global"},
		},
		{
			name: "assignment mutates nearest scope",
			input: `let n = 0
				fn bump() { n = n + 1 }
				bump(); bump()
				print n`,
			want: []string{"2"},
		},
		{
			name: "assignment in if writes outer binding",
			input: `let x = 1
				if true { x = 5 }
				print x`,
			want: []string{"5"},
		},
		{
			name: "else if chain",
			input: `fn sign(n) {
					if n > 0 { return "pos" } else if n < 0 { return "neg" } else { return "zero" }
				}
				print sign(3); print sign(-2); print sign(0)`,
			want: []string{"pos", "neg", "zero"},
		},
		{
			name:  "short circuit and",
			input: `fn boom() { print "evaluated"; return true } print false && boom()`,
			want:  []string{"false"},
		},
		{
			name:  "short circuit or",
			input: `fn boom() { print "evaluated"; return true } print true || boom()`,
			want:  []string{"true"},
		},
		{
			name:  "arguments evaluated left to right",
			input: `fn p(x) { print x; return x } fn f(a, b) { return a + b } print f(p(1), p(2))`,
			want:  []string{"1", "2", "3"},
		},
		{
			name: "nested loops break only inner",
			input: `let i = 0
				while i < 2 {
					let j = 0
					while true {
						if j == 2 { break }
						print i * 10 + j
						j = j + 1
					}
					i = i + 1
				}`,
			want: []string{"0", "1", "10", "11"},
		},
		{
			name:  "function values print their signature",
			input: `fn add(a, b) { return a + b } print add`,
			want:  []string{"<fn add(a, b)>"},
		},
		{
			name:  "recursive fibonacci",
			input: `fn fib(n) { if n < 2 { return n } return fib(n - 1) + fib(n - 2) } print fib(15)`,
			want:  []string{"610"},
		},
		{
			name:  "while loop from zero to five",
			input: `let x = 0; while x < 5 { print x; let x = x + 1 }`,
			want:  []string{"0", "1", "2", "3", "4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := run(t, tt.input)
			if err != nil {
				t.Fatalf("evaluate error: %v", err)
			}

			if !slices.Equal(got, tt.want) {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestEvaluate_Faults(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		target error
		output []string // lines printed before the fault
	}{
		{"add number and bool", `1 + true`, ErrType, nil},
		{"divide by zero", `1 / 0`, ErrDivideByZero, nil},
		{"float divide by zero", `1.5 / 0.0`, ErrDivideByZero, nil},
		{"arity", `fn add(a, b) { return a + b } add(1)`, ErrArity, nil},
		{"undefined name", `print y`, ErrName, nil},
		{"undefined function", `nope(1)`, ErrName, nil},
		{"assign undeclared", `z = 1`, ErrName, nil},
		{"call non-function", `let f = 1; f()`, ErrType, nil},
		{"non-bool if", `if 1 { print 1 }`, ErrType, nil},
		{"non-bool while", `while "x" { }`, ErrType, nil},
		{"negate string", `-"s"`, ErrType, nil},
		{"not number", `!1`, ErrType, nil},
		{"and non-bool", `true && 1`, ErrType, nil},
		{"or non-bool left", `1 || true`, ErrType, nil},
		{"compare mixed", `1 < "2"`, ErrType, nil},
		{"subtract strings", `"a" - "b"`, ErrType, nil},
		{"break at top level", `break`, ErrUse, nil},
		{"continue at top level", `continue`, ErrUse, nil},
		{"return at top level", `return 1`, ErrUse, nil},
		{"break in if at top level", `if true { break }`, ErrUse, nil},
		{"break inside function", `fn f() { break } while true { f() }`, ErrUse, nil},
		{"continue inside function", `fn f() { continue } f()`, ErrUse, nil},
		{"output kept before fault", `print 1; print 2; print 1 / 0; print 3`, ErrDivideByZero, []string{"1", "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := run(t, tt.input)
			if err == nil {
				t.Fatal("expected error")
			}

			if !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %T: %v", tt.target, err, err)
			}

			if !IsFault(err) {
				t.Errorf("expected IsFault(%v)", err)
			}

			if !slices.Equal(got, tt.output) {
				t.Errorf("expected output %q, got %q", tt.output, got)
			}
		})
	}
}

func TestEvaluate_FaultDetails(t *testing.T) {
	_, _, err := run(t, "let a = 1\nlet b = a + true")

	var te *TypeError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TypeError, got %T", err)
	}

	if te.Context != `operator "+"` {
		t.Errorf("expected operator context, got %q", te.Context)
	}

	if !slices.Equal(te.Kinds, []Kind{KindNumber, KindBool}) {
		t.Errorf("expected number, bool kinds, got %v", te.Kinds)
	}

	if te.Pos.Line != 2 || te.Pos.Column != 11 {
		t.Errorf("expected position 2:11, got %s", te.Pos)
	}

	_, _, err = run(t, `fn add(a, b) { return a + b } add(1, 2, 3)`)

	var ae *ArityError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *ArityError, got %T", err)
	}

	if ae.Function != "add" || ae.Expected != 2 || ae.Got != 3 {
		t.Errorf("unexpected arity details: %+v", ae)
	}

	_, _, err = run(t, `print missing`)

	var ne *NameError
	if !errors.As(err, &ne) || ne.Name != "missing" {
		t.Fatalf("expected NameError for missing, got %v", err)
	}

	if !strings.Contains(err.Error(), `undefined name "missing"`) {
		t.Errorf("unexpected message: %v", err)
	}

	_, _, err = run(t, `while true { fn f() { break } f() }`)

	var ue *UseError
	if !errors.As(err, &ue) || ue.Construct != "break" {
		t.Fatalf("expected UseError for break, got %v", err)
	}
}

func TestEvaluate_StackOverflow(t *testing.T) {
	src := `fn down(n) { if n == 0 { return 0 } return down(n - 1) }
		print down(40)`

	got, _, err := run(t, src, WithMaxCallDepth(50))
	if err != nil {
		t.Fatalf("unexpected error within ceiling: %v", err)
	}

	if !slices.Equal(got, []string{"0"}) {
		t.Errorf("expected [0], got %q", got)
	}

	_, _, err = run(t, src, WithMaxCallDepth(20))

	var so *StackOverflowError
	if !errors.As(err, &so) {
		t.Fatalf("expected *StackOverflowError, got %T: %v", err, err)
	}

	if so.Depth != 20 || so.Function != "down" {
		t.Errorf("unexpected overflow details: %+v", so)
	}

	_, _, err = run(t, `fn forever() { return forever() } forever()`, WithMaxCallDepth(100))
	if !errors.Is(err, ErrStackOverflow) {
		t.Errorf("expected unbounded recursion to overflow, got %v", err)
	}
}

func TestEvaluate_LongChain(t *testing.T) {
	src := "print " + "1" + strings.Repeat(" + 1", MaxOperatorDepth)

	got, _, err := run(t, src)
	if err != nil {
		t.Fatalf("evaluate error: %v", err)
	}

	if want := strconv.Itoa(MaxOperatorDepth + 1); !slices.Equal(got, []string{want}) {
		t.Errorf("expected [%s], got %q", want, got)
	}
}

func TestWithMaxCallDepth_Limit(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		want  int
	}{
		{"within limit", 500, 500},
		{"clamped", 1 << 40, CallDepthLimit},
		{"ignored", 0, DefaultMaxCallDepth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := makeOptions(WithMaxCallDepth(tt.depth)).maxCallDepth; got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestEvaluate_StackOverflowAtLimit(t *testing.T) {
	if testing.Short() {
		t.Skip("deep recursion")
	}

	src := `fn down(n) { if n == 0 { return 0 } return down(n - 1) }
		print down(` + strconv.Itoa(CallDepthLimit+10) + `)`

	_, _, err := run(t, src, WithMaxCallDepth(1<<40))

	var so *StackOverflowError
	if !errors.As(err, &so) {
		t.Fatalf("expected *StackOverflowError, got %T: %v", err, err)
	}

	if so.Depth != CallDepthLimit {
		t.Errorf("expected overflow at depth %d, got %d", CallDepthLimit, so.Depth)
	}
}

func TestEvaluate_Result(t *testing.T) {
	tests := []struct {
		input string
		want  Value
	}{
		{`1 + 2`, IntValue(3)},
		{`let x = 1`, UnitValue()},
		{`"a" + "b"`, StringValue("ab")},
		{`let x = 2; x * 2`, IntValue(4)},
		{`1; print 2`, UnitValue()},
		{``, UnitValue()},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, v, err := run(t, tt.input)
			if err != nil {
				t.Fatalf("evaluate error: %v", err)
			}

			if !v.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, v)
			}
		})
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	prog, err := Parse(t.Context(), `
		let total = 0
		let i = 0
		while i < 10 { total = total + i; let i = i + 1 }
		fn greet(name) { return "hello " + name }
		print total
		print greet("dash")
	`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	var first []string

	for i := range 3 {
		var out Lines

		if _, err := Evaluate(t.Context(), prog, &out); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}

		if i == 0 {
			first = out.Lines()

			continue
		}

		if !slices.Equal(first, out.Lines()) {
			t.Errorf("run %d: expected %q, got %q", i, first, out.Lines())
		}
	}

	if !slices.Equal(first, []string{"45", "hello dash"}) {
		t.Errorf("unexpected output %q", first)
	}
}

func TestInterpreter_PersistentGlobals(t *testing.T) {
	var out Lines

	in := New(&out)

	for _, src := range []string{`let x = 40`, `fn inc(n) { return n + 1 }`, `print inc(x) + 1`} {
		prog, err := Parse(t.Context(), src)
		if err != nil {
			t.Fatalf("parse error: %v", err)
		}

		if _, err := in.Run(t.Context(), prog); err != nil {
			t.Fatalf("run error: %v", err)
		}
	}

	if !slices.Equal(out.Lines(), []string{"42"}) {
		t.Errorf("expected [42], got %q", out.Lines())
	}

	names := in.Globals().Names()
	if !slices.Equal(names, []string{"inc", "x"}) {
		t.Errorf("expected globals [inc x], got %v", names)
	}

	in.Reset()

	if len(in.Globals().Names()) != 0 {
		t.Error("expected no globals after reset")
	}
}

func TestInterpreter_Define(t *testing.T) {
	var out Lines

	in := New(&out)
	in.Define("limit", IntValue(3))

	prog, err := Parse(t.Context(), `let i = 0; while i < limit { print i; let i = i + 1 }`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if _, err := in.Run(t.Context(), prog); err != nil {
		t.Fatalf("run error: %v", err)
	}

	if !slices.Equal(out.Lines(), []string{"0", "1", "2"}) {
		t.Errorf("unexpected output %q", out.Lines())
	}
}

func TestEvaluate_Checkpoint(t *testing.T) {
	prog, err := Parse(t.Context(), `print 1; print 2; print 3`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	stop := errors.New("stop")
	calls := 0

	var out Lines

	_, err = Evaluate(t.Context(), prog, &out, WithCheckpoint(func(context.Context) error {
		calls++
		if calls == 3 {
			return stop
		}

		return nil
	}))
	if !errors.Is(err, stop) {
		t.Fatalf("expected checkpoint error, got %v", err)
	}

	if !slices.Equal(out.Lines(), []string{"1", "2"}) {
		t.Errorf("expected statements before checkpoint failure to run, got %q", out.Lines())
	}
}

func TestEvaluate_Cancellation(t *testing.T) {
	prog, err := Parse(t.Context(), `while true { }`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	ctx, cancel := context.WithCancel(t.Context())

	_, err = Evaluate(ctx, prog, nil, WithCheckpoint(func(context.Context) error {
		cancel()

		return nil
	}))
	if !errors.Is(err, ErrInterrupted) {
		t.Fatalf("expected ErrInterrupted, got %v", err)
	}

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got %v", err)
	}

	if IsFault(err) {
		t.Error("interruption should not be reported as a fault")
	}
}

func TestEvaluate_OutputError(t *testing.T) {
	prog, err := Parse(t.Context(), `print 1`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	broken := errors.New("broken pipe")

	_, err = Evaluate(t.Context(), prog, OutputFunc(func(string) error { return broken }))
	if !errors.Is(err, ErrOutput) || !errors.Is(err, broken) {
		t.Errorf("expected output error wrapping cause, got %v", err)
	}
}

func TestEvaluate_NilProgram(t *testing.T) {
	if _, err := Evaluate(t.Context(), nil, nil); !errors.Is(err, ErrNoProgram) {
		t.Errorf("expected ErrNoProgram, got %v", err)
	}
}

func TestEvaluate_WriterOutput(t *testing.T) {
	prog, err := Parse(t.Context(), `print "a"; print 1.25; print true`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	var sb strings.Builder
	if _, err := Evaluate(t.Context(), prog, WriterOutput(&sb)); err != nil {
		t.Fatalf("evaluate error: %v", err)
	}

	if sb.String() != "a\n1.25\ntrue\n" {
		t.Errorf("unexpected output %q", sb.String())
	}
}
