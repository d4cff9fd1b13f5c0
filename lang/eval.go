package lang

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// flow is the control-flow result of executing a statement.
type flow int

const (
	flowNormal flow = iota
	flowBreak
	flowContinue
	flowReturn
)

// outcome is the non-fault result of executing a statement. value holds the
// returned value for flowReturn and the expression value of an [ExprStmt].
type outcome struct {
	value Value
	pos   Position
	flow  flow
}

// useError converts a control signal that reached a boundary which does not
// handle it.
func (o outcome) useError() *UseError {
	construct := "return"

	switch o.flow {
	case flowBreak:
		construct = "break"
	case flowContinue:
		construct = "continue"
	}

	return &UseError{Construct: construct, Pos: o.pos}
}

// Interpreter executes programs against a global scope that persists across
// calls to [Interpreter.Run]. It is not safe for concurrent use.
type Interpreter struct {
	globals *Env
	out     Output
	opts    options
	depth   int
}

// New returns an Interpreter writing print output to out. A nil out
// discards output.
func New(out Output, opts ...Option) *Interpreter {
	if out == nil {
		out = discard
	}

	return &Interpreter{
		globals: NewEnv(nil),
		out:     out,
		opts:    makeOptions(opts...),
	}
}

// Evaluate executes prog against a fresh global scope and returns its
// result: the value of the final top-level statement if it is an expression
// statement, otherwise Unit.
func Evaluate(ctx context.Context, prog *Program, out Output, opts ...Option) (Value, error) {
	return New(out, opts...).Run(ctx, prog)
}

// Globals returns the global scope.
func (in *Interpreter) Globals() *Env { return in.globals }

// Define binds name in the global scope.
func (in *Interpreter) Define(name string, v Value) {
	in.globals.Define(name, v)
}

// Reset discards every global binding.
func (in *Interpreter) Reset() {
	in.globals = NewEnv(nil)
}

// Run executes prog's top-level statements in order. Output already written
// before a fault is not rolled back.
func (in *Interpreter) Run(ctx context.Context, prog *Program) (Value, error) {
	if prog == nil {
		return Value{}, ErrNoProgram
	}

	logger := in.opts.logger

	logger.TraceContext(ctx, "run start",
		slog.Int("statement_count", len(prog.Statements)))

	in.depth = 0

	var result Value

	for _, stmt := range prog.Statements {
		if err := in.checkpoint(ctx); err != nil {
			return Value{}, err
		}

		res, err := in.exec(ctx, stmt, in.globals)
		if err != nil {
			logger.TraceContext(ctx, "run failed", slog.Any("error", err))

			return Value{}, err
		}

		if res.flow != flowNormal {
			return Value{}, res.useError()
		}

		if _, ok := stmt.(*ExprStmt); ok {
			result = res.value
		} else {
			result = Value{}
		}
	}

	logger.TraceContext(ctx, "run complete",
		slog.String("result_kind", result.Kind().String()))

	return result, nil
}

// checkpoint runs between top-level statements.
func (in *Interpreter) checkpoint(ctx context.Context) error {
	if err := interrupted(ctx); err != nil {
		return err
	}

	if in.opts.checkpoint != nil {
		return in.opts.checkpoint(ctx)
	}

	return nil
}

func interrupted(ctx context.Context) error {
	if ctx.Err() != nil {
		return ErrInterrupted.Wrap(context.Cause(ctx))
	}

	return nil
}

// execBlock executes stmts in order in env, stopping at the first fault or
// control signal.
func (in *Interpreter) execBlock(ctx context.Context, stmts []Stmt, env *Env) (outcome, error) {
	for _, stmt := range stmts {
		res, err := in.exec(ctx, stmt, env)
		if err != nil || res.flow != flowNormal {
			return res, err
		}
	}

	return outcome{}, nil
}

func (in *Interpreter) exec(ctx context.Context, stmt Stmt, env *Env) (outcome, error) {
	switch s := stmt.(type) {
	case *Let:
		v, err := in.eval(ctx, s.Value, env)
		if err != nil {
			return outcome{}, err
		}

		env.Define(s.Name, v)

		return outcome{}, nil

	case *Assign:
		v, err := in.eval(ctx, s.Value, env)
		if err != nil {
			return outcome{}, err
		}

		if err := env.Assign(s.Name, v); err != nil {
			return outcome{}, &NameError{Name: s.Name, Pos: s.Pos}
		}

		return outcome{}, nil

	case *Print:
		v, err := in.eval(ctx, s.Value, env)
		if err != nil {
			return outcome{}, err
		}

		if err := in.out.WriteLine(v.Render()); err != nil {
			return outcome{}, ErrOutput.Wrap(err).With(slog.Any("pos", s.Pos))
		}

		return outcome{}, nil

	case *If:
		ok, err := in.condition(ctx, s.Cond, env, "if condition")
		if err != nil {
			return outcome{}, err
		}

		switch {
		case ok:
			return in.execBlock(ctx, s.Then, env.Child())
		case s.Else != nil:
			return in.execBlock(ctx, s.Else, env.Child())
		default:
			return outcome{}, nil
		}

	case *While:
		return in.loop(ctx, s, env)

	case *FuncDef:
		env.Define(s.Name, FunctionValue(&Function{
			Env:    env,
			Name:   s.Name,
			Params: s.Params,
			Body:   s.Body,
		}))

		return outcome{}, nil

	case *Return:
		var v Value

		if s.Value != nil {
			var err error
			if v, err = in.eval(ctx, s.Value, env); err != nil {
				return outcome{}, err
			}
		}

		return outcome{flow: flowReturn, value: v, pos: s.Pos}, nil

	case *Break:
		return outcome{flow: flowBreak, pos: s.Pos}, nil

	case *Continue:
		return outcome{flow: flowContinue, pos: s.Pos}, nil

	case *ExprStmt:
		v, err := in.eval(ctx, s.Expr, env)
		if err != nil {
			return outcome{}, err
		}

		return outcome{value: v}, nil

	default:
		return outcome{}, ErrInvalidNode.With(
			slog.String("type", fmt.Sprintf("%T", stmt)))
	}
}

// loop executes a while statement. The condition and every iteration of the
// body share one child scope of env, so a let in the body is visible to the
// next condition test.
func (in *Interpreter) loop(ctx context.Context, s *While, env *Env) (outcome, error) {
	scope := env.Child()
	iterations := 0

	defer func() {
		in.opts.logger.TraceContext(ctx, "loop exit",
			slog.Any("pos", s.Pos), slog.Int("iterations", iterations))
	}()

	for {
		if err := interrupted(ctx); err != nil {
			return outcome{}, err
		}

		ok, err := in.condition(ctx, s.Cond, scope, "while condition")
		if err != nil || !ok {
			return outcome{}, err
		}

		iterations++

		res, err := in.execBlock(ctx, s.Body, scope)
		if err != nil {
			return outcome{}, err
		}

		switch res.flow {
		case flowNormal, flowContinue:
		case flowBreak:
			return outcome{}, nil
		case flowReturn:
			return res, nil
		}
	}
}

// condition evaluates cond, which must produce a Bool.
func (in *Interpreter) condition(ctx context.Context, cond Expr, env *Env, what string) (bool, error) {
	v, err := in.eval(ctx, cond, env)
	if err != nil {
		return false, err
	}

	b, ok := v.Bool()
	if !ok {
		return false, &TypeError{
			Context: what + " must be bool",
			Kinds:   []Kind{v.Kind()},
			Pos:     cond.Position(),
		}
	}

	return b, nil
}

func (in *Interpreter) eval(ctx context.Context, expr Expr, env *Env) (Value, error) {
	switch e := expr.(type) {
	case *Literal:
		return e.Value, nil

	case *Variable:
		v, ok := env.Lookup(e.Name)
		if !ok {
			return Value{}, &NameError{Name: e.Name, Pos: e.Pos}
		}

		return v, nil

	case *Unary:
		v, err := in.eval(ctx, e.Operand, env)
		if err != nil {
			return Value{}, err
		}

		return applyUnary(e.Op, v, e.Pos)

	case *Binary:
		if e.Op == OpAnd || e.Op == OpOr {
			return in.logical(ctx, e, env)
		}

		l, err := in.eval(ctx, e.Left, env)
		if err != nil {
			return Value{}, err
		}

		r, err := in.eval(ctx, e.Right, env)
		if err != nil {
			return Value{}, err
		}

		return applyBinary(e.Op, l, r, e.Pos)

	case *Call:
		return in.call(ctx, e, env)

	default:
		return Value{}, ErrInvalidNode.With(
			slog.String("type", fmt.Sprintf("%T", expr)))
	}
}

// logical evaluates && and || with short-circuiting. Both operands must be
// Bool.
func (in *Interpreter) logical(ctx context.Context, e *Binary, env *Env) (Value, error) {
	l, err := in.eval(ctx, e.Left, env)
	if err != nil {
		return Value{}, err
	}

	a, ok := l.Bool()
	if !ok {
		return Value{}, &TypeError{
			Context: operatorContext(e.Op.String()),
			Kinds:   []Kind{l.Kind()},
			Pos:     e.Pos,
		}
	}

	if (e.Op == OpAnd && !a) || (e.Op == OpOr && a) {
		return BoolValue(a), nil
	}

	r, err := in.eval(ctx, e.Right, env)
	if err != nil {
		return Value{}, err
	}

	return applyBinary(e.Op, l, r, e.Pos)
}

// call invokes a function. Arguments are evaluated left to right in the
// caller's scope; the body runs in a child of the function's defining scope.
func (in *Interpreter) call(ctx context.Context, c *Call, env *Env) (Value, error) {
	callee, ok := env.Lookup(c.Callee)
	if !ok {
		return Value{}, &NameError{Name: c.Callee, Pos: c.Pos}
	}

	fn, ok := callee.Func()
	if !ok {
		return Value{}, &TypeError{
			Context: fmt.Sprintf("%s is not callable", c.Callee),
			Kinds:   []Kind{callee.Kind()},
			Pos:     c.Pos,
		}
	}

	args := make([]Value, 0, len(c.Args))

	for _, a := range c.Args {
		v, err := in.eval(ctx, a, env)
		if err != nil {
			return Value{}, err
		}

		args = append(args, v)
	}

	if len(args) != len(fn.Params) {
		return Value{}, &ArityError{
			Function: fn.Name,
			Expected: len(fn.Params),
			Got:      len(args),
			Pos:      c.Pos,
		}
	}

	if in.depth >= in.opts.maxCallDepth {
		return Value{}, &StackOverflowError{
			Function: fn.Name,
			Depth:    in.opts.maxCallDepth,
			Pos:      c.Pos,
		}
	}

	if err := interrupted(ctx); err != nil {
		return Value{}, err
	}

	scope := fn.Env.Child()
	for i, name := range fn.Params {
		scope.Define(name, args[i])
	}

	in.depth++
	defer func() { in.depth-- }()

	if logger := in.opts.logger; logger.Tracing(ctx) {
		logger.TraceContext(ctx, "call",
			slog.String("function", fn.Name), slog.Int("depth", in.depth))
	}

	res, err := in.execBlock(ctx, fn.Body, scope)
	if err != nil {
		return Value{}, err
	}

	switch res.flow {
	case flowReturn:
		return res.value, nil
	case flowBreak, flowContinue:
		return Value{}, res.useError()
	default:
		return Value{}, nil
	}
}

// IsFault reports whether err is one of the runtime fault types produced by
// evaluation, as opposed to an interruption or an output failure.
func IsFault(err error) bool {
	for _, target := range []error{
		ErrName, ErrType, ErrArity, ErrDivideByZero, ErrUse, ErrStackOverflow,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
