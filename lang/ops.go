package lang

import (
	"cmp"
	"strconv"
)

// operatorContext names an operator in a [TypeError].
func operatorContext(symbol string) string {
	return "operator " + strconv.Quote(symbol)
}

// applyUnary evaluates a prefix operator. "-" accepts only Numbers and "!"
// accepts only Bools.
func applyUnary(op UnaryOp, v Value, pos Position) (Value, error) {
	switch op {
	case OpNeg:
		if v.kind == KindNumber {
			if v.isFloat {
				return FloatValue(-v.num), nil
			}

			return IntValue(-v.i), nil
		}

	case OpNot:
		if b, ok := v.Bool(); ok {
			return BoolValue(!b), nil
		}

	default:
		return Value{}, ErrInvalidNode.With(slogOp(op.String()))
	}

	return Value{}, &TypeError{
		Context: operatorContext(op.String()),
		Kinds:   []Kind{v.kind},
		Pos:     pos,
	}
}

// applyBinary evaluates a binary operator over two already-evaluated operands.
// Every operator enumerates the kinds it accepts; anything else is a
// [*TypeError].
func applyBinary(op BinaryOp, l, r Value, pos Position) (Value, error) {
	mismatch := func() (Value, error) {
		return Value{}, &TypeError{
			Context: operatorContext(op.String()),
			Kinds:   []Kind{l.kind, r.kind},
			Pos:     pos,
		}
	}

	switch op {
	case OpEq:
		return BoolValue(l.Equal(r)), nil

	case OpNe:
		return BoolValue(!l.Equal(r)), nil

	case OpAnd, OpOr:
		a, aok := l.Bool()
		b, bok := r.Bool()

		if !aok || !bok {
			return mismatch()
		}

		if op == OpAnd {
			return BoolValue(a && b), nil
		}

		return BoolValue(a || b), nil

	case OpAdd:
		if l.kind == KindString && r.kind == KindString {
			return StringValue(l.str + r.str), nil
		}

		if l.kind == KindNumber && r.kind == KindNumber {
			return arith(op, l, r, pos)
		}

		return mismatch()

	case OpSub, OpMul, OpDiv:
		if l.kind == KindNumber && r.kind == KindNumber {
			return arith(op, l, r, pos)
		}

		return mismatch()

	case OpLt, OpGt, OpLe, OpGe:
		var c int

		switch {
		case l.kind == KindNumber && r.kind == KindNumber:
			c = compareNumbers(l, r)
		case l.kind == KindString && r.kind == KindString:
			c = cmp.Compare(l.str, r.str)
		default:
			return mismatch()
		}

		switch op {
		case OpLt:
			return BoolValue(c < 0), nil
		case OpGt:
			return BoolValue(c > 0), nil
		case OpLe:
			return BoolValue(c <= 0), nil
		default:
			return BoolValue(c >= 0), nil
		}

	default:
		return Value{}, ErrInvalidNode.With(slogOp(op.String()))
	}
}

// arith applies +, -, *, or / to two Numbers. Two integers produce an integer
// (wrapping on overflow, truncating division); otherwise the result is
// floating.
func arith(op BinaryOp, l, r Value, pos Position) (Value, error) {
	if !l.isFloat && !r.isFloat {
		a, b := l.i, r.i

		switch op {
		case OpAdd:
			return IntValue(a + b), nil
		case OpSub:
			return IntValue(a - b), nil
		case OpMul:
			return IntValue(a * b), nil
		case OpDiv:
			if b == 0 {
				return Value{}, &DivideByZeroError{Pos: pos}
			}

			return IntValue(a / b), nil
		}
	}

	a, _ := l.Float()
	b, _ := r.Float()

	switch op {
	case OpAdd:
		return FloatValue(a + b), nil
	case OpSub:
		return FloatValue(a - b), nil
	case OpMul:
		return FloatValue(a * b), nil
	case OpDiv:
		if b == 0 {
			return Value{}, &DivideByZeroError{Pos: pos}
		}

		return FloatValue(a / b), nil
	default:
		return Value{}, ErrInvalidNode.With(slogOp(op.String()))
	}
}

func compareNumbers(l, r Value) int {
	if !l.isFloat && !r.isFloat {
		return cmp.Compare(l.i, r.i)
	}

	a, _ := l.Float()
	b, _ := r.Float()

	return cmp.Compare(a, b)
}
