package lang

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// BuildProgram converts a concrete parse tree rooted at [RuleProgram] into a
// [Program]. The tree must come from the grammar engine; malformed trees are
// reported with [ErrInvalidNode].
func BuildProgram(tree *Tree, source string) (prog *Program, err error) {
	if tree == nil || tree.Rule != RuleProgram {
		return nil, ErrInvalidNode.With(slog.String("expected", RuleProgram.String()))
	}

	defer func() {
		if r := recover(); r != nil {
			be, ok := r.(buildError)
			if !ok {
				panic(r)
			}

			prog, err = nil, be.err
		}
	}()

	var b builder

	return &Program{
		Statements: b.stmts(tree.Kids),
		Source:     source,
	}, nil
}

// buildError carries a malformed-tree report out of the recursive builder.
type buildError struct{ err error }

type builder struct{}

func (builder) invalid(t *Tree) {
	panic(buildError{ErrInvalidNode.With(
		slog.String("rule", t.Rule.String()),
		slog.Any("pos", t.Pos()),
	)})
}

func (b builder) kid(t *Tree, i int) *Tree {
	if i >= len(t.Kids) {
		b.invalid(t)
	}

	return t.Kids[i]
}

func (b builder) stmts(trees []*Tree) []Stmt {
	out := make([]Stmt, 0, len(trees))
	for _, t := range trees {
		out = append(out, b.stmt(t))
	}

	return out
}

func (b builder) block(t *Tree) []Stmt {
	if t.Rule != RuleBlock {
		b.invalid(t)
	}

	return b.stmts(t.Kids)
}

func (b builder) stmt(t *Tree) Stmt {
	pos := t.Pos()

	switch t.Rule {
	case RuleLet:
		return &Let{Name: b.kid(t, 0).Token.Text, Value: b.expr(b.kid(t, 1)), Pos: pos}

	case RuleAssign:
		return &Assign{Name: b.kid(t, 0).Token.Text, Value: b.expr(b.kid(t, 1)), Pos: pos}

	case RulePrint:
		return &Print{Value: b.expr(b.kid(t, 0)), Pos: pos}

	case RuleIf:
		s := &If{
			Cond: b.expr(b.kid(t, 0)),
			Then: b.block(b.kid(t, 1)),
			Pos:  pos,
		}

		if len(t.Kids) > 2 {
			alt := t.Kids[2]
			if alt.Rule == RuleIf {
				s.Else = []Stmt{b.stmt(alt)}
			} else {
				s.Else = b.block(alt)
			}
		}

		return s

	case RuleWhile:
		return &While{Cond: b.expr(b.kid(t, 0)), Body: b.block(b.kid(t, 1)), Pos: pos}

	case RuleFn:
		params := b.kid(t, 1)
		names := make([]string, 0, len(params.Kids))

		for _, p := range params.Kids {
			names = append(names, p.Token.Text)
		}

		return &FuncDef{
			Name:   b.kid(t, 0).Token.Text,
			Params: names,
			Body:   b.block(b.kid(t, 2)),
			Pos:    pos,
		}

	case RuleReturn:
		s := &Return{Pos: pos}
		if len(t.Kids) > 0 {
			s.Value = b.expr(t.Kids[0])
		}

		return s

	case RuleBreak:
		return &Break{Pos: pos}

	case RuleContinue:
		return &Continue{Pos: pos}

	case RuleExprStmt:
		return &ExprStmt{Expr: b.expr(b.kid(t, 0)), Pos: pos}

	default:
		b.invalid(t)

		return nil
	}
}

// expr resolves the flat operand/operator sequence of a [RuleExpr] node by
// precedence climbing.
func (b builder) expr(t *Tree) Expr {
	if t.Rule != RuleExpr || len(t.Kids)%2 == 0 {
		b.invalid(t)
	}

	c := climber{b: b, kids: t.Kids, next: 1}

	return c.climb(b.operand(t.Kids[0]), 1)
}

// climber walks the operator positions of a flat expression sequence.
type climber struct {
	b    builder
	kids []*Tree
	next int // index of the next operator
}

func (c *climber) peekOp() (BinaryOp, bool) {
	if c.next >= len(c.kids) {
		return 0, false
	}

	op, ok := binaryOps[c.kids[c.next].Token.Text]
	if !ok {
		c.b.invalid(c.kids[c.next])
	}

	return op, true
}

// climb folds operators of precedence >= minPrec into lhs. Operators of equal
// precedence associate to the left.
func (c *climber) climb(lhs Expr, minPrec int) Expr {
	for {
		op, ok := c.peekOp()
		if !ok || op.Precedence() < minPrec {
			return lhs
		}

		opTok := c.kids[c.next].Token
		rhs := c.b.operand(c.kids[c.next+1])
		c.next += 2

		for {
			next, ok := c.peekOp()
			if !ok || next.Precedence() <= op.Precedence() {
				break
			}

			rhs = c.climb(rhs, op.Precedence()+1)
		}

		lhs = &Binary{Op: op, Left: lhs, Right: rhs, Pos: opTok.Pos}
	}
}

func (b builder) operand(t *Tree) Expr {
	switch t.Rule {
	case RuleTerminal:
		return b.terminal(t)

	case RuleGroup:
		return b.expr(b.kid(t, 0))

	case RuleCall:
		args := b.kid(t, 1)
		call := &Call{
			Callee: b.kid(t, 0).Token.Text,
			Args:   make([]Expr, 0, len(args.Kids)),
			Pos:    t.Pos(),
		}

		for _, a := range args.Kids {
			call.Args = append(call.Args, b.expr(a))
		}

		return call

	case RuleUnary:
		if len(t.Kids) < 2 {
			b.invalid(t)
		}

		last := len(t.Kids) - 1
		e := b.operand(t.Kids[last])

		// Prefix operators apply innermost first.
		for i := last - 1; i >= 0; i-- {
			op := OpNeg
			if t.Kids[i].Token.Text == "!" {
				op = OpNot
			}

			e = &Unary{Op: op, Operand: e, Pos: t.Kids[i].Pos()}
		}

		return e

	default:
		b.invalid(t)

		return nil
	}
}

func (b builder) terminal(t *Tree) Expr {
	tok := t.Token
	pos := tok.Pos

	switch tok.Kind {
	case TokenIdent:
		return &Variable{Name: tok.Text, Pos: pos}

	case TokenString:
		return &Literal{Value: StringValue(tok.Text), Pos: pos}

	case TokenNumber:
		v, err := parseNumber(tok.Text)
		if err != nil {
			panic(buildError{ErrInvalidNode.Wrap(err).With(slog.Any("pos", pos))})
		}

		return &Literal{Value: v, Pos: pos}

	case TokenKeyword:
		switch tok.Text {
		case "true":
			return &Literal{Value: BoolValue(true), Pos: pos}
		case "false":
			return &Literal{Value: BoolValue(false), Pos: pos}
		}
	}

	b.invalid(t)

	return nil
}

// parseNumber converts a number lexeme to an integer or floating Value.
func parseNumber(text string) (Value, error) {
	if !strings.ContainsAny(text, ".eE") {
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("integer literal %s: %w", text, err)
		}

		return IntValue(n), nil
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Value{}, fmt.Errorf("number literal %s: %w", text, err)
	}

	return FloatValue(f), nil
}
