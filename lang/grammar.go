package lang

import (
	"strconv"
)

// primaryStarts lists the tokens that can begin an operand.
var primaryStarts = []string{
	"number", "string", "identifier", "true", "false", "(", "-", "!",
}

// grammar is a recursive-descent recognizer over a token stream. It produces
// the concrete parse tree; precedence is left to the AST builder.
type grammar struct {
	source   string
	toks     []Token
	pos      int
	depth    int
	maxDepth int
	opDepth  int // operator depth of the expressions parsed since the last reset
}

func newGrammar(source string, toks []Token, maxDepth int) *grammar {
	return &grammar{
		source:   source,
		toks:     toks,
		maxDepth: maxDepth,
	}
}

// program parses: Stmt* EOF.
func (g *grammar) program() (*Tree, error) {
	root := &Tree{Rule: RuleProgram, Token: g.peek()}

	for {
		g.skipSeparators()

		if g.peek().Kind == TokenEOF {
			return root, nil
		}

		st, err := g.statement()
		if err != nil {
			return nil, err
		}

		root.Kids = append(root.Kids, st)
	}
}

// statement parses one statement and its optional ";" terminator.
func (g *grammar) statement() (*Tree, error) {
	var (
		t   *Tree
		err error
	)

	tok := g.peek()

	switch {
	case tok.Is("let"):
		t, err = g.let()
	case tok.Is("print"):
		t, err = g.print()
	case tok.Is("if"):
		t, err = g.ifStmt()
	case tok.Is("while"):
		t, err = g.while()
	case tok.Is("fn"):
		t, err = g.fn()
	case tok.Is("return"):
		t, err = g.returnStmt()
	case tok.Is("break"):
		t = &Tree{Rule: RuleBreak, Token: g.take()}
	case tok.Is("continue"):
		t = &Tree{Rule: RuleContinue, Token: g.take()}
	case tok.Is("else"):
		err = g.fail(tok, "else without if")
	case tok.Kind == TokenIdent && g.peekAt(1).Is("="):
		t, err = g.assign()
	default:
		t, err = g.exprStmt()
	}

	if err != nil {
		return nil, err
	}

	if g.peek().Is(";") {
		g.take()
	}

	return t, nil
}

// block parses: "{" Stmt* "}".
func (g *grammar) block() (*Tree, error) {
	open, err := g.expect("{")
	if err != nil {
		return nil, err
	}

	if err := g.enter(open); err != nil {
		return nil, err
	}
	defer g.leave()

	t := &Tree{Rule: RuleBlock, Token: open}

	for {
		g.skipSeparators()

		tok := g.peek()

		if tok.Is("}") {
			g.take()

			return t, nil
		}

		if tok.Kind == TokenEOF {
			return nil, g.fail(tok, "unterminated block", "}")
		}

		st, err := g.statement()
		if err != nil {
			return nil, err
		}

		t.Kids = append(t.Kids, st)
	}
}

// let parses: "let" Ident "=" Expr.
func (g *grammar) let() (*Tree, error) {
	kw := g.take()

	name, err := g.expectIdent()
	if err != nil {
		return nil, err
	}

	if _, err := g.expect("="); err != nil {
		return nil, err
	}

	value, err := g.expr()
	if err != nil {
		return nil, err
	}

	return &Tree{Rule: RuleLet, Token: kw, Kids: []*Tree{terminal(name), value}}, nil
}

// assign parses: Ident "=" Expr.
func (g *grammar) assign() (*Tree, error) {
	name := g.take()
	g.take() // "="

	value, err := g.expr()
	if err != nil {
		return nil, err
	}

	return &Tree{Rule: RuleAssign, Token: name, Kids: []*Tree{terminal(name), value}}, nil
}

// print parses: "print" Expr.
func (g *grammar) print() (*Tree, error) {
	kw := g.take()

	value, err := g.expr()
	if err != nil {
		return nil, err
	}

	return &Tree{Rule: RulePrint, Token: kw, Kids: []*Tree{value}}, nil
}

// ifStmt parses: "if" Expr Block ( "else" ( If | Block ) )?.
func (g *grammar) ifStmt() (*Tree, error) {
	kw := g.take()

	if err := g.enter(kw); err != nil {
		return nil, err
	}
	defer g.leave()

	cond, err := g.expr()
	if err != nil {
		return nil, err
	}

	then, err := g.block()
	if err != nil {
		return nil, err
	}

	t := &Tree{Rule: RuleIf, Token: kw, Kids: []*Tree{cond, then}}

	if !g.peek().Is("else") {
		return t, nil
	}

	g.take()

	var alt *Tree

	if g.peek().Is("if") {
		alt, err = g.ifStmt()
	} else if g.peek().Is("{") {
		alt, err = g.block()
	} else {
		err = g.fail(g.peek(), "unexpected "+g.peek().String()+" after else", "if", "{")
	}

	if err != nil {
		return nil, err
	}

	t.Kids = append(t.Kids, alt)

	return t, nil
}

// while parses: "while" Expr Block.
func (g *grammar) while() (*Tree, error) {
	kw := g.take()

	cond, err := g.expr()
	if err != nil {
		return nil, err
	}

	body, err := g.block()
	if err != nil {
		return nil, err
	}

	return &Tree{Rule: RuleWhile, Token: kw, Kids: []*Tree{cond, body}}, nil
}

// fn parses: "fn" Ident "(" ( Ident ( "," Ident )* )? ")" Block.
func (g *grammar) fn() (*Tree, error) {
	kw := g.take()

	name, err := g.expectIdent()
	if err != nil {
		return nil, err
	}

	open, err := g.expect("(")
	if err != nil {
		return nil, err
	}

	params := &Tree{Rule: RuleParams, Token: open}
	seen := make(map[string]bool)

	for !g.peek().Is(")") {
		param, err := g.expectIdent()
		if err != nil {
			return nil, err
		}

		if seen[param.Text] {
			return nil, g.fail(param, "duplicate parameter "+strconv.Quote(param.Text))
		}

		seen[param.Text] = true
		params.Kids = append(params.Kids, terminal(param))

		if !g.peek().Is(",") {
			break
		}

		g.take()
	}

	if _, err := g.expect(")", ","); err != nil {
		return nil, err
	}

	body, err := g.block()
	if err != nil {
		return nil, err
	}

	return &Tree{
		Rule:  RuleFn,
		Token: kw,
		Kids:  []*Tree{terminal(name), params, body},
	}, nil
}

// returnStmt parses: "return" Expr?. The value is absent when the next token
// closes the statement or starts on a later line.
func (g *grammar) returnStmt() (*Tree, error) {
	kw := g.take()
	t := &Tree{Rule: RuleReturn, Token: kw}

	next := g.peek()
	if next.Kind == TokenEOF || next.Is("}") || next.Is(";") ||
		next.Pos.Line > kw.Pos.Line {
		return t, nil
	}

	value, err := g.expr()
	if err != nil {
		return nil, err
	}

	t.Kids = append(t.Kids, value)

	return t, nil
}

// exprStmt parses: Expr.
func (g *grammar) exprStmt() (*Tree, error) {
	e, err := g.expr()
	if err != nil {
		return nil, err
	}

	return &Tree{Rule: RuleExprStmt, Token: e.Token, Kids: []*Tree{e}}, nil
}

// expr parses: operand ( BinOp operand )*, keeping the sequence flat.
//
// The builder folds a chain of n operators into n nested [*Binary] nodes, so
// the chain adds n to the operator depth of its deepest operand.
func (g *grammar) expr() (*Tree, error) {
	first := g.peek()

	if err := g.enter(first); err != nil {
		return nil, err
	}
	defer g.leave()

	outer := g.opDepth
	t := &Tree{Rule: RuleExpr, Token: first}

	inner, err := g.chainOperand(t)
	if err != nil {
		return nil, err
	}

	ops := 0

	for {
		tok := g.peek()
		if tok.Kind != TokenOperator {
			break
		}

		if _, ok := binaryOps[tok.Text]; !ok {
			break
		}

		if ops++; inner+ops > MaxOperatorDepth {
			return nil, g.operatorDepthError(tok)
		}

		t.Kids = append(t.Kids, terminal(g.take()))

		depth, err := g.chainOperand(t)
		if err != nil {
			return nil, err
		}

		inner = max(inner, depth)
	}

	if inner+ops > MaxOperatorDepth {
		return nil, g.operatorDepthError(first)
	}

	g.opDepth = max(outer, inner+ops)

	return t, nil
}

// chainOperand parses the next operand of t and returns its operator depth.
func (g *grammar) chainOperand(t *Tree) (int, error) {
	g.opDepth = 0

	operand, err := g.operand()
	if err != nil {
		return 0, err
	}

	t.Kids = append(t.Kids, operand)

	return g.opDepth, nil
}

// operand parses: ( "-" | "!" )* Primary.
func (g *grammar) operand() (*Tree, error) {
	first := g.peek()

	var ops []*Tree

	for g.peek().Is("-") || g.peek().Is("!") {
		ops = append(ops, terminal(g.take()))
	}

	if g.depth+len(ops) > g.maxDepth {
		return nil, g.depthError(first)
	}

	prim, err := g.primary()
	if err != nil {
		return nil, err
	}

	if len(ops) == 0 {
		return prim, nil
	}

	return &Tree{Rule: RuleUnary, Token: first, Kids: append(ops, prim)}, nil
}

// primary parses: Number | String | "true" | "false" | Call | Ident |
// "(" Expr ")".
func (g *grammar) primary() (*Tree, error) {
	tok := g.peek()

	switch {
	case tok.Kind == TokenNumber, tok.Kind == TokenString,
		tok.Is("true"), tok.Is("false"):
		return terminal(g.take()), nil

	case tok.Kind == TokenIdent:
		g.take()

		if g.peek().Is("(") {
			return g.call(tok)
		}

		return terminal(tok), nil

	case tok.Is("("):
		g.take()

		inner, err := g.expr()
		if err != nil {
			return nil, err
		}

		if _, err := g.expect(")"); err != nil {
			return nil, err
		}

		return &Tree{Rule: RuleGroup, Token: tok, Kids: []*Tree{inner}}, nil

	default:
		return nil, g.fail(tok, "unexpected "+tok.String(), primaryStarts...)
	}
}

// call parses the argument list of: Ident "(" ( Expr ( "," Expr )* )? ")".
func (g *grammar) call(name Token) (*Tree, error) {
	open := g.take()
	args := &Tree{Rule: RuleArgs, Token: open}

	for !g.peek().Is(")") {
		arg, err := g.expr()
		if err != nil {
			return nil, err
		}

		args.Kids = append(args.Kids, arg)

		if !g.peek().Is(",") {
			break
		}

		g.take()
	}

	if _, err := g.expect(")", ","); err != nil {
		return nil, err
	}

	return &Tree{Rule: RuleCall, Token: name, Kids: []*Tree{terminal(name), args}}, nil
}

// Helper methods

func terminal(tok Token) *Tree {
	return &Tree{Rule: RuleTerminal, Token: tok}
}

func (g *grammar) peek() Token { return g.peekAt(0) }

func (g *grammar) peekAt(n int) Token {
	if i := g.pos + n; i < len(g.toks) {
		return g.toks[i]
	}

	return g.toks[len(g.toks)-1]
}

// take consumes and returns the current token. EOF is never consumed.
func (g *grammar) take() Token {
	tok := g.peek()
	if tok.Kind != TokenEOF {
		g.pos++
	}

	return tok
}

// expect consumes the operator or keyword text, failing with text (and any
// additional alternatives) as the expected set.
func (g *grammar) expect(text string, alts ...string) (Token, error) {
	tok := g.peek()
	if tok.Is(text) {
		return g.take(), nil
	}

	return Token{}, g.fail(tok, "unexpected "+tok.String(),
		append([]string{text}, alts...)...)
}

func (g *grammar) expectIdent() (Token, error) {
	tok := g.peek()

	switch tok.Kind {
	case TokenIdent:
		return g.take(), nil
	case TokenKeyword:
		return Token{}, g.fail(tok,
			"reserved word "+strconv.Quote(tok.Text)+" cannot be used as a name",
			"identifier")
	default:
		return Token{}, g.fail(tok, "unexpected "+tok.String(), "identifier")
	}
}

func (g *grammar) skipSeparators() {
	for g.peek().Is(";") {
		g.take()
	}
}

func (g *grammar) enter(tok Token) error {
	g.depth++
	if g.depth > g.maxDepth {
		return g.depthError(tok)
	}

	return nil
}

func (g *grammar) leave() { g.depth-- }

func (g *grammar) depthError(tok Token) *ParseError {
	return g.fail(tok, "nesting exceeds maximum depth "+strconv.Itoa(g.maxDepth))
}

func (g *grammar) operatorDepthError(tok Token) *ParseError {
	return g.fail(tok, "expression exceeds maximum operator depth "+
		strconv.Itoa(MaxOperatorDepth))
}

func (g *grammar) fail(tok Token, msg string, expected ...string) *ParseError {
	return &ParseError{
		Message:  msg,
		Source:   g.source,
		Expected: expected,
		Line:     tok.Pos.Line,
		Column:   tok.Pos.Column,
	}
}
