package lang

// Builder provides a programmatic API for constructing AST nodes without
// parsing source text. Nodes built this way carry no source positions.
//
// Example:
//
//	b := lang.NewBuilder()
//	prog := b.Program(
//	    b.Fn("add", []string{"a", "b"},
//	        b.Return(b.Binary(lang.OpAdd, b.Var("a"), b.Var("b"))),
//	    ),
//	    b.Print(b.Call("add", b.Int(1), b.Int(2))),
//	)
type Builder struct{}

// NewBuilder creates a new AST builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Program creates a [Program] from statements. Its Source is the
// canonical formatting of the statements.
func (b *Builder) Program(stmts ...Stmt) *Program {
	p := &Program{Statements: stmts}
	p.Source = p.String()

	return p
}

// Int creates an integer [Literal].
func (b *Builder) Int(n int64) *Literal { return &Literal{Value: IntValue(n)} }

// Float creates a floating-point [Literal].
func (b *Builder) Float(f float64) *Literal { return &Literal{Value: FloatValue(f)} }

// String creates a string [Literal].
func (b *Builder) String(s string) *Literal { return &Literal{Value: StringValue(s)} }

// Bool creates a boolean [Literal].
func (b *Builder) Bool(v bool) *Literal { return &Literal{Value: BoolValue(v)} }

// Var creates a [Variable] reference.
func (b *Builder) Var(name string) *Variable { return &Variable{Name: name} }

// Binary creates a [Binary] expression.
func (b *Builder) Binary(op BinaryOp, left, right Expr) *Binary {
	return &Binary{Op: op, Left: left, Right: right}
}

// Unary creates a [Unary] expression.
func (b *Builder) Unary(op UnaryOp, operand Expr) *Unary {
	return &Unary{Op: op, Operand: operand}
}

// Call creates a [Call] expression.
func (b *Builder) Call(callee string, args ...Expr) *Call {
	return &Call{Callee: callee, Args: args}
}

// Let creates a [Let] statement.
func (b *Builder) Let(name string, value Expr) *Let {
	return &Let{Name: name, Value: value}
}

// Assign creates an [Assign] statement.
func (b *Builder) Assign(name string, value Expr) *Assign {
	return &Assign{Name: name, Value: value}
}

// Print creates a [Print] statement.
func (b *Builder) Print(value Expr) *Print { return &Print{Value: value} }

// If creates an [If] statement with no else branch.
func (b *Builder) If(cond Expr, then ...Stmt) *If {
	if then == nil {
		then = []Stmt{}
	}

	return &If{Cond: cond, Then: then}
}

// IfElse creates an [If] statement with an else branch.
func (b *Builder) IfElse(cond Expr, then, els []Stmt) *If {
	if els == nil {
		els = []Stmt{}
	}

	s := b.If(cond, then...)
	s.Else = els

	return s
}

// While creates a [While] statement.
func (b *Builder) While(cond Expr, body ...Stmt) *While {
	if body == nil {
		body = []Stmt{}
	}

	return &While{Cond: cond, Body: body}
}

// Fn creates a [FuncDef] statement.
func (b *Builder) Fn(name string, params []string, body ...Stmt) *FuncDef {
	if body == nil {
		body = []Stmt{}
	}

	return &FuncDef{Name: name, Params: params, Body: body}
}

// Return creates a [Return] statement. A nil value returns Unit.
func (b *Builder) Return(value Expr) *Return { return &Return{Value: value} }

// Break creates a [Break] statement.
func (b *Builder) Break() *Break { return &Break{} }

// Continue creates a [Continue] statement.
func (b *Builder) Continue() *Continue { return &Continue{} }

// Expr creates an [ExprStmt].
func (b *Builder) Expr(e Expr) *ExprStmt { return &ExprStmt{Expr: e} }
