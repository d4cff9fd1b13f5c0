package lang

import (
	"iter"
	"log/slog"
	"strconv"
)

// Position is a location in source text. Line and Column are 1-based;
// Column counts runes. The zero Position means "unknown".
type Position struct {
	Offset int
	Line   int
	Column int
}

// IsValid reports whether the position refers to a source location.
func (p Position) IsValid() bool { return p.Line > 0 }

// String returns "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// LogValue implements slog.LogValuer.
func (p Position) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("line", p.Line),
		slog.Int("column", p.Column),
	)
}

// suffix formats the position for inclusion in an error message.
func (p Position) suffix() string {
	if !p.IsValid() {
		return ""
	}

	return " at line " + strconv.Itoa(p.Line) + ", column " + strconv.Itoa(p.Column)
}

// Node is implemented by every AST node.
type Node interface {
	Position() Position
}

// Expr is an expression node: [*Literal], [*Variable], [*Binary], [*Unary],
// or [*Call].
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node: [*Let], [*Assign], [*Print], [*If], [*While],
// [*FuncDef], [*Return], [*Break], [*Continue], or [*ExprStmt].
type Stmt interface {
	Node
	stmtNode()
}

// Program is the root of a parsed source text. It is immutable once built
// and may be evaluated any number of times.
type Program struct {
	Statements []Stmt
	Source     string
}

// All returns an iterator over the top-level statements.
func (p *Program) All() iter.Seq[Stmt] {
	return func(yield func(Stmt) bool) {
		for _, s := range p.Statements {
			if !yield(s) {
				return
			}
		}
	}
}

// Functions returns the top-level function definitions in source order.
func (p *Program) Functions() []*FuncDef {
	var defs []*FuncDef

	for s := range p.All() {
		if fd, ok := s.(*FuncDef); ok {
			defs = append(defs, fd)
		}
	}

	return defs
}

// BinaryOp identifies a binary operator.
type BinaryOp int

const (
	OpOr  BinaryOp = iota // ||
	OpAnd                 // &&
	OpEq                  // ==
	OpNe                  // !=
	OpLt                  // <
	OpGt                  // >
	OpLe                  // <=
	OpGe                  // >=
	OpAdd                 // +
	OpSub                 // -
	OpMul                 // *
	OpDiv                 // /
)

// binaryOps maps operator symbols to operators.
var binaryOps = map[string]BinaryOp{
	"||": OpOr,
	"&&": OpAnd,
	"==": OpEq,
	"!=": OpNe,
	"<":  OpLt,
	">":  OpGt,
	"<=": OpLe,
	">=": OpGe,
	"+":  OpAdd,
	"-":  OpSub,
	"*":  OpMul,
	"/":  OpDiv,
}

// String returns the operator symbol.
func (op BinaryOp) String() string {
	switch op {
	case OpOr:
		return "||"
	case OpAnd:
		return "&&"
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	case OpLe:
		return "<="
	case OpGe:
		return ">="
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	default:
		return "?"
	}
}

// Name returns a descriptive operator name, used in AST dumps.
func (op BinaryOp) Name() string {
	switch op {
	case OpOr:
		return "Or"
	case OpAnd:
		return "And"
	case OpEq:
		return "Equal"
	case OpNe:
		return "NotEqual"
	case OpLt:
		return "Less"
	case OpGt:
		return "Greater"
	case OpLe:
		return "LessEq"
	case OpGe:
		return "GreaterEq"
	case OpAdd:
		return "Add"
	case OpSub:
		return "Sub"
	case OpMul:
		return "Mul"
	case OpDiv:
		return "Div"
	default:
		return "Unknown"
	}
}

// Precedence returns the binding strength of op; higher binds tighter.
// All binary operators are left-associative.
func (op BinaryOp) Precedence() int {
	switch op {
	case OpOr:
		return 1
	case OpAnd:
		return 2
	case OpEq, OpNe, OpLt, OpGt, OpLe, OpGe:
		return 3
	case OpAdd, OpSub:
		return 4
	case OpMul, OpDiv:
		return 5
	default:
		return 0
	}
}

// UnaryOp identifies a prefix operator.
type UnaryOp int

const (
	OpNeg UnaryOp = iota // -
	OpNot                // !
)

// String returns the operator symbol.
func (op UnaryOp) String() string {
	switch op {
	case OpNeg:
		return "-"
	case OpNot:
		return "!"
	default:
		return "?"
	}
}

// Name returns a descriptive operator name, used in AST dumps.
func (op UnaryOp) Name() string {
	switch op {
	case OpNeg:
		return "Neg"
	case OpNot:
		return "Not"
	default:
		return "Unknown"
	}
}

// Literal is a constant value written in source.
type Literal struct {
	Value Value
	Pos   Position
}

// Variable is a reference to a named binding.
type Variable struct {
	Name string
	Pos  Position
}

// Binary applies a binary operator. Pos is the operator's position.
type Binary struct {
	Left  Expr
	Right Expr
	Op    BinaryOp
	Pos   Position
}

// Unary applies a prefix operator.
type Unary struct {
	Operand Expr
	Op      UnaryOp
	Pos     Position
}

// Call invokes the function bound to Callee.
type Call struct {
	Callee string
	Args   []Expr
	Pos    Position
}

func (e *Literal) Position() Position  { return e.Pos }
func (e *Variable) Position() Position { return e.Pos }
func (e *Binary) Position() Position   { return e.Pos }
func (e *Unary) Position() Position    { return e.Pos }
func (e *Call) Position() Position     { return e.Pos }

func (*Literal) exprNode()  {}
func (*Variable) exprNode() {}
func (*Binary) exprNode()   {}
func (*Unary) exprNode()    {}
func (*Call) exprNode()     {}

// Let binds Name in the current scope.
type Let struct {
	Value Expr
	Name  string
	Pos   Position
}

// Assign rebinds Name in the nearest scope that already defines it.
type Assign struct {
	Value Expr
	Name  string
	Pos   Position
}

// Print writes the rendered value of Value as one output line.
type Print struct {
	Value Expr
	Pos   Position
}

// If executes Then or Else depending on Cond. A nil Else means there is no
// else branch; an `else if` chain is an Else holding a single [*If].
type If struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
	Pos  Position
}

// While repeats Body while Cond holds.
type While struct {
	Cond Expr
	Body []Stmt
	Pos  Position
}

// FuncDef binds Name to a closure over the defining scope.
type FuncDef struct {
	Name   string
	Params []string
	Body   []Stmt
	Pos    Position
}

// Return leaves the enclosing function. A nil Value returns Unit.
type Return struct {
	Value Expr
	Pos   Position
}

// Break leaves the enclosing loop.
type Break struct {
	Pos Position
}

// Continue skips to the next test of the enclosing loop's condition.
type Continue struct {
	Pos Position
}

// ExprStmt evaluates Expr for its effects.
type ExprStmt struct {
	Expr Expr
	Pos  Position
}

func (s *Let) Position() Position      { return s.Pos }
func (s *Assign) Position() Position   { return s.Pos }
func (s *Print) Position() Position    { return s.Pos }
func (s *If) Position() Position       { return s.Pos }
func (s *While) Position() Position    { return s.Pos }
func (s *FuncDef) Position() Position  { return s.Pos }
func (s *Return) Position() Position   { return s.Pos }
func (s *Break) Position() Position    { return s.Pos }
func (s *Continue) Position() Position { return s.Pos }
func (s *ExprStmt) Position() Position { return s.Pos }

func (*Let) stmtNode()      {}
func (*Assign) stmtNode()   {}
func (*Print) stmtNode()    {}
func (*If) stmtNode()       {}
func (*While) stmtNode()    {}
func (*FuncDef) stmtNode()  {}
func (*Return) stmtNode()   {}
func (*Break) stmtNode()    {}
func (*Continue) stmtNode() {}
func (*ExprStmt) stmtNode() {}
