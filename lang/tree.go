package lang

import (
	"fmt"
	"io"
	"strings"
)

// Rule names a grammar production in the concrete parse tree.
type Rule int

const (
	RuleProgram  Rule = iota // Program
	RuleBlock                // Block
	RuleLet                  // Let
	RuleAssign               // Assign
	RulePrint                // Print
	RuleIf                   // If
	RuleWhile                // While
	RuleFn                   // Fn
	RuleParams               // Params
	RuleReturn               // Return
	RuleBreak                // Break
	RuleContinue             // Continue
	RuleExprStmt             // ExprStmt
	RuleExpr                 // Expr
	RuleUnary                // Unary
	RuleCall                 // Call
	RuleArgs                 // Args
	RuleGroup                // Group
	RuleTerminal             // Terminal
)

// String returns the production name.
func (r Rule) String() string {
	switch r {
	case RuleProgram:
		return "Program"
	case RuleBlock:
		return "Block"
	case RuleLet:
		return "Let"
	case RuleAssign:
		return "Assign"
	case RulePrint:
		return "Print"
	case RuleIf:
		return "If"
	case RuleWhile:
		return "While"
	case RuleFn:
		return "Fn"
	case RuleParams:
		return "Params"
	case RuleReturn:
		return "Return"
	case RuleBreak:
		return "Break"
	case RuleContinue:
		return "Continue"
	case RuleExprStmt:
		return "ExprStmt"
	case RuleExpr:
		return "Expr"
	case RuleUnary:
		return "Unary"
	case RuleCall:
		return "Call"
	case RuleArgs:
		return "Args"
	case RuleGroup:
		return "Group"
	case RuleTerminal:
		return "Terminal"
	default:
		return "Unknown"
	}
}

// Tree is a node of the concrete parse tree produced by the grammar engine.
// Token is the first token of the production; for [RuleTerminal] it is the
// token itself.
//
// Shapes, by rule:
//
//	Program, Block   Kids: statements
//	Let, Assign      Kids: Terminal(name), Expr
//	Print, ExprStmt  Kids: Expr
//	If               Kids: Expr, Block, optional If or Block
//	While            Kids: Expr, Block
//	Fn               Kids: Terminal(name), Params, Block
//	Params           Kids: Terminal(name)...
//	Return           Kids: optional Expr
//	Expr             Kids: operand (Terminal(op) operand)*
//	Unary            Kids: Terminal(op)..., operand
//	Call             Kids: Terminal(name), Args
//	Args             Kids: Expr...
//	Group            Kids: Expr
//
// An operand is a Unary, Call, Group, or Terminal.
type Tree struct {
	Kids  []*Tree
	Token Token
	Rule  Rule
}

// Pos returns the position of the first token of the production.
func (t *Tree) Pos() Position { return t.Token.Pos }

// Walk calls fn for t and each descendant in depth-first order, stopping
// early when fn returns false.
func (t *Tree) Walk(fn func(*Tree, int) bool) {
	t.walk(fn, 0)
}

func (t *Tree) walk(fn func(*Tree, int) bool, depth int) bool {
	if !fn(t, depth) {
		return false
	}

	for _, k := range t.Kids {
		if !k.walk(fn, depth+1) {
			return false
		}
	}

	return true
}

// Print writes an indented outline of the tree.
func (t *Tree) Print(w io.Writer) error {
	var err error

	t.Walk(func(n *Tree, depth int) bool {
		indent := strings.Repeat("  ", depth)

		if n.Rule == RuleTerminal {
			_, err = fmt.Fprintf(w, "%s%s @%s\n", indent, n.Token, n.Pos())
		} else {
			_, err = fmt.Fprintf(w, "%s%s @%s\n", indent, n.Rule, n.Pos())
		}

		return err == nil
	})

	return err
}
