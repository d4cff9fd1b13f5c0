package lang

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON implements json.Marshaler for Program.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToMap())
}

// ToMap converts the program to a native Go map structure. Every node becomes
// a map with a "type" key naming the node and a "pos" key holding
// "line:column".
func (p *Program) ToMap() map[string]any {
	return map[string]any{
		"type":       "Program",
		"statements": stmtsToNative(p.Statements),
	}
}

func stmtsToNative(stmts []Stmt) []any {
	out := make([]any, len(stmts))
	for i, s := range stmts {
		out[i] = StmtToMap(s)
	}

	return out
}

// StmtToMap converts a statement to its native map form.
func StmtToMap(stmt Stmt) map[string]any {
	m := map[string]any{"pos": stmt.Position().String()}

	switch s := stmt.(type) {
	case *Let:
		m["type"] = "Let"
		m["name"] = s.Name
		m["value"] = ExprToMap(s.Value)
	case *Assign:
		m["type"] = "Assign"
		m["name"] = s.Name
		m["value"] = ExprToMap(s.Value)
	case *Print:
		m["type"] = "Print"
		m["value"] = ExprToMap(s.Value)
	case *If:
		m["type"] = "If"
		m["cond"] = ExprToMap(s.Cond)
		m["then"] = stmtsToNative(s.Then)

		if s.Else != nil {
			m["else"] = stmtsToNative(s.Else)
		}
	case *While:
		m["type"] = "While"
		m["cond"] = ExprToMap(s.Cond)
		m["body"] = stmtsToNative(s.Body)
	case *FuncDef:
		params := make([]any, len(s.Params))
		for i, p := range s.Params {
			params[i] = p
		}

		m["type"] = "FuncDef"
		m["name"] = s.Name
		m["params"] = params
		m["body"] = stmtsToNative(s.Body)
	case *Return:
		m["type"] = "Return"

		if s.Value != nil {
			m["value"] = ExprToMap(s.Value)
		}
	case *Break:
		m["type"] = "Break"
	case *Continue:
		m["type"] = "Continue"
	case *ExprStmt:
		m["type"] = "ExprStmt"
		m["expr"] = ExprToMap(s.Expr)
	default:
		m["type"] = fmt.Sprintf("%T", stmt)
	}

	return m
}

// ExprToMap converts an expression to its native map form.
func ExprToMap(expr Expr) map[string]any {
	m := map[string]any{"pos": expr.Position().String()}

	switch e := expr.(type) {
	case *Literal:
		m["type"] = "Literal"
		m["kind"] = e.Value.Kind().String()
		m["value"] = e.Value.Native()
	case *Variable:
		m["type"] = "Variable"
		m["name"] = e.Name
	case *Unary:
		m["type"] = "Unary"
		m["op"] = e.Op.Name()
		m["operand"] = ExprToMap(e.Operand)
	case *Binary:
		m["type"] = "Binary"
		m["op"] = e.Op.Name()
		m["left"] = ExprToMap(e.Left)
		m["right"] = ExprToMap(e.Right)
	case *Call:
		args := make([]any, len(e.Args))
		for i, a := range e.Args {
			args[i] = ExprToMap(a)
		}

		m["type"] = "Call"
		m["callee"] = e.Callee
		m["args"] = args
	default:
		m["type"] = fmt.Sprintf("%T", expr)
	}

	return m
}
