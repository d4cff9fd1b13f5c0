package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the program in canonical source syntax. With indent > 0,
// statements go one per line and blocks are indented by that many spaces per
// level; with indent 0 the program is written on a single line.
func (p *Program) Format(_ context.Context, w io.Writer, indent int) error {
	pr := printer{indent: indent}
	pr.program(p.Statements)

	_, err := io.WriteString(w, pr.buf.String())

	return err
}

// String returns the program in single-line canonical syntax.
func (p *Program) String() string {
	pr := printer{}
	pr.program(p.Statements)

	return strings.TrimSuffix(pr.buf.String(), "\n")
}

// FormatJSON writes the program's AST as JSON to the writer.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(p, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(p)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the program's AST as YAML to the writer.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, p.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// FormatAST writes an indented outline of the AST, one node per line.
func (p *Program) FormatAST(_ context.Context, w io.Writer, indent int) error {
	if indent <= 0 {
		indent = 2
	}

	d := dumper{w: w, indent: strings.Repeat(" ", indent)}
	d.line(0, "Program")

	for _, s := range p.Statements {
		d.stmt(1, s)
	}

	return d.err
}

// FormatExpr returns e in canonical source syntax.
func FormatExpr(e Expr) string {
	var pr printer

	pr.expr(e, 0)

	return pr.buf.String()
}

// printer renders AST nodes as source text.
type printer struct {
	buf    strings.Builder
	indent int
	depth  int
}

func (pr *printer) program(stmts []Stmt) {
	if pr.indent == 0 {
		pr.buf.WriteString(pr.inline(stmts))
		pr.buf.WriteRune('\n')

		return
	}

	for i, s := range stmts {
		if i > 0 && (isFuncDef(s) || isFuncDef(stmts[i-1])) {
			pr.buf.WriteRune('\n')
		}

		pr.line(s, next(stmts, i))
	}
}

// inline joins statements with "; " on one line.
func (pr *printer) inline(stmts []Stmt) string {
	parts := make([]string, len(stmts))

	for i, s := range stmts {
		sub := printer{depth: pr.depth}
		sub.stmt(s)
		parts[i] = sub.buf.String()
	}

	return strings.Join(parts, "; ")
}

// line writes one indented statement. A ";" is added when the following
// statement would otherwise continue this one.
func (pr *printer) line(s Stmt, following Stmt) {
	pr.buf.WriteString(strings.Repeat(" ", pr.indent*pr.depth))
	pr.stmt(s)

	if following != nil && needsSeparator(s, following) {
		pr.buf.WriteRune(';')
	}

	pr.buf.WriteRune('\n')
}

func (pr *printer) block(stmts []Stmt) {
	if len(stmts) == 0 {
		pr.buf.WriteString("{}")

		return
	}

	if pr.indent == 0 {
		pr.depth++
		pr.buf.WriteString("{ " + pr.inline(stmts) + " }")
		pr.depth--

		return
	}

	pr.buf.WriteString("{\n")
	pr.depth++

	for i, s := range stmts {
		pr.line(s, next(stmts, i))
	}

	pr.depth--
	pr.buf.WriteString(strings.Repeat(" ", pr.indent*pr.depth) + "}")
}

func (pr *printer) stmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *Let:
		pr.buf.WriteString("let " + s.Name + " = ")
		pr.expr(s.Value, 0)

	case *Assign:
		pr.buf.WriteString(s.Name + " = ")
		pr.expr(s.Value, 0)

	case *Print:
		pr.buf.WriteString("print ")
		pr.expr(s.Value, 0)

	case *If:
		pr.buf.WriteString("if ")
		pr.expr(s.Cond, 0)
		pr.buf.WriteRune(' ')
		pr.block(s.Then)

		if s.Else == nil {
			return
		}

		pr.buf.WriteString(" else ")

		if len(s.Else) == 1 {
			if elif, ok := s.Else[0].(*If); ok {
				pr.stmt(elif)

				return
			}
		}

		pr.block(s.Else)

	case *While:
		pr.buf.WriteString("while ")
		pr.expr(s.Cond, 0)
		pr.buf.WriteRune(' ')
		pr.block(s.Body)

	case *FuncDef:
		pr.buf.WriteString("fn " + s.Name + "(" + strings.Join(s.Params, ", ") + ") ")
		pr.block(s.Body)

	case *Return:
		pr.buf.WriteString("return")

		if s.Value != nil {
			pr.buf.WriteRune(' ')
			pr.expr(s.Value, 0)
		}

	case *Break:
		pr.buf.WriteString("break")

	case *Continue:
		pr.buf.WriteString("continue")

	case *ExprStmt:
		pr.expr(s.Expr, 0)

	default:
		fmt.Fprintf(&pr.buf, "/* %T */", stmt)
	}
}

// expr writes e, parenthesizing it if its precedence is below minPrec.
func (pr *printer) expr(expr Expr, minPrec int) {
	switch e := expr.(type) {
	case *Literal:
		pr.buf.WriteString(literal(e.Value))

	case *Variable:
		pr.buf.WriteString(e.Name)

	case *Unary:
		pr.buf.WriteString(e.Op.String())

		if _, ok := e.Operand.(*Binary); ok {
			pr.buf.WriteRune('(')
			pr.expr(e.Operand, 0)
			pr.buf.WriteRune(')')
		} else {
			pr.expr(e.Operand, 0)
		}

	case *Binary:
		prec := e.Op.Precedence()
		paren := prec < minPrec

		if paren {
			pr.buf.WriteRune('(')
		}

		pr.expr(e.Left, prec)
		pr.buf.WriteString(" " + e.Op.String() + " ")
		pr.expr(e.Right, prec+1)

		if paren {
			pr.buf.WriteRune(')')
		}

	case *Call:
		pr.buf.WriteString(e.Callee + "(")

		for i, a := range e.Args {
			if i > 0 {
				pr.buf.WriteString(", ")
			}

			pr.expr(a, 0)
		}

		pr.buf.WriteRune(')')

	default:
		fmt.Fprintf(&pr.buf, "/* %T */", expr)
	}
}

// literal renders a constant so that it scans back to the same value.
func literal(v Value) string {
	switch v.Kind() {
	case KindString:
		return quote(v.str)

	case KindNumber:
		if !v.isFloat {
			if v.i < 0 {
				return "(" + strconv.FormatInt(v.i, 10) + ")"
			}

			return strconv.FormatInt(v.i, 10)
		}

		s := strconv.FormatFloat(v.num, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEn") {
			s += ".0"
		}

		if v.num < 0 {
			return "(" + s + ")"
		}

		return s

	default:
		return v.Render()
	}
}

func isFuncDef(s Stmt) bool {
	_, ok := s.(*FuncDef)

	return ok
}

func next(stmts []Stmt, i int) Stmt {
	if i+1 < len(stmts) {
		return stmts[i+1]
	}

	return nil
}

// needsSeparator reports whether s must be followed by ";" so that the
// following statement, written on the next line, is not read as a
// continuation of it.
func needsSeparator(s, following Stmt) bool {
	switch s.(type) {
	case *Let, *Assign, *Print, *ExprStmt, *Return:
	default:
		return false
	}

	es, ok := following.(*ExprStmt)
	if !ok {
		return false
	}

	text := FormatExpr(es.Expr)

	return strings.HasPrefix(text, "-") || strings.HasPrefix(text, "(")
}

// dumper writes the AST outline used by [Program.FormatAST].
type dumper struct {
	w      io.Writer
	err    error
	indent string
}

func (d *dumper) line(depth int, format string, args ...any) {
	if d.err != nil {
		return
	}

	_, d.err = fmt.Fprintf(d.w, strings.Repeat(d.indent, depth)+format+"\n", args...)
}

func (d *dumper) stmts(depth int, label string, stmts []Stmt) {
	d.line(depth, "%s", label)

	for _, s := range stmts {
		d.stmt(depth+1, s)
	}
}

func (d *dumper) stmt(depth int, stmt Stmt) {
	switch s := stmt.(type) {
	case *Let:
		d.line(depth, "Let %s @%s", s.Name, s.Pos)
		d.expr(depth+1, s.Value)
	case *Assign:
		d.line(depth, "Assign %s @%s", s.Name, s.Pos)
		d.expr(depth+1, s.Value)
	case *Print:
		d.line(depth, "Print @%s", s.Pos)
		d.expr(depth+1, s.Value)
	case *If:
		d.line(depth, "If @%s", s.Pos)
		d.expr(depth+1, s.Cond)
		d.stmts(depth+1, "Then", s.Then)

		if s.Else != nil {
			d.stmts(depth+1, "Else", s.Else)
		}
	case *While:
		d.line(depth, "While @%s", s.Pos)
		d.expr(depth+1, s.Cond)
		d.stmts(depth+1, "Body", s.Body)
	case *FuncDef:
		d.line(depth, "FuncDef %s(%s) @%s", s.Name, strings.Join(s.Params, ", "), s.Pos)
		d.stmts(depth+1, "Body", s.Body)
	case *Return:
		d.line(depth, "Return @%s", s.Pos)

		if s.Value != nil {
			d.expr(depth+1, s.Value)
		}
	case *Break:
		d.line(depth, "Break @%s", s.Pos)
	case *Continue:
		d.line(depth, "Continue @%s", s.Pos)
	case *ExprStmt:
		d.line(depth, "ExprStmt @%s", s.Pos)
		d.expr(depth+1, s.Expr)
	default:
		d.line(depth, "%T", stmt)
	}
}

func (d *dumper) expr(depth int, expr Expr) {
	switch e := expr.(type) {
	case *Literal:
		d.line(depth, "Literal %s %s", e.Value.Kind(), e.Value)
	case *Variable:
		d.line(depth, "Variable %s", e.Name)
	case *Unary:
		d.line(depth, "Unary %s", e.Op.Name())
		d.expr(depth+1, e.Operand)
	case *Binary:
		d.line(depth, "Binary %s", e.Op.Name())
		d.expr(depth+1, e.Left)
		d.expr(depth+1, e.Right)
	case *Call:
		d.line(depth, "Call %s", e.Callee)

		for _, a := range e.Args {
			d.expr(depth+1, a)
		}
	default:
		d.line(depth, "%T", expr)
	}
}
