// Package lang implements the dash scripting language: a scanner and
// recursive-descent grammar engine producing a concrete parse tree, a builder
// that turns the tree into a typed AST, and a tree-walking evaluator.
//
// # Pipeline
//
//	source → [Scan] → grammar → [Tree] → [BuildProgram] → [Program] → [Evaluate]
//
// [Parse] runs the first four stages. It is pure and all-or-nothing: on
// malformed input it returns a [*ParseError] and no Program.
//
// # Grammar
//
// Informal EBNF:
//
//	Program    → Stmt* EOF
//	Stmt       → ( Let | Assign | Print | If | While | FnDef | Return
//	             | "break" | "continue" | Expr ) ";"?
//	Let        → "let" Ident "=" Expr
//	Assign     → Ident "=" Expr
//	Print      → "print" Expr
//	If         → "if" Expr Block ( "else" ( If | Block ) )?
//	While      → "while" Expr Block
//	FnDef      → "fn" Ident "(" ( Ident ( "," Ident )* )? ")" Block
//	Return     → "return" Expr?
//	Block      → "{" Stmt* "}"
//	Expr       → Unary ( BinOp Unary )*
//	Unary      → ( "-" | "!" )* Primary
//	Primary    → Number | String | "true" | "false" | Call | Ident | "(" Expr ")"
//	Call       → Ident "(" ( Expr ( "," Expr )* )? ")"
//
// Binary operators, lowest to highest precedence, all left-associative:
//
//	||
//	&&
//	==  !=  <  >  <=  >=
//	+  -
//	*  /
//
// Comments start with "//" or "#" and run to the end of the line, or are
// enclosed in "/*" and "*/".
//
// # Example
//
//	fn fact(n) {
//	  if n <= 1 { return 1 }
//	  return n * fact(n - 1)
//	}
//
//	let i = 0
//	while i < 5 {
//	  print fact(i)
//	  let i = i + 1
//	}
//
// # Scoping
//
// let always binds in the current scope, shadowing outer bindings.
// Assignment (name = expr) mutates the nearest scope that already binds the
// name. Each branch of an if runs in a new child scope. A while loop creates
// one child scope that its condition and every iteration of its body share.
// Function bodies run in a child of the scope the function was defined in.
//
// # Values
//
// Numbers are integers unless written with a fraction or exponent; mixing an
// integer with a float yields a float, and integer division truncates.
// Strings, bools, functions, and unit (the result of a function that does not
// return a value) complete the set. Operators never convert between kinds
// implicitly; a mismatch is a [*TypeError].
package lang
