package repl

import (
	"strings"
	"unicode/utf8"
)

// functionCall describes the call whose argument list contains the cursor.
type functionCall struct {
	name     string // callee name
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside parameter list
}

// detectFunctionCall finds the innermost unclosed call before cursor and
// counts the top-level commas between its opening paren and the cursor.
// Parentheses and commas inside string literals are ignored.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(max(cursor, 0), len(input))

	// Stack of open paren offsets; strings are skipped so that "(" in a
	// literal does not count.
	var open []int

	commas := map[int]int{}

	for i := 0; i < cursor; i++ {
		switch input[i] {
		case '"':
			for i++; i < cursor && input[i] != '"'; i++ {
				if input[i] == '\\' {
					i++
				}
			}
		case '(':
			open = append(open, i)
		case ')':
			if len(open) > 0 {
				delete(commas, open[len(open)-1])
				open = open[:len(open)-1]
			}
		case ',':
			if len(open) > 0 {
				commas[open[len(open)-1]]++
			}
		}
	}

	if len(open) == 0 {
		return functionCall{}
	}

	paren := open[len(open)-1]

	start := paren
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isWordRune(r) {
			break
		}

		start -= size
	}

	name := input[start:paren]
	if name == "" || !isWordStart(name) {
		// A grouping paren, not a call.
		return functionCall{}
	}

	return functionCall{
		name:     name,
		argIndex: commas[paren],
		inCall:   true,
	}
}

func isWordStart(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)

	return r == '_' || !('0' <= r && r <= '9')
}

// signature returns the callee's rendered signature and parameter names if
// name is a global function in s.
func signature(s *Session, name string) (sig string, params []string) {
	fn, ok := s.Function(name)
	if !ok {
		return "", nil
	}

	return fn.Signature(), fn.Params
}

// renderSignatureHint renders "name(a, b)" with the parameter at argIndex
// highlighted. Arguments past the last parameter highlight nothing.
func renderSignatureHint(name string, params []string, argIndex int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		if i == argIndex {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	if argIndex > 0 && argIndex >= len(params) {
		b.WriteString(errorStyle.Render("  too many arguments"))
	}

	return b.String()
}
