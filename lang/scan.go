package lang

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// TokenKind classifies a [Token].
type TokenKind int

const (
	TokenEOF      TokenKind = iota // end of input
	TokenIdent                     // identifier
	TokenNumber                    // number
	TokenString                    // string
	TokenKeyword                   // keyword
	TokenOperator                  // operator
)

// String returns a human-readable token kind, used in expected-token lists.
func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of input"
	case TokenIdent:
		return "identifier"
	case TokenNumber:
		return "number"
	case TokenString:
		return "string"
	case TokenKeyword:
		return "keyword"
	case TokenOperator:
		return "operator"
	default:
		return "unknown"
	}
}

// Token is one lexeme. For strings, Text holds the decoded contents and Raw
// the literal as written, quotes included. For everything else Text and Raw
// are the same.
type Token struct {
	Text string
	Raw  string
	Kind TokenKind
	Pos  Position
}

// Is reports whether t is the keyword or operator spelled text.
func (t Token) Is(text string) bool {
	return (t.Kind == TokenKeyword || t.Kind == TokenOperator) && t.Text == text
}

// String returns a description of the token for error messages.
func (t Token) String() string {
	switch t.Kind {
	case TokenEOF:
		return "end of input"
	case TokenString:
		return "string " + t.Raw
	case TokenNumber:
		return "number " + t.Raw
	case TokenIdent:
		return "identifier " + strconv.Quote(t.Text)
	default:
		return strconv.Quote(t.Text)
	}
}

// keywords lists the reserved words.
var keywords = map[string]bool{
	"let":      true,
	"fn":       true,
	"if":       true,
	"else":     true,
	"while":    true,
	"break":    true,
	"continue": true,
	"return":   true,
	"print":    true,
	"true":     true,
	"false":    true,
}

// Keywords returns the reserved words in sorted order.
func Keywords() []string {
	return sortedKeys(keywords)
}

// IsKeyword reports whether s is a reserved word.
func IsKeyword(s string) bool { return keywords[s] }

// Scan splits source into tokens. The final token is always [TokenEOF].
func Scan(source string) ([]Token, error) {
	s := newScanner(source)

	var toks []Token

	for {
		tok, err := s.next()
		if err != nil {
			return nil, err
		}

		toks = append(toks, tok)

		if tok.Kind == TokenEOF {
			return toks, nil
		}
	}
}

// scanner holds the lexer state.
type scanner struct {
	input  []byte
	source string
	pos    int
	line   int
	col    int
}

func newScanner(source string) *scanner {
	return &scanner{
		input:  []byte(source),
		source: source,
		pos:    0,
		line:   1,
		col:    1,
	}
}

// next returns the next token, skipping whitespace and comments.
func (s *scanner) next() (Token, error) {
	if err := s.skipWhitespaceAndComments(); err != nil {
		return Token{}, err
	}

	pos := s.position()

	if s.eof() {
		return Token{Kind: TokenEOF, Pos: pos}, nil
	}

	ch := s.peek()

	switch {
	case isIdentifierStart(ch):
		return s.scanWord(pos), nil

	case isDigit(ch):
		return s.scanNumber(pos)

	case ch == '"':
		return s.scanString(pos)
	}

	for _, op := range []string{"||", "&&", "==", "!=", "<=", ">="} {
		if s.peekN(2) == op {
			s.advance()
			s.advance()

			return Token{Kind: TokenOperator, Text: op, Raw: op, Pos: pos}, nil
		}
	}

	if strings.ContainsRune("<>+-*/!=(){},;", ch) {
		s.advance()

		return Token{
			Kind: TokenOperator,
			Text: string(ch),
			Raw:  string(ch),
			Pos:  pos,
		}, nil
	}

	return Token{}, s.errorAt(pos, "unexpected character "+strconv.QuoteRune(ch))
}

// scanWord scans an identifier or keyword.
func (s *scanner) scanWord(pos Position) Token {
	start := s.pos

	s.advance()

	for !s.eof() && isIdentifierContinue(s.peek()) {
		s.advance()
	}

	word := string(s.input[start:s.pos])

	kind := TokenIdent
	if keywords[word] {
		kind = TokenKeyword
	}

	return Token{Kind: kind, Text: word, Raw: word, Pos: pos}
}

// scanNumber scans: [0-9]+ ( "." [0-9]+ )? ( [eE] [+-]? [0-9]+ )?.
func (s *scanner) scanNumber(pos Position) (Token, error) {
	start := s.pos
	frac := false

	s.skipDigits()

	if s.peek() == '.' && s.pos+1 < len(s.input) && isDigit(rune(s.input[s.pos+1])) {
		frac = true

		s.advance()
		s.skipDigits()
	}

	if c := s.peek(); c == 'e' || c == 'E' {
		frac = true

		s.advance()

		if c := s.peek(); c == '+' || c == '-' {
			s.advance()
		}

		if !isDigit(s.peek()) {
			return Token{}, s.errorAt(s.position(), "malformed exponent", "digit")
		}

		s.skipDigits()
	}

	text := string(s.input[start:s.pos])

	if frac {
		if _, err := strconv.ParseFloat(text, 64); err != nil {
			return Token{}, s.errorAt(pos, "number "+text+" out of range")
		}
	} else if _, err := strconv.ParseInt(text, 10, 64); err != nil {
		return Token{}, s.errorAt(pos, "integer "+text+" out of range")
	}

	return Token{Kind: TokenNumber, Text: text, Raw: text, Pos: pos}, nil
}

// scanString scans a double-quoted string literal, decoding escapes.
func (s *scanner) scanString(pos Position) (Token, error) {
	start := s.pos

	s.advance() // skip opening quote

	var buf strings.Builder

	for !s.eof() {
		ch := s.peek()

		switch ch {
		case '"':
			s.advance()

			return Token{
				Kind: TokenString,
				Text: buf.String(),
				Raw:  string(s.input[start:s.pos]),
				Pos:  pos,
			}, nil

		case '\n':
			return Token{}, s.errorAt(s.position(), "newline in string", `"`)

		case '\\':
			r, err := s.scanEscape()
			if err != nil {
				return Token{}, err
			}

			buf.WriteRune(r)

		default:
			buf.WriteRune(ch)
			s.advance()
		}
	}

	return Token{}, s.errorAt(pos, "unterminated string", `"`)
}

// scanEscape decodes one backslash escape sequence.
func (s *scanner) scanEscape() (rune, error) {
	pos := s.position()

	s.advance() // skip backslash

	if s.eof() {
		return 0, s.errorAt(pos, "unterminated string", `"`)
	}

	ch := s.peek()
	s.advance()

	switch ch {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case '0':
		return 0, nil
	case '\\', '"', '\'':
		return ch, nil
	case 'u':
		hex := s.peekN(4)
		if len(hex) == 4 {
			n, err := strconv.ParseUint(hex, 16, 32)
			if err == nil && !utf16.IsSurrogate(rune(n)) {
				for range 4 {
					s.advance()
				}

				return rune(n), nil
			}
		}

		return 0, s.errorAt(pos, `malformed \u escape`, "4 hex digits")
	default:
		return 0, s.errorAt(pos, "unknown escape sequence \\"+string(ch),
			`\n`, `\t`, `\r`, `\0`, `\\`, `\"`, `\'`, `\u`)
	}
}

func (s *scanner) errorAt(pos Position, msg string, expected ...string) *ParseError {
	return &ParseError{
		Message:  msg,
		Source:   s.source,
		Expected: expected,
		Line:     pos.Line,
		Column:   pos.Column,
	}
}

// Helper methods

func (s *scanner) peek() rune {
	if s.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(s.input[s.pos:])

	return r
}

func (s *scanner) peekN(n int) string {
	if s.pos+n > len(s.input) {
		return string(s.input[s.pos:])
	}

	return string(s.input[s.pos : s.pos+n])
}

func (s *scanner) advance() {
	if s.eof() {
		return
	}

	r, size := utf8.DecodeRune(s.input[s.pos:])

	s.pos += size
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.input)
}

func (s *scanner) position() Position {
	return Position{
		Offset: s.pos,
		Line:   s.line,
		Column: s.col,
	}
}

func (s *scanner) skipDigits() {
	for !s.eof() && isDigit(s.peek()) {
		s.advance()
	}
}

func (s *scanner) skipWhitespace() {
	for !s.eof() && unicode.IsSpace(s.peek()) {
		s.advance()
	}
}

func (s *scanner) skipWhitespaceAndComments() error {
	for {
		s.skipWhitespace()

		if s.eof() {
			return nil
		}

		switch {
		case s.peekN(2) == "//", s.peek() == '#':
			s.skipLineComment()

		case s.peekN(2) == "/*":
			if err := s.skipBlockComment(); err != nil {
				return err
			}

		default:
			return nil
		}
	}
}

func (s *scanner) skipLineComment() {
	for !s.eof() && s.peek() != '\n' {
		s.advance()
	}
}

func (s *scanner) skipBlockComment() error {
	pos := s.position()

	s.advance() // skip '/'
	s.advance() // skip '*'

	for !s.eof() {
		if s.peekN(2) == "*/" {
			s.advance() // skip '*'
			s.advance() // skip '/'

			return nil
		}

		s.advance()
	}

	return s.errorAt(pos, "unterminated block comment", "*/")
}

// Character classification

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentifierStart(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
	) || r == '_'
}

func isIdentifierContinue(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
		unicode.Mn, // Mark, Nonspacing
		unicode.Mc, // Mark, Spacing Combining
		unicode.Nd, // Number, Decimal Digit
		unicode.Pc, // Punctuation, Connector
		unicode.Other_ID_Continue,
	)
}

// IsIdentifier reports whether s is a valid, non-reserved identifier.
func IsIdentifier(s string) bool {
	if s == "" || keywords[s] {
		return false
	}

	for i, r := range s {
		if i == 0 && !isIdentifierStart(r) {
			return false
		}

		if i > 0 && !isIdentifierContinue(r) {
			return false
		}
	}

	return true
}
