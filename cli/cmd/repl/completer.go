package repl

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/dash/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "edit", "clear", "reset", "quit"}

// isWordRune reports whether r can be part of a completed word. Everything
// else (whitespace, operators, punctuation, quotes) separates words.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) ||
		unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nl)
}

// wordBounds returns the word around the cursor and its byte boundaries
// within input. The word is empty when the cursor sits between two
// separators.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isWordRune(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isWordRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// inString reports whether offset falls inside a string literal, counting
// unescaped double quotes before it.
func inString(input string, offset int) bool {
	quoted := false

	for i := 0; i < offset && i < len(input); i++ {
		switch input[i] {
		case '\\':
			if quoted {
				i++
			}
		case '"':
			quoted = !quoted
		}
	}

	return quoted
}

// candidates returns the words offered in eval mode: the keywords followed
// by every global name.
func candidates(s *Session) []string {
	names := lang.Keywords()

	for _, name := range s.Names() {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}

	return names
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor, ranked best-first. Completion is suppressed for empty words,
// numbers, and words inside string literals.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	if word == "" || unicode.IsDigit([]rune(word)[0]) {
		return nil, wordStart, wordEnd
	}

	var words []string

	if m.mode == modeCtrl {
		words = ctrlCommands
	} else {
		if inString(input, wordStart) || m.running {
			return nil, wordStart, wordEnd
		}

		words = candidates(m.session)
	}

	return fuzzy.Find(word, words), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. The selected candidate (when tabbing) uses
// the selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
	isFunc func(string) bool,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx, isFunc(match.Str))

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Functions are displayed with a "()" suffix that is not part
// of the completion.
func renderCandidate(match fuzzy.Match, selected, isFunc bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if isFunc {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}

// preview renders a global for the list command.
func preview(v lang.Value) string {
	if fn, ok := v.Func(); ok {
		return "fn " + fn.Signature()
	}

	text := v.String()
	if n := utf8.RuneCountInString(text); n > 40 {
		text = string([]rune(text)[:37]) + "..."
	}

	return v.Kind().String() + " = " + text
}
