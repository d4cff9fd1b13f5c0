package repl

import (
	"slices"
	"testing"

	"github.com/ardnew/dash/lang"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_paren", "double(fo", 9, "fo", 7, 9},
		{"after_comma", "add(a, fo", 9, "fo", 7, 9},
		{"after_let", "let fo", 6, "fo", 4, 6},
		{"after_comparison", "a >= fo", 7, "fo", 5, 7},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"underscore", "my_var", 6, "my_var", 0, 6},
		{"digits", "x1 + y2", 7, "y2", 5, 7},
		{"unicode", "λx", 3, "λx", 0, 3},
		{"cursor_past_end", "foo", 10, "foo", 0, 3},
		{"empty", "", 0, "", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestInString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		offset int
		want   bool
	}{
		{"no_quotes", "print foo", 6, false},
		{"inside", `print "fo`, 7, true},
		{"after_closed", `print "a" + fo`, 12, false},
		{"escaped_quote", `print "a\"b`, 10, true},
		{"escaped_backslash", `print "a\\" + x`, 14, false},
		{"at_open_quote", `"abc"`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inString(tt.input, tt.offset); got != tt.want {
				t.Errorf("inString(%q, %d) = %v, want %v",
					tt.input, tt.offset, got, tt.want)
			}
		})
	}
}

func TestCandidates(t *testing.T) {
	s := NewSession(&lang.Lines{}, testLogger, []Global{
		{Name: "answer", Value: lang.IntValue(42)},
	})

	if _, err := s.Eval(t.Context(), "fn double(x) { return x * 2 }"); err != nil {
		t.Fatalf("Eval: %v", err)
	}

	got := candidates(s)

	for _, want := range []string{"let", "while", "answer", "double"} {
		if !slices.Contains(got, want) {
			t.Errorf("candidates() = %v, missing %q", got, want)
		}
	}
}

func TestComputeMatches(t *testing.T) {
	s := NewSession(&lang.Lines{}, testLogger, []Global{
		{Name: "counter", Value: lang.IntValue(0)},
		{Name: "compute", Value: lang.IntValue(1)},
	})

	tests := []struct {
		name    string
		mode    inputMode
		running bool
		input   string
		want    []string // must appear among the matches
		none    bool     // expect no matches
	}{
		{name: "keyword_prefix", input: "whi", want: []string{"while"}},
		{name: "global_prefix", input: "print cou", want: []string{"counter"}},
		{name: "fuzzy", input: "cmpt", want: []string{"compute"}},
		{name: "in_string", input: `print "cou`, none: true},
		{name: "number", input: "print 12", none: true},
		{name: "empty_word", input: "print ", none: true},
		{name: "running", input: "cou", running: true, none: true},
		{name: "ctrl_mode", mode: modeCtrl, input: "res", want: []string{"reset"}},
		{name: "ctrl_no_globals", mode: modeCtrl, input: "counter", none: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(t.Context(), s, NewHistory(""), testLogger)
			m.mode = tt.mode
			m.running = tt.running
			m.input.SetValue(tt.input)
			m.input.SetCursor(len(tt.input))

			matches, _, end := m.computeMatches()

			if end != len(tt.input) {
				t.Errorf("wordEnd = %d, want %d", end, len(tt.input))
			}

			if tt.none {
				if len(matches) != 0 {
					t.Errorf("computeMatches(%q) = %d matches, want none", tt.input, len(matches))
				}

				return
			}

			var got []string
			for _, m := range matches {
				got = append(got, m.Str)
			}

			for _, want := range tt.want {
				if !slices.Contains(got, want) {
					t.Errorf("computeMatches(%q) = %v, missing %q", tt.input, got, want)
				}
			}
		})
	}
}

func TestPreview(t *testing.T) {
	fn := lang.FunctionValue(&lang.Function{Name: "add", Params: []string{"a", "b"}})

	tests := []struct {
		name string
		v    lang.Value
		want string
	}{
		{"number", lang.IntValue(3), "number = 3"},
		{"function", fn, "fn add(a, b)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := preview(tt.v); got != tt.want {
				t.Errorf("preview() = %q, want %q", got, tt.want)
			}
		})
	}

	long := preview(lang.StringValue(string(make([]byte, 100))))
	if got := len([]rune(long)); got > len("string = ")+40 {
		t.Errorf("preview(long) has %d runes, want truncation", got)
	}
}
