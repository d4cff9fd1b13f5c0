package repl

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeEditor installs a $VISUAL script that overwrites the edited file with
// each of contents in turn, one per invocation.
func fakeEditor(t *testing.T, contents ...string) {
	t.Helper()

	dir := t.TempDir()

	var script strings.Builder

	script.WriteString("#!/bin/sh\nn=$(cat " + filepath.Join(dir, "count") + " 2>/dev/null || echo 0)\n")
	script.WriteString("echo $((n + 1)) > " + filepath.Join(dir, "count") + "\n")
	script.WriteString("case $n in\n")

	for i, c := range contents {
		src := filepath.Join(dir, "content"+string(rune('0'+i)))
		if err := os.WriteFile(src, []byte(c), 0o600); err != nil {
			t.Fatal(err)
		}

		script.WriteString("  " + string(rune('0'+i)) + ") cp " + src + " \"$1\" ;;\n")
	}

	script.WriteString("esac\n")

	path := filepath.Join(dir, "editor.sh")
	if err := os.WriteFile(path, []byte(script.String()), 0o700); err != nil {
		t.Fatal(err)
	}

	t.Setenv("VISUAL", path)
}

func newEditCommand(t *testing.T, answers string) (*editCommand, *Session) {
	t.Helper()

	s := NewSession(nil, testLogger, nil)
	if _, err := s.Eval(t.Context(), "let a = 1"); err != nil {
		t.Fatal(err)
	}

	c := &editCommand{session: s, ctx: t.Context(), logger: testLogger}
	c.SetStdin(strings.NewReader(answers))
	c.SetStdout(&bytes.Buffer{})
	c.SetStderr(&bytes.Buffer{})

	return c, s
}

func TestEditCommand_Parsed(t *testing.T) {
	fakeEditor(t, "let a = 2\nlet b = a + 1\n")

	c, _ := newEditCommand(t, "")
	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if c.prog == nil || len(c.prog.Statements) != 2 {
		t.Fatalf("prog = %v, want 2 statements", c.prog)
	}
}

func TestEditCommand_Cancelled(t *testing.T) {
	fakeEditor(t, "  \n")

	c, _ := newEditCommand(t, "")
	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if c.prog != nil {
		t.Errorf("prog = %v, want nil after emptied buffer", c.prog)
	}
}

func TestEditCommand_RetryAfterParseError(t *testing.T) {
	fakeEditor(t, "let = 1\n", "let fixed = 1\n")

	c, _ := newEditCommand(t, "y\n")
	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if c.prog == nil || c.prog.String() != "let fixed = 1" {
		t.Errorf("prog = %v, want the corrected source", c.prog)
	}
}

func TestEditCommand_Declined(t *testing.T) {
	fakeEditor(t, "let = 1\n")

	c, _ := newEditCommand(t, "n\n")
	if err := c.Run(); !errors.Is(err, ErrEditDeclined) {
		t.Errorf("Run error = %v, want %v", err, ErrEditDeclined)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"\n", true},
		{"y\n", true},
		{"Yes\n", true},
		{"n\n", false},
		{" NO \n", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := confirm(strings.NewReader(tt.in)); got != tt.want {
			t.Errorf("confirm(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
