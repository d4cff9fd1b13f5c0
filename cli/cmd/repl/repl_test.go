package repl

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/dash/lang"
)

func newTestModel(t *testing.T, entries ...HistoryEntry) model {
	t.Helper()

	h := NewHistory("")
	for _, e := range entries {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	s := NewSession(nil, testLogger, []Global{{Name: "base", Value: lang.IntValue(1)}})

	return newModel(t.Context(), s, h, testLogger)
}

func TestModel_EvalRoundTrip(t *testing.T) {
	m := newTestModel(t)

	m, cmd := m.start(func(ctx context.Context) (lang.Value, error) {
		return m.session.Eval(ctx, "let y = base + 1; y * 10")
	})

	if !m.running || cmd == nil {
		t.Fatal("start did not begin an evaluation")
	}

	if m.hintView() == "" {
		t.Error("no hint while running")
	}

	msg, ok := cmd().(evalDoneMsg)
	if !ok {
		t.Fatalf("cmd() returned %T, want evalDoneMsg", cmd())
	}

	if msg.err != nil || msg.value.String() != "20" {
		t.Errorf("evalDoneMsg = %+v, want 20", msg)
	}

	m, _ = m.finish(msg)
	if m.running || m.cancel != nil {
		t.Error("finish left the model running")
	}

	if _, ok := m.session.Lookup("y"); !ok {
		t.Error("y not defined after evaluation")
	}
}

func TestModel_InterruptRunning(t *testing.T) {
	m := newTestModel(t)

	if _, err := m.session.Eval(t.Context(), "fn spin() { while true { } }"); err != nil {
		t.Fatal(err)
	}

	m, cmd := m.start(func(ctx context.Context) (lang.Value, error) {
		return m.session.Eval(ctx, "spin()")
	})

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlC})

	msg := (<-done).(evalDoneMsg)
	if !errors.Is(msg.err, lang.ErrInterrupted) {
		t.Fatalf("evalDoneMsg.err = %v, want %v", msg.err, lang.ErrInterrupted)
	}

	if m.quitting {
		t.Error("Ctrl+C during evaluation quit the REPL")
	}
}

func TestModel_KeysIgnoredWhileRunning(t *testing.T) {
	m := newTestModel(t)
	m.running = true

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if got := m.input.Value(); got != "" {
		t.Errorf("input = %q while running, want empty", got)
	}
}

func TestModel_Commands(t *testing.T) {
	t.Run("reset", func(t *testing.T) {
		m := newTestModel(t)

		if _, err := m.session.Eval(t.Context(), "let extra = 2"); err != nil {
			t.Fatal(err)
		}

		m.executeCommand("reset")

		if _, ok := m.session.Lookup("extra"); ok {
			t.Error("extra defined after reset")
		}

		if _, ok := m.session.Lookup("base"); !ok {
			t.Error("base not restored after reset")
		}
	})

	t.Run("quit", func(t *testing.T) {
		m := newTestModel(t)

		m, cmd := m.executeCommand("quit")
		if !m.quitting || cmd == nil {
			t.Error("quit did not stop the REPL")
		}
	})

	t.Run("unknown", func(t *testing.T) {
		m := newTestModel(t)

		m, cmd := m.executeCommand("bogus")
		if m.quitting || cmd == nil {
			t.Error("unknown command not reported")
		}
	})
}

func TestModel_ExecuteRecordsHistory(t *testing.T) {
	m := newTestModel(t)
	m.setInput("print base", len("print base"))

	m, cmd := m.executeInput()
	if cmd == nil || !m.running {
		t.Fatal("executeInput did not start an evaluation")
	}

	if got := m.history.Len(); got != 1 {
		t.Errorf("history Len() = %d, want 1", got)
	}

	if got := m.input.Value(); got != "" {
		t.Errorf("input = %q after execute, want empty", got)
	}
}

func TestModel_HistoryNavigation(t *testing.T) {
	m := newTestModel(t,
		HistoryEntry{"let a = 1", modeEval},
		HistoryEntry{"list", modeCtrl},
		HistoryEntry{"print a", modeEval},
	)

	up := tea.KeyMsg{Type: tea.KeyUp}
	down := tea.KeyMsg{Type: tea.KeyDown}

	steps := []struct {
		key  tea.KeyMsg
		line string
		mode inputMode
	}{
		{up, "print a", modeEval},
		{up, "list", modeCtrl},
		{up, "let a = 1", modeEval},
		{up, "let a = 1", modeEval}, // stays at oldest
		{down, "list", modeCtrl},
		{down, "print a", modeEval},
		{down, "", modeEval}, // past newest clears
	}

	for i, step := range steps {
		m, _ = m.handleKey(step.key)

		if got := m.input.Value(); got != step.line || m.mode != step.mode {
			t.Fatalf("step %d: input = %q mode %d, want %q mode %d",
				i, got, m.mode, step.line, step.mode)
		}
	}
}

func TestModel_HistoryInMode(t *testing.T) {
	m := newTestModel(t,
		HistoryEntry{"let a = 1", modeEval},
		HistoryEntry{"list", modeCtrl},
		HistoryEntry{"print a", modeEval},
	)

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyShiftUp})
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyShiftUp})

	if got := m.input.Value(); got != "let a = 1" || m.mode != modeEval {
		t.Errorf("input = %q mode %d, want eval entry", got, m.mode)
	}
}

func TestModel_CtrlHistoryRestores(t *testing.T) {
	m := newTestModel(t,
		HistoryEntry{"help", modeCtrl},
		HistoryEntry{"print 1", modeEval},
	)
	m.setInput("let draft", len("let draft"))

	altUp := tea.KeyMsg{Type: tea.KeyUp, Alt: true}
	altDown := tea.KeyMsg{Type: tea.KeyDown, Alt: true}

	m, _ = m.handleKey(altUp)
	if got := m.input.Value(); got != "help" || m.mode != modeCtrl {
		t.Fatalf("Alt+Up: input = %q mode %d, want command entry", got, m.mode)
	}

	m, _ = m.handleKey(altDown)
	if got := m.input.Value(); got != "let draft" || m.mode != modeEval {
		t.Errorf("Alt+Down: input = %q mode %d, want restored draft", got, m.mode)
	}
}

func TestModel_ModeToggleKeepsInput(t *testing.T) {
	m := newTestModel(t)
	m.setInput("let x", len("let x"))

	esc := tea.KeyMsg{Type: tea.KeyEsc}

	m, _ = m.handleKey(esc)
	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("after Esc: mode %d input %q", m.mode, m.input.Value())
	}

	m, _ = m.handleKey(esc)
	if m.mode != modeEval || m.input.Value() != "let x" {
		t.Errorf("after second Esc: mode %d input %q", m.mode, m.input.Value())
	}
}

func TestModel_TabCompletion(t *testing.T) {
	m := newTestModel(t)
	m.setInput("whi", 3)

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab})

	if got := m.input.Value(); got != "while" {
		t.Errorf("input after Tab = %q, want %q", got, "while")
	}
}
