package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/dash/lang"
	"github.com/ardnew/dash/log"
)

// evalDoneMsg is sent when an evaluation started by the model finishes.
type evalDoneMsg struct {
	value lang.Value
	err   error
}

// editDoneMsg is sent when the editor produced a program to replace the
// session with.
type editDoneMsg struct{ prog *lang.Program }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a parse
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-parse error.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

const helpMessage = `
: Commands (press Esc to toggle mode):

  help     Print this message
  list     List globals
  edit     Edit the session source in $EDITOR and re-run it
  clear    Clear screen
  reset    Discard all globals except those given with --define
  quit     Exit REPL

Usage:
  Type statements to run them; the value of a trailing expression is shown
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Use Alt+Up/Alt+Down to browse command history
  Press Ctrl+C to interrupt a running evaluation or clear the line
  Press Ctrl+C on an empty line or Ctrl+D to exit
`

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = suggestionStyle.Bold(true)
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// model is the Bubble Tea model for the REPL.
type model struct {
	ctx        context.Context
	cancel     context.CancelFunc // cancels the running evaluation
	input      textinput.Model
	session    *Session
	logger     log.Logger
	history    *History
	historyIdx int
	matches    fuzzy.Matches // current fuzzy match results
	wordStart  int           // byte offset of current word start
	wordEnd    int           // byte offset of current word end
	suggIdx    int           // selected candidate index
	preTab     savedInput    // input before tab-cycling began
	altNav     savedInput    // input before Alt+Up/Down navigation began
	saved      [2]savedInput // per-mode input while the other mode is active
	width      int           // terminal width for ellipsization
	mode       inputMode
	altMode    inputMode // mode before Alt+Up/Down navigation began
	tabActive  bool      // whether user is tab-cycling
	altActive  bool      // whether user is in Alt+Up/Down navigation
	running    bool      // whether an evaluation is in progress
	quitting   bool
}

// savedInput is a snapshot of the input line.
type savedInput struct {
	text   string
	cursor int
}

// Run starts the REPL on session. Submitted lines are recorded in history.
func Run(
	ctx context.Context,
	session *Session,
	history *History,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(ctx, "repl start",
		slog.Int("history_count", history.Len()),
		slog.Int("global_count", len(session.Names())))

	p := tea.NewProgram(newModel(ctx, session, history, logger), tea.WithContext(ctx))

	// Print output is streamed above the prompt while an evaluation runs.
	session.SetOutput(lang.OutputFunc(func(text string) error {
		p.Println(text)

		return nil
	}))

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	session *Session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctx:        ctx,
		input:      ti,
		session:    session,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case evalDoneMsg:
		return m.finish(msg)

	case editDoneMsg:
		m.logger.TraceContext(m.ctx, "repl edit complete",
			slog.Int("statement_count", len(msg.prog.Statements)))

		return m.start(func(ctx context.Context) (lang.Value, error) {
			return lang.Value{}, m.session.Replace(ctx, msg.prog)
		})

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		return m, tea.Println(hintStyle.Render("edit discarded"))

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.hintView())
	b.WriteString("\n")

	return b.String()
}

// hintView renders the line below the input.
func (m model) hintView() string {
	input := m.input.Value()

	if m.running {
		return hintStyle.Render("running... press Ctrl+C to interrupt")
	}

	if m.historyIdx < m.history.Len() {
		return hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		if m.mode == modeEval {
			return hintStyle.Render("Type a statement or press Esc for commands")
		}

		return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") +
			" (press Esc to return)")
	}

	if m.mode == modeEval && len(m.matches) == 0 {
		call := detectFunctionCall(input, m.input.Position())
		if call.inCall {
			if _, params := signature(m.session, call.name); params != nil ||
				m.isFunction(call.name) {
				return renderSignatureHint(call.name, params, call.argIndex)
			}
		}
	}

	return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width, m.isFunction)
}

func (m model) isFunction(name string) bool {
	_, ok := m.session.Function(name)

	return ok
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.running {
		// Only interruption is accepted while evaluating.
		if msg.Type == tea.KeyCtrlC && m.cancel != nil {
			m.cancel()
		}

		return m, nil
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.tabActive = false
		m.altActive = false
		m.historyIdx = m.history.Len()
		m.setInput("", 0)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		m.altActive = false

		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current tab candidate without executing.
		m.tabActive = false
		m.refreshMatches(true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(+1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		if msg.Alt {
			return m.ctrlHistory(-1), nil
		}

		m, _ = m.seek(-1, func(HistoryEntry) bool { return true })

		return m, nil

	case tea.KeyDown:
		if msg.Alt {
			return m.ctrlHistory(+1), nil
		}

		return m.seekOrClear(+1, func(HistoryEntry) bool { return true }), nil

	case tea.KeyShiftUp:
		mode := m.mode
		m, _ = m.seek(-1, func(e HistoryEntry) bool { return e.Mode == mode })

		return m, nil

	case tea.KeyShiftDown:
		mode := m.mode

		return m.seekOrClear(+1, func(e HistoryEntry) bool { return e.Mode == mode }), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.setInput(m.preTab.text, m.preTab.cursor)

			return m, nil
		}

		m.altActive = false

		if m.mode == modeEval {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeEval), nil

	case tea.KeyRunes, tea.KeySpace:
		// Space ends tab-cycling, keeping the candidate.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		m.refreshMatches(true)

		return m, cmd
	}

	// Backspace, delete, cursor movement: edit without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.altActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches(false)

	return m, cmd
}

// cycle steps the selected completion candidate forward (+1) or backward
// (-1). A single candidate is completed immediately.
func (m model) cycle(dir int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		m.replaceCurrentWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	switch {
	case m.tabActive:
		m.suggIdx = (m.suggIdx + dir + n) % n
	case dir > 0:
		m.tabActive = true
		m.preTab = savedInput{m.input.Value(), m.input.Position()}
		m.suggIdx = 0
	default:
		m.tabActive = true
		m.preTab = savedInput{m.input.Value(), m.input.Position()}
		m.suggIdx = n - 1
	}

	m.replaceCurrentWord(m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word in the input with
// replacement and moves the cursor after it.
func (m *model) replaceCurrentWord(replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)
	m.wordEnd = cursor
}

// setInput replaces the input line and recomputes matches.
func (m *model) setInput(text string, cursor int) {
	m.input.SetValue(text)
	m.input.SetCursor(cursor)
	m.refreshMatches(false)
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true and the typed word already equals the sole
// candidate, the completion bar is dismissed.
func (m *model) refreshMatches(autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if autoConfirm && len(m.matches) == 1 &&
		m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.DebugContext(m.ctx, "history write failed", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()
	m.saved = [2]savedInput{}
	m.setInput("", 0)

	m.logger.TraceContext(m.ctx, "repl input",
		slog.String("input", input),
		slog.Int("mode", int(m.mode)))

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	echo := tea.Println(promptStyle.Render(evalPrompt) + inputStyle.Render(input))

	m, run := m.start(func(ctx context.Context) (lang.Value, error) {
		return m.session.Eval(ctx, input)
	})

	return m, tea.Sequence(echo, run)
}

// start runs fn in the background with a cancelable context; its result
// arrives as an [evalDoneMsg].
func (m model) start(fn func(context.Context) (lang.Value, error)) (model, tea.Cmd) {
	ctx, cancel := context.WithCancel(m.ctx)

	m.running = true
	m.cancel = cancel
	m.matches = nil

	return m, func() tea.Msg {
		v, err := fn(ctx)

		return evalDoneMsg{value: v, err: err}
	}
}

// finish reports the result of a background evaluation.
func (m model) finish(msg evalDoneMsg) (model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}

	m.running = false
	m.cancel = nil
	m.refreshMatches(false)

	switch {
	case errors.Is(msg.err, lang.ErrInterrupted):
		return m, tea.Println(hintStyle.Render("interrupted"))

	case msg.err != nil:
		m.logger.DebugContext(m.ctx, "repl eval failed", slog.Any("error", msg.err))

		return m, tea.Println(errorStyle.Render(strings.TrimRight(msg.err.Error(), "\n")))

	case msg.value.IsUnit():
		return m, nil

	default:
		return m, tea.Println(resultStyle.Render(msg.value.String()))
	}
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	switch parts[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage))

	case "l", "list":
		return m, tea.Sequence(echo, tea.Println(m.listGlobals()))

	case "c", "clear":
		return m, tea.ClearScreen

	case "r", "reset":
		m.session.Reset()

		return m, tea.Sequence(echo, tea.Println(hintStyle.Render("session reset")))

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Println(
			errorStyle.Render("unknown command: " + parts[0] + " (try 'help')"),
		)
	}
}

// edit suspends the UI and runs the editor on the session source.
func (m model) edit() tea.Cmd {
	cmd := &editCommand{session: m.session, ctx: m.ctx, logger: m.logger}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.prog == nil:
			return editCancelledMsg{}
		default:
			return editDoneMsg{prog: cmd.prog}
		}
	})
}

func (m model) listGlobals() string {
	names := m.session.Names()
	if len(names) == 0 {
		return hintStyle.Render("  (no globals)")
	}

	var b strings.Builder

	for i, name := range names {
		if i > 0 {
			b.WriteByte('\n')
		}

		v, _ := m.session.Lookup(name)
		b.WriteString("  " + name + " " + hintStyle.Render(preview(v)))
	}

	return b.String()
}

// seek moves from the current history index in direction dir (-1 older, +1
// newer) to the nearest entry accepted by keep and loads it, switching mode
// if the entry was entered in the other one. It reports whether an entry was
// found.
func (m model) seek(dir int, keep func(HistoryEntry) bool) (model, bool) {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		e, err := m.history.Entry(i)
		if err != nil || !keep(e) {
			continue
		}

		if e.Mode != m.mode {
			m = m.switchToMode(e.Mode)
		}

		m.historyIdx = i
		m.setInput(e.Line, len(e.Line))

		return m, true
	}

	return m, false
}

// seekOrClear is seek toward newer entries, clearing the input once past the
// newest one.
func (m model) seekOrClear(dir int, keep func(HistoryEntry) bool) model {
	m, ok := m.seek(dir, keep)
	if !ok && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.setInput("", 0)
	}

	return m
}

// ctrlHistory browses command-mode history. The original mode and input are
// restored when navigation runs off either end.
func (m model) ctrlHistory(dir int) model {
	if !m.altActive {
		m.altActive = true
		m.altMode = m.mode
		m.altNav = savedInput{m.input.Value(), m.input.Position()}

		if m.mode != modeCtrl {
			m = m.switchToMode(modeCtrl)
		}
	}

	m, ok := m.seek(dir, func(e HistoryEntry) bool { return e.Mode == modeCtrl })
	if ok {
		return m
	}

	m.altActive = false
	if m.altMode != m.mode {
		m = m.switchToMode(m.altMode)
	}

	m.historyIdx = m.history.Len()
	m.setInput(m.altNav.text, m.altNav.cursor)

	return m
}

// switchToMode switches to mode, saving the current input and restoring the
// input last entered in mode.
func (m model) switchToMode(mode inputMode) model {
	m.saved[m.mode] = savedInput{m.input.Value(), m.input.Position()}
	m.mode = mode

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	}

	m.setInput(m.saved[mode].text, m.saved[mode].cursor)

	return m
}
