package repl

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/ardnew/dash/lang"
	"github.com/ardnew/dash/log"
)

// Global is a binding restored whenever a [Session] is reset.
type Global struct {
	Name  string
	Value lang.Value
}

// Session is an interactive evaluation context: one [lang.Interpreter] whose
// globals persist from input to input, plus the statements of every input
// that ran without error.
//
// Only one evaluation may run at a time; the read-only accessors are safe to
// call from the UI while no evaluation is running.
type Session struct {
	interp  *lang.Interpreter
	out     *relay
	opts    []lang.Option
	globals []Global
	stmts   []lang.Stmt
	logger  log.Logger
}

// NewSession returns a Session that writes print output to out and defines
// globals before the first input.
func NewSession(
	out lang.Output,
	logger log.Logger,
	globals []Global,
	opts ...lang.Option,
) *Session {
	r := &relay{target: out}
	opts = append(slices.Clone(opts), lang.WithLogger(logger))

	s := &Session{
		interp:  lang.New(r, opts...),
		out:     r,
		opts:    opts,
		globals: slices.Clone(globals),
		logger:  logger,
	}
	s.define()

	return s
}

func (s *Session) define() {
	for _, g := range s.globals {
		s.interp.Define(g.Name, g.Value)
	}
}

// SetOutput redirects print output.
func (s *Session) SetOutput(out lang.Output) { s.out.set(out) }

// Parse parses src with the session's options.
func (s *Session) Parse(ctx context.Context, src string) (*lang.Program, error) {
	return lang.Parse(ctx, src, s.opts...)
}

// Eval parses input as a program and runs it against the session globals.
func (s *Session) Eval(ctx context.Context, input string) (lang.Value, error) {
	prog, err := s.Parse(ctx, input)
	if err != nil {
		return lang.Value{}, err
	}

	return s.run(ctx, prog)
}

// Load parses and runs a script read from r.
func (s *Session) Load(ctx context.Context, name string, r io.Reader) error {
	prog, err := lang.ParseReader(ctx, r, s.opts...)
	if err != nil {
		return lang.WrapError(err).With(slog.String("source", name))
	}

	if _, err := s.run(ctx, prog); err != nil {
		return lang.WrapError(err).With(slog.String("source", name))
	}

	return nil
}

func (s *Session) run(ctx context.Context, prog *lang.Program) (lang.Value, error) {
	v, err := s.interp.Run(ctx, prog)

	s.logger.TraceContext(ctx, "repl run",
		slog.Int("statements", len(prog.Statements)),
		slog.Bool("ok", err == nil))

	if err == nil {
		s.stmts = append(s.stmts, prog.Statements...)
	}

	return v, err
}

// Reset discards every global and recorded statement, then restores the
// session's initial globals.
func (s *Session) Reset() {
	s.interp.Reset()
	s.stmts = nil
	s.define()
}

// Replace resets the session and runs prog in its place. On failure the
// session is left holding whatever prog defined before the fault.
func (s *Session) Replace(ctx context.Context, prog *lang.Program) error {
	s.Reset()

	_, err := s.run(ctx, prog)

	return err
}

// Program returns the statements of every successful input as one program.
func (s *Session) Program() *lang.Program {
	return &lang.Program{Statements: slices.Clone(s.stmts)}
}

// Names returns the sorted names of all globals.
func (s *Session) Names() []string { return s.interp.Globals().Names() }

// Lookup returns the value of a global.
func (s *Session) Lookup(name string) (lang.Value, bool) {
	return s.interp.Globals().Lookup(name)
}

// Function returns the global function called name.
func (s *Session) Function(name string) (*lang.Function, bool) {
	v, ok := s.Lookup(name)
	if !ok {
		return nil, false
	}

	return v.Func()
}

// relay forwards output to a replaceable target.
type relay struct {
	mu     sync.Mutex
	target lang.Output
}

func (r *relay) set(out lang.Output) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.target = out
}

func (r *relay) WriteLine(text string) error {
	r.mu.Lock()
	out := r.target
	r.mu.Unlock()

	if out == nil {
		return nil
	}

	return out.WriteLine(text)
}
