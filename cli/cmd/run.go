package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/dash/lang"
	"github.com/ardnew/dash/log"
)

// Run parses and evaluates a script, writing its print output to stdout.
type Run struct {
	Interp `embed:""`

	Result bool   `help:"Print the value of the final expression statement" short:"r"`
	Source string `arg:"" default:"-" help:"Script file, name along the search path, or '-' for stdin" name:"source"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := log.Default()
	stdio := stdioFrom(ctx)

	in, bindings, err := r.interpreter(ctx, lang.WriterOutput(stdio.Out), logger)
	if err != nil {
		return err
	}

	file, path, err := openSource(ctx, r.Source)
	if err != nil {
		return err
	}
	defer file.Close()

	prog, err := lang.ParseReader(ctx, file, r.options(logger)...)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "run"), slog.String("source", path))
	}

	logger.DebugContext(ctx, "script loaded",
		slog.String("source", path),
		slog.Int("statements", len(prog.Statements)),
		slog.Int("defines", len(bindings)))

	result, err := in.Run(ctx, prog)
	if err != nil {
		return ErrEvaluate.
			With(slog.String("source", path)).
			Wrap(err)
	}

	if r.Result && !result.IsUnit() {
		if _, err := fmt.Fprintln(stdio.Out, result.String()); err != nil {
			return ErrEvaluate.Wrap(lang.ErrOutput.Wrap(err))
		}
	}

	return nil
}
