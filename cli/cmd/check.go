package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ardnew/dash/lang"
	"github.com/ardnew/dash/log"
)

// Check parses a script without evaluating it.
type Check struct {
	MaxDepth int    `help:"Maximum nesting depth accepted by the parser" default:"${maxDepth}"`
	Quiet    bool   `help:"Report only through the exit status" short:"q"`
	Source   string `arg:"" default:"-" help:"Script file, name along the search path, or '-' for stdin" name:"source"`
}

// Run executes the check command. On a syntax error the message and the
// offending source line are written to stderr.
func (c *Check) Run(ctx context.Context) error {
	stdio := stdioFrom(ctx)

	src, path, err := readSource(ctx, c.Source)
	if err != nil {
		return err
	}

	prog, err := lang.Parse(ctx, src,
		lang.WithLogger(log.Default()),
		lang.WithMaxDepth(c.MaxDepth))
	if err != nil {
		var perr *lang.ParseError
		if errors.As(err, &perr) && !c.Quiet {
			fmt.Fprintf(stdio.Err, "%s:%s: %s\n%s",
				path, perr.Position(), perr.Message, perr.Snippet())
		}

		return ErrCheck.
			With(slog.String("source", path)).
			Wrap(err)
	}

	if !c.Quiet {
		fmt.Fprintf(stdio.Out, "%s: ok (%d statements, %d functions)\n",
			path, len(prog.Statements), len(prog.Functions()))
	}

	return nil
}
