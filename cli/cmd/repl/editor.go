package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/dash/lang"
	"github.com/ardnew/dash/log"
)

const defaultEditor = "vi"

// editIndent is the indent width of the source presented for editing.
const editIndent = 2

// editCommand implements [tea.ExecCommand] for the edit-parse-retry loop.
// It formats the session's program to a temp file, opens the user's editor,
// and re-parses the result. On a parse error the user is prompted to
// re-edit; declining returns [ErrEditDeclined].
type editCommand struct {
	session *Session
	ctx     context.Context
	logger  log.Logger
	prog    *lang.Program // parsed result, nil if the edit was cancelled
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-parse-retry loop.
func (c *editCommand) Run() error {
	var buf bytes.Buffer
	if err := c.session.Program().Format(c.ctx, &buf, editIndent); err != nil {
		return fmt.Errorf("format session: %w", err)
	}

	f, err := os.CreateTemp("", "dash-repl-*.dash")
	if err != nil {
		return err
	}

	path := f.Name()
	defer os.Remove(path)

	f.Close()

	content := buf.Bytes()

	for {
		if err := os.WriteFile(path, content, 0o600); err != nil {
			return err
		}

		if err := runEditor(c.ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		if len(bytes.TrimSpace(data)) == 0 {
			// Emptied buffer: cancel without touching the session.
			return nil
		}

		prog, parseErr := c.session.Parse(c.ctx, string(data))
		c.logger.TraceContext(c.ctx, "editor parse attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", parseErr == nil))

		if parseErr == nil {
			c.prog = prog

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", parseErr)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		if !confirm(c.stdin) {
			return ErrEditDeclined
		}

		content = data
	}
}

// confirm reads one answer line from r; anything but "n" or "no" (including
// an empty line) is a yes. End of input is a no.
func confirm(r io.Reader) bool {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "n", "no":
		return false
	default:
		return true
	}
}

// runEditor opens path in $VISUAL, $EDITOR, or vi, in that order.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout, stderr io.Writer,
	path string,
) error {
	editor := defaultEditor

	for _, env := range []string{"VISUAL", "EDITOR"} {
		if e := os.Getenv(env); e != "" {
			editor = e

			break
		}
	}

	// The editor variable may carry arguments, such as "code --wait".
	args := strings.Fields(editor)

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
