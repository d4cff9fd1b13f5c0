package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/dash/lang"
	"github.com/ardnew/dash/log"
)

// Fmt parses a script and writes it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical dash source (default)."`
	JSON   JSON   `cmd:""                    help:"Format the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Format the syntax tree as YAML."`
	AST    AST    `cmd:""                    help:"Format as an indented syntax tree outline."`
}

// formatter is the method expression of a *lang.Program format method, such
// as (*lang.Program).FormatJSON.
type formatter func(*lang.Program, context.Context, io.Writer, int) error

// format parses source and writes it with fn to stdout, or back to the
// source file when write is set.
func format(
	ctx context.Context,
	name, source string,
	indent int,
	write bool,
	fn formatter,
) error {
	stdio := stdioFrom(ctx)

	src, path, err := readSource(ctx, source)
	if err != nil {
		return err
	}

	prog, err := lang.Parse(ctx, src, lang.WithLogger(log.Default()))
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("format", name), slog.String("source", path))
	}

	var buf bytes.Buffer

	if err := fn(prog, ctx, &buf, indent); err != nil {
		return ErrFormat.
			With(slog.String("format", name), slog.String("source", path)).
			Wrap(err)
	}

	if write && path != stdinSource {
		if buf.String() == src {
			return nil
		}

		info, err := os.Stat(path)
		if err != nil {
			return ErrFormat.With(slog.String("source", path)).Wrap(err)
		}

		return os.WriteFile(path, buf.Bytes(), info.Mode().Perm())
	}

	_, err = buf.WriteTo(stdio.Out)

	return err
}

// Native formats input as canonical dash source.
type Native struct {
	Indent int  `default:"2" help:"Indent width for formatted output" short:"i"`
	Write  bool `help:"Write the result to the source file instead of stdout" short:"w"`

	Source string `arg:"" default:"-" help:"Script file or '-' for stdin." name:"source"`
}

// Run executes the fmt native command.
func (f *Native) Run(ctx context.Context) error {
	return format(ctx, "native", f.Source, f.Indent, f.Write, (*lang.Program).Format)
}

// JSON writes the syntax tree as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Source string `arg:"" default:"-" help:"Script file or '-' for stdin." name:"source"`
}

// Run executes the fmt json command.
func (j *JSON) Run(ctx context.Context) error {
	return format(ctx, "json", j.Source, j.Indent, false, (*lang.Program).FormatJSON)
}

// YAML writes the syntax tree as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output" short:"i"`

	Source string `arg:"" default:"-" help:"Script file or '-' for stdin." name:"source"`
}

// Run executes the fmt yaml command.
func (y *YAML) Run(ctx context.Context) error {
	return format(ctx, "yaml", y.Source, y.Indent, false, (*lang.Program).FormatYAML)
}

// AST writes an outline of the syntax tree. With --tree it prints the
// grammar's concrete parse tree instead.
type AST struct {
	Indent int  `default:"2" help:"Indent width for the outline" short:"i"`
	Tree   bool `help:"Print the concrete parse tree" short:"t"`

	Source string `arg:"" default:"-" help:"Script file or '-' for stdin." name:"source"`
}

// Run executes the fmt ast command.
func (a *AST) Run(ctx context.Context) error {
	if !a.Tree {
		return format(ctx, "ast", a.Source, a.Indent, false, (*lang.Program).FormatAST)
	}

	src, path, err := readSource(ctx, a.Source)
	if err != nil {
		return err
	}

	tree, err := lang.ParseTree(ctx, src, lang.WithLogger(log.Default()))
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("format", "tree"), slog.String("source", path))
	}

	return tree.Print(stdioFrom(ctx).Out)
}
