package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/klauspost/readahead"
)

// Parse parses source text into a [Program]. It performs no I/O and has no
// side effects. Parsing is all-or-nothing: on failure it returns a
// [*ParseError] and no Program.
func Parse(ctx context.Context, source string, opts ...Option) (*Program, error) {
	o := makeOptions(opts...)

	tree, err := parseTree(ctx, source, o)
	if err != nil {
		return nil, err
	}

	prog, err := BuildProgram(tree, source)
	if err != nil {
		return nil, err
	}

	o.logger.TraceContext(ctx, "ast built",
		slog.Int("statement_count", len(prog.Statements)))

	return prog, nil
}

// ParseReader reads all of r and parses it as source text.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*Program, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return Parse(ctx, string(data), opts...)
}

// ParseTree runs only the grammar engine and returns the concrete parse tree.
func ParseTree(ctx context.Context, source string, opts ...Option) (*Tree, error) {
	return parseTree(ctx, source, makeOptions(opts...))
}

func parseTree(ctx context.Context, source string, o options) (*Tree, error) {
	o.logger.TraceContext(ctx, "parse start",
		slog.Int("source_length", len(source)))

	toks, err := Scan(source)
	if err != nil {
		o.logger.TraceContext(ctx, "scan failed", slog.Any("error", err))

		return nil, err
	}

	tree, err := newGrammar(source, toks, o.maxDepth).program()
	if err != nil {
		o.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.Int("token_count", len(toks)),
		slog.Int("statement_count", len(tree.Kids)))

	return tree, nil
}
