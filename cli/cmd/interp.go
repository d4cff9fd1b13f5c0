package cmd

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/expr-lang/expr"

	"github.com/ardnew/dash/lang"
	"github.com/ardnew/dash/log"
	"github.com/ardnew/dash/pkg"
)

// Vars returns the kong variables referenced by the command structs.
func Vars() kong.Vars {
	return kong.Vars{
		"maxDepth":     strconv.Itoa(lang.DefaultMaxDepth),
		"maxCallDepth": strconv.Itoa(lang.DefaultMaxCallDepth),
		"callLimit":    strconv.Itoa(lang.CallDepthLimit),
	}
}

// Interp holds the flags shared by commands that evaluate scripts.
type Interp struct {
	Define       []string `help:"Bind a global before evaluation; EXPR is an expr-lang expression" placeholder:"NAME=EXPR" short:"D" sep:"none"`
	MaxDepth     int      `help:"Maximum nesting depth accepted by the parser"     default:"${maxDepth}"`
	MaxCallDepth int      `help:"Maximum function call depth before stack overflow (at most ${callLimit})" default:"${maxCallDepth}"`
}

// Binding is a global defined on the command line.
type Binding struct {
	Name  string
	Value lang.Value
}

// options returns the parse and evaluation options selected by the flags.
func (i Interp) options(logger log.Logger) []lang.Option {
	return []lang.Option{
		lang.WithLogger(logger),
		lang.WithMaxDepth(i.MaxDepth),
		lang.WithMaxCallDepth(i.MaxCallDepth),
	}
}

// bindings evaluates each --define in order. An expression may refer to
// globals defined before it and may call env(name) to read the process
// environment.
func (i Interp) bindings(ctx context.Context) ([]Binding, error) {
	env := map[string]any{
		"env": os.Getenv,
	}

	var out []Binding

	for _, def := range i.Define {
		b, err := evalDefine(def, env)
		if err != nil {
			return nil, ErrDefine.
				With(slog.String("define", def)).
				Wrap(err)
		}

		log.TraceContext(ctx, "define",
			slog.String("name", b.Name),
			slog.String("value", b.Value.String()))

		env[b.Name] = b.Value.Native()
		out = append(out, b)
	}

	return out, nil
}

func evalDefine(def string, env map[string]any) (Binding, error) {
	name, source, ok := strings.Cut(def, "=")
	name = strings.TrimSpace(name)

	if !ok || strings.TrimSpace(source) == "" {
		return Binding{}, pkg.ErrInvalidDefine.Wrapf("expected NAME=EXPR")
	}

	if !lang.IsIdentifier(name) {
		return Binding{}, pkg.ErrInvalidDefine.Wrapf("invalid name %q", name)
	}

	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return Binding{}, pkg.ErrInvalidDefine.Wrap(err)
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return Binding{}, pkg.ErrInvalidDefine.Wrap(err)
	}

	v, ok := lang.FromNative(result)
	if !ok {
		return Binding{}, pkg.ErrInvalidDefine.Wrapf(
			"unsupported result type %T", result)
	}

	return Binding{Name: name, Value: v}, nil
}

// interpreter returns an Interpreter writing to out with every binding
// defined.
func (i Interp) interpreter(
	ctx context.Context,
	out lang.Output,
	logger log.Logger,
) (*lang.Interpreter, []Binding, error) {
	bindings, err := i.bindings(ctx)
	if err != nil {
		return nil, nil, err
	}

	in := lang.New(out, i.options(logger)...)
	for _, b := range bindings {
		in.Define(b.Name, b.Value)
	}

	return in, bindings, nil
}
