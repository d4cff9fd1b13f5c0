package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/ardnew/mung"

	"github.com/ardnew/dash/pkg"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	searchPathKey struct{}
	stdioKey      struct{}
)

// Stdio holds the streams used by commands. Nil fields fall back to the
// process's standard streams.
type Stdio struct {
	In       io.Reader
	Out, Err io.Writer
}

// WithStdio returns a new context.Context whose commands read and write the
// given streams.
func WithStdio(ctx context.Context, stdio Stdio) context.Context {
	return context.WithValue(ctx, stdioKey{}, stdio)
}

func stdioFrom(ctx context.Context) Stdio {
	s, _ := ctx.Value(stdioKey{}).(Stdio)

	if s.In == nil {
		s.In = os.Stdin
	}

	if s.Out == nil {
		s.Out = os.Stdout
	}

	if s.Err == nil {
		s.Err = os.Stderr
	}

	return s
}

// SearchPath merges the directories given on the command line with the
// list-separated directories in env, flag directories first. Duplicates and
// entries that are not existing directories are dropped.
func SearchPath(dirs []string, env string) []string {
	delim := string(os.PathListSeparator)

	merged := mung.Make(
		mung.WithSubjectItems(env),
		mung.WithDelim(delim),
		mung.WithPrefixItems(dirs...),
		mung.WithFilter(isDir),
	).String()

	var path []string

	for _, dir := range strings.Split(merged, delim) {
		if dir != "" {
			path = append(path, dir)
		}
	}

	return path
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// WithSearchPath returns a new context.Context whose commands resolve script
// names along dirs.
func WithSearchPath(ctx context.Context, dirs []string) context.Context {
	return context.WithValue(ctx, searchPathKey{}, dirs)
}

func searchPathFrom(ctx context.Context) []string {
	dirs, _ := ctx.Value(searchPathKey{}).([]string)

	return dirs
}

// Ext is the conventional file extension of dash scripts.
const Ext = ".dash"

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// resolveSource maps a script name to a file path. Names that exist relative
// to the working directory are used as is; otherwise each search directory
// is tried with the name and then the name plus [Ext].
func resolveSource(ctx context.Context, name string) (string, error) {
	if name == stdinSource {
		return name, nil
	}

	if isFile(name) {
		return name, nil
	}

	if !filepath.IsAbs(name) {
		for _, dir := range searchPathFrom(ctx) {
			for _, candidate := range []string{name, name + Ext} {
				path := filepath.Join(dir, candidate)
				if isFile(path) {
					return path, nil
				}
			}
		}
	}

	if filepath.Ext(name) == "" && isFile(name+Ext) {
		return name + Ext, nil
	}

	return "", ErrOpenSource.
		With(slog.String("source", name)).
		Wrap(pkg.ErrSourceNotFound.Wrap(os.ErrNotExist))
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

// openSource resolves name and opens it for reading. The returned path is
// "-" for standard input.
func openSource(ctx context.Context, name string) (io.ReadCloser, string, error) {
	path, err := resolveSource(ctx, name)
	if err != nil {
		return nil, "", err
	}

	if path == stdinSource {
		return io.NopCloser(stdioFrom(ctx).In), path, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, "", ErrOpenSource.
			With(slog.String("source", path)).
			Wrap(err)
	}

	return file, path, nil
}

// readSource resolves name and reads the whole script.
func readSource(ctx context.Context, name string) (src, path string, err error) {
	r, path, err := openSource(ctx, name)
	if err != nil {
		return "", "", err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", "", ErrOpenSource.
			With(slog.String("source", path)).
			Wrap(pkg.ErrReadInput.Wrap(err))
	}

	return string(data), path, nil
}
