package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/ardnew/dash/cli/cmd/repl"
	"github.com/ardnew/dash/lang"
	"github.com/ardnew/dash/log"
	"github.com/ardnew/dash/pkg"
)

// Repl starts an interactive session.
type Repl struct {
	Interp `embed:""`

	NoHistory bool     `help:"Do not read or write the history file"`
	Sources   []string `arg:"" optional:"" help:"Scripts to run before the first prompt" name:"source"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := log.Default()
	stdio := stdioFrom(ctx)

	bindings, err := r.bindings(ctx)
	if err != nil {
		return err
	}

	globals := make([]repl.Global, len(bindings))
	for i, b := range bindings {
		globals[i] = repl.Global{Name: b.Name, Value: b.Value}
	}

	session := repl.NewSession(
		lang.WriterOutput(stdio.Out),
		logger,
		globals,
		lang.WithMaxDepth(r.MaxDepth),
		lang.WithMaxCallDepth(r.MaxCallDepth),
	)

	if err := r.load(ctx, session, logger); err != nil {
		return err
	}

	return repl.Run(ctx, session, repl.NewHistory(r.historyPath(ctx, logger)), logger)
}

// load runs each source in order. A file named more than once, through any
// path or link, runs only the first time.
func (r *Repl) load(ctx context.Context, session *repl.Session, logger log.Logger) error {
	seen := make(map[fileKey]struct{})

	for _, name := range r.Sources {
		if name == stdinSource {
			logger.WarnContext(ctx, "ignoring stdin source in repl")

			continue
		}

		path, err := resolveSource(ctx, name)
		if err != nil {
			return err
		}

		if key, ok := statFileKey(path); ok {
			if _, dup := seen[key]; dup {
				logger.DebugContext(ctx, "skipping duplicate source", slog.String("source", path))

				continue
			}

			seen[key] = struct{}{}
		}

		file, path, err := openSource(ctx, path)
		if err != nil {
			return err
		}

		err = session.Load(ctx, path, file)
		file.Close()

		if err != nil {
			return ErrEvaluate.With(slog.String("source", path)).Wrap(err)
		}

		logger.DebugContext(ctx, "source loaded", slog.String("source", path))
	}

	return nil
}

// historyPath returns the history file location, creating its directory.
// It returns "" (history kept in memory) if history is disabled or the
// directory cannot be created.
func (r *Repl) historyPath(ctx context.Context, logger log.Logger) string {
	if r.NoHistory {
		return ""
	}

	dir := pkg.CacheDir()
	if ktx := kongContextFrom(ctx); ktx != nil {
		if v, ok := ktx.Model.Vars()[CacheIdentifier]; ok && v != "" {
			dir = v
		}
	}

	if err := os.MkdirAll(dir, pkg.DirMode); err != nil {
		logger.WarnContext(ctx, "history disabled", slog.Any("error", err))

		return ""
	}

	return filepath.Join(dir, repl.HistoryFile)
}

// fileKey uniquely identifies a file by its device and inode numbers, so that
// symlinks and relative paths to the same file compare equal.
type fileKey struct {
	dev uint64
	ino uint64
}

func statFileKey(path string) (fileKey, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return fileKey{}, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
