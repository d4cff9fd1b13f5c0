package cmd

import (
	"context"
	"encoding"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/dash/log"
	"github.com/ardnew/dash/pkg"
	"github.com/ardnew/dash/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		panic("internal error: kong context undefined")
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath), slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	data, err := yaml.MarshalWithOptions(
		i.buildConfig(ktx),
		yaml.Indent(defaultConfigIndent),
		yaml.IndentSequence(true),
	)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(ErrYAMLMarshal.Wrap(err))
	}

	if err := os.MkdirAll(filepath.Dir(confPath), pkg.DirMode); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	if err := os.WriteFile(confPath, data, 0o600); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath))

	fmt.Fprintln(stdioFrom(ctx).Out, confPath)

	return nil
}

// buildConfig collects the application-level flags into a document of the
// form read back by the configuration loader:
//
//	config:
//	  log-level: info
//	  ...
func (i *Init) buildConfig(ktx *kong.Context) yaml.MapSlice {
	ignore := []string{"help", "version", profile.Tag}

	var entries yaml.MapSlice

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if val := flagValue(ktx.FlagValue(flag)); val != nil {
			entries = append(entries, yaml.MapItem{Key: flag.Name, Value: val})
		}
	}

	return yaml.MapSlice{{Key: ConfigIdentifier, Value: entries}}
}

// flagValue converts a parsed flag value to a YAML scalar or sequence, or nil
// if the flag is unset.
func flagValue(val any) any {
	switch v := val.(type) {
	case nil:
		return nil

	case encoding.TextMarshaler:
		text, err := v.MarshalText()
		if err != nil || len(text) == 0 {
			return nil
		}

		return string(text)

	case string:
		if v == "" {
			return nil
		}

		return v

	case []string:
		if len(v) == 0 {
			return nil
		}

		return v

	case bool, int, int64, uint, uint64, float64:
		return v

	default:
		return fmt.Sprint(v)
	}
}
