package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/dash/log"
)

// resolve returns a [kong.ConfigurationLoader] for YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx, "config"), "/path/to/config.yaml")
//
// Flag values are read from the mapping under key, or from the top-level
// mapping if the document has no such key:
//
//	config:
//	  log-level: debug
//	  log_format: json
//	  max-call-depth: 500
//	  path: [~/lib/dash, /usr/share/dash]
//
// Flag names may be spelled with hyphens or underscores. A file that cannot
// be parsed is logged and ignored, so a broken config never prevents the
// command line from being parsed.
func resolve(ctx context.Context, key string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		err := yaml.NewDecoder(r).DecodeContext(ctx, &doc)
		if errors.Is(err, io.EOF) {
			return config{}, nil
		}

		if err != nil {
			log.WarnContext(ctx, "ignoring invalid configuration",
				slog.String("error", err.Error()))

			return config{}, nil
		}

		if nested, ok := doc[key].(map[string]any); ok {
			doc = nested
		}

		cfg := make(config, len(doc))
		for name, value := range doc {
			cfg[strings.ReplaceAll(name, "_", "-")] = flagValue(value)
		}

		return cfg, nil
	}
}

// flagValue converts a decoded YAML value to a form Kong's mappers accept.
// Kong parses numbers from strings, and sequences are converted element by
// element.
func flagValue(value any) any {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = flagValue(elem)
		}

		return out
	case string, bool, nil:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// config implements [kong.Resolver] for YAML configs. Keys are flag names in
// their hyphenated form.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Not found returns nil to let Kong use defaults.
	return r[flag.Name], nil
}
