package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/dash/log"
)

// logLevel configures the logger level as a side effect of parsing via
// encoding.TextUnmarshaler, early enough to affect messages logged while
// the remaining flags are parsed.
type logLevel log.Level

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	if err := (*log.Level)(l).UnmarshalText(text); err != nil {
		return err
	}

	log.Config(log.WithLevel(log.Level(*l)))

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (l logLevel) MarshalText() ([]byte, error) {
	return log.Level(l).MarshalText()
}

// logFormat configures the logger format as a side effect of parsing via
// encoding.TextUnmarshaler.
type logFormat log.Format

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	if err := (*log.Format)(f).UnmarshalText(text); err != nil {
		return err
	}

	log.Config(log.WithFormat(log.Format(*f)))

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (f logFormat) MarshalText() ([]byte, error) {
	return log.Format(f).MarshalText()
}

type logConfig struct {
	Level      logLevel  `default:"info"    help:"Set log level (${logLevels})."   placeholder:"LEVEL"`
	Format     logFormat `default:"text"    help:"Set log format (${logFormats})." placeholder:"FORMAT"`
	TimeLayout string    `default:"RFC3339" help:"Set timestamp format."`
	Caller     bool      `default:"false"   help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"    help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevels":  strings.Join(slices.Collect(log.Levels()), ", "),
		"logFormats": strings.Join(slices.Collect(log.Formats()), ", "),
	}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.Level(f.Level)),
		log.WithFormat(log.Format(f.Format)),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", log.Level(f.Level).String()),
		slog.String("format", log.Format(f.Format).String()),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan performs an early pass over command-line arguments to extract and
// apply logger configuration before Kong begins parsing, so the logger is
// configured regardless of flag position. Invalid values are skipped here and
// reported by Kong.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return
		}

		name, value, assigned := strings.Cut(arg, "=")

		negated := strings.HasPrefix(name, "--no-log-")
		if !negated && !strings.HasPrefix(name, "--log-") {
			continue
		}

		// Non-boolean flags consume the next argument as their value.
		operand := func() string {
			if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++

				return args[i]
			}

			return value
		}

		switch name {
		case "--log-level":
			_ = f.Level.UnmarshalText([]byte(operand()))

		case "--log-format":
			_ = f.Format.UnmarshalText([]byte(operand()))

		case "--log-time-layout":
			f.TimeLayout = operand()
			log.Config(log.WithTimeLayout(f.TimeLayout))

		case "--log-pretty", "--no-log-pretty":
			f.Pretty = scanBool(f.Pretty, negated, assigned, value)
			log.Config(log.WithPretty(f.Pretty))

		case "--log-caller", "--no-log-caller":
			f.Caller = scanBool(f.Caller, negated, assigned, value)
			log.Config(log.WithCaller(f.Caller))
		}
	}
}

// scanBool returns the value of a boolean flag. A bare flag is true, or false
// in its negated form; an explicit value that does not parse keeps current.
func scanBool(current, negated, assigned bool, value string) bool {
	v := true

	if assigned {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return current
		}

		v = parsed
	}

	return v != negated
}
