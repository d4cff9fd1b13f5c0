package log

import (
	"fmt"
	"iter"
	"log/slog"
	"strings"
)

// Level represents the severity of a log message.
type Level slog.Level

const (
	LevelTrace = Level(slog.LevelDebug - 4)
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// DefaultLevel is the default log level.
const DefaultLevel = LevelInfo

var levels = []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError}

// Levels returns an iterator over the names of all defined log levels, from
// most to least verbose.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, level := range levels {
			if !yield(level.String()) {
				return
			}
		}
	}
}

// String returns the lowercase level name. Levels between the named ones are
// rendered as an offset from the nearest lower name, such as "info+2".
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}

	if l < LevelDebug {
		return fmt.Sprintf("trace%+d", int(l-LevelTrace))
	}

	return strings.ToLower(slog.Level(l).String())
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts the names
// returned by [Levels] in any case, optionally followed by a signed offset
// as described by [slog.Level.UnmarshalText].
func (l *Level) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))

	if strings.EqualFold(s, "trace") {
		*l = LevelTrace

		return nil
	}

	var sl slog.Level
	if err := sl.UnmarshalText([]byte(s)); err != nil {
		return fmt.Errorf("invalid log level %q", s)
	}

	*l = Level(sl)

	return nil
}

// ParseLevel parses a level name, returning [DefaultLevel] if s is not
// recognized.
func ParseLevel(s string) Level {
	var l Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return l
}

// Format represents the output format for log messages.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// DefaultFormat is the default log message format.
const DefaultFormat = FormatText

// Formats returns an iterator over the names of all defined log formats.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, format := range []Format{FormatText, FormatJSON} {
			if !yield(format.String()) {
				return
			}
		}
	}
}

// String returns the lowercase format name.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "text":
		*f = FormatText
	case "json":
		*f = FormatJSON
	default:
		return fmt.Errorf("invalid log format %q", text)
	}

	return nil
}

// ParseFormat parses a format name, returning [DefaultFormat] if s is not
// recognized.
func ParseFormat(s string) Format {
	var f Format
	if err := f.UnmarshalText([]byte(s)); err != nil {
		return DefaultFormat
	}

	return f
}
