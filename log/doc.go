// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("program loaded", slog.Int("statements", 4))
//	logger.Error("evaluation failed", slog.Any("error", err))
//
// Attributes are always [slog.Attr] values. Errors that implement
// [slog.LogValuer] are expanded into their structured attributes.
//
// # Configuration
//
// Configure a logger using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("Kitchen"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a logger with some options overridden, and
// [Logger.With] derives one that adds attributes to every message.
//
// # Levels
//
// In addition to the four slog levels, [LevelTrace] sits below
// [LevelDebug] and is used for step-by-step interpreter events. [Level] and
// [Format] implement [encoding.TextUnmarshaler], so they can be decoded
// directly from flags and configuration files.
//
// # Output Formats
//
// [FormatText] (the default) and [FormatJSON] are supported. When pretty
// printing is enabled (the default), records are colorized with lipgloss if
// the output is a terminal, and nested groups are flattened into dotted keys.
//
// # Package Logger
//
// The package-level functions ([Info], [TraceContext], and so on) write to a
// default logger on standard error, reconfigured with [Config]. [Default]
// returns it for components that accept a [Logger] explicitly. A zero
// [Logger] discards everything.
//
// Context-unaware functions call their context-aware counterparts using
// [DefaultContextProvider], which returns [context.TODO] by default.
package log
