package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/dash/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithPretty(false),
		log.WithTimeLayout("none"),
	)

	logger.Info("program loaded", slog.Int("statements", 4))
	logger.Debug("hidden at the default level")
	// Output:
	// level=INFO msg="program loaded" statements=4
}

func Example_trace() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false),
		log.WithTimeLayout("none"),
	)

	logger.With(slog.String("component", "eval")).Trace("call", slog.Int("depth", 1))
	// Output:
	// {"level":"TRACE","msg":"call","component":"eval","depth":1}
}
