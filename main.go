package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/ardnew/dash/cli"
	"github.com/ardnew/dash/log"
)

func main() {
	// Interrupting a running script cancels evaluation at its next
	// statement instead of killing the process.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := cli.Run(ctx, os.Exit, os.Args[1:]...)

	stop()

	if err != nil {
		log.Error(
			"run failed",
			slog.Any("error", err),
		) // slog automatically uses LogValue()
		os.Exit(1)
	}
}
