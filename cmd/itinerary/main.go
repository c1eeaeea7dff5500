package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ijalalfrz/flight-itinerary-search/internal/app/cli"
	"github.com/ijalalfrz/flight-itinerary-search/internal/app/config"
	"github.com/ijalalfrz/flight-itinerary-search/internal/pkg/logger"
)

func main() {
	cfg := config.MustInitConfig(".env")
	logger.InitStructuredLogger(cfg.LogLevel, os.Stderr)

	runner := &cli.Runner{
		Name:   filepath.Base(os.Args[0]),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}

	ctx := context.Background()
	report := runner.Run(ctx, os.Args[1:])

	slog.DebugContext(ctx, "exiting", slog.Int("exit_code", report.ExitCode()))
	os.Exit(report.ExitCode())
}
