// Command mesonet exports Oklahoma Mesonet tables and serves them over HTTP.
//
// Usage:
//
//	mesonet geoinfo   [-station ACME] [-all]
//	mesonet hydraulic [-station ACME] [-depth 25]
//	mesonet daily     [-station ACME] [-date 2024-04-25] [-variables weather]
//	mesonet monthly   [-station ACME] [-year 2024] [-month 4] [-variables all]
//	mesonet serve
//
// Export commands write CSV (or -format json) to stdout, or publish rows with
// -sink kafka|influx. Settings come from the environment and an optional .env file.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/mesonet-data/internal/config"
	"github.com/couchcryptid/mesonet-data/internal/observability"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &app{cfg: cfg, logger: logger, metrics: metrics, stdout: os.Stdout, stderr: os.Stderr}
	if err := app.run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
