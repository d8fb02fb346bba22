package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant-system/internal/app/api"
	"restaurant-system/internal/app/notify"
	"restaurant-system/internal/common/logger"
	"restaurant-system/internal/common/telemetry"
	"restaurant-system/internal/config"
	"restaurant-system/internal/connections/database"
)

const modes = "api | notification-subscriber | migrate"

var errUsage = errors.New("--mode is required: " + modes)

func main() {
	os.Exit(realMain())
}

// realMain returns the process exit code so every deferred flush runs
// before main exits.
func realMain() int {
	mode := flag.String("mode", "", modes)
	cfgPath := flag.String("config", "", "path to YAML config (default: config.yaml or deploy/config.example.yaml)")
	port := flag.Int("port", 0, "api: http port, overrides config")
	prefetch := flag.Int("prefetch", 10, "notification-subscriber: RabbitMQ prefetch")
	flag.Parse()

	if *cfgPath == "" {
		p, err := config.FindConfig()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		*cfgPath = p
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 2
	}
	if *port != 0 {
		cfg.HTTP.Port = *port
	}

	logger.Init(cfg.Log.Level)
	defer logger.Sync()
	lg := logger.New("bootstrap")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry, cfg.Log.Level)
	if err != nil {
		lg.Error("telemetry_setup_failed", err, nil)
		return 1
	}
	defer func() {
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer scancel()
		if err := shutdown(sctx); err != nil {
			lg.Error("telemetry_shutdown_failed", err, nil)
		}
	}()

	err = run(ctx, *mode, cfg, *prefetch)
	switch {
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, err)
		return 2
	case err != nil:
		lg.Error("fatal", err, map[string]any{"mode": *mode})
		return 1
	}
	return 0
}

func run(ctx context.Context, mode string, cfg *config.Config, prefetch int) error {
	lg := logger.New("bootstrap")
	switch mode {
	case "api":
		lg.Info("service_started", map[string]any{"service": "api", "port": cfg.HTTP.Port})
		return api.Run(ctx, cfg)
	case "notification-subscriber":
		lg.Info("service_started", map[string]any{"service": "notification-subscriber"})
		return notify.Run(ctx, cfg, notify.Config{Prefetch: prefetch})
	case "migrate":
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := database.Migrate(ctx, pool); err != nil {
			return err
		}
		lg.Info("migrations_applied", nil)
		return nil
	default:
		return errUsage
	}
}
