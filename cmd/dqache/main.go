// Command dqache runs the cache server: it loads configuration, opens the
// backing store, constructs the configured eviction policy, and serves the
// TCP cache protocol and the admin HTTP surface until interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/H2Owater425/dqache/internal/admin"
	"github.com/H2Owater425/dqache/internal/cache"
	"github.com/H2Owater425/dqache/internal/config"
	"github.com/H2Owater425/dqache/internal/logger"
	"github.com/H2Owater425/dqache/internal/metrics"
	"github.com/H2Owater425/dqache/internal/server"
	"github.com/H2Owater425/dqache/internal/storage"
)

const shutdownGrace = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "dqache:", err)
		os.Exit(1)
	}
}

func run() error {
	flags := config.Flags()
	if err := flags.Parse(os.Args[1:]); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	configPath, _ := flags.GetString("config")
	cfg, err := config.NewLoader().WithFile(configPath).WithEnv().WithFlags(flags).Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := newLogger(cfg)
	if cfg.Verbose {
		log.SetLevel(logger.LevelDebug)
	}

	store, err := storage.Open(cfg.Directory, log)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	policy, err := newPolicy(cfg, log)
	if err != nil {
		return fmt.Errorf("construct %s policy: %w", cfg.Model, err)
	}

	c := cache.New(cfg.Capacity, policy)

	reg := metrics.New(metrics.WithNamespace("dqache"), metrics.WithGoCollector())
	cacheMetrics := metrics.NewCache(reg)

	srv := server.New(c, store, cfg.Version, log, cacheMetrics)

	adminSrv := admin.New(reg, admin.WithAddress(cfg.AdminAddress), admin.WithLogger(log.Sub("admin")))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		errCh <- adminSrv.Start()
	}()
	go func() {
		errCh <- srv.ListenAndServe(ctx, fmt.Sprintf("%s:%d", cfg.Host, cfg.Port))
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return adminSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func newPolicy(cfg config.Config, log logger.ILogger) (cache.Policy, error) {
	switch cfg.Model {
	case config.ModelLRU:
		return cache.NewLRU(), nil
	case config.ModelLFU:
		return cache.NewLFU(), nil
	case config.ModelDQN:
		return cache.NewDQNRuntime(log)
	default:
		return nil, fmt.Errorf("unknown eviction policy %q", cfg.Model)
	}
}

func newLogger(cfg config.Config) logger.ILogger {
	if cfg.LogFormat == "json" {
		return newLevelLogger(logger.NewJSON(os.Stdout), cfg.LogLevel)
	}
	return newLevelLogger(logger.NewConsole(os.Stderr), cfg.LogLevel)
}

func newLevelLogger(log logger.ILogger, level string) logger.ILogger {
	log.SetLevel(logger.ParseLevel(level))
	return log
}
