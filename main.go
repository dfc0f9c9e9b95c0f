package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/giygas/hemoterapia-api/config"
	"github.com/giygas/hemoterapia-api/data"
	"github.com/giygas/hemoterapia-api/handlers"
	"github.com/giygas/hemoterapia-api/health"
	"github.com/giygas/hemoterapia-api/logging"
	"github.com/giygas/hemoterapia-api/presenter"
	"github.com/giygas/hemoterapia-api/scheduler"
	"github.com/giygas/hemoterapia-api/server"
	"github.com/giygas/hemoterapia-api/transfusion"
	"github.com/giygas/hemoterapia-api/validation"
	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run())
}

// run wires and serves the API, returning the process exit code. Deferred
// cleanup always runs before main exits.
func run() int {
	loadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	loggingService := logging.InitLogger(logging.LoggerConfig{
		LogDir:         cfg.LogDir,
		Env:            cfg.Env,
		Level:          cfg.LogLevel,
		RetentionWeeks: cfg.LogRetentionWeeks,
		MaxFileSize:    cfg.MaxLogFileSize,
	})
	defer func() {
		if err := loggingService.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to close log file: %v\n", err)
		}
	}()

	logging.Info("Configuration loaded",
		"env", cfg.Env.String(),
		"address", cfg.Address,
		"port", cfg.Port,
		"log_level", cfg.LogLevel)

	stats := data.NewStatsContainer()
	stats.SetServerStartTime(time.Now())

	rateLimiter := server.NewRateLimiter(cfg.RateLimitRate, cfg.RateLimitCapacity)

	sched := scheduler.NewScheduler(stats, rateLimiter, loggingService)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		return 1
	}
	defer sched.Stop()

	handler := handlers.NewHTTPHandler(
		transfusion.NewEngine(),
		validation.NewSnapshotValidator(),
		presenter.New(),
		stats,
		health.NewHealthChecker(stats, sched),
	)

	srv := server.NewServer(cfg, handler, rateLimiter)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-quit:
	case err := <-serverErr:
		logging.Error("Server failed to start", "error", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Server shutdown failed", "error", err)
		return 1
	}
	return 0
}

// loadEnvFile reads .env from the working directory, then from the executable
// directory. A missing file is fine: the environment may already be set.
func loadEnvFile() {
	if err := godotenv.Load(); err == nil {
		return
	}

	ex, err := os.Executable()
	if err != nil {
		return
	}
	_ = godotenv.Load(filepath.Join(filepath.Dir(ex), ".env"))
}
