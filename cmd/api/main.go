package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/markdave123-py/bharathi/internal/app"
	"github.com/markdave123-py/bharathi/internal/config"
	"github.com/markdave123-py/bharathi/internal/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		<-c
		cancel()
	}()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	lg, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	application, err := app.NewApp(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("startup failed", zap.Error(err))
	}
	defer application.Close()

	application.Service.Start(ctx, cfg.IngestWorkers)

	errCh := make(chan error, 1)
	go func() { errCh <- application.Server.Start() }()

	lg.Info("bharathi is running; DB connected and bootstrapped", zap.Int("workers", cfg.IngestWorkers))

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			lg.Error("server error", zap.Error(err))
		}
	}

	lg.Info("shutting down...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer shutdownCancel()
	if err := application.Server.Shutdown(shutdownCtx); err != nil {
		lg.Warn("http shutdown", zap.Error(err))
	}
	// queued ingestions still hold the DB; Close runs after they finish
	if err := application.Service.Wait(shutdownCtx); err != nil {
		lg.Warn("ingest workers did not finish", zap.Error(err))
	}
}
