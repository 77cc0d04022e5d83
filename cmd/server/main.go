package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/di"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/config"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	level := "info"
	if cfg.App.Debug {
		level = "debug"
	}
	if err := logger.Init(&logger.Config{
		Level:       level,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log := logger.Get()
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := di.NewContainer(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.Close(shutdownCtx); err != nil {
			log.Error("shutdown cleanup failed", zap.Error(err))
		}
	}()

	// Cross-instance flag reload fanout and the exit sweeper run for
	// the lifetime of the process.
	go container.Subscriber.Start(ctx)
	container.Sweeper.Start(ctx)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      container.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.App.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
