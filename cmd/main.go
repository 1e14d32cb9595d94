package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"taskforce/internal/config"
	router "taskforce/internal/http"
	"taskforce/internal/http/handlers"
	"taskforce/internal/logger"
	"taskforce/internal/service"
	"taskforce/internal/store/backend"
	"taskforce/internal/workerpool"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger initiation failed: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("taskforce stopped with error", "error", err)
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, log logger.Logger) error {
	store, err := backend.Open(cfg)
	if err != nil {
		return fmt.Errorf("store initiation failed: %w", err)
	}
	defer store.Close()

	pool := workerpool.New(cfg.PoolSize, store, log.With("component", "event_pool"))
	pool.Start(cfg.Workers)

	service, err := service.New(store, pool, log.With("component", "service"))
	if err != nil {
		return fmt.Errorf("service initiation failed: %w", err)
	}

	handler := handlers.New(service, log.With("component", "http"))

	router := router.New(handler, log.With("component", "http"))

	server := &http.Server{
		Addr:    cfg.HTTPPort,
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.HTTPPort, "store", cfg.Store)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
		log.Info("shut down signal received")
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	if err := pool.Shutdown(ctx); err != nil {
		return fmt.Errorf("event pool drain failed: %w", err)
	}

	log.Info("shut down gracefully")
	return nil
}
