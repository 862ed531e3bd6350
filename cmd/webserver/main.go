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

	"duoquiz"

	"github.com/gin-gonic/gin"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := duoquiz.LoadConfig()
	if err != nil {
		return err
	}

	logger, err := duoquiz.NewLogger(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	if cfg.OpenAIAPIKey == "" {
		return errors.New("OPENAI_API_KEY environment variable is required")
	}
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is required")
	}
	if cfg.SessionSecret == "" {
		logger.Warn("SESSION_SECRET not set, using the JWT secret for session cookies")
		cfg.SessionSecret = cfg.JWTSecret
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := cfg.OpenStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.StoreDriver, err)
	}
	defer store.Close(context.Background())
	logger.Info("document store ready", "driver", cfg.StoreDriver)

	events, err := cfg.OpenPublisher()
	if err != nil {
		return err
	}
	defer events.Close()
	if cfg.RabbitMQURI == "" {
		logger.Info("RabbitMQ not configured, events will not be published")
	}

	server := NewServer(ServerDeps{
		Store:         store,
		Oracle:        cfg.Oracle(),
		Events:        events,
		Logger:        logger,
		JWTSecret:     cfg.JWTSecret,
		SessionSecret: cfg.SessionSecret,
		TranscriptDir: cfg.TranscriptDir,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Router(cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
