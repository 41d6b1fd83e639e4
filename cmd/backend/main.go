package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"zip-drop/internal/server"
)

func main() {
	// A .env file is optional; real env vars win.
	_ = godotenv.Load()

	cfg, err := server.LoadConfig()
	if err != nil {
		os.Stderr.WriteString(err.Error())
		os.Exit(1)
	}

	logger := server.NewLogger(os.Stdout, server.ParseLogLevel(cfg.LogLevel), cfg.LogFormat == "json")

	// The demo token is allowed, but never silently.
	if cfg.UsingDefaultToken() {
		logger.Warn("API_BEARER_TOKEN not set, using the demo token; do not expose this instance", nil)
	}

	// Upload root is created on startup if absent.
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logger.Error("creating upload dir failed", map[string]any{"dir": cfg.UploadDir}, err)
		os.Exit(1)
	}

	srv := server.New(server.Config{
		Addr:          cfg.Addr,
		UploadDir:     cfg.UploadDir,
		Auth:          server.AuthConfig{Token: cfg.BearerToken},
		SanitizeNames: cfg.SanitizeNames,
		Logger:        logger,
	})

	// Start the HTTP server in a background goroutine so we can listen for
	// OS signals while it runs.
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting", map[string]any{"addr": cfg.Addr, "upload_dir": cfg.UploadDir})
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Block until either a shutdown signal is received or the server errors.
	select {
	case sig := <-sigCh:
		logger.Info("shutting down", map[string]any{"signal": sig.String()})
		// Give in-flight requests 5 seconds to finish.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", nil, err)
			os.Exit(1)
		}
		logger.Info("shutdown complete", nil)
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", nil, err)
			os.Exit(1)
		}
	}
}
