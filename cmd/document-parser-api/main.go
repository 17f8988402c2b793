// Package main provides the document parser API server entrypoint.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/paultsoi1014/document-parser/internal/config"
	"github.com/paultsoi1014/document-parser/internal/convert"
	"github.com/paultsoi1014/document-parser/internal/observability"
	"github.com/paultsoi1014/document-parser/internal/parse"
	"github.com/paultsoi1014/document-parser/internal/vision"
)

func main() {
	// Load environment variables
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	// Load configuration
	cfgPath := os.Getenv("CONFIG_PATH")
	if len(os.Args) > 2 && os.Args[1] == "--config" {
		cfgPath = os.Args[2]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})

	logger.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("vision_model", cfg.Vision.Model).
		Msg("Starting document parser API")

	// Shared process-wide components: one converter stack, one vision client.
	pdfConverter := convert.NewPDFConverter(logger, cfg.Converter.PDFImagesBin)
	officeConverter := convert.NewOfficeConverter(logger, cfg.Converter.LibreOfficeBin)
	captioner := vision.NewClient(vision.Config{
		BaseURL: cfg.Vision.BaseURL,
		APIKey:  cfg.Vision.APIKey,
		Model:   cfg.Vision.Model,
		Timeout: cfg.Vision.RequestTimeout,
	})

	parser := parse.NewService(logger, pdfConverter, officeConverter, captioner, cfg.Vision.TaskPrompt)

	router := NewRouter(logger, cfg, parser)

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt or error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error().Err(err).Msg("Server error")
	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
		if err := srv.Close(); err != nil {
			logger.Error().Err(err).Msg("Forced shutdown failed")
		}
	}

	logger.Info().Msg("Server stopped")
}
