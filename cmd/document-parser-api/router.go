// Package main provides the API router setup.
package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/paultsoi1014/document-parser/cmd/document-parser-api/handlers"
	"github.com/paultsoi1014/document-parser/cmd/document-parser-api/middleware"
	"github.com/paultsoi1014/document-parser/internal/config"
)

// NewRouter creates the main API router with all routes configured.
func NewRouter(logger zerolog.Logger, cfg *config.Config, parser handlers.DocumentParser) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(chimiddleware.Timeout(cfg.Server.RequestTimeout))

	// Health check (unauthenticated)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"document-parser"}`))
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ready"}`))
	})

	parseHandler := handlers.NewParseHandler(logger, parser)

	r.Route("/parse", func(r chi.Router) {
		r.Post("/pdf", parseHandler.ParsePDF)
		r.Post("/image", parseHandler.ParseImage)
		r.Post("/doc_ppt", parseHandler.ParseDocPPT)
	})

	return r
}
