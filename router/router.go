// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/quickly-find/cliparse"
	"github.com/danielhkuo/quickly-find/handlers"
	"github.com/danielhkuo/quickly-find/middleware"
	"github.com/danielhkuo/quickly-find/voterindex"
)

func NewRouter(svc *voterindex.Service, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	voterHandler := handlers.NewVoterHandler(svc, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Typeahead (public)
	mux.HandleFunc("GET /voters/search", middleware.WithLogging(voterHandler.Search))

	// Index administration
	mux.HandleFunc("POST /voters/index/rebuild", middleware.WithLogging(voterHandler.Rebuild))
	mux.HandleFunc("GET /voters/index/stats", middleware.WithLogging(voterHandler.Stats))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-find API v1"))
	})

	return mux
}
