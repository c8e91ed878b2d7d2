// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/quickly-find/auth"
	"github.com/danielhkuo/quickly-find/cliparse"
	"github.com/danielhkuo/quickly-find/middleware"
	"github.com/danielhkuo/quickly-find/models"
	"github.com/danielhkuo/quickly-find/voterindex"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 100
)

type VoterHandler struct {
	svc *voterindex.Service
	cfg cliparse.Config
}

func NewVoterHandler(svc *voterindex.Service, cfg cliparse.Config) *VoterHandler {
	return &VoterHandler{svc: svc, cfg: cfg}
}

// Search handles GET /voters/search?q=&limit=
func (h *VoterHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxSearchLimit)
	}

	results := h.svc.Search(r.Context(), query, limit)

	middleware.JSONResponse(w, http.StatusOK, models.SearchResponse{
		Query:   query,
		Results: results,
	})
}

// Rebuild handles POST /voters/index/rebuild
func (h *VoterHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(auth.IndexAdminScope, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	// A client hanging up must not abandon a half-built index
	ctx := context.WithoutCancel(r.Context())

	slog.Info("voter index rebuild requested", "request_id", middleware.RequestID(ctx))
	status := h.svc.Rebuild(ctx)

	code := http.StatusOK
	if status.Status != models.StatusSuccess {
		code = http.StatusInternalServerError
	}
	middleware.JSONResponse(w, code, status)
}

// Stats handles GET /voters/index/stats
func (h *VoterHandler) Stats(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.svc.Stats())
}
