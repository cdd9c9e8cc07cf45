// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gemmarket/meeting-service/internal/domain"
	"github.com/gemmarket/meeting-service/internal/domain/models"
	"github.com/gemmarket/meeting-service/internal/middleware"
	"github.com/gemmarket/meeting-service/internal/service"
)

// PenaltyHandler exposes the admin penalty operations over HTTP. Every
// endpoint here requires the admin role.
type PenaltyHandler struct {
	penaltyService *service.PenaltyService
}

// NewPenaltyHandler creates a new PenaltyHandler.
func NewPenaltyHandler(penaltyService *service.PenaltyService) *PenaltyHandler {
	return &PenaltyHandler{penaltyService: penaltyService}
}

// HandlerReady checks if the handler's services are ready.
func (h *PenaltyHandler) HandlerReady() bool {
	return h.penaltyService.ServiceReady()
}

// UnblockUser handles POST /admin/no-show/unblock-user.
func (h *PenaltyHandler) UnblockUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, err := requireAdmin(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req models.UnblockUserRequest
	if err := decode(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	req.AdminUID = principal.UID

	result, err := h.penaltyService.UnblockUser(ctx, &req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeData(ctx, w, http.StatusOK, result)
}

// ResetNoShowCount handles POST /admin/users/{uid}/reset-no-shows.
func (h *PenaltyHandler) ResetNoShowCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, err := requireAdmin(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req models.ResetNoShowCountRequest
	if err := decode(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	req.UserUID = chi.URLParam(r, "uid")
	req.AdminUID = principal.UID

	if err := h.penaltyService.ResetNoShowCount(ctx, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeMessage(ctx, w, http.StatusOK, "no-show count reset", nil)
}

// ListUsersWithStats handles GET /admin/users/with-no-show-stats.
func (h *PenaltyHandler) ListUsersWithStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := requireAdmin(ctx); err != nil {
		writeError(ctx, w, err)
		return
	}

	stats, err := h.penaltyService.ListUsersWithStats(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeData(ctx, w, http.StatusOK, stats)
}

// requireAdmin resolves the principal and rejects non-admin actors.
func requireAdmin(ctx context.Context) (middleware.Principal, error) {
	principal := middleware.PrincipalFromContext(ctx)
	if !principal.IsAdmin() {
		return principal, domain.NewForbiddenError("this operation requires the admin role")
	}
	return principal, nil
}
