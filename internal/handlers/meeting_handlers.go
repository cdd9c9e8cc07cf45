// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gemmarket/meeting-service/internal/domain"
	"github.com/gemmarket/meeting-service/internal/domain/models"
	"github.com/gemmarket/meeting-service/internal/middleware"
	"github.com/gemmarket/meeting-service/internal/service"
)

// MeetingHandler exposes the meeting lifecycle over HTTP. Actor identity
// always comes from the verified principal, never from the request body.
type MeetingHandler struct {
	meetingService *service.MeetingService
}

// NewMeetingHandler creates a new MeetingHandler.
func NewMeetingHandler(meetingService *service.MeetingService) *MeetingHandler {
	return &MeetingHandler{meetingService: meetingService}
}

// HandlerReady checks if the handler's services are ready.
func (h *MeetingHandler) HandlerReady() bool {
	return h.meetingService.ServiceReady()
}

// ProposeMeeting handles POST /meetings.
func (h *MeetingHandler) ProposeMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.ProposeMeetingRequest
	if err := decode(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	req.BuyerUID = middleware.PrincipalFromContext(ctx).UID

	meeting, err := h.meetingService.ProposeMeeting(ctx, &req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeData(ctx, w, http.StatusCreated, meeting)
}

// ConfirmMeeting handles PUT /meetings/{uid}/confirm.
func (h *MeetingHandler) ConfirmMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.ConfirmMeetingRequest
	if err := decode(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	req.MeetingUID = chi.URLParam(r, "uid")
	req.SellerUID = middleware.PrincipalFromContext(ctx).UID

	meeting, err := h.meetingService.ConfirmMeeting(ctx, &req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeData(ctx, w, http.StatusOK, meeting)
}

// RescheduleMeeting handles PUT /meetings/{uid}/reschedule.
func (h *MeetingHandler) RescheduleMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.RescheduleMeetingRequest
	if err := decode(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	req.MeetingUID = chi.URLParam(r, "uid")
	req.RequesterUID = middleware.PrincipalFromContext(ctx).UID

	meeting, err := h.meetingService.RescheduleMeeting(ctx, &req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeData(ctx, w, http.StatusOK, meeting)
}

// CancelMeeting handles PUT /meetings/{uid}/cancel.
func (h *MeetingHandler) CancelMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.CancelMeetingRequest
	if err := decode(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	req.MeetingUID = chi.URLParam(r, "uid")
	req.RequesterUID = middleware.PrincipalFromContext(ctx).UID

	meeting, err := h.meetingService.CancelMeeting(ctx, &req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeData(ctx, w, http.StatusOK, meeting)
}

// CompleteMeeting handles PUT /meetings/{uid}/complete.
func (h *MeetingHandler) CompleteMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	meetingUID := chi.URLParam(r, "uid")
	requesterUID := middleware.PrincipalFromContext(ctx).UID

	meeting, err := h.meetingService.CompleteMeeting(ctx, meetingUID, requesterUID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeData(ctx, w, http.StatusOK, meeting)
}

// GetMeeting handles GET /meetings/{uid}.
func (h *MeetingHandler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	meeting, err := h.meetingService.GetMeeting(ctx, chi.URLParam(r, "uid"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeData(ctx, w, http.StatusOK, meeting)
}

// ListUserMeetings handles GET /meetings/user/{userUID}.
func (h *MeetingHandler) ListUserMeetings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userUID := chi.URLParam(r, "userUID")
	if userUID == "" {
		writeError(ctx, w, domain.NewValidationError("user UID is required"))
		return
	}

	meetings, err := h.meetingService.ListUserMeetings(ctx, userUID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	slog.DebugContext(ctx, "listed user meetings",
		slog.String("user_uid", userUID), slog.Int("count", len(meetings)))

	writeData(ctx, w, http.StatusOK, meetings)
}
