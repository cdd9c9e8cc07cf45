// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gemmarket/meeting-service/internal/domain/models"
	"github.com/gemmarket/meeting-service/internal/middleware"
	"github.com/gemmarket/meeting-service/internal/service"
)

// AttendanceHandler exposes attendance self-reporting, admin adjudication,
// and the absence-reason dispute flow over HTTP.
type AttendanceHandler struct {
	attendanceService *service.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendanceService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// HandlerReady checks if the handler's services are ready.
func (h *AttendanceHandler) HandlerReady() bool {
	return h.attendanceService.ServiceReady()
}

// MarkAttendance handles POST /no-show/mark-attendance.
func (h *AttendanceHandler) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.MarkAttendanceRequest
	if err := decode(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	req.ReporterUID = middleware.PrincipalFromContext(ctx).UID

	meeting, err := h.attendanceService.MarkAttendance(ctx, &req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeData(ctx, w, http.StatusOK, meeting)
}

// SubmitAbsenceReason handles POST /no-show/submit-reason.
func (h *AttendanceHandler) SubmitAbsenceReason(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.SubmitAbsenceReasonRequest
	if err := decode(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	req.UserUID = middleware.PrincipalFromContext(ctx).UID

	meeting, err := h.attendanceService.SubmitAbsenceReason(ctx, &req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeData(ctx, w, http.StatusOK, meeting)
}

// AdminMarkAttendance handles POST /meetings/admin/{uid}/mark-attendance.
func (h *AttendanceHandler) AdminMarkAttendance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, err := requireAdmin(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req models.AdminMarkAttendanceRequest
	if err := decode(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	req.MeetingUID = chi.URLParam(r, "uid")
	req.AdminUID = principal.UID

	meeting, err := h.attendanceService.AdminMarkAttendance(ctx, &req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeData(ctx, w, http.StatusOK, meeting)
}

// ReviewAbsenceReason handles POST /meetings/admin/{uid}/review-absence-reason.
// Re-reviewing an already-reviewed reason is not an error: the stored
// decision comes back with an informational message.
func (h *AttendanceHandler) ReviewAbsenceReason(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, err := requireAdmin(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req models.ReviewAbsenceReasonRequest
	if err := decode(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	req.MeetingUID = chi.URLParam(r, "uid")
	req.AdminUID = principal.UID

	result, err := h.attendanceService.ReviewAbsenceReason(ctx, &req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if result.AlreadyReviewed {
		writeMessage(ctx, w, http.StatusOK,
			"this absence reason was already reviewed; the original decision stands", result)
		return
	}

	writeData(ctx, w, http.StatusOK, result)
}
