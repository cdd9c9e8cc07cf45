// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/gemmarket/meeting-service/internal/middleware"
)

// NewRouter mounts the full REST surface of the service.
func NewRouter(
	meetingHandler *MeetingHandler,
	attendanceHandler *AttendanceHandler,
	penaltyHandler *PenaltyHandler,
	healthHandler *HealthHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RequestLoggerMiddleware())
	r.Use(middleware.PrincipalMiddleware())

	r.Route("/meetings", func(r chi.Router) {
		r.Post("/", meetingHandler.ProposeMeeting)
		r.Get("/{uid}", meetingHandler.GetMeeting)
		r.Put("/{uid}/confirm", meetingHandler.ConfirmMeeting)
		r.Put("/{uid}/reschedule", meetingHandler.RescheduleMeeting)
		r.Put("/{uid}/cancel", meetingHandler.CancelMeeting)
		r.Put("/{uid}/complete", meetingHandler.CompleteMeeting)
		r.Get("/user/{userUID}", meetingHandler.ListUserMeetings)

		r.Route("/admin/{uid}", func(r chi.Router) {
			r.Post("/mark-attendance", attendanceHandler.AdminMarkAttendance)
			r.Post("/review-absence-reason", attendanceHandler.ReviewAbsenceReason)
		})
	})

	r.Route("/no-show", func(r chi.Router) {
		r.Post("/mark-attendance", attendanceHandler.MarkAttendance)
		r.Post("/submit-reason", attendanceHandler.SubmitAbsenceReason)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/no-show/unblock-user", penaltyHandler.UnblockUser)
		r.Post("/users/{uid}/reset-no-shows", penaltyHandler.ResetNoShowCount)
		r.Get("/users/with-no-show-stats", penaltyHandler.ListUsersWithStats)
	})

	r.Get("/livez", healthHandler.Livez)
	r.Get("/readyz", healthHandler.Readyz)

	return r
}
