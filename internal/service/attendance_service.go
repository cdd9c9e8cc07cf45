// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gemmarket/meeting-service/internal/domain"
	"github.com/gemmarket/meeting-service/internal/domain/models"
	"github.com/gemmarket/meeting-service/internal/logging"
	"github.com/gemmarket/meeting-service/pkg/utils"
)

// AttendanceService is the attendance and no-show engine. Parties self-report
// attendance after the confirmed meeting time; only the admin adjudication is
// authoritative and drives the penalty engine.
type AttendanceService struct {
	MeetingRepository domain.MeetingRepository
	PenaltyRecorder   domain.PenaltyRecorder
	Clock             domain.Clock
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(
	meetingRepository domain.MeetingRepository,
	penaltyRecorder domain.PenaltyRecorder,
	clock domain.Clock,
) *AttendanceService {
	return &AttendanceService{
		MeetingRepository: meetingRepository,
		PenaltyRecorder:   penaltyRecorder,
		Clock:             clock,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *AttendanceService) ServiceReady() bool {
	return s.MeetingRepository != nil &&
		s.PenaltyRecorder != nil &&
		s.Clock != nil
}

// attendanceWindowOpen verifies the meeting has a confirmed time that has
// already passed. Attendance facts are meaningless before then.
func (s *AttendanceService) attendanceWindowOpen(meeting *models.Meeting) error {
	switch meeting.Status {
	case models.MeetingStatusConfirmed, models.MeetingStatusCompleted, models.MeetingStatusNoShowRecorded:
	default:
		return domain.NewConflictError(
			fmt.Sprintf("attendance cannot be reported for a meeting in status %s", meeting.Status))
	}
	if meeting.ConfirmedStartTime == nil {
		return domain.NewConflictError("meeting has no confirmed start time")
	}
	if s.Clock.Now().Before(*meeting.ConfirmedStartTime) {
		return domain.NewTooEarlyError("attendance cannot be reported before the confirmed meeting time")
	}
	return nil
}

// MarkAttendance records a party's advisory attendance report. The reporter
// must be a party to the meeting; the reported party comes from the request
// but the reporter's membership is what authorizes the write.
func (s *AttendanceService) MarkAttendance(ctx context.Context, req *models.MarkAttendanceRequest) (*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("attendance service is not ready")
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", req.MeetingUID))

	if req.Party != models.PartyBuyer && req.Party != models.PartySeller {
		return nil, domain.NewValidationError(fmt.Sprintf("unknown party '%s'", req.Party))
	}

	meeting, revision, err := s.MeetingRepository.GetWithRevision(ctx, req.MeetingUID)
	if err != nil {
		return nil, err
	}

	reporterParty, ok := meeting.PartyOf(req.ReporterUID)
	if !ok {
		return nil, domain.NewForbiddenError("reporter is not a party to this meeting")
	}
	if err := s.attendanceWindowOpen(meeting); err != nil {
		return nil, err
	}
	if meeting.Attendance.AdminVerified {
		return nil, domain.NewConflictError("attendance has already been verified by an admin")
	}

	attended := req.Attended
	if req.Party == models.PartyBuyer {
		meeting.Attendance.BuyerAttended = &attended
	} else {
		meeting.Attendance.SellerAttended = &attended
	}

	// A reporter marking their own absence may attach the reason in the same
	// call instead of a separate submission.
	if !attended && req.Reason != "" && req.Party == reporterParty &&
		meeting.Attendance.AbsenceReasonFor(req.Party) == "" {
		s.setAbsenceReason(meeting, req.Party, req.Reason)
	}

	meeting.UpdatedAt = utils.TimePtr(s.Clock.Now())

	if err := s.MeetingRepository.Update(ctx, meeting, revision); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "attendance marked",
		"reported_by", string(reporterParty), "party", string(req.Party), "attended", attended)

	return meeting, nil
}

// AdminMarkAttendance is the authoritative adjudication of both parties'
// attendance. Penalties are recorded for each absent party before the
// meeting status advances, so a failed counter mutation never leaves the
// status ahead of the counters. A meeting is adjudicated at most once;
// repeat calls fail with an AlreadyProcessed error.
func (s *AttendanceService) AdminMarkAttendance(ctx context.Context, req *models.AdminMarkAttendanceRequest) (*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("attendance service is not ready")
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", req.MeetingUID))

	meeting, revision, err := s.MeetingRepository.GetWithRevision(ctx, req.MeetingUID)
	if err != nil {
		return nil, err
	}

	if meeting.Attendance.AdminVerified {
		return nil, domain.NewAlreadyProcessedError("attendance has already been adjudicated for this meeting")
	}
	if meeting.Status != models.MeetingStatusConfirmed {
		return nil, domain.NewConflictError(
			fmt.Sprintf("attendance cannot be adjudicated for a meeting in status %s", meeting.Status))
	}
	if err := s.attendanceWindowOpen(meeting); err != nil {
		return nil, err
	}

	if !req.BuyerAttended {
		if err := s.PenaltyRecorder.RecordNoShow(ctx, meeting.BuyerUID, meeting.UID, models.PartyBuyer); err != nil {
			return nil, err
		}
	}
	if !req.SellerAttended {
		if err := s.PenaltyRecorder.RecordNoShow(ctx, meeting.SellerUID, meeting.UID, models.PartySeller); err != nil {
			return nil, err
		}
	}

	now := s.Clock.Now()
	meeting.Attendance.BuyerAttended = utils.BoolPtr(req.BuyerAttended)
	meeting.Attendance.SellerAttended = utils.BoolPtr(req.SellerAttended)
	meeting.Attendance.AdminVerified = true
	meeting.Attendance.AdminNotes = req.AdminNotes
	meeting.Attendance.VerifiedAt = utils.TimePtr(now)
	if req.BuyerAttended && req.SellerAttended {
		meeting.Status = models.MeetingStatusCompleted
	} else {
		meeting.Status = models.MeetingStatusNoShowRecorded
	}
	meeting.UpdatedAt = utils.TimePtr(now)

	if err := s.MeetingRepository.Update(ctx, meeting, revision); err != nil {
		return nil, err
	}

	// The meeting just went terminal; free the purchase slot so a new
	// meeting can be proposed. The adjudication is already durable, so a
	// failed release is only logged and heals on the next proposal.
	if err := s.MeetingRepository.ReleasePurchase(ctx, meeting.PurchaseUID); err != nil {
		slog.WarnContext(ctx, "failed to release purchase claim",
			logging.ErrKey, err, "purchase_uid", meeting.PurchaseUID)
	}

	slog.InfoContext(ctx, "attendance adjudicated",
		"admin_uid", req.AdminUID,
		"buyer_attended", req.BuyerAttended,
		"seller_attended", req.SellerAttended,
		"status", string(meeting.Status))

	return meeting, nil
}

// SubmitAbsenceReason stores a no-show party's justification for admin
// review. Allowed only when the submitter's own attendance is recorded as
// absent, and only once per party per meeting.
func (s *AttendanceService) SubmitAbsenceReason(ctx context.Context, req *models.SubmitAbsenceReasonRequest) (*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("attendance service is not ready")
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", req.MeetingUID))

	if req.Reason == "" {
		return nil, domain.NewValidationError("an absence reason is required")
	}

	meeting, revision, err := s.MeetingRepository.GetWithRevision(ctx, req.MeetingUID)
	if err != nil {
		return nil, err
	}

	party, ok := meeting.PartyOf(req.UserUID)
	if !ok {
		return nil, domain.NewForbiddenError("user is not a party to this meeting")
	}

	attended := meeting.Attendance.AttendedFor(party)
	if attended == nil || *attended {
		return nil, domain.NewValidationError("an absence reason can only be submitted for a recorded absence")
	}
	if meeting.Attendance.AbsenceReasonFor(party) != "" {
		return nil, domain.NewAlreadySubmittedError("an absence reason was already submitted for this meeting")
	}

	s.setAbsenceReason(meeting, party, req.Reason)
	meeting.UpdatedAt = utils.TimePtr(s.Clock.Now())

	if err := s.MeetingRepository.Update(ctx, meeting, revision); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "absence reason submitted", "party", string(party))

	return meeting, nil
}

// ReviewAbsenceReason is the admin's decision on a submitted absence reason.
// A second review of the same reason is an informational no-op. Acceptance
// triggers a penalty reversal; the reversal itself is idempotent, so a retry
// after a partial failure converges instead of double-reversing.
func (s *AttendanceService) ReviewAbsenceReason(ctx context.Context, req *models.ReviewAbsenceReasonRequest) (*models.ReviewAbsenceReasonResult, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("attendance service is not ready")
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", req.MeetingUID))
	ctx = logging.AppendCtx(ctx, slog.String("user_uid", req.UserUID))

	meeting, revision, err := s.MeetingRepository.GetWithRevision(ctx, req.MeetingUID)
	if err != nil {
		return nil, err
	}

	party, ok := meeting.PartyOf(req.UserUID)
	if !ok {
		return nil, domain.NewForbiddenError("user is not a party to this meeting")
	}
	if meeting.Attendance.AbsenceReasonFor(party) == "" {
		return nil, domain.NewNotFoundError("no absence reason was submitted for this user")
	}

	if prior := meeting.Attendance.ReasonAcceptedFor(party); prior != nil {
		// Already reviewed. If the stored decision was acceptance, re-run the
		// reversal: it is idempotent and heals a review whose reversal step
		// failed mid-way.
		if *prior {
			if err := s.PenaltyRecorder.ReverseNoShow(ctx, req.UserUID, meeting.UID); err != nil {
				return nil, err
			}
		}
		slog.InfoContext(ctx, "absence reason already reviewed", "accepted", *prior)
		return &models.ReviewAbsenceReasonResult{Accepted: *prior, AlreadyReviewed: true}, nil
	}

	accepted := req.Accepted
	if party == models.PartyBuyer {
		meeting.Attendance.BuyerReasonAccepted = &accepted
	} else {
		meeting.Attendance.SellerReasonAccepted = &accepted
	}
	if req.AdminNotes != "" {
		meeting.Attendance.AdminNotes = req.AdminNotes
	}
	meeting.UpdatedAt = utils.TimePtr(s.Clock.Now())

	if err := s.MeetingRepository.Update(ctx, meeting, revision); err != nil {
		return nil, err
	}

	if accepted {
		if err := s.PenaltyRecorder.ReverseNoShow(ctx, req.UserUID, meeting.UID); err != nil {
			// The review is already durable; the caller retries and lands in
			// the healing path above.
			slog.ErrorContext(ctx, "failed to reverse no-show after accepted reason",
				logging.ErrKey, err, logging.PriorityCritical())
			return nil, err
		}
	}

	slog.InfoContext(ctx, "absence reason reviewed", "admin_uid", req.AdminUID, "accepted", accepted)

	return &models.ReviewAbsenceReasonResult{Accepted: accepted}, nil
}

func (s *AttendanceService) setAbsenceReason(meeting *models.Meeting, party models.Party, reason string) {
	if party == models.PartyBuyer {
		meeting.Attendance.BuyerAbsenceReason = reason
	} else {
		meeting.Attendance.SellerAbsenceReason = reason
	}
}
