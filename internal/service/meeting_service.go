// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gemmarket/meeting-service/internal/domain"
	"github.com/gemmarket/meeting-service/internal/domain/models"
	"github.com/gemmarket/meeting-service/internal/logging"
	"github.com/gemmarket/meeting-service/pkg/concurrent"
	"github.com/gemmarket/meeting-service/pkg/utils"
)

// MeetingService is the meeting lifecycle engine: proposal, confirmation,
// reschedule, cancellation, and completion. Every transition is a
// revision-guarded write; a racing writer surfaces as a Conflict error the
// caller resolves by re-reading.
type MeetingService struct {
	MeetingRepository  domain.MeetingRepository
	UserRepository     domain.UserRepository
	NotificationSender domain.MeetingNotificationSender
	Clock              domain.Clock
	Policy             PenaltyPolicy
}

// NewMeetingService creates a new MeetingService.
func NewMeetingService(
	meetingRepository domain.MeetingRepository,
	userRepository domain.UserRepository,
	notificationSender domain.MeetingNotificationSender,
	clock domain.Clock,
	policy PenaltyPolicy,
) *MeetingService {
	return &MeetingService{
		MeetingRepository:  meetingRepository,
		UserRepository:     userRepository,
		NotificationSender: notificationSender,
		Clock:              clock,
		Policy:             policy,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *MeetingService) ServiceReady() bool {
	return s.MeetingRepository != nil &&
		s.UserRepository != nil &&
		s.NotificationSender != nil &&
		s.Clock != nil
}

func (s *MeetingService) validateProposeMeetingRequest(ctx context.Context, req *models.ProposeMeetingRequest) error {
	if req.PurchaseUID == "" || req.BuyerUID == "" || req.SellerUID == "" {
		return domain.NewValidationError("purchase_uid, buyer_uid and seller_uid are required")
	}
	if req.BuyerUID == req.SellerUID {
		return domain.NewValidationError("buyer and seller must be different users")
	}
	if !models.ValidMeetingType(req.Type) {
		return domain.NewValidationError(fmt.Sprintf("unsupported meeting type '%s'", req.Type))
	}
	if !req.ProposedStartTime.After(s.Clock.Now()) {
		slog.WarnContext(ctx, "proposed start time is not in the future",
			"proposed_start_time", req.ProposedStartTime)
		return domain.NewValidationError("proposed start time must be in the future")
	}
	return nil
}

// ProposeMeeting creates a new PENDING meeting for a purchase. At most one
// non-terminal meeting may exist per purchase, enforced by an exclusive
// per-purchase claim key taken before the meeting is created.
func (s *MeetingService) ProposeMeeting(ctx context.Context, req *models.ProposeMeetingRequest) (*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("meeting service is not ready")
	}

	if err := s.validateProposeMeetingRequest(ctx, req); err != nil {
		return nil, err
	}

	buyer, err := s.UserRepository.Get(ctx, req.BuyerUID)
	if err != nil {
		return nil, err
	}
	if _, err := s.UserRepository.Get(ctx, req.SellerUID); err != nil {
		return nil, err
	}

	if buyer.AccountStatus == models.AccountStatusBlocked {
		return nil, domain.NewForbiddenError("account is blocked and cannot propose meetings")
	}

	now := s.Clock.Now()
	meeting := &models.Meeting{
		UID:               uuid.New().String(),
		PurchaseUID:       req.PurchaseUID,
		BuyerUID:          req.BuyerUID,
		SellerUID:         req.SellerUID,
		ProposedStartTime: req.ProposedStartTime.UTC(),
		Location:          req.Location,
		Type:              req.Type,
		Status:            models.MeetingStatusPending,
		BuyerNotes:        req.BuyerNotes,
		CreatedAt:         utils.TimePtr(now),
		UpdatedAt:         utils.TimePtr(now),
	}

	if err := s.claimPurchase(ctx, req.PurchaseUID, meeting.UID); err != nil {
		return nil, err
	}

	if err := s.MeetingRepository.Create(ctx, meeting); err != nil {
		if releaseErr := s.MeetingRepository.ReleasePurchase(ctx, req.PurchaseUID); releaseErr != nil {
			slog.ErrorContext(ctx, "failed to release purchase claim after create failure",
				logging.ErrKey, releaseErr, "purchase_uid", req.PurchaseUID)
		}
		return nil, err
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meeting.UID))
	slog.InfoContext(ctx, "meeting proposed", "purchase_uid", meeting.PurchaseUID)

	s.notify(ctx, func() error {
		return s.NotificationSender.SendMeetingProposed(ctx, models.MeetingNotification{
			MeetingUID:   meeting.UID,
			PurchaseUID:  meeting.PurchaseUID,
			RecipientUID: meeting.SellerUID,
			ActorUID:     meeting.BuyerUID,
			Status:       meeting.Status,
			StartTime:    utils.TimePtr(meeting.ProposedStartTime),
			Location:     meeting.Location,
			Notes:        meeting.BuyerNotes,
			Tags:         meeting.Tags(),
		})
	})

	return meeting, nil
}

// claimPurchase takes the exclusive active-meeting slot for the purchase. A
// held slot normally means an active meeting exists; a slot left behind by
// a failed release is detected by checking the stored meetings and
// reclaimed.
func (s *MeetingService) claimPurchase(ctx context.Context, purchaseUID, meetingUID string) error {
	err := s.MeetingRepository.ClaimPurchase(ctx, purchaseUID, meetingUID)
	if err == nil {
		return nil
	}
	if domain.GetErrorType(err) != domain.ErrorTypeConflict {
		return err
	}

	existing, err := s.MeetingRepository.ListByPurchase(ctx, purchaseUID)
	if err != nil {
		return err
	}
	for _, meeting := range existing {
		if !meeting.Status.IsTerminal() {
			return domain.NewValidationError(
				fmt.Sprintf("purchase '%s' already has an active meeting", purchaseUID))
		}
	}

	// Every stored meeting is terminal, so the claim is stale. Reclaim it;
	// a second Conflict means another proposal got there first.
	if err := s.MeetingRepository.ReleasePurchase(ctx, purchaseUID); err != nil {
		return err
	}
	if err := s.MeetingRepository.ClaimPurchase(ctx, purchaseUID, meetingUID); err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeConflict {
			return domain.NewValidationError(
				fmt.Sprintf("purchase '%s' already has an active meeting", purchaseUID))
		}
		return err
	}
	return nil
}

// releasePurchase frees the purchase claim after a terminal transition. The
// transition itself is already durable, so a failed release is only logged;
// the next proposal for the purchase reclaims the stale slot.
func (s *MeetingService) releasePurchase(ctx context.Context, purchaseUID string) {
	if err := s.MeetingRepository.ReleasePurchase(ctx, purchaseUID); err != nil {
		slog.WarnContext(ctx, "failed to release purchase claim",
			logging.ErrKey, err, "purchase_uid", purchaseUID)
	}
}

// ConfirmMeeting transitions a confirmable meeting to CONFIRMED. Only the
// meeting's seller may confirm, and the seller never alters the date: the
// proposed time becomes the confirmed time.
func (s *MeetingService) ConfirmMeeting(ctx context.Context, req *models.ConfirmMeetingRequest) (*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("meeting service is not ready")
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", req.MeetingUID))

	meeting, revision, err := s.MeetingRepository.GetWithRevision(ctx, req.MeetingUID)
	if err != nil {
		return nil, err
	}

	if meeting.SellerUID != req.SellerUID {
		return nil, domain.NewForbiddenError("only the meeting's seller can confirm")
	}
	if !meeting.Status.IsConfirmable() {
		return nil, domain.NewConflictError(
			fmt.Sprintf("meeting cannot be confirmed from status %s, please refresh", meeting.Status))
	}

	now := s.Clock.Now()
	meeting.Status = models.MeetingStatusConfirmed
	meeting.ConfirmedStartTime = utils.TimePtr(meeting.ProposedStartTime)
	if req.SellerNotes != "" {
		meeting.SellerNotes = req.SellerNotes
	}
	meeting.UpdatedAt = utils.TimePtr(now)

	if err := s.MeetingRepository.Update(ctx, meeting, revision); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "meeting confirmed", "confirmed_start_time", meeting.ConfirmedStartTime)

	s.notify(ctx, func() error {
		return s.NotificationSender.SendMeetingConfirmed(ctx, models.MeetingNotification{
			MeetingUID:   meeting.UID,
			PurchaseUID:  meeting.PurchaseUID,
			RecipientUID: meeting.BuyerUID,
			ActorUID:     meeting.SellerUID,
			Status:       meeting.Status,
			StartTime:    meeting.ConfirmedStartTime,
			Location:     meeting.Location,
			Notes:        meeting.SellerNotes,
			Tags:         meeting.Tags(),
		})
	})

	return meeting, nil
}

// RescheduleMeeting moves an active meeting to a new proposed time and back
// into a confirmable state. Either party may reschedule.
func (s *MeetingService) RescheduleMeeting(ctx context.Context, req *models.RescheduleMeetingRequest) (*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("meeting service is not ready")
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", req.MeetingUID))

	now := s.Clock.Now()
	if !req.NewStartTime.After(now) {
		return nil, domain.NewValidationError("new start time must be in the future")
	}
	if s.Policy.RescheduleWindowDays > 0 {
		windowEnd := now.AddDate(0, 0, s.Policy.RescheduleWindowDays)
		if req.NewStartTime.After(windowEnd) {
			return nil, domain.NewValidationError(
				fmt.Sprintf("new start time must be within %d days", s.Policy.RescheduleWindowDays))
		}
	}

	meeting, revision, err := s.MeetingRepository.GetWithRevision(ctx, req.MeetingUID)
	if err != nil {
		return nil, err
	}

	party, ok := meeting.PartyOf(req.RequesterUID)
	if !ok {
		return nil, domain.NewForbiddenError("requester is not a party to this meeting")
	}
	if meeting.Status.IsTerminal() {
		return nil, domain.NewConflictError(
			fmt.Sprintf("meeting cannot be rescheduled from status %s, please refresh", meeting.Status))
	}

	meeting.Status = models.MeetingStatusRescheduled
	meeting.ProposedStartTime = req.NewStartTime.UTC()
	meeting.ConfirmedStartTime = nil
	if req.Notes != "" {
		if party == models.PartyBuyer {
			meeting.BuyerNotes = req.Notes
		} else {
			meeting.SellerNotes = req.Notes
		}
	}
	meeting.UpdatedAt = utils.TimePtr(now)

	if err := s.MeetingRepository.Update(ctx, meeting, revision); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "meeting rescheduled",
		"proposed_start_time", meeting.ProposedStartTime, "requested_by", string(party))

	other := party.Other()
	s.notify(ctx, func() error {
		return s.NotificationSender.SendMeetingRescheduled(ctx, models.MeetingNotification{
			MeetingUID:   meeting.UID,
			PurchaseUID:  meeting.PurchaseUID,
			RecipientUID: meeting.PartyUID(other),
			ActorUID:     req.RequesterUID,
			Status:       meeting.Status,
			StartTime:    utils.TimePtr(meeting.ProposedStartTime),
			Location:     meeting.Location,
			Notes:        req.Notes,
			Tags:         meeting.Tags(),
		})
	})

	return meeting, nil
}

// CancelMeeting terminally cancels an active meeting. Either party may
// cancel. A cancellation that commits before a racing confirm wins: the
// confirm then fails its revision check.
func (s *MeetingService) CancelMeeting(ctx context.Context, req *models.CancelMeetingRequest) (*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("meeting service is not ready")
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", req.MeetingUID))

	meeting, revision, err := s.MeetingRepository.GetWithRevision(ctx, req.MeetingUID)
	if err != nil {
		return nil, err
	}

	party, ok := meeting.PartyOf(req.RequesterUID)
	if !ok {
		return nil, domain.NewForbiddenError("requester is not a party to this meeting")
	}
	if meeting.Status.IsTerminal() {
		return nil, domain.NewConflictError(
			fmt.Sprintf("meeting cannot be cancelled from status %s, please refresh", meeting.Status))
	}

	meeting.Status = models.MeetingStatusCancelled
	meeting.ConfirmedStartTime = nil
	meeting.UpdatedAt = utils.TimePtr(s.Clock.Now())

	if err := s.MeetingRepository.Update(ctx, meeting, revision); err != nil {
		return nil, err
	}

	s.releasePurchase(ctx, meeting.PurchaseUID)

	slog.InfoContext(ctx, "meeting cancelled", "cancelled_by", string(party), "reason", req.Reason)

	other := party.Other()
	s.notify(ctx, func() error {
		return s.NotificationSender.SendMeetingCancelled(ctx, models.MeetingNotification{
			MeetingUID:   meeting.UID,
			PurchaseUID:  meeting.PurchaseUID,
			RecipientUID: meeting.PartyUID(other),
			ActorUID:     req.RequesterUID,
			Status:       meeting.Status,
			Notes:        req.Reason,
			Tags:         meeting.Tags(),
		})
	})

	return meeting, nil
}

// CompleteMeeting marks a confirmed meeting as COMPLETED once its confirmed
// time has elapsed. Either party may complete.
func (s *MeetingService) CompleteMeeting(ctx context.Context, meetingUID, requesterUID string) (*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("meeting service is not ready")
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	meeting, revision, err := s.MeetingRepository.GetWithRevision(ctx, meetingUID)
	if err != nil {
		return nil, err
	}

	party, ok := meeting.PartyOf(requesterUID)
	if !ok {
		return nil, domain.NewForbiddenError("requester is not a party to this meeting")
	}
	if meeting.Status != models.MeetingStatusConfirmed || meeting.ConfirmedStartTime == nil {
		return nil, domain.NewConflictError(
			fmt.Sprintf("meeting cannot be completed from status %s, please refresh", meeting.Status))
	}
	if s.Clock.Now().Before(*meeting.ConfirmedStartTime) {
		return nil, domain.NewTooEarlyError("meeting cannot be completed before its confirmed start time")
	}

	meeting.Status = models.MeetingStatusCompleted
	meeting.UpdatedAt = utils.TimePtr(s.Clock.Now())

	if err := s.MeetingRepository.Update(ctx, meeting, revision); err != nil {
		return nil, err
	}

	s.releasePurchase(ctx, meeting.PurchaseUID)

	slog.InfoContext(ctx, "meeting completed", "completed_by", string(party))

	other := party.Other()
	s.notify(ctx, func() error {
		return s.NotificationSender.SendMeetingCompleted(ctx, models.MeetingNotification{
			MeetingUID:   meeting.UID,
			PurchaseUID:  meeting.PurchaseUID,
			RecipientUID: meeting.PartyUID(other),
			ActorUID:     requesterUID,
			Status:       meeting.Status,
			StartTime:    meeting.ConfirmedStartTime,
			Tags:         meeting.Tags(),
		})
	})

	return meeting, nil
}

// GetMeeting fetches a meeting by UID.
func (s *MeetingService) GetMeeting(ctx context.Context, meetingUID string) (*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("meeting service is not ready")
	}

	return s.MeetingRepository.Get(ctx, meetingUID)
}

// ListUserMeetings lists all meetings where the user is buyer or seller.
func (s *MeetingService) ListUserMeetings(ctx context.Context, userUID string) ([]*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("meeting service is not ready")
	}

	return s.MeetingRepository.ListByUser(ctx, userUID)
}

// notify dispatches notification sends fire-and-forget through a worker
// pool. Failures are logged, never propagated into the triggering
// transaction.
func (s *MeetingService) notify(ctx context.Context, functions ...func() error) {
	pool := concurrent.NewWorkerPool(len(functions))
	for _, err := range pool.RunAll(ctx, functions...) {
		slog.ErrorContext(ctx, "failed to send meeting notification", logging.ErrKey, err)
	}
}
