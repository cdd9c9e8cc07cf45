// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"

	"github.com/gemmarket/meeting-service/internal/domain"
	"github.com/gemmarket/meeting-service/internal/domain/models"
	"github.com/gemmarket/meeting-service/internal/logging"
	"github.com/gemmarket/meeting-service/pkg/concurrent"
	"github.com/gemmarket/meeting-service/pkg/utils"
)

// ReminderService periodically sweeps confirmed meetings and publishes a
// reminder to both parties once the meeting enters the reminder lead window.
// The ReminderSentAt stamp is written under a revision guard so concurrent
// sweeps remind at most once.
type ReminderService struct {
	MeetingRepository  domain.MeetingRepository
	UserRepository     domain.UserRepository
	NotificationSender domain.MeetingNotificationSender
	EmailService       domain.EmailService
	Clock              domain.Clock
	Policy             PenaltyPolicy
}

// NewReminderService creates a new ReminderService.
func NewReminderService(
	meetingRepository domain.MeetingRepository,
	userRepository domain.UserRepository,
	notificationSender domain.MeetingNotificationSender,
	emailService domain.EmailService,
	clock domain.Clock,
	policy PenaltyPolicy,
) *ReminderService {
	return &ReminderService{
		MeetingRepository:  meetingRepository,
		UserRepository:     userRepository,
		NotificationSender: notificationSender,
		EmailService:       emailService,
		Clock:              clock,
		Policy:             policy,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *ReminderService) ServiceReady() bool {
	return s.MeetingRepository != nil &&
		s.UserRepository != nil &&
		s.NotificationSender != nil &&
		s.EmailService != nil &&
		s.Clock != nil
}

// SweepDueReminders looks for confirmed meetings starting within the
// reminder lead window that have not been reminded yet, stamps them, and
// notifies both parties. Returns the number of meetings reminded.
func (s *ReminderService) SweepDueReminders(ctx context.Context) (int, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return 0, domain.NewUnavailableError("reminder service is not ready")
	}

	meetings, err := s.MeetingRepository.ListByStatus(ctx, models.MeetingStatusConfirmed)
	if err != nil {
		return 0, err
	}

	now := s.Clock.Now()
	windowEnd := now.Add(s.Policy.ReminderLeadTime)

	reminded := 0
	for _, meeting := range meetings {
		if meeting.ReminderSentAt != nil || meeting.ConfirmedStartTime == nil {
			continue
		}
		if meeting.ConfirmedStartTime.Before(now) || meeting.ConfirmedStartTime.After(windowEnd) {
			continue
		}

		if err := s.remind(ctx, meeting.UID); err != nil {
			slog.WarnContext(ctx, "failed to send meeting reminder, skipping",
				"meeting_uid", meeting.UID, logging.ErrKey, err)
			continue
		}
		reminded++
	}

	if reminded > 0 {
		slog.InfoContext(ctx, "reminder sweep finished", "reminded", reminded)
	}
	return reminded, nil
}

// remind stamps one meeting and dispatches the reminders. The stamp happens
// before the sends: a crashed sweep loses at most one reminder rather than
// duplicating it.
func (s *ReminderService) remind(ctx context.Context, meetingUID string) error {
	meeting, revision, err := s.MeetingRepository.GetWithRevision(ctx, meetingUID)
	if err != nil {
		return err
	}
	if meeting.ReminderSentAt != nil || meeting.Status != models.MeetingStatusConfirmed {
		return nil
	}

	now := s.Clock.Now()
	meeting.ReminderSentAt = utils.TimePtr(now)
	meeting.UpdatedAt = utils.TimePtr(now)
	if err := s.MeetingRepository.Update(ctx, meeting, revision); err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeConflict {
			// Another sweep got there first.
			return nil
		}
		return err
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meeting.UID))

	notifications := []func() error{}
	for _, userUID := range []string{meeting.BuyerUID, meeting.SellerUID} {
		notifications = append(notifications, func() error {
			return s.NotificationSender.SendMeetingReminder(ctx, models.MeetingReminderNotification{
				MeetingUID:   meeting.UID,
				RecipientUID: userUID,
				StartTime:    *meeting.ConfirmedStartTime,
				Location:     meeting.Location,
			})
		})
		notifications = append(notifications, func() error {
			user, err := s.UserRepository.Get(ctx, userUID)
			if err != nil {
				return err
			}
			if user.Email == "" {
				return nil
			}
			return s.EmailService.SendMeetingReminder(ctx, domain.EmailMeetingReminder{
				RecipientEmail: user.Email,
				RecipientName:  user.Name,
				MeetingTime:    *meeting.ConfirmedStartTime,
				Location:       meeting.Location,
				MeetingType:    string(meeting.Type),
			})
		})
	}

	pool := concurrent.NewWorkerPool(2)
	for _, err := range pool.RunAll(ctx, notifications...) {
		slog.ErrorContext(ctx, "failed to dispatch meeting reminder", logging.ErrKey, err)
	}

	return nil
}
