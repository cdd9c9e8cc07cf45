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
	"github.com/gemmarket/meeting-service/pkg/concurrent"
	"github.com/gemmarket/meeting-service/pkg/utils"
)

// PenaltyService is the account penalty engine. It owns the no-show counter
// and account status of every user: counter and status are recomputed
// together and written in a single revision-guarded update so they can never
// diverge. Recording is idempotent per (user, meeting) incident via an
// exclusive no-show record create.
type PenaltyService struct {
	UserRepository         domain.UserRepository
	NoShowRecordRepository domain.NoShowRecordRepository
	NotificationSender     domain.PenaltyNotificationSender
	EmailService           domain.EmailService
	Clock                  domain.Clock
	Policy                 PenaltyPolicy
}

// NewPenaltyService creates a new PenaltyService.
func NewPenaltyService(
	userRepository domain.UserRepository,
	noShowRecordRepository domain.NoShowRecordRepository,
	notificationSender domain.PenaltyNotificationSender,
	emailService domain.EmailService,
	clock domain.Clock,
	policy PenaltyPolicy,
) *PenaltyService {
	return &PenaltyService{
		UserRepository:         userRepository,
		NoShowRecordRepository: noShowRecordRepository,
		NotificationSender:     notificationSender,
		EmailService:           emailService,
		Clock:                  clock,
		Policy:                 policy,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *PenaltyService) ServiceReady() bool {
	return s.UserRepository != nil &&
		s.NoShowRecordRepository != nil &&
		s.NotificationSender != nil &&
		s.EmailService != nil &&
		s.Clock != nil
}

// statusForCount recomputes the account status a count maps to. Blocking
// fields are managed by the callers since only some transitions touch them.
func (s *PenaltyService) statusForCount(count int) models.AccountStatus {
	switch {
	case count >= s.Policy.BlockThreshold:
		return models.AccountStatusBlocked
	case count >= s.Policy.WarnThreshold:
		return models.AccountStatusWarned
	default:
		return models.AccountStatusActive
	}
}

// RecordNoShow records an adjudicated no-show against a user. Idempotent per
// (user, meeting): a second call for the same incident is a no-op. The
// counter increment and any threshold-driven status transition land in one
// write; if that write ultimately fails the dedup record is removed again so
// a retry can start clean.
func (s *PenaltyService) RecordNoShow(ctx context.Context, userUID, meetingUID string, party models.Party) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return domain.NewUnavailableError("penalty service is not ready")
	}

	ctx = logging.AppendCtx(ctx, slog.String("user_uid", userUID))
	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	now := s.Clock.Now()
	record := &models.NoShowRecord{
		UserUID:    userUID,
		MeetingUID: meetingUID,
		Party:      party,
		RecordedAt: now,
	}

	err := s.NoShowRecordRepository.Create(ctx, record)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeConflict {
			slog.InfoContext(ctx, "no-show already recorded for this meeting, skipping")
			return nil
		}
		return err
	}

	var notifyBlocked bool
	var newCount int
	err = s.mutateUser(ctx, userUID, func(user *models.User) {
		user.NoShowCount++
		user.LastNoShowAt = utils.TimePtr(now)

		newStatus := s.statusForCount(user.NoShowCount)
		if newStatus == models.AccountStatusBlocked && user.AccountStatus != models.AccountStatusBlocked {
			user.BlockingReason = fmt.Sprintf("no-show threshold reached (%d missed meetings)", user.NoShowCount)
			user.BlockedAt = utils.TimePtr(now)
			notifyBlocked = true
		}
		user.AccountStatus = newStatus
		user.UpdatedAt = utils.TimePtr(now)
		newCount = user.NoShowCount
	})
	if err != nil {
		// The counter never moved: remove the dedup record so the incident
		// can be recorded again.
		if delErr := s.NoShowRecordRepository.Delete(ctx, userUID, meetingUID); delErr != nil {
			slog.ErrorContext(ctx, "failed to remove no-show record after counter failure",
				logging.ErrKey, delErr, logging.PriorityCritical())
		}
		return err
	}

	slog.InfoContext(ctx, "no-show recorded", "no_show_count", newCount, "party", string(party))

	notifications := []func() error{
		func() error {
			return s.NotificationSender.SendNoShowRecorded(ctx, models.NoShowNotification{
				MeetingUID:  meetingUID,
				UserUID:     userUID,
				Party:       party,
				NoShowCount: newCount,
			})
		},
	}
	if notifyBlocked {
		notifications = append(notifications, func() error {
			return s.NotificationSender.SendUserBlocked(ctx, models.AccountStatusNotification{
				UserUID:     userUID,
				Status:      models.AccountStatusBlocked,
				NoShowCount: newCount,
				Reason:      fmt.Sprintf("no-show threshold reached (%d missed meetings)", newCount),
			})
		})
	}
	s.notify(ctx, notifications...)

	return nil
}

// ReverseNoShow undoes a recorded no-show after an accepted absence reason.
// The Reversed flag on the record guards against double-reversal: reviewing
// the same incident twice decrements the counter exactly once. A pair with
// no record at all is a no-op, since there is no penalty to undo.
func (s *PenaltyService) ReverseNoShow(ctx context.Context, userUID, meetingUID string) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return domain.NewUnavailableError("penalty service is not ready")
	}

	ctx = logging.AppendCtx(ctx, slog.String("user_uid", userUID))
	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	record, recordRevision, err := s.NoShowRecordRepository.GetWithRevision(ctx, userUID, meetingUID)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			// Nothing was ever recorded for this pair, e.g. an accepted
			// reason for a self-reported absence that no admin adjudicated.
			// There is nothing to reverse.
			slog.InfoContext(ctx, "no no-show record to reverse, skipping")
			return nil
		}
		return err
	}
	if record.Reversed {
		slog.InfoContext(ctx, "no-show already reversed, skipping")
		return nil
	}

	now := s.Clock.Now()
	record.Reversed = true
	record.ReversedAt = utils.TimePtr(now)
	if err := s.NoShowRecordRepository.Update(ctx, record, recordRevision); err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeConflict {
			// A concurrent reversal won the race; nothing left to do.
			slog.InfoContext(ctx, "no-show record changed concurrently, skipping reversal")
			return nil
		}
		return err
	}

	err = s.mutateUser(ctx, userUID, func(user *models.User) {
		if user.NoShowCount > 0 {
			user.NoShowCount--
		}

		newStatus := s.statusForCount(user.NoShowCount)
		if user.AccountStatus == models.AccountStatusBlocked && newStatus != models.AccountStatusBlocked {
			user.BlockingReason = ""
			user.BlockedAt = nil
		}
		user.AccountStatus = newStatus
		user.UpdatedAt = utils.TimePtr(now)
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "no-show reversed")
	return nil
}

// UnblockUser lifts a block with a single administrative-grace decrement.
// Valid only on a BLOCKED account; returns the new count.
func (s *PenaltyService) UnblockUser(ctx context.Context, req *models.UnblockUserRequest) (*models.UnblockUserResult, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("penalty service is not ready")
	}

	ctx = logging.AppendCtx(ctx, slog.String("user_uid", req.UserUID))

	var newCount int
	var recipient models.User
	now := s.Clock.Now()
	err := s.mutateUserChecked(ctx, req.UserUID, func(user *models.User) error {
		if user.AccountStatus != models.AccountStatusBlocked {
			return domain.NewValidationError(
				fmt.Sprintf("account is %s, not BLOCKED; nothing to unblock", user.AccountStatus))
		}

		user.AccountStatus = models.AccountStatusActive
		if user.NoShowCount > 0 {
			user.NoShowCount--
		}
		user.BlockingReason = ""
		user.BlockedAt = nil
		user.UpdatedAt = utils.TimePtr(now)
		newCount = user.NoShowCount
		recipient = *user
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "user unblocked", "admin_uid", req.AdminUID, "no_show_count", newCount)

	s.notify(ctx,
		func() error {
			return s.NotificationSender.SendUserUnblocked(ctx, models.AccountStatusNotification{
				UserUID:     req.UserUID,
				Status:      models.AccountStatusActive,
				NoShowCount: newCount,
				Reason:      req.Reason,
				AdminUID:    req.AdminUID,
			})
		},
		func() error {
			return s.EmailService.SendUnblockNotice(ctx, domain.EmailUnblockNotice{
				RecipientEmail: recipient.Email,
				RecipientName:  recipient.Name,
				Reason:         req.Reason,
				NoShowCount:    newCount,
			})
		},
	)

	return &models.UnblockUserResult{NewNoShowCount: newCount}, nil
}

// ResetNoShowCount fully resets a user's penalty state: count to zero,
// status to ACTIVE, blocking fields cleared.
func (s *PenaltyService) ResetNoShowCount(ctx context.Context, req *models.ResetNoShowCountRequest) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return domain.NewUnavailableError("penalty service is not ready")
	}

	ctx = logging.AppendCtx(ctx, slog.String("user_uid", req.UserUID))

	var wasBlocked bool
	now := s.Clock.Now()
	err := s.mutateUser(ctx, req.UserUID, func(user *models.User) {
		wasBlocked = user.AccountStatus == models.AccountStatusBlocked
		user.NoShowCount = 0
		user.AccountStatus = models.AccountStatusActive
		user.BlockingReason = ""
		user.BlockedAt = nil
		user.UpdatedAt = utils.TimePtr(now)
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "no-show count reset", "admin_uid", req.AdminUID)

	if wasBlocked {
		s.notify(ctx, func() error {
			return s.NotificationSender.SendUserUnblocked(ctx, models.AccountStatusNotification{
				UserUID:  req.UserUID,
				Status:   models.AccountStatusActive,
				Reason:   req.AdminNotes,
				AdminUID: req.AdminUID,
			})
		})
	}

	return nil
}

// ListUsersWithStats returns the per-user no-show statistics for the admin
// table.
func (s *PenaltyService) ListUsersWithStats(ctx context.Context) ([]*models.UserNoShowStats, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("penalty service is not ready")
	}

	users, err := s.UserRepository.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := make([]*models.UserNoShowStats, len(users))
	for i, user := range users {
		stats[i] = user.Stats()
	}
	return stats, nil
}

// mutateUser applies fn to the user record under a revision-guarded write,
// retrying a bounded number of times when a concurrent writer wins the race.
func (s *PenaltyService) mutateUser(ctx context.Context, userUID string, fn func(user *models.User)) error {
	return s.mutateUserChecked(ctx, userUID, func(user *models.User) error {
		fn(user)
		return nil
	})
}

func (s *PenaltyService) mutateUserChecked(ctx context.Context, userUID string, fn func(user *models.User) error) error {
	var lastErr error
	for attempt := 0; attempt < updateRetries; attempt++ {
		user, revision, err := s.UserRepository.GetWithRevision(ctx, userUID)
		if err != nil {
			return err
		}

		if err := fn(user); err != nil {
			return err
		}

		err = s.UserRepository.Update(ctx, user, revision)
		if err == nil {
			return nil
		}
		if domain.GetErrorType(err) != domain.ErrorTypeConflict {
			return err
		}
		lastErr = err
		slog.WarnContext(ctx, "user record changed concurrently, retrying",
			"user_uid", userUID, "attempt", attempt+1)
	}

	slog.ErrorContext(ctx, "user mutation exhausted retries",
		logging.ErrKey, lastErr, logging.PriorityCritical())
	return lastErr
}

// notify dispatches penalty notifications fire-and-forget; failures are
// logged, never propagated.
func (s *PenaltyService) notify(ctx context.Context, functions ...func() error) {
	pool := concurrent.NewWorkerPool(len(functions))
	for _, err := range pool.RunAll(ctx, functions...) {
		slog.ErrorContext(ctx, "failed to send penalty notification", logging.ErrKey, err)
	}
}
