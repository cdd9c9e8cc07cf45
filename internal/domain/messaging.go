// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/gemmarket/meeting-service/internal/domain/models"
)

// MeetingNotificationSender publishes meeting lifecycle notices. Dispatch is
// fire-and-forget at the call sites: failures are logged, never propagated
// into the triggering transaction.
type MeetingNotificationSender interface {
	SendMeetingProposed(ctx context.Context, notification models.MeetingNotification) error
	SendMeetingConfirmed(ctx context.Context, notification models.MeetingNotification) error
	SendMeetingRescheduled(ctx context.Context, notification models.MeetingNotification) error
	SendMeetingCancelled(ctx context.Context, notification models.MeetingNotification) error
	SendMeetingCompleted(ctx context.Context, notification models.MeetingNotification) error
	SendMeetingReminder(ctx context.Context, notification models.MeetingReminderNotification) error
}

// PenaltyNotificationSender publishes penalty and account status notices.
type PenaltyNotificationSender interface {
	SendNoShowRecorded(ctx context.Context, notification models.NoShowNotification) error
	SendUserBlocked(ctx context.Context, notification models.AccountStatusNotification) error
	SendUserUnblocked(ctx context.Context, notification models.AccountStatusNotification) error
}

// NotificationSender composes all notification capabilities.
type NotificationSender interface {
	MeetingNotificationSender
	PenaltyNotificationSender
}
