// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/gemmarket/meeting-service/internal/domain/models"
	"github.com/gemmarket/meeting-service/internal/logging"
	"github.com/gemmarket/meeting-service/pkg/constants"
)

// INatsConn is the subset of the NATS connection interface needed by the
// [MessageBuilder].
type INatsConn interface {
	IsConnected() bool
	Publish(subj string, data []byte) error
}

// MessageBuilder builds notification messages and sends them to the NATS
// server. All sends are fire-and-forget from the caller's perspective.
type MessageBuilder struct {
	NatsConn INatsConn
}

// NewMessageBuilder creates a new MessageBuilder.
func NewMessageBuilder(natsConn INatsConn) *MessageBuilder {
	return &MessageBuilder{
		NatsConn: natsConn,
	}
}

// sendMessage sends the message to the NATS server.
func (m *MessageBuilder) sendMessage(ctx context.Context, subject string, data []byte) error {
	err := m.NatsConn.Publish(subject, data)
	if err != nil {
		slog.ErrorContext(ctx, "error sending message to NATS", logging.ErrKey, err, "subject", subject)
		return err
	}
	slog.DebugContext(ctx, "sent message to NATS", "subject", subject)
	return nil
}

func (m *MessageBuilder) sendJSON(ctx context.Context, subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message into JSON", logging.ErrKey, err, "subject", subject)
		return err
	}
	return m.sendMessage(ctx, subject, data)
}

// SendMeetingProposed notifies the seller that a buyer proposed a meeting.
func (m *MessageBuilder) SendMeetingProposed(ctx context.Context, notification models.MeetingNotification) error {
	return m.sendJSON(ctx, constants.MeetingProposedSubject, notification)
}

// SendMeetingConfirmed notifies the buyer that the seller confirmed.
func (m *MessageBuilder) SendMeetingConfirmed(ctx context.Context, notification models.MeetingNotification) error {
	return m.sendJSON(ctx, constants.MeetingConfirmedSubject, notification)
}

// SendMeetingRescheduled notifies the other party about a reschedule.
func (m *MessageBuilder) SendMeetingRescheduled(ctx context.Context, notification models.MeetingNotification) error {
	return m.sendJSON(ctx, constants.MeetingRescheduledSubject, notification)
}

// SendMeetingCancelled notifies the other party about a cancellation.
func (m *MessageBuilder) SendMeetingCancelled(ctx context.Context, notification models.MeetingNotification) error {
	return m.sendJSON(ctx, constants.MeetingCancelledSubject, notification)
}

// SendMeetingCompleted announces a completed meeting.
func (m *MessageBuilder) SendMeetingCompleted(ctx context.Context, notification models.MeetingNotification) error {
	return m.sendJSON(ctx, constants.MeetingCompletedSubject, notification)
}

// SendMeetingReminder publishes a reminder ahead of a confirmed meeting.
func (m *MessageBuilder) SendMeetingReminder(ctx context.Context, notification models.MeetingReminderNotification) error {
	return m.sendJSON(ctx, constants.MeetingReminderSubject, notification)
}

// SendNoShowRecorded announces an adjudicated no-show.
func (m *MessageBuilder) SendNoShowRecorded(ctx context.Context, notification models.NoShowNotification) error {
	return m.sendJSON(ctx, constants.MeetingNoShowRecordedSubject, notification)
}

// SendUserBlocked announces an account block.
func (m *MessageBuilder) SendUserBlocked(ctx context.Context, notification models.AccountStatusNotification) error {
	return m.sendJSON(ctx, constants.UserBlockedSubject, notification)
}

// SendUserUnblocked announces an admin unblock.
func (m *MessageBuilder) SendUserUnblocked(ctx context.Context, notification models.AccountStatusNotification) error {
	return m.sendJSON(ctx, constants.UserUnblockedSubject, notification)
}
