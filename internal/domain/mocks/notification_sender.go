// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/gemmarket/meeting-service/internal/domain/models"
)

// MockNotificationSender implements NotificationSender for testing
type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) SendMeetingProposed(ctx context.Context, notification models.MeetingNotification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationSender) SendMeetingConfirmed(ctx context.Context, notification models.MeetingNotification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationSender) SendMeetingRescheduled(ctx context.Context, notification models.MeetingNotification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationSender) SendMeetingCancelled(ctx context.Context, notification models.MeetingNotification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationSender) SendMeetingCompleted(ctx context.Context, notification models.MeetingNotification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationSender) SendMeetingReminder(ctx context.Context, notification models.MeetingReminderNotification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationSender) SendNoShowRecorded(ctx context.Context, notification models.NoShowNotification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationSender) SendUserBlocked(ctx context.Context, notification models.AccountStatusNotification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationSender) SendUserUnblocked(ctx context.Context, notification models.AccountStatusNotification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}
