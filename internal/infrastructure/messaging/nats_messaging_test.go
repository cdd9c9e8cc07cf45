// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gemmarket/meeting-service/internal/domain/models"
	"github.com/gemmarket/meeting-service/pkg/constants"
)

// MockNATSConn is a mock implementation of INatsConn.
type MockNATSConn struct {
	mock.Mock
}

func (m *MockNATSConn) IsConnected() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockNATSConn) Publish(subj string, data []byte) error {
	args := m.Called(subj, data)
	return args.Error(0)
}

func TestMessageBuilderSendMessage(t *testing.T) {
	tests := []struct {
		name         string
		publishError error
		expectError  bool
	}{
		{
			name:         "successful send",
			publishError: nil,
			expectError:  false,
		},
		{
			name:         "publish error",
			publishError: errors.New("publish failed"),
			expectError:  true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockConn := new(MockNATSConn)
			mockConn.On("Publish", "test.subject", []byte("test data")).Return(tc.publishError)

			builder := NewMessageBuilder(mockConn)
			err := builder.sendMessage(context.Background(), "test.subject", []byte("test data"))

			if tc.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			mockConn.AssertExpectations(t)
		})
	}
}

func TestMessageBuilderMeetingNotifications(t *testing.T) {
	startTime := time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC)
	notification := models.MeetingNotification{
		MeetingUID:   "meeting-1",
		PurchaseUID:  "purchase-1",
		RecipientUID: "seller-1",
		ActorUID:     "buyer-1",
		Status:       models.MeetingStatusPending,
		StartTime:    &startTime,
		Location:     "Vault 12, Hatton Garden",
	}

	tests := []struct {
		name    string
		subject string
		send    func(builder *MessageBuilder, ctx context.Context) error
	}{
		{
			name:    "proposed",
			subject: constants.MeetingProposedSubject,
			send: func(builder *MessageBuilder, ctx context.Context) error {
				return builder.SendMeetingProposed(ctx, notification)
			},
		},
		{
			name:    "confirmed",
			subject: constants.MeetingConfirmedSubject,
			send: func(builder *MessageBuilder, ctx context.Context) error {
				return builder.SendMeetingConfirmed(ctx, notification)
			},
		},
		{
			name:    "rescheduled",
			subject: constants.MeetingRescheduledSubject,
			send: func(builder *MessageBuilder, ctx context.Context) error {
				return builder.SendMeetingRescheduled(ctx, notification)
			},
		},
		{
			name:    "cancelled",
			subject: constants.MeetingCancelledSubject,
			send: func(builder *MessageBuilder, ctx context.Context) error {
				return builder.SendMeetingCancelled(ctx, notification)
			},
		},
		{
			name:    "completed",
			subject: constants.MeetingCompletedSubject,
			send: func(builder *MessageBuilder, ctx context.Context) error {
				return builder.SendMeetingCompleted(ctx, notification)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			expectedData, err := json.Marshal(notification)
			require.NoError(t, err)

			mockConn := new(MockNATSConn)
			mockConn.On("Publish", tc.subject, expectedData).Return(nil)

			builder := NewMessageBuilder(mockConn)
			assert.NoError(t, tc.send(builder, context.Background()))
			mockConn.AssertExpectations(t)
		})
	}
}

func TestMessageBuilderSendMeetingReminder(t *testing.T) {
	notification := models.MeetingReminderNotification{
		MeetingUID:   "meeting-1",
		RecipientUID: "buyer-1",
		StartTime:    time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC),
		Location:     "Vault 12, Hatton Garden",
	}
	expectedData, err := json.Marshal(notification)
	require.NoError(t, err)

	mockConn := new(MockNATSConn)
	mockConn.On("Publish", constants.MeetingReminderSubject, expectedData).Return(nil)

	builder := NewMessageBuilder(mockConn)
	assert.NoError(t, builder.SendMeetingReminder(context.Background(), notification))
	mockConn.AssertExpectations(t)
}

func TestMessageBuilderSendNoShowRecorded(t *testing.T) {
	notification := models.NoShowNotification{
		MeetingUID:  "meeting-1",
		UserUID:     "buyer-1",
		Party:       models.PartyBuyer,
		NoShowCount: 2,
	}
	expectedData, err := json.Marshal(notification)
	require.NoError(t, err)

	mockConn := new(MockNATSConn)
	mockConn.On("Publish", constants.MeetingNoShowRecordedSubject, expectedData).Return(nil)

	builder := NewMessageBuilder(mockConn)
	assert.NoError(t, builder.SendNoShowRecorded(context.Background(), notification))
	mockConn.AssertExpectations(t)
}

func TestMessageBuilderAccountStatusNotifications(t *testing.T) {
	notification := models.AccountStatusNotification{
		UserUID:     "buyer-1",
		Status:      models.AccountStatusBlocked,
		NoShowCount: 3,
		Reason:      "no-show threshold reached",
	}
	expectedData, err := json.Marshal(notification)
	require.NoError(t, err)

	t.Run("blocked", func(t *testing.T) {
		mockConn := new(MockNATSConn)
		mockConn.On("Publish", constants.UserBlockedSubject, expectedData).Return(nil)

		builder := NewMessageBuilder(mockConn)
		assert.NoError(t, builder.SendUserBlocked(context.Background(), notification))
		mockConn.AssertExpectations(t)
	})

	t.Run("unblocked", func(t *testing.T) {
		mockConn := new(MockNATSConn)
		mockConn.On("Publish", constants.UserUnblockedSubject, expectedData).Return(nil)

		builder := NewMessageBuilder(mockConn)
		assert.NoError(t, builder.SendUserUnblocked(context.Background(), notification))
		mockConn.AssertExpectations(t)
	})
}
