// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gemmarket/meeting-service/internal/domain"
	"github.com/gemmarket/meeting-service/internal/domain/mocks"
	"github.com/gemmarket/meeting-service/internal/domain/models"
	"github.com/gemmarket/meeting-service/pkg/utils"
)

func newReminderService() (*ReminderService, *mocks.MockMeetingRepository, *mocks.MockUserRepository, *mocks.MockNotificationSender, *mocks.MockEmailService) {
	meetingRepo := new(mocks.MockMeetingRepository)
	userRepo := new(mocks.MockUserRepository)
	sender := new(mocks.MockNotificationSender)
	emailService := new(mocks.MockEmailService)
	svc := NewReminderService(meetingRepo, userRepo, sender, emailService, newFixedClock(), DefaultPenaltyPolicy())
	return svc, meetingRepo, userRepo, sender, emailService
}

// dueMeeting starts 6 hours from now, inside the default 24h lead window.
func dueMeeting() *models.Meeting {
	meeting := confirmedMeeting()
	meeting.ConfirmedStartTime = utils.TimePtr(testNow.Add(6 * time.Hour))
	return meeting
}

func TestSweepDueReminders(t *testing.T) {
	t.Run("reminds both parties once", func(t *testing.T) {
		svc, meetingRepo, userRepo, sender, emailService := newReminderService()
		meetingRepo.On("ListByStatus", mock.Anything, models.MeetingStatusConfirmed).
			Return([]*models.Meeting{dueMeeting()}, nil)
		meetingRepo.On("GetWithRevision", mock.Anything, "meeting-1").
			Return(dueMeeting(), uint64(2), nil)
		meetingRepo.On("Update", mock.Anything, mock.MatchedBy(func(m *models.Meeting) bool {
			return m.ReminderSentAt != nil
		}), uint64(2)).Return(nil)
		userRepo.On("Get", mock.Anything, "buyer-1").Return(activeUser("buyer-1"), nil)
		userRepo.On("Get", mock.Anything, "seller-1").Return(activeUser("seller-1"), nil)
		sender.On("SendMeetingReminder", mock.Anything, mock.MatchedBy(func(n models.MeetingReminderNotification) bool {
			return n.MeetingUID == "meeting-1" && n.RecipientUID == "buyer-1"
		})).Return(nil)
		sender.On("SendMeetingReminder", mock.Anything, mock.MatchedBy(func(n models.MeetingReminderNotification) bool {
			return n.MeetingUID == "meeting-1" && n.RecipientUID == "seller-1"
		})).Return(nil)
		emailService.On("SendMeetingReminder", mock.Anything, mock.MatchedBy(func(r domain.EmailMeetingReminder) bool {
			return r.RecipientEmail == "ama@example.com"
		})).Return(nil).Twice()

		reminded, err := svc.SweepDueReminders(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, reminded)
		sender.AssertExpectations(t)
		emailService.AssertExpectations(t)
	})

	t.Run("skips meetings outside the lead window", func(t *testing.T) {
		svc, meetingRepo, _, sender, _ := newReminderService()
		farOut := confirmedMeeting()
		farOut.ConfirmedStartTime = utils.TimePtr(testNow.Add(72 * time.Hour))
		started := confirmedMeeting()
		started.UID = "meeting-2"
		started.ConfirmedStartTime = utils.TimePtr(testNow.Add(-time.Hour))
		meetingRepo.On("ListByStatus", mock.Anything, models.MeetingStatusConfirmed).
			Return([]*models.Meeting{farOut, started}, nil)

		reminded, err := svc.SweepDueReminders(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, reminded)
		sender.AssertNotCalled(t, "SendMeetingReminder", mock.Anything, mock.Anything)
	})

	t.Run("skips already reminded meetings", func(t *testing.T) {
		svc, meetingRepo, _, sender, _ := newReminderService()
		meeting := dueMeeting()
		meeting.ReminderSentAt = utils.TimePtr(testNow.Add(-time.Hour))
		meetingRepo.On("ListByStatus", mock.Anything, models.MeetingStatusConfirmed).
			Return([]*models.Meeting{meeting}, nil)

		reminded, err := svc.SweepDueReminders(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, reminded)
		sender.AssertNotCalled(t, "SendMeetingReminder", mock.Anything, mock.Anything)
	})

	t.Run("concurrent sweep stamp wins silently", func(t *testing.T) {
		svc, meetingRepo, _, sender, _ := newReminderService()
		meetingRepo.On("ListByStatus", mock.Anything, models.MeetingStatusConfirmed).
			Return([]*models.Meeting{dueMeeting()}, nil)
		meetingRepo.On("GetWithRevision", mock.Anything, "meeting-1").
			Return(dueMeeting(), uint64(2), nil)
		meetingRepo.On("Update", mock.Anything, mock.Anything, uint64(2)).
			Return(domain.NewConflictError("revision mismatch"))

		reminded, err := svc.SweepDueReminders(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, reminded)
		sender.AssertNotCalled(t, "SendMeetingReminder", mock.Anything, mock.Anything)
	})

	t.Run("missing recipient email skips the email only", func(t *testing.T) {
		svc, meetingRepo, userRepo, sender, emailService := newReminderService()
		noEmail := activeUser("buyer-1")
		noEmail.Email = ""
		meetingRepo.On("ListByStatus", mock.Anything, models.MeetingStatusConfirmed).
			Return([]*models.Meeting{dueMeeting()}, nil)
		meetingRepo.On("GetWithRevision", mock.Anything, "meeting-1").
			Return(dueMeeting(), uint64(2), nil)
		meetingRepo.On("Update", mock.Anything, mock.Anything, uint64(2)).Return(nil)
		userRepo.On("Get", mock.Anything, "buyer-1").Return(noEmail, nil)
		userRepo.On("Get", mock.Anything, "seller-1").Return(activeUser("seller-1"), nil)
		sender.On("SendMeetingReminder", mock.Anything, mock.Anything).Return(nil).Twice()
		emailService.On("SendMeetingReminder", mock.Anything, mock.Anything).Return(nil).Once()

		reminded, err := svc.SweepDueReminders(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, reminded)
		emailService.AssertExpectations(t)
	})

	t.Run("list failure propagates", func(t *testing.T) {
		svc, meetingRepo, _, _, _ := newReminderService()
		meetingRepo.On("ListByStatus", mock.Anything, models.MeetingStatusConfirmed).
			Return(nil, domain.NewInternalError("store unreachable"))

		_, err := svc.SweepDueReminders(context.Background())
		require.Error(t, err)
	})
}
