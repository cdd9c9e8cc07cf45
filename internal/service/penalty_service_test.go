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

func newPenaltyService() (*PenaltyService, *mocks.MockUserRepository, *mocks.MockNoShowRecordRepository, *mocks.MockNotificationSender, *mocks.MockEmailService) {
	userRepo := new(mocks.MockUserRepository)
	recordRepo := new(mocks.MockNoShowRecordRepository)
	sender := new(mocks.MockNotificationSender)
	emailService := new(mocks.MockEmailService)
	svc := NewPenaltyService(userRepo, recordRepo, sender, emailService, newFixedClock(), DefaultPenaltyPolicy())
	return svc, userRepo, recordRepo, sender, emailService
}

func TestRecordNoShow(t *testing.T) {
	t.Run("first incident increments counter", func(t *testing.T) {
		svc, userRepo, recordRepo, sender, _ := newPenaltyService()
		recordRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *models.NoShowRecord) bool {
			return r.UserUID == "seller-1" && r.MeetingUID == "meeting-1" && r.Party == models.PartySeller
		})).Return(nil)
		userRepo.On("GetWithRevision", mock.Anything, "seller-1").
			Return(activeUser("seller-1"), uint64(1), nil)
		userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.NoShowCount == 1 && u.AccountStatus == models.AccountStatusActive &&
				u.LastNoShowAt != nil
		}), uint64(1)).Return(nil)
		sender.On("SendNoShowRecorded", mock.Anything, mock.MatchedBy(func(n models.NoShowNotification) bool {
			return n.UserUID == "seller-1" && n.NoShowCount == 1
		})).Return(nil)

		err := svc.RecordNoShow(context.Background(), "seller-1", "meeting-1", models.PartySeller)
		require.NoError(t, err)
		userRepo.AssertExpectations(t)
		sender.AssertNotCalled(t, "SendUserBlocked", mock.Anything, mock.Anything)
	})

	t.Run("duplicate incident is a no-op", func(t *testing.T) {
		svc, userRepo, recordRepo, sender, _ := newPenaltyService()
		recordRepo.On("Create", mock.Anything, mock.Anything).
			Return(domain.NewConflictError("no-show record already exists"))

		err := svc.RecordNoShow(context.Background(), "seller-1", "meeting-1", models.PartySeller)
		require.NoError(t, err)
		userRepo.AssertNotCalled(t, "GetWithRevision", mock.Anything, mock.Anything)
		sender.AssertNotCalled(t, "SendNoShowRecorded", mock.Anything, mock.Anything)
	})

	t.Run("second incident warns the account", func(t *testing.T) {
		svc, userRepo, recordRepo, sender, _ := newPenaltyService()
		user := activeUser("seller-1")
		user.NoShowCount = 1
		recordRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		userRepo.On("GetWithRevision", mock.Anything, "seller-1").Return(user, uint64(2), nil)
		userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.NoShowCount == 2 && u.AccountStatus == models.AccountStatusWarned
		}), uint64(2)).Return(nil)
		sender.On("SendNoShowRecorded", mock.Anything, mock.Anything).Return(nil)

		err := svc.RecordNoShow(context.Background(), "seller-1", "meeting-2", models.PartySeller)
		require.NoError(t, err)
		sender.AssertNotCalled(t, "SendUserBlocked", mock.Anything, mock.Anything)
	})

	t.Run("third incident blocks the account", func(t *testing.T) {
		svc, userRepo, recordRepo, sender, _ := newPenaltyService()
		user := activeUser("seller-1")
		user.NoShowCount = 2
		user.AccountStatus = models.AccountStatusWarned
		recordRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		userRepo.On("GetWithRevision", mock.Anything, "seller-1").Return(user, uint64(3), nil)
		userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.NoShowCount == 3 && u.AccountStatus == models.AccountStatusBlocked &&
				u.BlockedAt != nil && u.BlockingReason != ""
		}), uint64(3)).Return(nil)
		sender.On("SendNoShowRecorded", mock.Anything, mock.Anything).Return(nil)
		sender.On("SendUserBlocked", mock.Anything, mock.MatchedBy(func(n models.AccountStatusNotification) bool {
			return n.UserUID == "seller-1" && n.Status == models.AccountStatusBlocked && n.NoShowCount == 3
		})).Return(nil)

		err := svc.RecordNoShow(context.Background(), "seller-1", "meeting-3", models.PartySeller)
		require.NoError(t, err)
		sender.AssertExpectations(t)
	})

	t.Run("counter failure removes the dedup record", func(t *testing.T) {
		svc, userRepo, recordRepo, _, _ := newPenaltyService()
		recordRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		userRepo.On("GetWithRevision", mock.Anything, "seller-1").
			Return(nil, uint64(0), domain.NewInternalError("store unreachable"))
		recordRepo.On("Delete", mock.Anything, "seller-1", "meeting-1").Return(nil)

		err := svc.RecordNoShow(context.Background(), "seller-1", "meeting-1", models.PartySeller)
		require.Error(t, err)
		recordRepo.AssertExpectations(t)
	})

	t.Run("retries once on a concurrent counter update", func(t *testing.T) {
		svc, userRepo, recordRepo, sender, _ := newPenaltyService()
		recordRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		userRepo.On("GetWithRevision", mock.Anything, "seller-1").
			Return(activeUser("seller-1"), uint64(1), nil).Once()
		userRepo.On("Update", mock.Anything, mock.Anything, uint64(1)).
			Return(domain.NewConflictError("revision mismatch")).Once()
		userRepo.On("GetWithRevision", mock.Anything, "seller-1").
			Return(activeUser("seller-1"), uint64(2), nil).Once()
		userRepo.On("Update", mock.Anything, mock.Anything, uint64(2)).Return(nil).Once()
		sender.On("SendNoShowRecorded", mock.Anything, mock.Anything).Return(nil)

		err := svc.RecordNoShow(context.Background(), "seller-1", "meeting-1", models.PartySeller)
		require.NoError(t, err)
		userRepo.AssertExpectations(t)
	})
}

func TestReverseNoShow(t *testing.T) {
	record := func() *models.NoShowRecord {
		return &models.NoShowRecord{
			UserUID:    "seller-1",
			MeetingUID: "meeting-1",
			Party:      models.PartySeller,
			RecordedAt: testNow.Add(-24 * time.Hour),
		}
	}

	t.Run("missing record is a no-op", func(t *testing.T) {
		// A reason accepted for a self-reported absence that no admin ever
		// adjudicated has no record behind it. Nothing to reverse.
		svc, userRepo, recordRepo, _, _ := newPenaltyService()
		recordRepo.On("GetWithRevision", mock.Anything, "seller-1", "meeting-1").
			Return(nil, uint64(0), domain.NewNotFoundError("no-show record not found"))

		err := svc.ReverseNoShow(context.Background(), "seller-1", "meeting-1")
		require.NoError(t, err)
		recordRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
		userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("decrements counter and downgrades status", func(t *testing.T) {
		svc, userRepo, recordRepo, _, _ := newPenaltyService()
		user := activeUser("seller-1")
		user.NoShowCount = 2
		user.AccountStatus = models.AccountStatusWarned
		recordRepo.On("GetWithRevision", mock.Anything, "seller-1", "meeting-1").
			Return(record(), uint64(1), nil)
		recordRepo.On("Update", mock.Anything, mock.MatchedBy(func(r *models.NoShowRecord) bool {
			return r.Reversed && r.ReversedAt != nil
		}), uint64(1)).Return(nil)
		userRepo.On("GetWithRevision", mock.Anything, "seller-1").Return(user, uint64(4), nil)
		userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.NoShowCount == 1 && u.AccountStatus == models.AccountStatusActive
		}), uint64(4)).Return(nil)

		err := svc.ReverseNoShow(context.Background(), "seller-1", "meeting-1")
		require.NoError(t, err)
		userRepo.AssertExpectations(t)
	})

	t.Run("lifts a block and clears blocking fields", func(t *testing.T) {
		svc, userRepo, recordRepo, _, _ := newPenaltyService()
		user := activeUser("seller-1")
		user.NoShowCount = 3
		user.AccountStatus = models.AccountStatusBlocked
		user.BlockingReason = "no-show threshold reached (3 missed meetings)"
		user.BlockedAt = utils.TimePtr(testNow.Add(-24 * time.Hour))
		recordRepo.On("GetWithRevision", mock.Anything, "seller-1", "meeting-1").
			Return(record(), uint64(1), nil)
		recordRepo.On("Update", mock.Anything, mock.Anything, uint64(1)).Return(nil)
		userRepo.On("GetWithRevision", mock.Anything, "seller-1").Return(user, uint64(5), nil)
		userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.NoShowCount == 2 && u.AccountStatus == models.AccountStatusWarned &&
				u.BlockingReason == "" && u.BlockedAt == nil
		}), uint64(5)).Return(nil)

		err := svc.ReverseNoShow(context.Background(), "seller-1", "meeting-1")
		require.NoError(t, err)
		userRepo.AssertExpectations(t)
	})

	t.Run("already reversed is a no-op", func(t *testing.T) {
		svc, userRepo, recordRepo, _, _ := newPenaltyService()
		reversed := record()
		reversed.Reversed = true
		recordRepo.On("GetWithRevision", mock.Anything, "seller-1", "meeting-1").
			Return(reversed, uint64(2), nil)

		err := svc.ReverseNoShow(context.Background(), "seller-1", "meeting-1")
		require.NoError(t, err)
		userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("concurrent reversal wins the race", func(t *testing.T) {
		svc, userRepo, recordRepo, _, _ := newPenaltyService()
		recordRepo.On("GetWithRevision", mock.Anything, "seller-1", "meeting-1").
			Return(record(), uint64(1), nil)
		recordRepo.On("Update", mock.Anything, mock.Anything, uint64(1)).
			Return(domain.NewConflictError("revision mismatch"))

		err := svc.ReverseNoShow(context.Background(), "seller-1", "meeting-1")
		require.NoError(t, err)
		userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("counter never drops below zero", func(t *testing.T) {
		svc, userRepo, recordRepo, _, _ := newPenaltyService()
		recordRepo.On("GetWithRevision", mock.Anything, "seller-1", "meeting-1").
			Return(record(), uint64(1), nil)
		recordRepo.On("Update", mock.Anything, mock.Anything, uint64(1)).Return(nil)
		userRepo.On("GetWithRevision", mock.Anything, "seller-1").
			Return(activeUser("seller-1"), uint64(1), nil)
		userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.NoShowCount == 0
		}), uint64(1)).Return(nil)

		err := svc.ReverseNoShow(context.Background(), "seller-1", "meeting-1")
		require.NoError(t, err)
		userRepo.AssertExpectations(t)
	})
}

func TestUnblockUser(t *testing.T) {
	blockedUser := func() *models.User {
		user := activeUser("seller-1")
		user.NoShowCount = 3
		user.AccountStatus = models.AccountStatusBlocked
		user.BlockingReason = "no-show threshold reached (3 missed meetings)"
		user.BlockedAt = utils.TimePtr(testNow.Add(-24 * time.Hour))
		return user
	}

	t.Run("grace decrement restores the account", func(t *testing.T) {
		svc, userRepo, _, sender, emailService := newPenaltyService()
		userRepo.On("GetWithRevision", mock.Anything, "seller-1").
			Return(blockedUser(), uint64(6), nil)
		userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.NoShowCount == 2 && u.AccountStatus == models.AccountStatusActive &&
				u.BlockingReason == "" && u.BlockedAt == nil
		}), uint64(6)).Return(nil)
		sender.On("SendUserUnblocked", mock.Anything, mock.MatchedBy(func(n models.AccountStatusNotification) bool {
			return n.UserUID == "seller-1" && n.Status == models.AccountStatusActive &&
				n.NoShowCount == 2 && n.AdminUID == "admin-1"
		})).Return(nil)
		emailService.On("SendUnblockNotice", mock.Anything, mock.MatchedBy(func(n domain.EmailUnblockNotice) bool {
			return n.RecipientEmail == "ama@example.com" && n.NoShowCount == 2
		})).Return(nil)

		result, err := svc.UnblockUser(context.Background(), &models.UnblockUserRequest{
			UserUID:  "seller-1",
			AdminUID: "admin-1",
			Reason:   "disputed adjudication upheld on appeal",
		})
		require.NoError(t, err)
		assert.Equal(t, 2, result.NewNoShowCount)
		sender.AssertExpectations(t)
		emailService.AssertExpectations(t)
	})

	t.Run("non-blocked account is rejected without changes", func(t *testing.T) {
		svc, userRepo, _, sender, _ := newPenaltyService()
		userRepo.On("GetWithRevision", mock.Anything, "seller-1").
			Return(activeUser("seller-1"), uint64(1), nil)

		_, err := svc.UnblockUser(context.Background(), &models.UnblockUserRequest{
			UserUID:  "seller-1",
			AdminUID: "admin-1",
			Reason:   "pre-emptive goodwill",
		})
		require.Error(t, err)
		assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
		userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
		sender.AssertNotCalled(t, "SendUserUnblocked", mock.Anything, mock.Anything)
	})
}

func TestResetNoShowCount(t *testing.T) {
	t.Run("clears penalty state", func(t *testing.T) {
		svc, userRepo, _, sender, _ := newPenaltyService()
		user := activeUser("seller-1")
		user.NoShowCount = 2
		user.AccountStatus = models.AccountStatusWarned
		userRepo.On("GetWithRevision", mock.Anything, "seller-1").Return(user, uint64(3), nil)
		userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.NoShowCount == 0 && u.AccountStatus == models.AccountStatusActive
		}), uint64(3)).Return(nil)

		err := svc.ResetNoShowCount(context.Background(), &models.ResetNoShowCountRequest{
			UserUID:  "seller-1",
			AdminUID: "admin-1",
		})
		require.NoError(t, err)
		sender.AssertNotCalled(t, "SendUserUnblocked", mock.Anything, mock.Anything)
	})

	t.Run("resetting a blocked account notifies", func(t *testing.T) {
		svc, userRepo, _, sender, _ := newPenaltyService()
		user := activeUser("seller-1")
		user.NoShowCount = 4
		user.AccountStatus = models.AccountStatusBlocked
		user.BlockingReason = "no-show threshold reached (4 missed meetings)"
		userRepo.On("GetWithRevision", mock.Anything, "seller-1").Return(user, uint64(7), nil)
		userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.NoShowCount == 0 && u.AccountStatus == models.AccountStatusActive &&
				u.BlockingReason == ""
		}), uint64(7)).Return(nil)
		sender.On("SendUserUnblocked", mock.Anything, mock.Anything).Return(nil)

		err := svc.ResetNoShowCount(context.Background(), &models.ResetNoShowCountRequest{
			UserUID:  "seller-1",
			AdminUID: "admin-1",
		})
		require.NoError(t, err)
		sender.AssertExpectations(t)
	})
}

func TestListUsersWithStats(t *testing.T) {
	svc, userRepo, _, _, _ := newPenaltyService()
	warned := activeUser("user-2")
	warned.NoShowCount = 2
	warned.AccountStatus = models.AccountStatusWarned
	userRepo.On("ListAll", mock.Anything).
		Return([]*models.User{activeUser("user-1"), warned}, nil)

	stats, err := svc.ListUsersWithStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "user-1", stats[0].UID)
	assert.Equal(t, 2, stats[1].NoShowCount)
	assert.Equal(t, models.AccountStatusWarned, stats[1].AccountStatus)
}

func TestPenaltyServiceNotReady(t *testing.T) {
	svc := &PenaltyService{}

	err := svc.RecordNoShow(context.Background(), "seller-1", "meeting-1", models.PartySeller)
	assert.Equal(t, domain.ErrorTypeUnavailable, domain.GetErrorType(err))

	err = svc.ReverseNoShow(context.Background(), "seller-1", "meeting-1")
	assert.Equal(t, domain.ErrorTypeUnavailable, domain.GetErrorType(err))
}
