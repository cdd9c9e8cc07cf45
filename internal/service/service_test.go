// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"time"

	"github.com/gemmarket/meeting-service/internal/domain/models"
	"github.com/gemmarket/meeting-service/pkg/utils"
)

// fixedClock pins time for the time-window rules under test.
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func newFixedClock() *fixedClock {
	return &fixedClock{now: testNow}
}

func pendingMeeting() *models.Meeting {
	return &models.Meeting{
		UID:               "meeting-1",
		PurchaseUID:       "purchase-1",
		BuyerUID:          "buyer-1",
		SellerUID:         "seller-1",
		ProposedStartTime: testNow.Add(48 * time.Hour),
		Location:          "Vault 12, Hatton Garden",
		Type:              models.MeetingTypePhysical,
		Status:            models.MeetingStatusPending,
	}
}

func confirmedMeeting() *models.Meeting {
	meeting := pendingMeeting()
	meeting.Status = models.MeetingStatusConfirmed
	meeting.ConfirmedStartTime = utils.TimePtr(meeting.ProposedStartTime)
	return meeting
}

// pastConfirmedMeeting is a confirmed meeting whose start time has elapsed,
// so the attendance window is open.
func pastConfirmedMeeting() *models.Meeting {
	meeting := pendingMeeting()
	meeting.Status = models.MeetingStatusConfirmed
	meeting.ProposedStartTime = testNow.Add(-2 * time.Hour)
	meeting.ConfirmedStartTime = utils.TimePtr(meeting.ProposedStartTime)
	return meeting
}

func activeUser(uid string) *models.User {
	return &models.User{
		UID:           uid,
		Name:          "Ama Serwaa",
		Email:         "ama@example.com",
		Role:          models.UserRoleBuyer,
		AccountStatus: models.AccountStatusActive,
	}
}
