// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package email

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gemmarket/meeting-service/internal/domain"
)

func TestNoOpServiceSendUnblockNotice(t *testing.T) {
	service := NewNoOpService()

	err := service.SendUnblockNotice(context.Background(), domain.EmailUnblockNotice{
		RecipientEmail: "kofi@example.com",
		RecipientName:  "Kofi Mensah",
	})
	assert.NoError(t, err)
}

func TestNoOpServiceSendMeetingReminder(t *testing.T) {
	service := NewNoOpService()

	err := service.SendMeetingReminder(context.Background(), domain.EmailMeetingReminder{
		RecipientEmail: "ama@example.com",
		RecipientName:  "Ama Serwaa",
		MeetingTime:    time.Now().Add(24 * time.Hour),
	})
	assert.NoError(t, err)
}
