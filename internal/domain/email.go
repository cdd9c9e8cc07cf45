// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"
	"time"
)

// EmailUnblockNotice is the content of the email sent to a user after an
// admin unblocks their account.
type EmailUnblockNotice struct {
	RecipientEmail string
	RecipientName  string
	Reason         string
	NoShowCount    int
}

// EmailMeetingReminder is the content of a meeting reminder email.
type EmailMeetingReminder struct {
	RecipientEmail string
	RecipientName  string
	MeetingTime    time.Time
	Location       string
	MeetingType    string
}

// EmailService sends transactional emails to marketplace users.
type EmailService interface {
	SendUnblockNotice(ctx context.Context, notice EmailUnblockNotice) error
	SendMeetingReminder(ctx context.Context, reminder EmailMeetingReminder) error
}
