// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package models

import (
	"time"
)

// MeetingNotification is the payload published for meeting lifecycle events.
// RecipientUID is the party the event is addressed to.
type MeetingNotification struct {
	MeetingUID   string        `json:"meeting_uid"`
	PurchaseUID  string        `json:"purchase_uid"`
	RecipientUID string        `json:"recipient_uid"`
	ActorUID     string        `json:"actor_uid,omitempty"`
	Status       MeetingStatus `json:"status"`
	StartTime    *time.Time    `json:"start_time,omitempty"`
	Location     string        `json:"location,omitempty"`
	Notes        string        `json:"notes,omitempty"`
	Tags         []string      `json:"tags,omitempty"`
}

// NoShowNotification is published when an admin records a no-show against a
// party.
type NoShowNotification struct {
	MeetingUID  string `json:"meeting_uid"`
	UserUID     string `json:"user_uid"`
	Party       Party  `json:"party"`
	NoShowCount int    `json:"no_show_count"`
}

// AccountStatusNotification is published when the penalty engine changes a
// user's account status.
type AccountStatusNotification struct {
	UserUID     string        `json:"user_uid"`
	Status      AccountStatus `json:"status"`
	NoShowCount int           `json:"no_show_count"`
	Reason      string        `json:"reason,omitempty"`
	AdminUID    string        `json:"admin_uid,omitempty"`
}

// MeetingReminderNotification is published by the reminder sweep ahead of a
// confirmed meeting.
type MeetingReminderNotification struct {
	MeetingUID   string    `json:"meeting_uid"`
	RecipientUID string    `json:"recipient_uid"`
	StartTime    time.Time `json:"start_time"`
	Location     string    `json:"location,omitempty"`
}
