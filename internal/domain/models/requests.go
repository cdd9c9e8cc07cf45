// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package models

import (
	"time"
)

// ProposeMeetingRequest is the buyer's request to create a meeting for a
// purchase.
type ProposeMeetingRequest struct {
	PurchaseUID       string      `json:"purchase_uid"`
	BuyerUID          string      `json:"buyer_uid"`
	SellerUID         string      `json:"seller_uid"`
	ProposedStartTime time.Time   `json:"proposed_start_time"`
	Location          string      `json:"location"`
	Type              MeetingType `json:"meeting_type"`
	BuyerNotes        string      `json:"buyer_notes,omitempty"`
}

// ConfirmMeetingRequest is the seller's confirmation of a proposed meeting.
type ConfirmMeetingRequest struct {
	MeetingUID  string `json:"meeting_uid"`
	SellerUID   string `json:"seller_uid"`
	SellerNotes string `json:"seller_notes,omitempty"`
}

// RescheduleMeetingRequest moves a meeting to a new proposed time. Either
// party may request it while the meeting is still active.
type RescheduleMeetingRequest struct {
	MeetingUID   string    `json:"meeting_uid"`
	RequesterUID string    `json:"requester_uid"`
	NewStartTime time.Time `json:"new_start_time"`
	Notes        string    `json:"notes,omitempty"`
}

// CancelMeetingRequest cancels an active meeting.
type CancelMeetingRequest struct {
	MeetingUID   string `json:"meeting_uid"`
	RequesterUID string `json:"requester_uid"`
	Reason       string `json:"reason,omitempty"`
}

// MarkAttendanceRequest is a party's self- or counterpart-report of
// attendance. Advisory only; admin adjudication is authoritative.
type MarkAttendanceRequest struct {
	MeetingUID  string `json:"meeting_uid"`
	ReporterUID string `json:"reporter_uid"`
	Party       Party  `json:"party"`
	Attended    bool   `json:"attended"`
	Reason      string `json:"reason,omitempty"`
}

// AdminMarkAttendanceRequest is the admin's authoritative adjudication of
// both parties' attendance.
type AdminMarkAttendanceRequest struct {
	MeetingUID     string `json:"meeting_uid"`
	AdminUID       string `json:"admin_uid"`
	BuyerAttended  bool   `json:"buyer_attended"`
	SellerAttended bool   `json:"seller_attended"`
	AdminNotes     string `json:"admin_notes,omitempty"`
}

// SubmitAbsenceReasonRequest is a no-show party's justification for review.
type SubmitAbsenceReasonRequest struct {
	MeetingUID string `json:"meeting_uid"`
	UserUID    string `json:"user_uid"`
	Reason     string `json:"reason"`
}

// ReviewAbsenceReasonRequest is the admin's decision on a submitted absence
// reason.
type ReviewAbsenceReasonRequest struct {
	MeetingUID string `json:"meeting_uid"`
	AdminUID   string `json:"admin_uid"`
	UserUID    string `json:"user_uid"`
	Accepted   bool   `json:"accepted"`
	AdminNotes string `json:"admin_notes,omitempty"`
}

// ReviewAbsenceReasonResult reports the outcome of a review, including the
// idempotent no-op case when the reason was reviewed before.
type ReviewAbsenceReasonResult struct {
	Accepted        bool `json:"accepted"`
	AlreadyReviewed bool `json:"already_reviewed"`
}

// UnblockUserRequest is the admin-grace unblock of a blocked account.
type UnblockUserRequest struct {
	UserUID  string `json:"user_uid"`
	AdminUID string `json:"admin_uid"`
	Reason   string `json:"reason"`
}

// UnblockUserResult carries the count after the single-grace decrement.
type UnblockUserResult struct {
	NewNoShowCount int `json:"new_no_show_count"`
}

// ResetNoShowCountRequest fully resets a user's penalty state.
type ResetNoShowCountRequest struct {
	UserUID    string `json:"user_uid"`
	AdminUID   string `json:"admin_uid"`
	AdminNotes string `json:"admin_notes,omitempty"`
}
