// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package models

import (
	"time"
)

// MeetingStatus is the lifecycle state of a meeting.
type MeetingStatus string

const (
	MeetingStatusPending        MeetingStatus = "PENDING"
	MeetingStatusConfirmed      MeetingStatus = "CONFIRMED"
	MeetingStatusRescheduled    MeetingStatus = "RESCHEDULED"
	MeetingStatusCompleted      MeetingStatus = "COMPLETED"
	MeetingStatusCancelled      MeetingStatus = "CANCELLED"
	MeetingStatusNoShowRecorded MeetingStatus = "NO_SHOW_RECORDED"
)

// IsTerminal reports whether the status permits no further transitions.
func (s MeetingStatus) IsTerminal() bool {
	switch s {
	case MeetingStatusCompleted, MeetingStatusCancelled, MeetingStatusNoShowRecorded:
		return true
	}
	return false
}

// IsConfirmable reports whether a seller may confirm from this status.
// RESCHEDULED behaves like PENDING with an updated proposed time.
func (s MeetingStatus) IsConfirmable() bool {
	return s == MeetingStatusPending || s == MeetingStatusRescheduled
}

// MeetingType is how the buyer and seller meet.
type MeetingType string

const (
	MeetingTypePhysical MeetingType = "PHYSICAL"
	MeetingTypePickup   MeetingType = "PICKUP"
	MeetingTypeVirtual  MeetingType = "VIRTUAL"
)

// ValidMeetingType reports whether t is one of the supported meeting types.
func ValidMeetingType(t MeetingType) bool {
	switch t {
	case MeetingTypePhysical, MeetingTypePickup, MeetingTypeVirtual:
		return true
	}
	return false
}

// Party identifies which side of the purchase a user is on, resolved once
// from the meeting record rather than trusted from the client.
type Party string

const (
	PartyBuyer  Party = "buyer"
	PartySeller Party = "seller"
)

// Other returns the counterpart party.
func (p Party) Other() Party {
	if p == PartyBuyer {
		return PartySeller
	}
	return PartyBuyer
}

// AttendanceRecord is the post-meeting attendance and dispute sub-state of a
// meeting. Self-reported fields are advisory; only an admin adjudication
// (AdminVerified) drives penalties.
type AttendanceRecord struct {
	BuyerAttended        *bool      `json:"buyer_attended,omitempty"`
	SellerAttended       *bool      `json:"seller_attended,omitempty"`
	AdminVerified        bool       `json:"admin_verified"`
	BuyerAbsenceReason   string     `json:"buyer_absence_reason,omitempty"`
	SellerAbsenceReason  string     `json:"seller_absence_reason,omitempty"`
	BuyerReasonAccepted  *bool      `json:"buyer_reason_accepted,omitempty"`
	SellerReasonAccepted *bool      `json:"seller_reason_accepted,omitempty"`
	AdminNotes           string     `json:"admin_notes,omitempty"`
	VerifiedAt           *time.Time `json:"verified_at,omitempty"`
}

// AttendedFor returns the attendance fact recorded for the given party.
func (a *AttendanceRecord) AttendedFor(party Party) *bool {
	if party == PartyBuyer {
		return a.BuyerAttended
	}
	return a.SellerAttended
}

// AbsenceReasonFor returns the absence reason submitted by the given party.
func (a *AttendanceRecord) AbsenceReasonFor(party Party) string {
	if party == PartyBuyer {
		return a.BuyerAbsenceReason
	}
	return a.SellerAbsenceReason
}

// ReasonAcceptedFor returns the admin review outcome for the given party's
// absence reason, or nil when no review happened yet.
func (a *AttendanceRecord) ReasonAcceptedFor(party Party) *bool {
	if party == PartyBuyer {
		return a.BuyerReasonAccepted
	}
	return a.SellerReasonAccepted
}

// Meeting is the key-value store representation of a purchase meeting
// between a buyer and a seller.
type Meeting struct {
	UID                string           `json:"uid"`
	PurchaseUID        string           `json:"purchase_uid"`
	BuyerUID           string           `json:"buyer_uid"`
	SellerUID          string           `json:"seller_uid"`
	ProposedStartTime  time.Time        `json:"proposed_start_time"`
	ConfirmedStartTime *time.Time       `json:"confirmed_start_time,omitempty"`
	Location           string           `json:"location,omitempty"`
	Type               MeetingType      `json:"meeting_type"`
	Status             MeetingStatus    `json:"status"`
	BuyerNotes         string           `json:"buyer_notes,omitempty"`
	SellerNotes        string           `json:"seller_notes,omitempty"`
	Attendance         AttendanceRecord `json:"attendance"`
	ReminderSentAt     *time.Time       `json:"reminder_sent_at,omitempty"`
	CreatedAt          *time.Time       `json:"created_at,omitempty"`
	UpdatedAt          *time.Time       `json:"updated_at,omitempty"`
}

// PartyOf resolves which side of the meeting the given user is on.
func (m *Meeting) PartyOf(userUID string) (Party, bool) {
	switch userUID {
	case m.BuyerUID:
		return PartyBuyer, true
	case m.SellerUID:
		return PartySeller, true
	}
	return "", false
}

// PartyUID returns the user UID for the given party.
func (m *Meeting) PartyUID(party Party) string {
	if party == PartyBuyer {
		return m.BuyerUID
	}
	return m.SellerUID
}

// Tags generates the search tags attached to the meeting's notification
// payloads, so downstream consumers can filter without parsing the body.
func (m *Meeting) Tags() []string {
	var tags []string

	if m.UID != "" {
		tags = append(tags, m.UID, "meeting_uid:"+m.UID)
	}
	if m.PurchaseUID != "" {
		tags = append(tags, "purchase_uid:"+m.PurchaseUID)
	}
	if m.BuyerUID != "" {
		tags = append(tags, "buyer_uid:"+m.BuyerUID)
	}
	if m.SellerUID != "" {
		tags = append(tags, "seller_uid:"+m.SellerUID)
	}
	if m.Status != "" {
		tags = append(tags, "status:"+string(m.Status))
	}

	return tags
}
