// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package constants

// NATS subjects for fire-and-forget notification events.
const (
	// MeetingProposedSubject notifies the seller that a buyer proposed a meeting.
	MeetingProposedSubject = "gemmarket.meeting.proposed"

	// MeetingConfirmedSubject notifies the buyer that the seller confirmed.
	MeetingConfirmedSubject = "gemmarket.meeting.confirmed"

	// MeetingRescheduledSubject notifies the other party about a reschedule.
	MeetingRescheduledSubject = "gemmarket.meeting.rescheduled"

	// MeetingCancelledSubject notifies the other party about a cancellation.
	MeetingCancelledSubject = "gemmarket.meeting.cancelled"

	// MeetingCompletedSubject announces a completed meeting.
	MeetingCompletedSubject = "gemmarket.meeting.completed"

	// MeetingReminderSubject is published by the reminder sweep ahead of a
	// confirmed meeting.
	MeetingReminderSubject = "gemmarket.meeting.reminder"

	// MeetingNoShowRecordedSubject announces an adjudicated no-show.
	MeetingNoShowRecordedSubject = "gemmarket.meeting.no_show_recorded"

	// UserBlockedSubject announces an account block.
	UserBlockedSubject = "gemmarket.user.blocked"

	// UserUnblockedSubject announces an admin unblock.
	UserUnblockedSubject = "gemmarket.user.unblocked"
)
