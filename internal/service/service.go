// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

// Package service contains the meeting lifecycle, attendance, penalty, and
// reminder engines. Each operation is a short-lived transaction against the
// KV store; concurrent writers are reconciled with revision-guarded updates.
package service

import (
	"time"
)

// updateRetries bounds the CAS retry loop for counter mutations that race
// with other writers on the same user record.
const updateRetries = 3

// PenaltyPolicy carries the tunable thresholds and windows of the penalty
// and lifecycle engines. The warn and block thresholds are deliberately
// configuration, not constants: product has not settled on canonical values.
type PenaltyPolicy struct {
	// WarnThreshold is the no-show count at which an account becomes WARNED.
	WarnThreshold int `koanf:"warn_threshold"`
	// BlockThreshold is the no-show count at which an account becomes BLOCKED.
	BlockThreshold int `koanf:"block_threshold"`
	// RescheduleWindowDays caps how far into the future a meeting may be
	// rescheduled. Zero disables the cap.
	RescheduleWindowDays int `koanf:"reschedule_window_days"`
	// ReminderLeadTime is how long before a confirmed meeting the reminder
	// sweep publishes a reminder.
	ReminderLeadTime time.Duration `koanf:"reminder_lead_time"`
}

// DefaultPenaltyPolicy returns the policy used when no configuration file
// overrides it.
func DefaultPenaltyPolicy() PenaltyPolicy {
	return PenaltyPolicy{
		WarnThreshold:        2,
		BlockThreshold:       3,
		RescheduleWindowDays: 5,
		ReminderLeadTime:     24 * time.Hour,
	}
}
