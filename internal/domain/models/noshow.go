// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package models

import (
	"time"
)

// NoShowRecord is the per-(user, meeting) fact of an adjudicated no-show.
// Its existence is the dedup key that makes penalty recording idempotent;
// the Reversed flag makes reason-driven reversal idempotent.
type NoShowRecord struct {
	UserUID    string     `json:"user_uid"`
	MeetingUID string     `json:"meeting_uid"`
	Party      Party      `json:"party"`
	RecordedAt time.Time  `json:"recorded_at"`
	Reversed   bool       `json:"reversed"`
	ReversedAt *time.Time `json:"reversed_at,omitempty"`
}
