// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package domain

import "time"

// Clock abstracts the current time so that time-window rules (future-dated
// proposals, attendance gating, reminder sweeps) are testable.
type Clock interface {
	Now() time.Time
}

// RealClock is the production clock.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now().UTC()
}
