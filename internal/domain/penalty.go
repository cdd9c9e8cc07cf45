// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/gemmarket/meeting-service/internal/domain/models"
)

// PenaltyRecorder is the attendance engine's view of the account penalty
// engine. Both operations are idempotent per (user, meeting) incident.
type PenaltyRecorder interface {
	RecordNoShow(ctx context.Context, userUID, meetingUID string, party models.Party) error
	ReverseNoShow(ctx context.Context, userUID, meetingUID string) error
}
