// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/gemmarket/meeting-service/internal/domain/models"
)

// MeetingRepository is the durable store of meetings and their attendance
// sub-state. Writes that race on the same record use revision-based
// optimistic concurrency; a stale revision surfaces as a Conflict error.
// The purchase claim methods back the one-active-meeting-per-purchase rule:
// ClaimPurchase is an exclusive create that fails with a Conflict error
// while another meeting holds the slot.
type MeetingRepository interface {
	Create(ctx context.Context, meeting *models.Meeting) error
	ClaimPurchase(ctx context.Context, purchaseUID, meetingUID string) error
	ReleasePurchase(ctx context.Context, purchaseUID string) error
	Get(ctx context.Context, meetingUID string) (*models.Meeting, error)
	GetWithRevision(ctx context.Context, meetingUID string) (*models.Meeting, uint64, error)
	Update(ctx context.Context, meeting *models.Meeting, revision uint64) error
	ListByUser(ctx context.Context, userUID string) ([]*models.Meeting, error)
	ListByPurchase(ctx context.Context, purchaseUID string) ([]*models.Meeting, error)
	ListByStatus(ctx context.Context, status models.MeetingStatus) ([]*models.Meeting, error)
}

// UserRepository is the store of the attendance-relevant user projection.
// The penalty engine is the only writer of account status fields.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, userUID string) (*models.User, error)
	GetWithRevision(ctx context.Context, userUID string) (*models.User, uint64, error)
	Update(ctx context.Context, user *models.User, revision uint64) error
	ListAll(ctx context.Context) ([]*models.User, error)
}

// NoShowRecordRepository stores one record per (user, meeting) no-show
// incident. Create fails with a Conflict error when the record already
// exists, which is what makes penalty recording idempotent.
type NoShowRecordRepository interface {
	Create(ctx context.Context, record *models.NoShowRecord) error
	Get(ctx context.Context, userUID, meetingUID string) (*models.NoShowRecord, error)
	GetWithRevision(ctx context.Context, userUID, meetingUID string) (*models.NoShowRecord, uint64, error)
	Update(ctx context.Context, record *models.NoShowRecord, revision uint64) error
	Delete(ctx context.Context, userUID, meetingUID string) error
	ListByUser(ctx context.Context, userUID string) ([]*models.NoShowRecord, error)
}
