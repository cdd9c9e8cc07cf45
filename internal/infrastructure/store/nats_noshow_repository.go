// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/gemmarket/meeting-service/internal/domain/models"
)

// NatsNoShowRecordRepository is the NATS KV store repository for no-show
// records. The (user, meeting) compound key doubles as the dedup key for
// idempotent penalty recording.
type NatsNoShowRecordRepository struct {
	*NatsBaseRepository[models.NoShowRecord]
	keyBuilder *KeyBuilder
}

// NewNatsNoShowRecordRepository creates a new NATS KV store repository for
// no-show records.
func NewNatsNoShowRecordRepository(kvStore INatsKeyValue) *NatsNoShowRecordRepository {
	return &NatsNoShowRecordRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.NoShowRecord](kvStore, "no-show record"),
		keyBuilder:         NewKeyBuilder(),
	}
}

func (r *NatsNoShowRecordRepository) entityKey(userUID, meetingUID string) string {
	return r.keyBuilder.CompoundKey(KeyPrefixNoShowRecord, userUID, meetingUID)
}

// Create stores a record only if none exists for the (user, meeting) pair.
func (r *NatsNoShowRecordRepository) Create(ctx context.Context, record *models.NoShowRecord) error {
	return r.CreateExclusive(ctx, r.entityKey(record.UserUID, record.MeetingUID), record)
}

// Get retrieves the record for a (user, meeting) pair.
func (r *NatsNoShowRecordRepository) Get(ctx context.Context, userUID, meetingUID string) (*models.NoShowRecord, error) {
	return r.NatsBaseRepository.Get(ctx, r.entityKey(userUID, meetingUID))
}

// GetWithRevision retrieves the record and its store revision.
func (r *NatsNoShowRecordRepository) GetWithRevision(ctx context.Context, userUID, meetingUID string) (*models.NoShowRecord, uint64, error) {
	return r.NatsBaseRepository.GetWithRevision(ctx, r.entityKey(userUID, meetingUID))
}

// Update writes the record guarded by the expected revision.
func (r *NatsNoShowRecordRepository) Update(ctx context.Context, record *models.NoShowRecord, revision uint64) error {
	return r.NatsBaseRepository.Update(ctx, r.entityKey(record.UserUID, record.MeetingUID), record, revision)
}

// Delete removes the record. Used to compensate when the counter mutation
// after a fresh record ultimately fails.
func (r *NatsNoShowRecordRepository) Delete(ctx context.Context, userUID, meetingUID string) error {
	return r.NatsBaseRepository.Delete(ctx, r.entityKey(userUID, meetingUID))
}

// ListByUser lists all records for a user.
func (r *NatsNoShowRecordRepository) ListByUser(ctx context.Context, userUID string) ([]*models.NoShowRecord, error) {
	return r.ListEntities(ctx, r.keyBuilder.CompoundKey(KeyPrefixNoShowRecord, userUID)+"/")
}
