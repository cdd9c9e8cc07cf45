// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/gemmarket/meeting-service/internal/domain/models"
)

// NatsUserRepository is the NATS KV store repository for the
// attendance-relevant user projection.
type NatsUserRepository struct {
	*NatsBaseRepository[models.User]
	keyBuilder *KeyBuilder
}

// NewNatsUserRepository creates a new NATS KV store repository for users.
func NewNatsUserRepository(kvStore INatsKeyValue) *NatsUserRepository {
	return &NatsUserRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.User](kvStore, "user"),
		keyBuilder:         NewKeyBuilder(),
	}
}

func (r *NatsUserRepository) entityKey(userUID string) string {
	return r.keyBuilder.EntityKey(KeyPrefixUser, userUID)
}

// Create stores a new user record.
func (r *NatsUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.CreateExclusive(ctx, r.entityKey(user.UID), user)
}

// Get retrieves a user by UID.
func (r *NatsUserRepository) Get(ctx context.Context, userUID string) (*models.User, error) {
	return r.NatsBaseRepository.Get(ctx, r.entityKey(userUID))
}

// GetWithRevision retrieves a user and its store revision by UID.
func (r *NatsUserRepository) GetWithRevision(ctx context.Context, userUID string) (*models.User, uint64, error) {
	return r.NatsBaseRepository.GetWithRevision(ctx, r.entityKey(userUID))
}

// Update writes a user guarded by the expected revision. Penalty counter and
// account status always travel in the same write so they cannot diverge.
func (r *NatsUserRepository) Update(ctx context.Context, user *models.User, revision uint64) error {
	return r.NatsBaseRepository.Update(ctx, r.entityKey(user.UID), user, revision)
}

// ListAll lists all user records.
func (r *NatsUserRepository) ListAll(ctx context.Context) ([]*models.User, error) {
	return r.ListEntities(ctx, KeyPrefixUser+"/")
}
