// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemmarket/meeting-service/internal/domain"
	"github.com/gemmarket/meeting-service/internal/domain/models"
)

func newTestUser(uid string) *models.User {
	return &models.User{
		UID:           uid,
		Name:          "Ama Serwaa",
		Email:         "ama@example.com",
		Role:          models.UserRoleBuyer,
		AccountStatus: models.AccountStatusActive,
	}
}

func TestNatsUserRepositoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsUserRepository(NewMockNatsKeyValue())

	require.NoError(t, repo.Create(ctx, newTestUser("user-1")))

	user, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.AccountStatusActive, user.AccountStatus)
	assert.Equal(t, 0, user.NoShowCount)
}

func TestNatsUserRepositoryCounterAndStatusTravelTogether(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsUserRepository(NewMockNatsKeyValue())

	require.NoError(t, repo.Create(ctx, newTestUser("user-1")))

	user, revision, err := repo.GetWithRevision(ctx, "user-1")
	require.NoError(t, err)

	user.NoShowCount = 2
	user.AccountStatus = models.AccountStatusWarned
	require.NoError(t, repo.Update(ctx, user, revision))

	updated, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, updated.NoShowCount)
	assert.Equal(t, models.AccountStatusWarned, updated.AccountStatus)
}

func TestNatsUserRepositoryUpdateStaleRevision(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsUserRepository(NewMockNatsKeyValue())

	require.NoError(t, repo.Create(ctx, newTestUser("user-1")))

	user, revision, err := repo.GetWithRevision(ctx, "user-1")
	require.NoError(t, err)

	// Concurrent writer bumps the revision first.
	other := *user
	other.NoShowCount = 1
	require.NoError(t, repo.Update(ctx, &other, revision))

	user.NoShowCount = 5
	err = repo.Update(ctx, user, revision)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
}

func TestNatsUserRepositoryListAll(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsUserRepository(NewMockNatsKeyValue())

	require.NoError(t, repo.Create(ctx, newTestUser("user-1")))
	require.NoError(t, repo.Create(ctx, newTestUser("user-2")))

	users, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
