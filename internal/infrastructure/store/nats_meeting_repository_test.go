// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemmarket/meeting-service/internal/domain"
	"github.com/gemmarket/meeting-service/internal/domain/models"
)

func newTestMeeting(uid string) *models.Meeting {
	return &models.Meeting{
		UID:               uid,
		PurchaseUID:       "purchase-1",
		BuyerUID:          "buyer-1",
		SellerUID:         "seller-1",
		ProposedStartTime: time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC),
		Location:          "Vault 12, Hatton Garden",
		Type:              models.MeetingTypePhysical,
		Status:            models.MeetingStatusPending,
	}
}

func TestNatsMeetingRepositoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	mockKV := NewMockNatsKeyValue()
	repo := NewNatsMeetingRepository(mockKV)

	require.NoError(t, repo.Create(ctx, newTestMeeting("meeting-1")))

	meeting, err := repo.Get(ctx, "meeting-1")
	require.NoError(t, err)
	assert.Equal(t, "meeting-1", meeting.UID)
	assert.Equal(t, models.MeetingStatusPending, meeting.Status)
}

func TestNatsMeetingRepositoryCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsMeetingRepository(NewMockNatsKeyValue())

	require.NoError(t, repo.Create(ctx, newTestMeeting("meeting-1")))

	err := repo.Create(ctx, newTestMeeting("meeting-1"))
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
}

func TestNatsMeetingRepositoryCreateWritesIndexes(t *testing.T) {
	ctx := context.Background()
	mockKV := NewMockNatsKeyValue()
	repo := NewNatsMeetingRepository(mockKV)

	require.NoError(t, repo.Create(ctx, newTestMeeting("meeting-1")))

	keys, err := repo.ListKeys(ctx)
	require.NoError(t, err)
	assert.Contains(t, keys, "meeting/meeting-1")
	assert.Contains(t, keys, "index/purchase/purchase-1/meeting-1")
	assert.Contains(t, keys, "index/user/buyer-1/meeting-1")
	assert.Contains(t, keys, "index/user/seller-1/meeting-1")
}

func TestNatsMeetingRepositoryClaimPurchase(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsMeetingRepository(NewMockNatsKeyValue())

	require.NoError(t, repo.ClaimPurchase(ctx, "purchase-1", "meeting-1"))

	// The slot is exclusive while held.
	err := repo.ClaimPurchase(ctx, "purchase-1", "meeting-2")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))

	// Released, the slot can be claimed again.
	require.NoError(t, repo.ReleasePurchase(ctx, "purchase-1"))
	require.NoError(t, repo.ClaimPurchase(ctx, "purchase-1", "meeting-2"))
}

func TestNatsMeetingRepositoryReleasePurchaseIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsMeetingRepository(NewMockNatsKeyValue())

	require.NoError(t, repo.ReleasePurchase(ctx, "purchase-never-claimed"))
}

func TestNatsMeetingRepositoryUpdateWithRevision(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsMeetingRepository(NewMockNatsKeyValue())

	require.NoError(t, repo.Create(ctx, newTestMeeting("meeting-1")))

	meeting, revision, err := repo.GetWithRevision(ctx, "meeting-1")
	require.NoError(t, err)

	meeting.Status = models.MeetingStatusConfirmed
	confirmedAt := meeting.ProposedStartTime
	meeting.ConfirmedStartTime = &confirmedAt
	require.NoError(t, repo.Update(ctx, meeting, revision))

	// Updating again with the stale revision must fail.
	err = repo.Update(ctx, meeting, revision)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))

	updated, err := repo.Get(ctx, "meeting-1")
	require.NoError(t, err)
	assert.Equal(t, models.MeetingStatusConfirmed, updated.Status)
}

func TestNatsMeetingRepositoryListByUser(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsMeetingRepository(NewMockNatsKeyValue())

	first := newTestMeeting("meeting-1")
	second := newTestMeeting("meeting-2")
	second.PurchaseUID = "purchase-2"
	second.BuyerUID = "buyer-2"
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	meetings, err := repo.ListByUser(ctx, "buyer-1")
	require.NoError(t, err)
	require.Len(t, meetings, 1)
	assert.Equal(t, "meeting-1", meetings[0].UID)

	// Seller is party to both meetings.
	meetings, err = repo.ListByUser(ctx, "seller-1")
	require.NoError(t, err)
	assert.Len(t, meetings, 2)

	meetings, err = repo.ListByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, meetings)
}

func TestNatsMeetingRepositoryListByPurchase(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsMeetingRepository(NewMockNatsKeyValue())

	first := newTestMeeting("meeting-1")
	second := newTestMeeting("meeting-2")
	second.PurchaseUID = "purchase-2"
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	meetings, err := repo.ListByPurchase(ctx, "purchase-1")
	require.NoError(t, err)
	require.Len(t, meetings, 1)
	assert.Equal(t, "meeting-1", meetings[0].UID)
}

func TestNatsMeetingRepositoryListByStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsMeetingRepository(NewMockNatsKeyValue())

	pending := newTestMeeting("meeting-1")
	confirmed := newTestMeeting("meeting-2")
	confirmed.PurchaseUID = "purchase-2"
	confirmed.Status = models.MeetingStatusConfirmed
	confirmedAt := confirmed.ProposedStartTime
	confirmed.ConfirmedStartTime = &confirmedAt
	require.NoError(t, repo.Create(ctx, pending))
	require.NoError(t, repo.Create(ctx, confirmed))

	meetings, err := repo.ListByStatus(ctx, models.MeetingStatusConfirmed)
	require.NoError(t, err)
	require.Len(t, meetings, 1)
	assert.Equal(t, "meeting-2", meetings[0].UID)
}
