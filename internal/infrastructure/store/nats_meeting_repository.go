// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"log/slog"

	"github.com/gemmarket/meeting-service/internal/domain"
	"github.com/gemmarket/meeting-service/internal/domain/models"
	"github.com/gemmarket/meeting-service/internal/logging"
)

// NatsMeetingRepository is the NATS KV store repository for meetings.
// Alongside each meeting entity it maintains purchase and user index keys so
// that the at-most-one-active-meeting-per-purchase rule and the per-user
// meeting listing do not require full scans.
type NatsMeetingRepository struct {
	*NatsBaseRepository[models.Meeting]
	keyBuilder *KeyBuilder
}

// NewNatsMeetingRepository creates a new NATS KV store repository for meetings.
func NewNatsMeetingRepository(kvStore INatsKeyValue) *NatsMeetingRepository {
	return &NatsMeetingRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Meeting](kvStore, "meeting"),
		keyBuilder:         NewKeyBuilder(),
	}
}

func (r *NatsMeetingRepository) entityKey(meetingUID string) string {
	return r.keyBuilder.EntityKey(KeyPrefixMeeting, meetingUID)
}

// Create stores a new meeting and its index entries.
func (r *NatsMeetingRepository) Create(ctx context.Context, meeting *models.Meeting) error {
	err := r.CreateExclusive(ctx, r.entityKey(meeting.UID), meeting)
	if err != nil {
		return err
	}

	// Index entries only speed up listings; the one-active-meeting rule is
	// enforced by the purchase claim key, not the index. A failed index
	// write is logged and tolerated.
	indexKeys := []string{
		r.keyBuilder.IndexKey(KeyPrefixIndexPurchase, meeting.PurchaseUID, meeting.UID),
		r.keyBuilder.IndexKey(KeyPrefixIndexUser, meeting.BuyerUID, meeting.UID),
		r.keyBuilder.IndexKey(KeyPrefixIndexUser, meeting.SellerUID, meeting.UID),
	}
	for _, indexKey := range indexKeys {
		if err := r.PutIndex(ctx, indexKey); err != nil {
			slog.WarnContext(ctx, "failed to write meeting index key",
				"index_key", indexKey, logging.ErrKey, err)
		}
	}

	return nil
}

func (r *NatsMeetingRepository) purchaseClaimKey(purchaseUID string) string {
	return r.keyBuilder.EntityKey(KeyPrefixActivePurchase, purchaseUID)
}

// ClaimPurchase takes the exclusive active-meeting slot for a purchase with
// a KV create. A slot that is already held surfaces as a Conflict error, so
// two racing proposals can never both create a meeting.
func (r *NatsMeetingRepository) ClaimPurchase(ctx context.Context, purchaseUID, meetingUID string) error {
	return r.CreateRawExclusive(ctx, r.purchaseClaimKey(purchaseUID), []byte(meetingUID))
}

// ReleasePurchase frees the active-meeting slot once its meeting reaches a
// terminal status. Releasing a slot that is not held is a no-op.
func (r *NatsMeetingRepository) ReleasePurchase(ctx context.Context, purchaseUID string) error {
	err := r.NatsBaseRepository.Delete(ctx, r.purchaseClaimKey(purchaseUID))
	if err != nil && domain.GetErrorType(err) != domain.ErrorTypeNotFound {
		return err
	}
	return nil
}

// Get retrieves a meeting by UID.
func (r *NatsMeetingRepository) Get(ctx context.Context, meetingUID string) (*models.Meeting, error) {
	return r.NatsBaseRepository.Get(ctx, r.entityKey(meetingUID))
}

// GetWithRevision retrieves a meeting and its store revision by UID.
func (r *NatsMeetingRepository) GetWithRevision(ctx context.Context, meetingUID string) (*models.Meeting, uint64, error) {
	return r.NatsBaseRepository.GetWithRevision(ctx, r.entityKey(meetingUID))
}

// Update writes a meeting guarded by the expected revision.
func (r *NatsMeetingRepository) Update(ctx context.Context, meeting *models.Meeting, revision uint64) error {
	return r.NatsBaseRepository.Update(ctx, r.entityKey(meeting.UID), meeting, revision)
}

func (r *NatsMeetingRepository) listByIndex(ctx context.Context, indexPrefix string) ([]*models.Meeting, error) {
	keys, err := r.ListKeysByPrefix(ctx, indexPrefix)
	if err != nil {
		return nil, err
	}

	meetings := []*models.Meeting{}
	for _, key := range keys {
		meetingUID := r.keyBuilder.LastSegment(key)
		meeting, err := r.Get(ctx, meetingUID)
		if err != nil {
			slog.WarnContext(ctx, "failed to get indexed meeting, skipping",
				"meeting_uid", meetingUID, logging.ErrKey, err)
			continue
		}
		meetings = append(meetings, meeting)
	}

	return meetings, nil
}

// ListByUser lists all meetings where the user is buyer or seller.
func (r *NatsMeetingRepository) ListByUser(ctx context.Context, userUID string) ([]*models.Meeting, error) {
	return r.listByIndex(ctx, r.keyBuilder.IndexPrefix(KeyPrefixIndexUser, userUID))
}

// ListByPurchase lists all meetings attached to a purchase.
func (r *NatsMeetingRepository) ListByPurchase(ctx context.Context, purchaseUID string) ([]*models.Meeting, error) {
	return r.listByIndex(ctx, r.keyBuilder.IndexPrefix(KeyPrefixIndexPurchase, purchaseUID))
}

// ListByStatus lists all meetings in the given lifecycle status.
func (r *NatsMeetingRepository) ListByStatus(ctx context.Context, status models.MeetingStatus) ([]*models.Meeting, error) {
	all, err := r.ListEntities(ctx, KeyPrefixMeeting+"/")
	if err != nil {
		return nil, err
	}

	meetings := []*models.Meeting{}
	for _, meeting := range all {
		if meeting.Status == status {
			meetings = append(meetings, meeting)
		}
	}

	return meetings, nil
}
