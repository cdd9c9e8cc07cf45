// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/gemmarket/meeting-service/internal/domain/models"
)

// MockNoShowRecordRepository implements NoShowRecordRepository for testing
type MockNoShowRecordRepository struct {
	mock.Mock
}

func (m *MockNoShowRecordRepository) Create(ctx context.Context, record *models.NoShowRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockNoShowRecordRepository) Get(ctx context.Context, userUID, meetingUID string) (*models.NoShowRecord, error) {
	args := m.Called(ctx, userUID, meetingUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NoShowRecord), args.Error(1)
}

func (m *MockNoShowRecordRepository) GetWithRevision(ctx context.Context, userUID, meetingUID string) (*models.NoShowRecord, uint64, error) {
	args := m.Called(ctx, userUID, meetingUID)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*models.NoShowRecord), args.Get(1).(uint64), args.Error(2)
}

func (m *MockNoShowRecordRepository) Update(ctx context.Context, record *models.NoShowRecord, revision uint64) error {
	args := m.Called(ctx, record, revision)
	return args.Error(0)
}

func (m *MockNoShowRecordRepository) Delete(ctx context.Context, userUID, meetingUID string) error {
	args := m.Called(ctx, userUID, meetingUID)
	return args.Error(0)
}

func (m *MockNoShowRecordRepository) ListByUser(ctx context.Context, userUID string) ([]*models.NoShowRecord, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.NoShowRecord), args.Error(1)
}
