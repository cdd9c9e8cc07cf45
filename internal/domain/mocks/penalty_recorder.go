// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/gemmarket/meeting-service/internal/domain/models"
)

// MockPenaltyRecorder implements PenaltyRecorder for testing
type MockPenaltyRecorder struct {
	mock.Mock
}

func (m *MockPenaltyRecorder) RecordNoShow(ctx context.Context, userUID, meetingUID string, party models.Party) error {
	args := m.Called(ctx, userUID, meetingUID, party)
	return args.Error(0)
}

func (m *MockPenaltyRecorder) ReverseNoShow(ctx context.Context, userUID, meetingUID string) error {
	args := m.Called(ctx, userUID, meetingUID)
	return args.Error(0)
}
