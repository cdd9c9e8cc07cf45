// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/gemmarket/meeting-service/internal/domain"
)

// MockEmailService implements EmailService for testing
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendUnblockNotice(ctx context.Context, notice domain.EmailUnblockNotice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

func (m *MockEmailService) SendMeetingReminder(ctx context.Context, reminder domain.EmailMeetingReminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}
