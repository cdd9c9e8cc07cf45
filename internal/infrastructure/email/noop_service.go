// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package email

import (
	"context"
	"log/slog"

	"github.com/gemmarket/meeting-service/internal/domain"
	"github.com/gemmarket/meeting-service/internal/logging"
)

// NoOpService is a no-operation email service that logs but doesn't send emails
type NoOpService struct{}

// NewNoOpService creates a new no-op email service
func NewNoOpService() *NoOpService {
	return &NoOpService{}
}

// SendUnblockNotice logs the notice but doesn't send an email
func (s *NoOpService) SendUnblockNotice(ctx context.Context, notice domain.EmailUnblockNotice) error {
	ctx = logging.AppendCtx(ctx, slog.String("recipient_email", notice.RecipientEmail))

	slog.DebugContext(ctx, "email service disabled, skipping unblock notice email")
	return nil
}

// SendMeetingReminder logs the reminder but doesn't send an email
func (s *NoOpService) SendMeetingReminder(ctx context.Context, reminder domain.EmailMeetingReminder) error {
	ctx = logging.AppendCtx(ctx, slog.String("recipient_email", reminder.RecipientEmail))

	slog.DebugContext(ctx, "email service disabled, skipping meeting reminder email")
	return nil
}
