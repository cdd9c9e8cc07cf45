// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gemmarket/meeting-service/internal/domain"
	"github.com/gemmarket/meeting-service/internal/logging"
)

// SMTPService implements the EmailService interface using SMTP
type SMTPService struct {
	config    SMTPConfig
	templates *TemplateManager
}

// SMTPConfig holds the SMTP server configuration
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Username string // Optional for authenticated SMTP
	Password string // Optional for authenticated SMTP
}

// NewSMTPService creates a new SMTP email service
func NewSMTPService(config SMTPConfig) (*SMTPService, error) {
	templates, err := NewTemplateManager()
	if err != nil {
		return nil, err
	}

	return &SMTPService{
		config:    config,
		templates: templates,
	}, nil
}

// SendUnblockNotice emails a user that an admin has lifted their account block
func (s *SMTPService) SendUnblockNotice(ctx context.Context, notice domain.EmailUnblockNotice) error {
	ctx = logging.AppendCtx(ctx, slog.String("recipient_email", notice.RecipientEmail))

	rendered, err := s.templates.RenderUnblockNotice(notice)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render unblock notice", logging.ErrKey, err)
		return err
	}

	message := buildEmailMessage(notice.RecipientEmail, "Your GemMarket account has been restored",
		rendered.HTML, rendered.Text, s.config)
	err = sendEmailMessage(notice.RecipientEmail, message, s.config)
	if err != nil {
		slog.ErrorContext(ctx, "failed to send unblock notice email", logging.ErrKey, err)
		return err
	}

	slog.InfoContext(ctx, "unblock notice email sent successfully")
	return nil
}

// SendMeetingReminder emails a party ahead of a confirmed meeting
func (s *SMTPService) SendMeetingReminder(ctx context.Context, reminder domain.EmailMeetingReminder) error {
	ctx = logging.AppendCtx(ctx, slog.String("recipient_email", reminder.RecipientEmail))

	rendered, err := s.templates.RenderMeetingReminder(reminder)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render meeting reminder", logging.ErrKey, err)
		return err
	}

	subject := fmt.Sprintf("Reminder: gemstone viewing on %s", reminder.MeetingTime.Format("Jan 2"))
	message := buildEmailMessage(reminder.RecipientEmail, subject, rendered.HTML, rendered.Text, s.config)
	err = sendEmailMessage(reminder.RecipientEmail, message, s.config)
	if err != nil {
		slog.ErrorContext(ctx, "failed to send meeting reminder email", logging.ErrKey, err)
		return err
	}

	slog.InfoContext(ctx, "meeting reminder email sent successfully")
	return nil
}
