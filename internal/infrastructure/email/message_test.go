// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildEmailMessage(t *testing.T) {
	config := SMTPConfig{
		Host: "smtp.example.com",
		Port: 587,
		From: "noreply@gemmarket.example",
	}

	message := buildEmailMessage("ama@example.com", "Test Subject",
		"<p>html body</p>", "text body", config)

	assert.Contains(t, message, "From: noreply@gemmarket.example\r\n")
	assert.Contains(t, message, "To: ama@example.com\r\n")
	assert.Contains(t, message, "Subject: Test Subject\r\n")
	assert.Contains(t, message, "MIME-Version: 1.0\r\n")
	assert.Contains(t, message, "Content-Type: multipart/alternative")
	assert.Contains(t, message, "Content-Type: text/plain; charset=\"UTF-8\"")
	assert.Contains(t, message, "Content-Type: text/html; charset=\"UTF-8\"")
	assert.Contains(t, message, "text body")
	assert.Contains(t, message, "<p>html body</p>")
}
