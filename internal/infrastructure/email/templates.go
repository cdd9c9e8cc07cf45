// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/gemmarket/meeting-service/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// RenderedEmail holds both HTML and text versions of a rendered email
type RenderedEmail struct {
	HTML string
	Text string
}

// TemplateSet holds HTML and text versions of a template
type TemplateSet struct {
	HTML *template.Template
	Text *template.Template
}

// Templates holds all loaded template sets
type Templates struct {
	UnblockNotice   TemplateSet
	MeetingReminder TemplateSet
}

// templateConfig defines a template to be loaded
type templateConfig struct {
	name string
	path string
}

// TemplateManager loads and renders the transactional email templates
type TemplateManager struct {
	templates Templates
}

// NewTemplateManager creates a new template manager with all templates loaded
func NewTemplateManager() (*TemplateManager, error) {
	templateConfigs := map[string]templateConfig{
		"unblockNoticeHTML":   {"unblock_notice.html", "templates/unblock_notice.html"},
		"unblockNoticeText":   {"unblock_notice.txt", "templates/unblock_notice.txt"},
		"meetingReminderHTML": {"meeting_reminder.html", "templates/meeting_reminder.html"},
		"meetingReminderText": {"meeting_reminder.txt", "templates/meeting_reminder.txt"},
	}

	loadedTemplates := make(map[string]*template.Template)
	for key, cfg := range templateConfigs {
		tmpl, err := loadTemplate(cfg)
		if err != nil {
			return nil, err
		}
		loadedTemplates[key] = tmpl
	}

	return &TemplateManager{
		templates: Templates{
			UnblockNotice: TemplateSet{
				HTML: loadedTemplates["unblockNoticeHTML"],
				Text: loadedTemplates["unblockNoticeText"],
			},
			MeetingReminder: TemplateSet{
				HTML: loadedTemplates["meetingReminderHTML"],
				Text: loadedTemplates["meetingReminderText"],
			},
		},
	}, nil
}

// RenderUnblockNotice renders an unblock notice email with both HTML and text versions
func (tm *TemplateManager) RenderUnblockNotice(data domain.EmailUnblockNotice) (*RenderedEmail, error) {
	html, err := renderTemplate(tm.templates.UnblockNotice.HTML, data)
	if err != nil {
		return nil, fmt.Errorf("failed to render unblock notice HTML: %w", err)
	}

	text, err := renderTemplate(tm.templates.UnblockNotice.Text, data)
	if err != nil {
		return nil, fmt.Errorf("failed to render unblock notice text: %w", err)
	}

	return &RenderedEmail{HTML: html, Text: text}, nil
}

// RenderMeetingReminder renders a meeting reminder email with both HTML and text versions
func (tm *TemplateManager) RenderMeetingReminder(data domain.EmailMeetingReminder) (*RenderedEmail, error) {
	html, err := renderTemplate(tm.templates.MeetingReminder.HTML, data)
	if err != nil {
		return nil, fmt.Errorf("failed to render meeting reminder HTML: %w", err)
	}

	text, err := renderTemplate(tm.templates.MeetingReminder.Text, data)
	if err != nil {
		return nil, fmt.Errorf("failed to render meeting reminder text: %w", err)
	}

	return &RenderedEmail{HTML: html, Text: text}, nil
}

// loadTemplate loads a single template with the shared function map
func loadTemplate(config templateConfig) (*template.Template, error) {
	tmpl, err := template.New(config.name).Funcs(template.FuncMap{
		"formatTime": formatTime,
		"capitalize": capitalize,
	}).ParseFS(templateFS, config.path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s template: %w", config.name, err)
	}
	return tmpl, nil
}

// renderTemplate renders any template with the provided data
func renderTemplate(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, data)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// formatTime formats a time for display in emails
func formatTime(t time.Time, timezone string) string {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		// Fall back to UTC if timezone is invalid
		loc = time.UTC
	}

	localTime := t.In(loc)

	day := localTime.Day()
	var suffix string
	switch {
	case day >= 11 && day <= 13:
		suffix = "th"
	case day%10 == 1:
		suffix = "st"
	case day%10 == 2:
		suffix = "nd"
	case day%10 == 3:
		suffix = "rd"
	default:
		suffix = "th"
	}

	return fmt.Sprintf("%s, %s %d%s %d at %s %s",
		localTime.Weekday(),
		localTime.Month(),
		day,
		suffix,
		localTime.Year(),
		localTime.Format("3:04 PM"),
		localTime.Format("MST"),
	)
}

// capitalize uppercases the first letter of a string
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
