// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gemmarket/meeting-service/internal/domain"
	"github.com/gemmarket/meeting-service/internal/logging"
)

// Response is the envelope every endpoint responds with. Non-2xx responses
// always carry a human-readable message.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeData(ctx context.Context, w http.ResponseWriter, status int, data any) {
	writeResponse(ctx, w, status, Response{Success: true, Data: data})
}

func writeMessage(ctx context.Context, w http.ResponseWriter, status int, message string, data any) {
	writeResponse(ctx, w, status, Response{Success: true, Message: message, Data: data})
}

func writeResponse(ctx context.Context, w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.ErrorContext(ctx, "failed to write response", logging.ErrKey, err)
	}
}

// writeError maps a domain error onto an HTTP status with the error's own
// message in the envelope. Internal errors get a generic message so store
// details never leak to callers.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusForError(err)

	message := err.Error()
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}
	if status == http.StatusInternalServerError {
		slog.ErrorContext(ctx, "request failed", logging.ErrKey, err)
		message = "an internal error occurred, please try again"
	}

	writeResponse(ctx, w, status, Response{Success: false, Message: message})
}

func statusForError(err error) int {
	switch domain.GetErrorType(err) {
	case domain.ErrorTypeValidation:
		return http.StatusBadRequest
	case domain.ErrorTypeForbidden:
		return http.StatusForbidden
	case domain.ErrorTypeNotFound:
		return http.StatusNotFound
	case domain.ErrorTypeConflict, domain.ErrorTypeAlreadySubmitted, domain.ErrorTypeAlreadyProcessed:
		return http.StatusConflict
	case domain.ErrorTypeTooEarly:
		return http.StatusTooEarly
	case domain.ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON request body, rejecting unknown fields so typos in
// client payloads fail loudly instead of silently dropping data.
func decode(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return domain.NewValidationError("invalid request body", err)
	}
	return nil
}
