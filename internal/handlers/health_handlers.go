// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package handlers

import (
	"net/http"
)

// ReadinessChecker reports whether a component is wired and ready to serve.
type ReadinessChecker interface {
	HandlerReady() bool
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	checkers []ReadinessChecker
}

// NewHealthHandler creates a new HealthHandler over the given components.
func NewHealthHandler(checkers ...ReadinessChecker) *HealthHandler {
	return &HealthHandler{checkers: checkers}
}

// Livez handles GET /livez. The process is alive as long as it can answer.
func (h *HealthHandler) Livez(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK\n"))
}

// Readyz handles GET /readyz. Ready only once every component is wired.
func (h *HealthHandler) Readyz(w http.ResponseWriter, _ *http.Request) {
	for _, checker := range h.checkers {
		if !checker.HandlerReady() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("NOT READY\n"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK\n"))
}
