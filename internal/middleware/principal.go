// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gemmarket/meeting-service/internal/domain/models"
	"github.com/gemmarket/meeting-service/internal/logging"
	"github.com/gemmarket/meeting-service/pkg/constants"
)

// Principal is the verified actor identity set by the auth gateway. The
// service never trusts actor IDs carried in request bodies; every mutation
// is attributed to the principal from these headers.
type Principal struct {
	UID  string
	Role models.UserRole
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == models.UserRoleAdmin
}

// PrincipalMiddleware extracts the X-Actor-ID and X-Actor-Role headers into
// the request context. Mutating requests without an actor ID are rejected;
// reads are allowed through anonymously.
func PrincipalMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := Principal{
				UID:  r.Header.Get(constants.ActorIDHeader),
				Role: models.UserRole(r.Header.Get(constants.ActorRoleHeader)),
			}

			if principal.UID == "" && r.Method != http.MethodGet && r.Method != http.MethodHead {
				writeUnauthorized(w, r)
				return
			}

			ctx := r.Context()
			if principal.UID != "" {
				ctx = context.WithValue(ctx, constants.ActorIDContextID, principal.UID)
				ctx = context.WithValue(ctx, constants.ActorRoleContextID, principal.Role)
				ctx = logging.AppendCtx(ctx, slog.String("actor_uid", principal.UID))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext returns the principal stored by PrincipalMiddleware.
// The zero Principal means the request was anonymous.
func PrincipalFromContext(ctx context.Context) Principal {
	uid, _ := ctx.Value(constants.ActorIDContextID).(string)
	role, _ := ctx.Value(constants.ActorRoleContextID).(models.UserRole)
	return Principal{UID: uid, Role: role}
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request) {
	slog.WarnContext(r.Context(), "rejecting mutating request without actor identity")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": "a verified actor identity is required for this operation",
	}); err != nil {
		slog.ErrorContext(r.Context(), "failed to write response", logging.ErrKey, err)
	}
}
