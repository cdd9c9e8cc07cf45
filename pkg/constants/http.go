// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package constants

// Constants for the HTTP request headers
const (
	// RequestIDHeader is the header name for the request ID
	RequestIDHeader string = "X-REQUEST-ID"

	// ActorIDHeader carries the verified user ID set by the auth gateway
	ActorIDHeader string = "X-Actor-ID"

	// ActorRoleHeader carries the verified user role set by the auth gateway
	ActorRoleHeader string = "X-Actor-Role"
)

// contextRequestID is the type for the request ID context key
type contextRequestID string

// RequestIDContextID is the context ID for the request ID
const RequestIDContextID contextRequestID = "X-REQUEST-ID"

// contextActor is the type for the actor context keys
type contextActor string

// ActorIDContextID is the context ID for the verified actor ID
const ActorIDContextID contextActor = "actor-id"

// ActorRoleContextID is the context ID for the verified actor role
const ActorRoleContextID contextActor = "actor-role"
