// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package models

import (
	"time"
)

// UserRole is the marketplace role of a user.
type UserRole string

const (
	UserRoleBuyer  UserRole = "BUYER"
	UserRoleSeller UserRole = "SELLER"
	UserRoleAdmin  UserRole = "ADMIN"
)

// AccountStatus is the penalty standing of a user account. Transitions are
// owned exclusively by the penalty engine.
type AccountStatus string

const (
	AccountStatusActive  AccountStatus = "ACTIVE"
	AccountStatusWarned  AccountStatus = "WARNED"
	AccountStatusBlocked AccountStatus = "BLOCKED"
)

// User is the attendance-relevant projection of a marketplace user.
type User struct {
	UID            string        `json:"uid"`
	Name           string        `json:"name,omitempty"`
	Email          string        `json:"email,omitempty"`
	Role           UserRole      `json:"role"`
	AccountStatus  AccountStatus `json:"account_status"`
	NoShowCount    int           `json:"no_show_count"`
	LastNoShowAt   *time.Time    `json:"last_no_show_at,omitempty"`
	BlockingReason string        `json:"blocking_reason,omitempty"`
	BlockedAt      *time.Time    `json:"blocked_at,omitempty"`
	CreatedAt      *time.Time    `json:"created_at,omitempty"`
	UpdatedAt      *time.Time    `json:"updated_at,omitempty"`
}

// UserNoShowStats is the admin-facing projection of a user's penalty state.
type UserNoShowStats struct {
	UID            string        `json:"uid"`
	Name           string        `json:"name,omitempty"`
	Email          string        `json:"email,omitempty"`
	AccountStatus  AccountStatus `json:"account_status"`
	NoShowCount    int           `json:"no_show_count"`
	LastNoShowAt   *time.Time    `json:"last_no_show_at,omitempty"`
	BlockingReason string        `json:"blocking_reason,omitempty"`
	BlockedAt      *time.Time    `json:"blocked_at,omitempty"`
}

// Stats returns the admin-facing projection of the user's penalty state.
func (u *User) Stats() *UserNoShowStats {
	return &UserNoShowStats{
		UID:            u.UID,
		Name:           u.Name,
		Email:          u.Email,
		AccountStatus:  u.AccountStatus,
		NoShowCount:    u.NoShowCount,
		LastNoShowAt:   u.LastNoShowAt,
		BlockingReason: u.BlockingReason,
		BlockedAt:      u.BlockedAt,
	}
}
