// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"fmt"
	"strings"
)

// Common key prefixes
const (
	// Entity prefixes
	KeyPrefixMeeting      = "meeting"
	KeyPrefixUser         = "user"
	KeyPrefixNoShowRecord = "record"

	// Index prefixes
	KeyPrefixIndex         = "index"
	KeyPrefixIndexPurchase = "purchase"
	KeyPrefixIndexUser     = "user"

	// Claim prefixes
	KeyPrefixActivePurchase = "active-purchase"
)

// KeyBuilder provides utilities for building consistent NATS KV keys
type KeyBuilder struct{}

// NewKeyBuilder creates a new key builder
func NewKeyBuilder() *KeyBuilder {
	return &KeyBuilder{}
}

// EntityKey builds a key for an entity (e.g., "meeting/uid-123")
func (kb *KeyBuilder) EntityKey(entityType, uid string) string {
	return fmt.Sprintf("%s/%s", entityType, uid)
}

// IndexKey builds a key for an index (e.g., "index/purchase/purchase-uid/meeting-uid")
func (kb *KeyBuilder) IndexKey(indexType, indexValue, entityUID string) string {
	return fmt.Sprintf("%s/%s/%s/%s", KeyPrefixIndex, indexType, indexValue, entityUID)
}

// IndexPrefix builds the key prefix that lists all entities under an index value
func (kb *KeyBuilder) IndexPrefix(indexType, indexValue string) string {
	return fmt.Sprintf("%s/%s/%s/", KeyPrefixIndex, indexType, indexValue)
}

// CompoundKey builds a compound key from multiple parts
func (kb *KeyBuilder) CompoundKey(parts ...string) string {
	return strings.Join(parts, "/")
}

// LastSegment returns the final segment of a key, which for index keys is
// the referenced entity UID.
func (kb *KeyBuilder) LastSegment(key string) string {
	idx := strings.LastIndex(key, "/")
	if idx < 0 {
		return key
	}
	return key[idx+1:]
}
