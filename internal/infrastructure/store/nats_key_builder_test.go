// Copyright The GemMarket Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyBuilder_EntityKey(t *testing.T) {
	kb := NewKeyBuilder()
	assert.Equal(t, "meeting/uid-123", kb.EntityKey(KeyPrefixMeeting, "uid-123"))
	assert.Equal(t, "user/u-1", kb.EntityKey(KeyPrefixUser, "u-1"))
}

func TestKeyBuilder_IndexKey(t *testing.T) {
	kb := NewKeyBuilder()
	assert.Equal(t,
		"index/purchase/p-1/m-1",
		kb.IndexKey(KeyPrefixIndexPurchase, "p-1", "m-1"))
}

func TestKeyBuilder_IndexPrefix(t *testing.T) {
	kb := NewKeyBuilder()
	prefix := kb.IndexPrefix(KeyPrefixIndexUser, "u-1")
	assert.Equal(t, "index/user/u-1/", prefix)
}

func TestKeyBuilder_CompoundKey(t *testing.T) {
	kb := NewKeyBuilder()
	assert.Equal(t, "record/u-1/m-1", kb.CompoundKey(KeyPrefixNoShowRecord, "u-1", "m-1"))
}

func TestKeyBuilder_LastSegment(t *testing.T) {
	kb := NewKeyBuilder()
	assert.Equal(t, "m-1", kb.LastSegment("index/user/u-1/m-1"))
	assert.Equal(t, "plain", kb.LastSegment("plain"))
}
