package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileIssueAPIKey(t *testing.T) {
	p := &Profile{UserID: 1}

	key, err := p.IssueAPIKey()
	require.NoError(t, err)
	require.NotEmpty(t, key)

	assert.NotEmpty(t, p.APIKeyHash)
	assert.NotEmpty(t, p.APIKeyPrefix)
	assert.NotNil(t, p.APIKeyCreatedAt)
	assert.Nil(t, p.APIKeyLastUsedAt)
	assert.True(t, p.HasActiveAPIKey())
	assert.Equal(t, HashAPIKey(key), p.APIKeyHash)
}

func TestProfileRevokeAPIKey(t *testing.T) {
	p := &Profile{UserID: 99}
	_, err := p.IssueAPIKey()
	require.NoError(t, err)

	p.RevokeAPIKey()

	assert.False(t, p.HasActiveAPIKey())
	assert.Equal(t, "", p.APIKeyHash)
	assert.Equal(t, "", p.APIKeyPrefix)
	assert.NotNil(t, p.APIKeyRevokedAt)
}

func TestHashAPIKeyTrimsWhitespace(t *testing.T) {
	assert.Equal(t, HashAPIKey("pnd_abc"), HashAPIKey("  pnd_abc \n"))
}
