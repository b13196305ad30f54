package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calloway/mintleaf/internal/common"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager("test-secret", time.Hour)
	require.NoError(t, err)
	return m
}

func TestNewManager(t *testing.T) {
	_, err := NewManager("", time.Hour)
	assert.ErrorIs(t, err, common.ErrMissingConfig)

	m, err := NewManager("secret", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenTTL, m.tokenTTL)
}

func TestPasswordHashing(t *testing.T) {
	m := newTestManager(t)

	hash, err := m.HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.NoError(t, m.CheckPassword(hash, "hunter2"))
	assert.ErrorIs(t, m.CheckPassword(hash, "wrong"), common.ErrInvalidCredentials)
	assert.ErrorIs(t, m.CheckPassword("not a hash", "hunter2"), common.ErrInvalidCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	m := newTestManager(t)

	token, err := m.IssueToken("user-42")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := m.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestVerifyToken_Invalid(t *testing.T) {
	m := newTestManager(t)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not.a.token"},
		{name: "empty", token: ""},
		{
			name: "wrong secret",
			token: func() string {
				other, err := NewManager("other-secret", time.Hour)
				require.NoError(t, err)
				token, err := other.IssueToken("user-42")
				require.NoError(t, err)
				return token
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.VerifyToken(tt.token)
			assert.ErrorIs(t, err, common.ErrInvalidToken)
		})
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	m := newTestManager(t)
	m.tokenTTL = -time.Minute

	token, err := m.IssueToken("user-42")
	require.NoError(t, err)

	_, err = m.VerifyToken(token)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
