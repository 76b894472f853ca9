package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewSession(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 535897932, time.FixedZone("CET", 3600))

	s, err := NewSession("tok", "alice", "10.0.0.1", "curl/8.0", now)
	require.NoError(t, err)

	assert.Equal(t, "tok", s.Token)
	assert.Equal(t, "alice", s.Username)
	assert.Equal(t, "10.0.0.1", s.IPAddress)
	assert.Equal(t, "curl/8.0", s.UserAgent)
	assert.False(t, s.Revoked)
	assert.False(t, s.IsPersisted())

	assert.Equal(t, time.UTC, s.CreatedAt.Location())
	assert.Equal(t, 535000000, s.CreatedAt.Nanosecond())
	assert.Equal(t, SessionTTL, s.ExpiresAt.Sub(s.CreatedAt))
}

func TestNewSession_EmptyUsername(t *testing.T) {
	s, err := NewSession("tok", "", "ip", "ua", time.Now())
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrEmptyUsername)
}

func TestSession_CollectionName(t *testing.T) {
	assert.Equal(t, "sessions", Session{}.CollectionName())
}

func TestSession_Validity(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s, err := NewSession("tok", "alice", "ip", "ua", t0)
	require.NoError(t, err)

	tests := []struct {
		name   string
		at     time.Time
		status SessionStatus
	}{
		{"at creation", t0, SessionActive},
		{"one minute before expiry", t0.Add(23*time.Hour + 59*time.Minute), SessionActive},
		{"exactly at expiry", t0.Add(24 * time.Hour), SessionExpired},
		{"one minute after expiry", t0.Add(24*time.Hour + time.Minute), SessionExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, s.Status(tt.at))
			assert.Equal(t, tt.status == SessionActive, s.IsValid(tt.at))
		})
	}
}

func TestSession_RevokedWinsOverExpired(t *testing.T) {
	t0 := time.Now()
	s, err := NewSession("tok", "alice", "ip", "ua", t0)
	require.NoError(t, err)
	s.Revoked = true

	assert.Equal(t, SessionRevoked, s.Status(t0))
	assert.Equal(t, SessionRevoked, s.Status(t0.Add(48*time.Hour)))
	assert.False(t, s.IsValid(t0))
}

func TestSession_IsPersisted(t *testing.T) {
	s := &Session{ID: primitive.NewObjectID()}
	assert.True(t, s.IsPersisted())
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "abcd…", MaskToken("abcdefghijklmnopqrstu"))
	assert.Equal(t, "…", MaskToken("abc"))
	assert.Equal(t, "…", MaskToken(""))
	assert.False(t, strings.Contains(MaskToken("secret-token-value-xyz"), "token-value"))
}
