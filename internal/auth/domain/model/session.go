package model

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionTTL is the fixed validity window of every session.
const SessionTTL = 24 * time.Hour

// SessionsCollection is the collection that stores Session documents.
const SessionsCollection = "sessions"

var ErrEmptyUsername = errors.New("username must not be empty")

// SessionStatus is derived from a session and the current time; it is never stored.
type SessionStatus string

const (
	SessionActive  SessionStatus = "active"
	SessionExpired SessionStatus = "expired"
	SessionRevoked SessionStatus = "revoked"
)

// Session binds a bearer token to a claimed username for SessionTTL.
type Session struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Token     string             `json:"-" bson:"token"`
	Username  string             `json:"username" bson:"username"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time          `json:"expires_at" bson:"expires_at"`
	IPAddress string             `json:"ip_address" bson:"ip_address"`
	UserAgent string             `json:"user_agent" bson:"user_agent"`
	Revoked   bool               `json:"revoked" bson:"revoked"`
}

// NewSession builds an unsaved session created at now. Timestamps are UTC and
// truncated to the millisecond precision of the store so a persisted record
// reads back unchanged.
func NewSession(token, username, ipAddress, userAgent string, now time.Time) (*Session, error) {
	if username == "" {
		return nil, ErrEmptyUsername
	}
	createdAt := now.UTC().Truncate(time.Millisecond)
	return &Session{
		Token:     token,
		Username:  username,
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(SessionTTL),
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Revoked:   false,
	}, nil
}

// CollectionName implements database.Entity.
func (Session) CollectionName() string {
	return SessionsCollection
}

// IsPersisted reports whether the store has assigned an id.
func (s *Session) IsPersisted() bool {
	return !s.ID.IsZero()
}

// IsExpired reports whether now is at or past the expiry instant.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// IsValid reports whether the session may authenticate a request at now.
func (s *Session) IsValid(now time.Time) bool {
	return s.Status(now) == SessionActive
}

// Status classifies the session at now. Revocation wins over expiry.
func (s *Session) Status(now time.Time) SessionStatus {
	switch {
	case s.Revoked:
		return SessionRevoked
	case s.IsExpired(now):
		return SessionExpired
	default:
		return SessionActive
	}
}

// MaskToken shortens a token for log output.
func MaskToken(token string) string {
	if len(token) <= 4 {
		return "…"
	}
	return token[:4] + "…"
}
