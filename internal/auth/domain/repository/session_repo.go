package repository

import (
	"context"
	"errors"

	"cah-online/internal/auth/domain/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrSessionNotPersisted is returned when an operation needs a stored session
// and the given one has no id or no longer exists.
var ErrSessionNotPersisted = errors.New("session is not persisted")

// SessionRepository defines the persistence operations for sessions.
// Store failures are reported as database.StoreFailure errors.
type SessionRepository interface {
	// Create generates a fresh token, stores a session for username and
	// returns the record as read back from the store.
	Create(ctx context.Context, username, ipAddress, userAgent string) (*model.Session, error)
	// FindByID returns (nil, nil) when no session has id.
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Session, error)
	// FindByToken returns (nil, nil) when no session carries token.
	FindByToken(ctx context.Context, token string) (*model.Session, error)
	// Revoke marks the session revoked. Revoking twice is a no-op.
	Revoke(ctx context.Context, session *model.Session) error
}

// TokenGenerator produces opaque session tokens.
type TokenGenerator interface {
	Generate() (string, error)
}
