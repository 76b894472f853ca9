package utils

import (
	"context"
	"testing"

	"cah-online/internal/shared/contextkeys"

	"github.com/stretchr/testify/assert"
)

func TestGetSetContextValues(t *testing.T) {
	ctx := context.Background()
	ctx = WithRequestID(ctx, "req1")
	ctx = WithSessionID(ctx, "sess1")
	ctx = WithUsername(ctx, "alice")
	ctx = WithComponent(ctx, "componentA")
	ctx = WithOperation(ctx, "opX")

	requestID, err := GetRequestIDFromContext(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "req1", requestID)

	sessionID, err := GetSessionIDFromContext(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "sess1", sessionID)

	username, err := GetUsernameFromContext(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "alice", username)

	assert.Equal(t, "componentA", ctx.Value(contextkeys.ComponentKey))
	assert.Equal(t, "opX", ctx.Value(contextkeys.OperationKey))
	assert.True(t, HasUsername(ctx))
}

func TestGetContextValues_Missing(t *testing.T) {
	ctx := context.Background()

	_, err := GetUsernameFromContext(ctx)
	assert.ErrorIs(t, err, ErrUsernameNotFound)

	_, err = GetSessionIDFromContext(ctx)
	assert.ErrorIs(t, err, ErrSessionIDNotFound)

	_, err = GetRequestIDFromContext(ctx)
	assert.ErrorIs(t, err, ErrRequestIDNotFound)

	assert.False(t, HasUsername(ctx))
	assert.Equal(t, "anonymous", GetUsernameOrDefault(ctx, "anonymous"))
}

func TestGetContextValues_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), contextkeys.UsernameKey, 42)
	_, err := GetUsernameFromContext(ctx)
	assert.ErrorIs(t, err, ErrUsernameNotString)

	ctx = context.WithValue(context.Background(), contextkeys.SessionIDKey, []byte("x"))
	_, err = GetSessionIDFromContext(ctx)
	assert.ErrorIs(t, err, ErrSessionIDNotString)
}
