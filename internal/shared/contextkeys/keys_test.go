package contextkeys

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextKey_String(t *testing.T) {
	key := contextKey("testKey")
	assert.Equal(t, "cah-online context key testKey", key.String())
}

func TestContextKeys_Usage(t *testing.T) {
	ctx := context.Background()
	ctx = context.WithValue(ctx, RequestIDKey, "req-456")
	ctx = context.WithValue(ctx, SessionIDKey, "65f0c0ffee")
	ctx = context.WithValue(ctx, UsernameKey, "alice")
	ctx = context.WithValue(ctx, ComponentKey, "component-logger")
	ctx = context.WithValue(ctx, OperationKey, "operation-read")

	assert.Equal(t, "req-456", ctx.Value(RequestIDKey))
	assert.Equal(t, "65f0c0ffee", ctx.Value(SessionIDKey))
	assert.Equal(t, "alice", ctx.Value(UsernameKey))
	assert.Equal(t, "component-logger", ctx.Value(ComponentKey))
	assert.Equal(t, "operation-read", ctx.Value(OperationKey))
}

func TestContextKeys_Distinct(t *testing.T) {
	ctx := context.WithValue(context.Background(), UsernameKey, "alice")
	assert.Nil(t, ctx.Value(SessionIDKey))
	assert.Nil(t, ctx.Value(contextKey("username-other")))
}
