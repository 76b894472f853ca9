package di

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"cah-online/internal/auth"
	"cah-online/internal/auth/config"
	"cah-online/internal/cards"
	"cah-online/internal/shared/eventbus"
	"cah-online/internal/shared/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

type greeter struct{ name string }

type cleanupService struct{ cleaned bool }

func (s *cleanupService) Cleanup(context.Context) error {
	s.cleaned = true
	return nil
}

func authConfig() *config.Config {
	return &config.Config{
		CookieName:       "cah_session",
		CookiePath:       "/",
		CookieSameSite:   "Lax",
		TokenLength:      21,
		OperationTimeout: time.Second,
		RateLimitMax:     5,
		RateLimitWindow:  time.Minute,
	}
}

func TestContainer_RegisterAndResolve(t *testing.T) {
	c := NewContainer(nil)

	require.Error(t, c.Register(nil))
	require.NoError(t, c.Register(&greeter{name: "alice"}))

	svc, err := GetService[*greeter](c)
	require.NoError(t, err)
	assert.Equal(t, "alice", svc.name)

	_, err = GetService[*cleanupService](c)
	assert.ErrorContains(t, err, "not registered")
}

func TestContainer_ResolveStripsPointer(t *testing.T) {
	c := NewContainer(nil)
	require.NoError(t, c.Register(&greeter{name: "bob"}))

	svc, err := c.Resolve(reflect.TypeOf(&greeter{}))
	require.NoError(t, err)
	assert.Equal(t, "bob", svc.(*greeter).name)

	_, err = c.Resolve(nil)
	assert.Error(t, err)
}

func TestContainer_EventBusHasAuditSubscribers(t *testing.T) {
	c := NewContainer(nil)
	c.InitializeEventBus(eventbus.DefaultConfig())

	require.NotNil(t, c.EventBus)
	assert.Equal(t, 1, c.EventBus.SubscriberCount(eventbus.EventTypeSessionIssued))
	assert.Equal(t, 1, c.EventBus.SubscriberCount(eventbus.EventTypeSessionRevoked))

	bus, err := GetService[*eventbus.EventBus](c)
	require.NoError(t, err)
	assert.Same(t, c.EventBus, bus)
}

func TestContainer_InitializeAuthRequiresDatabase(t *testing.T) {
	c := NewContainer(nil)
	assert.ErrorContains(t, c.InitializeAuth(authConfig()), "MongoDB must be initialized")
	assert.Error(t, c.InitializeDatabase(nil, nil))
}

func TestContainer_InitializeRedisUnreachable(t *testing.T) {
	c := NewContainer(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := c.InitializeRedis(ctx, ratelimit.RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
	assert.Nil(t, c.Redis)
}

func TestContainer_InitializeCards(t *testing.T) {
	c := NewContainer(nil)
	assert.Error(t, c.InitializeCards(filepath.Join(t.TempDir(), "missing.json")))

	path := filepath.Join(t.TempDir(), "cards.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"Base","description":null,"official":true,"white":[{"text":"Puppies!","pack":0}],"black":[]}]`), 0o600))
	require.NoError(t, c.InitializeCards(path))

	cardsModule, err := GetService[*cards.CardsModule](c)
	require.NoError(t, err)
	assert.Same(t, c.CardsModule, cardsModule)
	assert.Len(t, cardsModule.CardSets(), 1)
}

func TestContainer_WithMongo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("auth_and_health", func(mt *mtest.T) {
		c := NewContainer(nil)
		c.InitializeEventBus(eventbus.DefaultConfig())
		require.NoError(mt, c.InitializeDatabase(mt.Client, mt.DB))
		require.NoError(mt, c.InitializeAuth(authConfig()))
		authModule, err := GetService[*auth.AuthModule](c)
		require.NoError(mt, err)
		assert.Same(mt, c.AuthModule, authModule)

		mt.AddMockResponses(mtest.CreateSuccessResponse())
		assert.NoError(mt, c.HealthCheck(context.Background()))

		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Message: "unauthorized",
		}))
		assert.ErrorContains(mt, c.HealthCheck(context.Background()), "MongoDB health check failed")

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "ping", started.CommandName)
		assert.Equal(mt, "admin", started.DatabaseName)
	})
}

func TestContainer_InitializeAuthUsesRegisteredStorage(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("redis_storage", func(mt *mtest.T) {
		c := NewContainer(nil)
		client := ratelimit.NewRedisClient(ratelimit.RedisConfig{Addr: "127.0.0.1:1"})
		defer client.Close()
		storage := ratelimit.NewRedisStorage(client, "")
		require.NoError(mt, c.Register(storage))
		require.NoError(mt, c.InitializeDatabase(mt.Client, mt.DB))

		require.NoError(mt, c.InitializeAuth(authConfig()))

		resolved, err := GetService[*ratelimit.RedisStorage](c)
		require.NoError(mt, err)
		assert.Same(mt, storage, resolved)
		assert.NotNil(mt, c.AuthModule)
	})
}

func TestContainer_Cleanup(t *testing.T) {
	c := NewContainer(nil)
	svc := &cleanupService{}
	require.NoError(t, c.Register(svc))
	c.InitializeEventBus(eventbus.DefaultConfig())

	require.NoError(t, c.Close(context.Background()))
	assert.True(t, svc.cleaned)
	assert.Nil(t, c.AuthModule)

	_, err := GetService[*cleanupService](c)
	assert.Error(t, err)
}
