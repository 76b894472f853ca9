package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient returns a client on a scratch database or skips the test.
func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	client := NewRedisClient(RedisConfig{Addr: "localhost:6379", DB: 15})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := Ping(ctx, client); err != nil {
		_ = client.Close()
		t.Skip("Redis not available for testing:", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisStorage_GetSetDelete(t *testing.T) {
	storage := NewRedisStorage(newTestClient(t), "cah:test:"+t.Name()+":")
	t.Cleanup(func() { _ = storage.Reset() })

	val, err := storage.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, storage.Set("k", []byte("v"), time.Minute))
	val, err = storage.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), val)

	require.NoError(t, storage.Delete("k"))
	val, err = storage.Get("k")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestRedisStorage_Expiry(t *testing.T) {
	storage := NewRedisStorage(newTestClient(t), "cah:test:"+t.Name()+":")
	t.Cleanup(func() { _ = storage.Reset() })

	require.NoError(t, storage.Set("short", []byte("v"), 50*time.Millisecond))
	time.Sleep(150 * time.Millisecond)

	val, err := storage.Get("short")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestRedisStorage_ResetOnlyOwnPrefix(t *testing.T) {
	client := newTestClient(t)
	mine := NewRedisStorage(client, "cah:test:mine:")
	other := NewRedisStorage(client, "cah:test:other:")
	t.Cleanup(func() {
		_ = mine.Reset()
		_ = other.Reset()
	})

	require.NoError(t, mine.Set("a", []byte("1"), time.Minute))
	require.NoError(t, other.Set("a", []byte("2"), time.Minute))

	require.NoError(t, mine.Reset())

	val, err := mine.Get("a")
	require.NoError(t, err)
	assert.Nil(t, val)

	val, err = other.Get("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), val)
}

func TestRedisStorage_BacksFiberLimiter(t *testing.T) {
	storage := NewRedisStorage(newTestClient(t), "cah:test:"+t.Name()+":")
	t.Cleanup(func() { _ = storage.Reset() })

	app := fiber.New()
	app.Use(limiter.New(limiter.Config{Max: 2, Expiration: time.Minute, Storage: storage}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestNewRedisStorage_DefaultPrefix(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	s := NewRedisStorage(client, "")
	assert.Equal(t, DefaultKeyPrefix+"x", s.key("x"))
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Set("", []byte("v"), 0))
}
