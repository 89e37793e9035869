package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/deppfellow/contacts/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*ContactCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewContactCache(client, ttl), mr
}

func TestContactCache(t *testing.T) {
	ctx := context.Background()
	alice := &model.Contact{ContactName: "Alice", PhoneNumber: "1", Message: "hi", ImageURL: "a.png"}

	t.Run("miss then hit", func(t *testing.T) {
		c, _ := newTestCache(t, time.Minute)

		_, ok, err := c.Get(ctx, "Alice")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, c.Set(ctx, alice, 0))

		got, ok, err := c.Get(ctx, "Alice")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, alice, got)
	})

	t.Run("entries expire", func(t *testing.T) {
		c, mr := newTestCache(t, time.Minute)
		require.NoError(t, c.Set(ctx, alice, 0))

		assert.Equal(t, time.Minute, mr.TTL("contacts:name:Alice"))

		mr.FastForward(2 * time.Minute)

		_, ok, err := c.Get(ctx, "Alice")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete several names", func(t *testing.T) {
		c, mr := newTestCache(t, time.Minute)
		require.NoError(t, c.Set(ctx, alice, 0))
		require.NoError(t, c.Set(ctx, &model.Contact{ContactName: "Bob"}, 0))

		require.NoError(t, c.Delete(ctx, "Alice", "Bob", "Carol"))
		assert.False(t, mr.Exists("contacts:name:Alice"))
		assert.False(t, mr.Exists("contacts:name:Bob"))
	})

	t.Run("eviction bumps the generation", func(t *testing.T) {
		c, mr := newTestCache(t, time.Minute)

		gen, err := c.Generation(ctx, "Alice")
		require.NoError(t, err)
		assert.Zero(t, gen)

		require.NoError(t, c.Delete(ctx, "Alice"))
		require.NoError(t, c.Delete(ctx, "Alice"))

		gen, err = c.Generation(ctx, "Alice")
		require.NoError(t, err)
		assert.EqualValues(t, 2, gen)
		assert.Equal(t, generationTTL, mr.TTL("contacts:gen:Alice"))
	})

	t.Run("set after an eviction is skipped", func(t *testing.T) {
		c, mr := newTestCache(t, time.Minute)

		gen, err := c.Generation(ctx, "Alice")
		require.NoError(t, err)

		require.NoError(t, c.Delete(ctx, "Alice"))
		require.NoError(t, c.Set(ctx, alice, gen))
		assert.False(t, mr.Exists("contacts:name:Alice"))

		gen, err = c.Generation(ctx, "Alice")
		require.NoError(t, err)
		require.NoError(t, c.Set(ctx, alice, gen))
		assert.True(t, mr.Exists("contacts:name:Alice"))
	})

	t.Run("corrupt entry is an error", func(t *testing.T) {
		c, mr := newTestCache(t, time.Minute)
		require.NoError(t, mr.Set("contacts:name:Alice", "{not json"))

		_, ok, err := c.Get(ctx, "Alice")
		assert.Error(t, err)
		assert.False(t, ok)
	})
}

func TestNilContactCache(t *testing.T) {
	ctx := context.Background()

	assert.Nil(t, NewContactCache(nil, time.Minute))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	assert.Nil(t, NewContactCache(client, 0))

	var c *ContactCache
	_, ok, err := c.Get(ctx, "Alice")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Set(ctx, &model.Contact{ContactName: "Alice"}, 0))
	gen, err := c.Generation(ctx, "Alice")
	assert.NoError(t, err)
	assert.Zero(t, gen)
	assert.NoError(t, c.Delete(ctx, "Alice"))
}
