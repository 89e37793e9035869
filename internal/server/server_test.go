package server

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloseResources(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()
	s := &Server{Logger: &logger}

	var order []string
	errStore := errors.New("pool busy")

	s.addCloser("store", func(context.Context) error {
		order = append(order, "store")
		return errStore
	})
	s.addCloser("redis", func(context.Context) error {
		order = append(order, "redis")
		return nil
	})
	s.addCloser("jobs", func(context.Context) error {
		order = append(order, "jobs")
		return errors.New("still running")
	})

	err := s.closeResources(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, errStore)
	assert.ErrorContains(t, err, "failed to close jobs: still running")
	assert.ErrorContains(t, err, "failed to close store: pool busy")
	assert.Equal(t, []string{"jobs", "redis", "store"}, order)

	// Closers run once.
	assert.NoError(t, s.closeResources(ctx))
	assert.Len(t, order, 3)
}

func TestShutdownClosesAfterFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	logger := zerolog.Nop()
	s := &Server{Logger: &logger, Redis: client}
	s.addCloser("redis connection", func(context.Context) error {
		return client.Close()
	})
	s.addCloser("job server", func(context.Context) error {
		return errors.New("workers stuck")
	})

	err := s.Shutdown(context.Background())
	assert.ErrorContains(t, err, "workers stuck")

	assert.ErrorIs(t, client.Ping(context.Background()).Err(), redis.ErrClosed)
}
