package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/deppfellow/contacts/internal/config"
	"github.com/deppfellow/contacts/internal/errs"
	"github.com/deppfellow/contacts/internal/model"
	"github.com/deppfellow/contacts/internal/repository"
	"github.com/deppfellow/contacts/internal/server"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	created []model.Contact
	err     error
}

func (n *recordingNotifier) EnqueueContactCreated(_ context.Context, contact model.Contact) error {
	n.created = append(n.created, contact)
	return n.err
}

func newTestService(t *testing.T, withRedis bool) (*ContactService, *repository.MemoryContactRepository, *miniredis.Miniredis) {
	t.Helper()

	logger := zerolog.Nop()
	s := &server.Server{
		Config: &config.Config{
			Redis: config.RedisConfig{CacheTTL: 60},
		},
		Logger: &logger,
	}

	var mr *miniredis.Miniredis
	if withRedis {
		mr = miniredis.RunT(t)
		s.Redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = s.Redis.Close() })
	}

	repo := repository.NewMemoryContactRepository()
	return NewContactService(s, repo), repo, mr
}

func requireHTTPError(t *testing.T, err error, status int, message string) {
	t.Helper()

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %v", err)
	assert.Equal(t, status, httpErr.Status)
	assert.Equal(t, message, httpErr.Message)
}

func strPtr(s string) *string {
	return &s
}

func TestContactService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("empty name", func(t *testing.T) {
		svc, _, _ := newTestService(t, false)

		_, err := svc.Get(ctx, "")
		requireHTTPError(t, err, http.StatusBadRequest, "Bad request: name parameter is required.")
	})

	t.Run("not found", func(t *testing.T) {
		svc, _, _ := newTestService(t, false)

		_, err := svc.Get(ctx, "Alice")
		requireHTTPError(t, err, http.StatusNotFound, "Contact with name 'Alice' not found.")
	})

	t.Run("read through cache", func(t *testing.T) {
		svc, repo, mr := newTestService(t, true)
		require.NoError(t, repo.Create(ctx, &model.Contact{ContactName: "Alice", PhoneNumber: "1"}))

		got, err := svc.Get(ctx, "Alice")
		require.NoError(t, err)
		assert.Equal(t, "1", got.PhoneNumber)
		assert.True(t, mr.Exists("contacts:name:Alice"))

		// Served from the cache once the store no longer has it.
		require.NoError(t, repo.Delete(ctx, "Alice"))
		got, err = svc.Get(ctx, "Alice")
		require.NoError(t, err)
		assert.Equal(t, "Alice", got.ContactName)
	})

	t.Run("redis outage falls back to the store", func(t *testing.T) {
		svc, repo, mr := newTestService(t, true)
		require.NoError(t, repo.Create(ctx, &model.Contact{ContactName: "Alice"}))
		mr.Close()

		got, err := svc.Get(ctx, "Alice")
		require.NoError(t, err)
		assert.Equal(t, "Alice", got.ContactName)
	})
}

// pausingRepository holds GetByName after the store read until released.
type pausingRepository struct {
	repository.ContactRepository
	read    chan struct{}
	release chan struct{}
}

func (r *pausingRepository) GetByName(ctx context.Context, name string) (*model.Contact, error) {
	contact, err := r.ContactRepository.GetByName(ctx, name)
	r.read <- struct{}{}
	<-r.release
	return contact, err
}

func TestContactService_GetRacingWrite(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		write func(svc *ContactService) error
		check func(t *testing.T, got *model.Contact, err error)
	}{
		{
			name: "update",
			write: func(svc *ContactService) error {
				return svc.Update(ctx, "Alice", model.ContactPatch{PhoneNumber: strPtr("999")})
			},
			check: func(t *testing.T, got *model.Contact, err error) {
				require.NoError(t, err)
				assert.Equal(t, "999", got.PhoneNumber)
			},
		},
		{
			name: "delete",
			write: func(svc *ContactService) error {
				return svc.Delete(ctx, "Alice")
			},
			check: func(t *testing.T, _ *model.Contact, err error) {
				requireHTTPError(t, err, http.StatusNotFound, "Contact with name 'Alice' not found.")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, mr := newTestService(t, true)
			require.NoError(t, repo.Create(ctx, &model.Contact{ContactName: "Alice", PhoneNumber: "555"}))

			svc.repo = &pausingRepository{
				ContactRepository: repo,
				read:              make(chan struct{}),
				release:           make(chan struct{}),
			}
			paused := svc.repo.(*pausingRepository)

			done := make(chan error, 1)
			go func() {
				got, err := svc.Get(ctx, "Alice")
				if err == nil && got.PhoneNumber != "555" {
					err = errors.New("racing read saw the new row")
				}
				done <- err
			}()

			<-paused.read
			require.NoError(t, tt.write(svc))
			close(paused.release)
			require.NoError(t, <-done)

			assert.False(t, mr.Exists("contacts:name:Alice"))

			svc.repo = repo
			got, err := svc.Get(ctx, "Alice")
			tt.check(t, got, err)
		})
	}
}

func TestContactService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("notifies after create", func(t *testing.T) {
		svc, _, _ := newTestService(t, false)
		notifier := &recordingNotifier{}
		svc.notifier = notifier

		contact := &model.Contact{ContactName: "Alice", PhoneNumber: "1"}
		require.NoError(t, svc.Create(ctx, contact))
		assert.Equal(t, []model.Contact{*contact}, notifier.created)
	})

	t.Run("enqueue failure does not fail the create", func(t *testing.T) {
		svc, repo, _ := newTestService(t, false)
		svc.notifier = &recordingNotifier{err: errors.New("redis down")}

		require.NoError(t, svc.Create(ctx, &model.Contact{ContactName: "Alice"}))

		_, err := repo.GetByName(ctx, "Alice")
		require.NoError(t, err)
	})

	t.Run("duplicate", func(t *testing.T) {
		svc, _, _ := newTestService(t, false)
		notifier := &recordingNotifier{}
		svc.notifier = notifier

		require.NoError(t, svc.Create(ctx, &model.Contact{ContactName: "Alice"}))
		err := svc.Create(ctx, &model.Contact{ContactName: "Alice"})
		requireHTTPError(t, err, http.StatusConflict, "Contact with name 'Alice' already exists.")
		assert.Len(t, notifier.created, 1)
	})
}

func TestContactService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("empty patch", func(t *testing.T) {
		svc, _, _ := newTestService(t, false)

		err := svc.Update(ctx, "Alice", model.ContactPatch{})
		requireHTTPError(t, err, http.StatusBadRequest, "No valid fields provided to update.")
	})

	t.Run("not found", func(t *testing.T) {
		svc, _, _ := newTestService(t, false)

		err := svc.Update(ctx, "Alice", model.ContactPatch{Message: strPtr("x")})
		requireHTTPError(t, err, http.StatusNotFound, "Contact 'Alice' not found.")
	})

	t.Run("rename evicts both names", func(t *testing.T) {
		svc, repo, mr := newTestService(t, true)
		require.NoError(t, repo.Create(ctx, &model.Contact{ContactName: "Alice"}))

		_, err := svc.Get(ctx, "Alice")
		require.NoError(t, err)
		require.NoError(t, mr.Set("contacts:name:Alicia", `{"contact_name":"stale"}`))

		require.NoError(t, svc.Update(ctx, "Alice", model.ContactPatch{ContactName: strPtr("Alicia")}))
		assert.False(t, mr.Exists("contacts:name:Alice"))
		assert.False(t, mr.Exists("contacts:name:Alicia"))

		got, err := svc.Get(ctx, "Alicia")
		require.NoError(t, err)
		assert.Equal(t, "Alicia", got.ContactName)
	})
}

func TestContactService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		svc, _, _ := newTestService(t, false)

		err := svc.Delete(ctx, "Bob")
		requireHTTPError(t, err, http.StatusNotFound, "Contact with name Bob does NOT exist.")
	})

	t.Run("evicts the cached contact", func(t *testing.T) {
		svc, repo, mr := newTestService(t, true)
		require.NoError(t, repo.Create(ctx, &model.Contact{ContactName: "Alice"}))

		_, err := svc.Get(ctx, "Alice")
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, "Alice"))
		assert.False(t, mr.Exists("contacts:name:Alice"))

		_, err = svc.Get(ctx, "Alice")
		requireHTTPError(t, err, http.StatusNotFound, "Contact with name 'Alice' not found.")
	})
}

func TestContactService_ListWrapsStoreErrors(t *testing.T) {
	svc, _, _ := newTestService(t, false)
	svc.repo = brokenRepository{}

	_, err := svc.List(context.Background())
	require.Error(t, err)

	var httpErr *errs.HTTPError
	assert.False(t, errors.As(err, &httpErr))
	assert.ErrorIs(t, err, errBroken)
}

var errBroken = errors.New("broken")

type brokenRepository struct {
	repository.ContactRepository
}

func (brokenRepository) List(context.Context, int) ([]model.Contact, error) {
	return nil, errBroken
}
