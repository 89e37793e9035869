package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/contacts/internal/errs"
	"github.com/deppfellow/contacts/internal/lib/cache"
	"github.com/deppfellow/contacts/internal/model"
	"github.com/deppfellow/contacts/internal/repository"
	"github.com/deppfellow/contacts/internal/server"
	"github.com/rs/zerolog"
)

// contactNotifier enqueues the background work that follows a create.
type contactNotifier interface {
	EnqueueContactCreated(ctx context.Context, contact model.Contact) error
}

// ContactService implements the contact use cases on top of a
// ContactRepository. It turns repository sentinels into HTTP errors and
// owns the optional Redis cache and the contact:created notification.
type ContactService struct {
	server   *server.Server
	repo     repository.ContactRepository
	cache    *cache.ContactCache
	notifier contactNotifier
}

func NewContactService(s *server.Server, repo repository.ContactRepository) *ContactService {
	svc := &ContactService{
		server: s,
		repo:   repo,
		cache:  cache.NewContactCache(s.Redis, time.Duration(s.Config.Redis.CacheTTL)*time.Second),
	}

	// A nil *JobService must not end up in a non-nil interface.
	if s.Job != nil {
		svc.notifier = s.Job
	}

	return svc
}

// logger prefers the request-scoped logger stored in ctx.
func (s *ContactService) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return s.server.Logger
}

// List returns up to repository.ListLimit contacts.
func (s *ContactService) List(ctx context.Context) ([]model.Contact, error) {
	contacts, err := s.repo.List(ctx, repository.ListLimit)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

func (s *ContactService) Get(ctx context.Context, name string) (*model.Contact, error) {
	if name == "" {
		return nil, errs.NewBadRequestError("Bad request: name parameter is required.", true, nil, nil, nil)
	}

	cached, ok, err := s.cache.Get(ctx, name)
	if err != nil {
		s.logger(ctx).Warn().Err(err).Str("contact_name", name).Msg("contact cache read failed")
	}
	if ok {
		return cached, nil
	}

	// The generation is read before the store so a concurrent update or
	// delete makes the cache write below a no-op.
	gen, genErr := s.cache.Generation(ctx, name)
	if genErr != nil {
		s.logger(ctx).Warn().Err(genErr).Str("contact_name", name).Msg("contact cache read failed")
	}

	contact, err := s.repo.GetByName(ctx, name)
	if errors.Is(err, repository.ErrContactNotFound) {
		return nil, errs.NewNotFoundError(fmt.Sprintf("Contact with name '%s' not found.", name), true, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}

	if genErr == nil {
		if err := s.cache.Set(ctx, contact, gen); err != nil {
			s.logger(ctx).Warn().Err(err).Str("contact_name", name).Msg("contact cache write failed")
		}
	}

	return contact, nil
}

// Create inserts contact and enqueues the contact:created task. A failed
// enqueue is logged and does not fail the create.
func (s *ContactService) Create(ctx context.Context, contact *model.Contact) error {
	err := s.repo.Create(ctx, contact)
	if errors.Is(err, repository.ErrContactExists) {
		return errs.NewConflictError(
			fmt.Sprintf("Contact with name '%s' already exists.", contact.ContactName), true, nil,
		)
	}
	if err != nil {
		return fmt.Errorf("create contact: %w", err)
	}

	s.logger(ctx).Info().Str("contact_name", contact.ContactName).Msg("contact created")

	if s.notifier != nil {
		if err := s.notifier.EnqueueContactCreated(ctx, *contact); err != nil {
			s.logger(ctx).Error().Err(err).
				Str("contact_name", contact.ContactName).
				Msg("failed to enqueue contact created task")
		}
	}

	return nil
}

// Update applies patch to the contact called name. Both the old and the
// new name are evicted from the cache.
func (s *ContactService) Update(ctx context.Context, name string, patch model.ContactPatch) error {
	if patch.IsEmpty() {
		return errs.NewBadRequestError("No valid fields provided to update.", true, nil, nil, nil)
	}

	newName := name
	if patch.ContactName != nil {
		newName = *patch.ContactName
	}

	err := s.repo.Update(ctx, name, patch)
	switch {
	case errors.Is(err, repository.ErrContactNotFound):
		return errs.NewNotFoundError(fmt.Sprintf("Contact '%s' not found.", name), true, nil)
	case errors.Is(err, repository.ErrContactExists):
		return errs.NewConflictError(
			fmt.Sprintf("Contact with name '%s' already exists.", newName), true, nil,
		)
	case err != nil:
		return fmt.Errorf("update contact: %w", err)
	}

	evict := []string{name}
	if patch.Renames(name) {
		evict = append(evict, newName)
	}
	s.evict(ctx, evict...)

	s.logger(ctx).Info().Str("contact_name", name).Msg("contact updated")

	return nil
}

func (s *ContactService) Delete(ctx context.Context, name string) error {
	err := s.repo.Delete(ctx, name)
	if errors.Is(err, repository.ErrContactNotFound) {
		return errs.NewNotFoundError(fmt.Sprintf("Contact with name %s does NOT exist.", name), true, nil)
	}
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}

	s.evict(ctx, name)

	s.logger(ctx).Info().Str("contact_name", name).Msg("contact deleted")

	return nil
}

// Ping checks the contact store.
func (s *ContactService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *ContactService) evict(ctx context.Context, names ...string) {
	if err := s.cache.Delete(ctx, names...); err != nil {
		s.logger(ctx).Warn().Err(err).Strs("contact_names", names).Msg("contact cache eviction failed")
	}
}
