// Package repository handles all interactions with the contact store.
//
// ContactRepository has one implementation per store driver. Every
// implementation relies on the store for uniqueness and existence checks
// (unique index, matched/deleted counts) instead of read-then-write.
package repository

import (
	"context"
	"errors"

	"github.com/deppfellow/contacts/internal/model"
)

// ListLimit caps the number of contacts returned by List.
const ListLimit = 100

var (
	// ErrContactNotFound is returned when no contact matches the name.
	ErrContactNotFound = errors.New("repository: contact not found")

	// ErrContactExists is returned when a write would duplicate contact_name.
	ErrContactExists = errors.New("repository: contact already exists")
)

// ContactRepository persists contacts keyed by contact_name.
type ContactRepository interface {
	// List returns up to limit contacts in no particular order.
	List(ctx context.Context, limit int) ([]model.Contact, error)

	// GetByName returns ErrContactNotFound when name is unknown.
	GetByName(ctx context.Context, name string) (*model.Contact, error)

	// Create returns ErrContactExists when the name is taken.
	Create(ctx context.Context, contact *model.Contact) error

	// Update sets the patch fields on the contact matched by name.
	// It returns ErrContactNotFound or, on a rename collision, ErrContactExists.
	Update(ctx context.Context, name string, patch model.ContactPatch) error

	// Delete returns ErrContactNotFound when nothing was deleted.
	Delete(ctx context.Context, name string) error

	// Ping checks store connectivity.
	Ping(ctx context.Context) error
}
