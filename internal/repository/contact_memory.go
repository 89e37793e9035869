package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/deppfellow/contacts/internal/model"
)

type memoryRecord struct {
	id      uint64
	contact model.Contact
}

// MemoryContactRepository keeps contacts in process memory. A single
// mutex makes every operation atomic, which gives it the same uniqueness
// guarantees as the unique index of the real stores.
type MemoryContactRepository struct {
	mu      sync.RWMutex
	nextID  uint64
	records map[string]memoryRecord
}

func NewMemoryContactRepository() *MemoryContactRepository {
	return &MemoryContactRepository{
		records: make(map[string]memoryRecord),
	}
}

// List returns contacts in insertion order.
func (r *MemoryContactRepository) List(_ context.Context, limit int) ([]model.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]memoryRecord, 0, len(r.records))
	for _, record := range r.records {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].id < records[j].id })

	if limit >= 0 && len(records) > limit {
		records = records[:limit]
	}

	contacts := make([]model.Contact, 0, len(records))
	for _, record := range records {
		contacts = append(contacts, record.contact)
	}

	return contacts, nil
}

func (r *MemoryContactRepository) GetByName(_ context.Context, name string) (*model.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[name]
	if !ok {
		return nil, ErrContactNotFound
	}

	contact := record.contact
	return &contact, nil
}

func (r *MemoryContactRepository) Create(_ context.Context, contact *model.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[contact.ContactName]; ok {
		return ErrContactExists
	}

	r.nextID++
	r.records[contact.ContactName] = memoryRecord{id: r.nextID, contact: *contact}

	return nil
}

func (r *MemoryContactRepository) Update(_ context.Context, name string, patch model.ContactPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[name]
	if !ok {
		return ErrContactNotFound
	}

	updated := patch.Apply(record.contact)
	if updated.ContactName != name {
		if _, taken := r.records[updated.ContactName]; taken {
			return ErrContactExists
		}
		delete(r.records, name)
	}

	record.contact = updated
	r.records[updated.ContactName] = record

	return nil
}

func (r *MemoryContactRepository) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[name]; !ok {
		return ErrContactNotFound
	}

	delete(r.records, name)
	return nil
}

func (r *MemoryContactRepository) Ping(_ context.Context) error {
	return nil
}
