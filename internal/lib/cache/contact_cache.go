// Package cache keeps a read-through copy of contacts in Redis, keyed by
// contact name.
//
// Every name has a generation counter that Delete increments. A reader
// takes the generation before it reads the store and hands it to Set, which
// only writes when no eviction happened in between. A read that raced with
// an update or delete therefore never repopulates the cache with the old row.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/deppfellow/contacts/internal/model"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix        = "contacts:name:"
	generationPrefix = "contacts:gen:"
)

// Generation keys outlive any store read by a wide margin.
const generationTTL = 24 * time.Hour

// ContactCache stores contacts as JSON strings with a fixed TTL.
// A nil *ContactCache is valid and behaves as an always-empty cache.
type ContactCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewContactCache returns nil when client is nil or ttl is not positive.
func NewContactCache(client *redis.Client, ttl time.Duration) *ContactCache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &ContactCache{client: client, ttl: ttl}
}

func key(name string) string {
	return keyPrefix + name
}

func generationKey(name string) string {
	return generationPrefix + name
}

// Get returns the cached contact. The bool is false on a miss.
func (c *ContactCache) Get(ctx context.Context, name string) (*model.Contact, bool, error) {
	if c == nil {
		return nil, false, nil
	}

	raw, err := c.client.Get(ctx, key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var contact model.Contact
	if err := json.Unmarshal(raw, &contact); err != nil {
		return nil, false, err
	}

	return &contact, true, nil
}

// Generation returns the eviction counter of name. Missing counters are 0.
func (c *ContactCache) Generation(ctx context.Context, name string) (int64, error) {
	if c == nil {
		return 0, nil
	}
	return generation(ctx, c.client, name)
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func generation(ctx context.Context, cmd getter, name string) (int64, error) {
	gen, err := cmd.Get(ctx, generationKey(name)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Set caches contact under its own name, unless the name was evicted after
// gen was read. A skipped write is not an error.
func (c *ContactCache) Set(ctx context.Context, contact *model.Contact, gen int64) error {
	if c == nil {
		return nil
	}

	raw, err := json.Marshal(contact)
	if err != nil {
		return err
	}

	genKey := generationKey(contact.ContactName)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := generation(ctx, tx, contact.ContactName)
		if err != nil {
			return err
		}
		if current != gen {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key(contact.ContactName), raw, c.ttl)
			return nil
		})
		return err
	}, genKey)

	// The generation moved while the write was queued.
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

// Delete evicts every given name and bumps its generation.
func (c *ContactCache) Delete(ctx context.Context, names ...string) error {
	if c == nil || len(names) == 0 {
		return nil
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, name := range names {
			pipe.Incr(ctx, generationKey(name))
			pipe.Expire(ctx, generationKey(name), generationTTL)
			pipe.Del(ctx, key(name))
		}
		return nil
	})
	return err
}
