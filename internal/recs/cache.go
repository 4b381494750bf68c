package recs

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/citysense/citysense/internal/models"
	"github.com/citysense/citysense/internal/store"
)

// Cache persists one day's normalized recommendations per (city, interest-set)
// scope. Entries are immutable once written; a miss always replaces, never
// merges. Store faults never propagate: they are logged and degrade to a miss.
type Cache struct {
	store  store.Store
	logger *slog.Logger
}

// NewCache creates a recommendation cache over the given store.
func NewCache(s store.Store, logger *slog.Logger) *Cache {
	return &Cache{store: s, logger: logger}
}

// Get returns the cached events for key, or a miss if the key is absent or
// the stored payload fails structural validation. Corrupt entries are removed
// on the way out.
func (c *Cache) Get(ctx context.Context, key string) ([]models.Event, bool) {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache read failed, treating as miss",
			"error", &StorageError{Op: "get", Key: key, Err: err})
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var events []models.Event
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		c.logger.Warn("cache entry corrupted, removing", "key", key, "error", err)
		c.remove(ctx, key)
		return nil, false
	}

	if len(events) == 0 {
		c.remove(ctx, key)
		return nil, false
	}
	for _, event := range events {
		if !event.IsDisplayable() {
			c.logger.Warn("cache entry failed validation, removing", "key", key, "event_id", event.ID)
			c.remove(ctx, key)
			return nil, false
		}
	}

	return events, true
}

// Put stores the events under key. Empty results are never cached, so a
// transient collaborator failure is retried on the next load instead of
// pinning a false "no events" answer for the day.
func (c *Cache) Put(ctx context.Context, key string, events []models.Event) {
	if len(events) == 0 {
		return
	}

	payload, err := json.Marshal(events)
	if err != nil {
		c.logger.Warn("cache encode failed", "key", key, "error", err)
		return
	}

	if err := c.store.Set(ctx, key, string(payload)); err != nil {
		c.logger.Warn("cache write failed",
			"error", &StorageError{Op: "set", Key: key, Err: err})
	}
}

// EvictStale removes every cache-scoped key other than currentKey, so at most
// one recommendation line survives. Runs before any Put for the session's
// scope, which bounds store growth to a single rotating day.
func (c *Cache) EvictStale(ctx context.Context, currentKey string) {
	keys, err := c.store.Keys(ctx)
	if err != nil {
		c.logger.Warn("cache scan failed, skipping eviction", "error", err)
		return
	}

	for _, key := range keys {
		if strings.HasPrefix(key, CachePrefix) && key != currentKey {
			c.remove(ctx, key)
		}
	}
}

func (c *Cache) remove(ctx context.Context, key string) {
	if err := c.store.Remove(ctx, key); err != nil {
		c.logger.Warn("cache remove failed",
			"error", &StorageError{Op: "remove", Key: key, Err: err})
	}
}
