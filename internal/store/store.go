// Package store provides the persistent key-value capability the rest of the
// system writes through: profile state, user-created events, saved ids, and
// the recommendation cache all live behind this interface so tests can swap
// in the in-memory backend.
package store

import "context"

// Store is a flat string key-value store. Values are JSON-encoded by callers.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes the value for key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes the key if present. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Keys lists every stored key.
	Keys(ctx context.Context) ([]string, error)
}
