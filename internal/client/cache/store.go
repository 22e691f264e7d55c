// Package cache implements the Local Cache Adapter: a persistent,
// string-keyed store of JSON-serialized values scoped to the installation.
// It mirrors the session identity for restart survival and holds per-user
// analysis partitions used as the fallback data source when the backend is
// unreachable.
package cache

import "context"

// Store is a typed get/set/remove surface over the underlying key-value
// store. Values are JSON-serialized.
type Store interface {
	// Get unmarshals the value under key into out. It returns false with a
	// nil error when the key is absent.
	Get(ctx context.Context, key string, out any) (bool, error)

	// Set marshals value and writes it under key, replacing any prior value.
	Set(ctx context.Context, key string, value any) error

	// Delete removes key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error

	Close() error
}
