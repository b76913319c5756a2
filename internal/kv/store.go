package kv

import (
	"context"
	"errors"
)

// Fixed keys of the two persisted documents.
const (
	SessionKey = "storefrontUser"
	CartKey    = "storefrontCart"
)

var ErrNotFound = errors.New("key not found")

// Store is the persistent key-value bridge. Values are JSON text.
// Consumers define this interface, the backends only implement it.
type Store interface {
	// Get returns ErrNotFound when the key is absent
	Get(ctx context.Context, key string) (string, error)

	// Set overwrites the value stored under key
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Removing an absent key is not an error
	Delete(ctx context.Context, key string) error
}
