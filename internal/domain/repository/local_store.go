package repository

import (
	"context"

	"github.com/pkg/errors"
)

// ErrKeyNotFound is returned by LocalStore.Get when nothing is stored under the key.
var ErrKeyNotFound = errors.New("local key not found")

// LocalStore is the device-local key/value storage. Values are opaque bytes, JSON in practice.
type LocalStore interface {
	// Get returns the value stored under key or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
