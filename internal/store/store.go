// Package store provides the flat key→JSON persistence contract the session
// engines read from and write to. Values are replaced whole on every save; a
// missing key means "use defaults".
package store

import "context"

type Store interface {
	// Get unmarshals the value at key into dest. Returns false when the key
	// does not exist, leaving dest untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set marshals value and replaces whatever is stored at key.
	Set(ctx context.Context, key string, value interface{}) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
