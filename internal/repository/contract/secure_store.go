package contract

import "context"

// SecureStore is an opaque string key-value store. Callers serialize values
// themselves. Deleting a missing key is not an error.
type SecureStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
