package repository

import "context"

// KeyValueStore raw per-owner record storage (the browser localStorage analog)
type KeyValueStore interface {
	// Get returns ok=false when the key is absent.
	Get(ctx context.Context, ownerID int64, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, ownerID int64, key string, value []byte) error
	Delete(ctx context.Context, ownerID int64, key string) error
	Close() error
}
