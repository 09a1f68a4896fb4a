package ports

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("pet not found")

// SnapshotStore is the durable local store: one string-keyed slot per logical
// collection, read once at startup and overwritten in full on every save.
type SnapshotStore interface {
	// Load returns the payload stored under key; found is false when the slot is empty.
	Load(ctx context.Context, key string) (payload []byte, found bool, err error)
	// Store overwrites the slot. Last writer wins.
	Store(ctx context.Context, key string, payload []byte) error
}
