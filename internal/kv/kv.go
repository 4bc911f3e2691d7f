// Package kv provides the flat key-value primitives the entity layer is built on:
// per-key field maps, set-membership collections and atomic counters.
//
// The primitives are deliberately minimal. None of them spans more than one key,
// so any multi-key consistency has to be arranged by the caller.
package kv

import (
	"context"
	"errors"
)

// ErrBackend wraps every failure reported by the underlying database.
var ErrBackend = errors.New("kv: backend failure")

// Store is the set of primitives the entity layer relies on.
type Store interface {
	// HGetAll returns every field of the map stored at key, or an empty map when absent.
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	// HSet upserts the given fields of the map stored at key.
	HSet(ctx context.Context, key string, fields map[string]string) error
	// HExists reports whether a field map is stored at key.
	HExists(ctx context.Context, key string) (bool, error)
	// Del removes the whole field map stored at key.
	Del(ctx context.Context, key string) error

	// SAdd adds member to set, reporting false when it was already present.
	SAdd(ctx context.Context, set, member string) (bool, error)
	// SRem removes member from set. Removing an absent member is a no-op.
	SRem(ctx context.Context, set, member string) error
	SIsMember(ctx context.Context, set, member string) (bool, error)
	SMembers(ctx context.Context, set string) ([]string, error)
	SCard(ctx context.Context, set string) (int64, error)

	// Incr atomically increments the counter and returns its new value.
	Incr(ctx context.Context, counter string) (int64, error)
}
