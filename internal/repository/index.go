package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexivanou/geotemp-api/internal/kv"
	"github.com/alexivanou/geotemp-api/internal/model"
)

// ErrDuplicateKey is returned when inserting a uniqueness key that is already claimed
var ErrDuplicateKey = errors.New("duplicate unique key")

// UniqueIndex is the derived set of uniqueness keys of every live record of one kind.
type UniqueIndex struct {
	store kv.Store
	set   string
}

// NewUniqueIndex creates the index stored in set
func NewUniqueIndex(store kv.Store, set string) *UniqueIndex {
	return &UniqueIndex{store: store, set: set}
}

// Exists reports whether key is claimed by a live record
func (i *UniqueIndex) Exists(ctx context.Context, key model.UniqueKey) (bool, error) {
	ok, err := i.store.SIsMember(ctx, i.set, key.Member())
	if err != nil {
		return false, fmt.Errorf("index %s exists: %w", i.set, err)
	}
	return ok, nil
}

// Insert claims key. Callers check Exists first; a lost race still surfaces as ErrDuplicateKey.
func (i *UniqueIndex) Insert(ctx context.Context, key model.UniqueKey) error {
	added, err := i.store.SAdd(ctx, i.set, key.Member())
	if err != nil {
		return fmt.Errorf("index %s insert: %w", i.set, err)
	}
	if !added {
		return fmt.Errorf("index %s insert %s: %w", i.set, key.Member(), ErrDuplicateKey)
	}
	return nil
}

// Remove releases key. Releasing an unclaimed key is a no-op.
func (i *UniqueIndex) Remove(ctx context.Context, key model.UniqueKey) error {
	if err := i.store.SRem(ctx, i.set, key.Member()); err != nil {
		return fmt.Errorf("index %s remove: %w", i.set, err)
	}
	return nil
}
