package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexivanou/geotemp-api/internal/kv"
	"github.com/alexivanou/geotemp-api/internal/model"
)

// ErrIdentifiersExhausted is returned once a kind's counter passes model.MaxIdentifier
var ErrIdentifiersExhausted = errors.New("identifier space exhausted")

// Allocator hands out identifiers from a per-kind counter.
type Allocator struct {
	store kv.Store
}

// NewAllocator creates an allocator over store
func NewAllocator(store kv.Store) *Allocator {
	return &Allocator{store: store}
}

// Allocate returns the next counter value whose slot is not occupied.
// A slot can be taken ahead of the counter when a record was renamed to a
// client-chosen identifier; such values are skipped.
func (a *Allocator) Allocate(ctx context.Context, kind Kind) (int, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		n, err := a.store.Incr(ctx, kind.Counter)
		if err != nil {
			return 0, fmt.Errorf("allocate %s id: %w", kind.Name, err)
		}
		if n < 1 || n > model.MaxIdentifier {
			return 0, fmt.Errorf("allocate %s id: %w", kind.Name, ErrIdentifiersExhausted)
		}

		id := int(n)
		occupied, err := a.occupied(ctx, kind, id)
		if err != nil {
			return 0, fmt.Errorf("allocate %s id: %w", kind.Name, err)
		}
		if !occupied {
			return id, nil
		}
	}
}

func (a *Allocator) occupied(ctx context.Context, kind Kind, id int) (bool, error) {
	live, err := a.store.SIsMember(ctx, kind.IDSet, kind.member(id))
	if err != nil || live {
		return live, err
	}
	return a.store.HExists(ctx, kind.RecordKey(id))
}
