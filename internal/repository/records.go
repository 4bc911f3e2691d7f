package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/alexivanou/geotemp-api/internal/kv"
	"golang.org/x/sync/errgroup"
)

// ErrCorruptRecord is returned when a stored field map cannot be decoded
var ErrCorruptRecord = errors.New("corrupt record")

// listConcurrency bounds the number of field maps fetched in parallel by List.
const listConcurrency = 8

type codec[T any] struct {
	id     func(T) int
	encode func(T) map[string]string
	decode func(id int, fields map[string]string) (T, error)
}

// Records stores one entity kind as field maps plus a live identifier set.
type Records[T any] struct {
	store     kv.Store
	kind      Kind
	codec     codec[T]
	allocator *Allocator
	index     *UniqueIndex
}

func newRecords[T any](store kv.Store, kind Kind, c codec[T]) *Records[T] {
	return &Records[T]{
		store:     store,
		kind:      kind,
		codec:     c,
		allocator: NewAllocator(store),
		index:     NewUniqueIndex(store, kind.IndexSet),
	}
}

// Kind returns the key-space this repository writes to
func (r *Records[T]) Kind() Kind {
	return r.kind
}

// Index returns the uniqueness index of this kind
func (r *Records[T]) Index() *UniqueIndex {
	return r.index
}

// Allocate returns a fresh identifier for a new record
func (r *Records[T]) Allocate(ctx context.Context) (int, error) {
	return r.allocator.Allocate(ctx, r.kind)
}

// Exists reports whether id is a live record
func (r *Records[T]) Exists(ctx context.Context, id int) (bool, error) {
	ok, err := r.store.SIsMember(ctx, r.kind.IDSet, r.kind.member(id))
	if err != nil {
		return false, fmt.Errorf("%s exists: %w", r.kind.Name, err)
	}
	return ok, nil
}

// Get returns the live record filed under id, or nil when there is none
func (r *Records[T]) Get(ctx context.Context, id int) (*T, error) {
	live, err := r.Exists(ctx, id)
	if err != nil || !live {
		return nil, err
	}
	return r.load(ctx, id)
}

func (r *Records[T]) load(ctx context.Context, id int) (*T, error) {
	fields, err := r.store.HGetAll(ctx, r.kind.RecordKey(id))
	if err != nil {
		return nil, fmt.Errorf("get %s %d: %w", r.kind.Name, id, err)
	}
	// Deleted between the membership check and the read.
	if len(fields) == 0 {
		return nil, nil
	}

	v, err := r.codec.decode(id, fields)
	if err != nil {
		return nil, fmt.Errorf("decode %s %d: %w: %v", r.kind.Name, id, ErrCorruptRecord, err)
	}
	return &v, nil
}

// List returns every live record ordered by identifier.
// Records removed while the scan runs are left out.
func (r *Records[T]) List(ctx context.Context) ([]T, error) {
	members, err := r.store.SMembers(ctx, r.kind.IDSet)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.kind.Name, err)
	}

	ids := make([]int, 0, len(members))
	for _, m := range members {
		id, err := strconv.Atoi(m)
		if err != nil {
			return nil, fmt.Errorf("list %s: member %q: %w", r.kind.Name, m, ErrCorruptRecord)
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)

	loaded := make([]*T, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			v, err := r.load(gctx, id)
			if err != nil {
				return err
			}
			loaded[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]T, 0, len(loaded))
	for _, v := range loaded {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out, nil
}

// Put writes the record's field map and marks its identifier live
func (r *Records[T]) Put(ctx context.Context, v T) error {
	id := r.codec.id(v)
	if err := r.store.HSet(ctx, r.kind.RecordKey(id), r.codec.encode(v)); err != nil {
		return fmt.Errorf("put %s %d: %w", r.kind.Name, id, err)
	}
	if _, err := r.store.SAdd(ctx, r.kind.IDSet, r.kind.member(id)); err != nil {
		return fmt.Errorf("put %s %d: %w", r.kind.Name, id, err)
	}
	return nil
}

// Remove drops id from the live set and deletes its field map
func (r *Records[T]) Remove(ctx context.Context, id int) error {
	if err := r.store.SRem(ctx, r.kind.IDSet, r.kind.member(id)); err != nil {
		return fmt.Errorf("remove %s %d: %w", r.kind.Name, id, err)
	}
	if err := r.store.Del(ctx, r.kind.RecordKey(id)); err != nil {
		return fmt.Errorf("remove %s %d: %w", r.kind.Name, id, err)
	}
	return nil
}

// Count returns the number of live records
func (r *Records[T]) Count(ctx context.Context) (int64, error) {
	n, err := r.store.SCard(ctx, r.kind.IDSet)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", r.kind.Name, err)
	}
	return n, nil
}
