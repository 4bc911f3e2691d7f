package service

import (
	"context"
	"fmt"

	"github.com/alexivanou/geotemp-api/internal/model"
	"github.com/alexivanou/geotemp-api/internal/repository"
)

// The helpers below hold the write pipeline shared by every kind. Callers hold
// the kind's lock and have already validated the payload and parent reference.

func create[T any](ctx context.Context, s *Service, repo repository.Repository[T], key model.UniqueKey, build func(id int) T) (int, error) {
	kind := repo.Kind().Name

	if err := checkKeyFree(ctx, repo, key); err != nil {
		return 0, err
	}

	id, err := repo.Allocate(ctx)
	if err != nil {
		return 0, err
	}

	m := s.begin("create " + kind)
	record := build(id)
	err = m.step(ctx,
		func(ctx context.Context) error { return repo.Put(ctx, record) },
		func(ctx context.Context) error { return repo.Remove(ctx, id) },
	)
	if err != nil {
		return 0, err
	}
	if err := m.claim(ctx, repo.Index(), key); err != nil {
		return 0, err
	}
	return id, nil
}

// change describes a validated update: the record filed under id becomes updated,
// filed under newID.
type change[T any] struct {
	id      int
	current T
	oldKey  model.UniqueKey

	newID   int
	updated T
	newKey  model.UniqueKey
}

func (c change[T]) renamed() bool {
	return c.id != c.newID
}

func (c change[T]) rekeyed() bool {
	return c.oldKey.Member() != c.newKey.Member()
}

func checkRenameTarget[T any](ctx context.Context, repo repository.Repository[T], id, newID int) error {
	if id == newID {
		return nil
	}
	taken, err := repo.Exists(ctx, newID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: %s %d already exists", ErrConflict, repo.Kind().Name, newID)
	}
	return nil
}

func checkKeyFree[T any](ctx context.Context, repo repository.Repository[T], key model.UniqueKey) error {
	taken, err := repo.Index().Exists(ctx, key)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: %s %s already exists", ErrConflict, repo.Kind().Name, key.Member())
	}
	return nil
}

func checkRekey[T any](ctx context.Context, repo repository.Repository[T], c change[T]) error {
	if !c.rekeyed() {
		return nil
	}
	return checkKeyFree(ctx, repo, c.newKey)
}

func update[T any](ctx context.Context, s *Service, repo repository.Repository[T], c change[T]) error {
	m := s.begin("update " + repo.Kind().Name)

	if c.renamed() {
		err := m.step(ctx,
			func(ctx context.Context) error { return repo.Remove(ctx, c.id) },
			func(ctx context.Context) error { return repo.Put(ctx, c.current) },
		)
		if err != nil {
			return err
		}
		err = m.step(ctx,
			func(ctx context.Context) error { return repo.Put(ctx, c.updated) },
			func(ctx context.Context) error { return repo.Remove(ctx, c.newID) },
		)
		if err != nil {
			return err
		}
	} else {
		err := m.step(ctx,
			func(ctx context.Context) error { return repo.Put(ctx, c.updated) },
			func(ctx context.Context) error { return repo.Put(ctx, c.current) },
		)
		if err != nil {
			return err
		}
	}

	if c.rekeyed() {
		if err := m.release(ctx, repo.Index(), c.oldKey); err != nil {
			return err
		}
		if err := m.claim(ctx, repo.Index(), c.newKey); err != nil {
			return err
		}
	}
	return nil
}

func remove[T any](ctx context.Context, s *Service, repo repository.Repository[T], id int, current T, key model.UniqueKey) error {
	m := s.begin("delete " + repo.Kind().Name)

	if err := m.release(ctx, repo.Index(), key); err != nil {
		return err
	}
	return m.step(ctx,
		func(ctx context.Context) error { return repo.Remove(ctx, id) },
		func(ctx context.Context) error { return repo.Put(ctx, current) },
	)
}

func get[T any](ctx context.Context, repo repository.Repository[T], id int) (*T, error) {
	v, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%w: %s %d", ErrNotFound, repo.Kind().Name, id)
	}
	return v, nil
}

// requireParent fails with ErrNotFound unless id is a live record of repo's kind
func requireParent[T any](ctx context.Context, repo repository.Repository[T], id int) error {
	live, err := repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !live {
		return fmt.Errorf("%w: %s %d", ErrNotFound, repo.Kind().Name, id)
	}
	return nil
}
