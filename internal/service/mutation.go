package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexivanou/geotemp-api/internal/model"
	"github.com/alexivanou/geotemp-api/internal/repository"
	"go.uber.org/zap"
)

// mutation applies the primitive writes of one logical operation and, when one
// of them fails, runs the compensating writes of the steps already applied in
// reverse order.
type mutation struct {
	op     string
	logger *zap.Logger
	undo   []func(context.Context) error
}

func (s *Service) begin(op string) *mutation {
	return &mutation{op: op, logger: s.logger}
}

// step runs do. Its compensation is registered before do runs, so a partially
// applied step is compensated as well; undo must therefore be safe to run
// whether or not do took effect.
func (m *mutation) step(ctx context.Context, do, undo func(context.Context) error) error {
	m.undo = append(m.undo, undo)
	if err := do(ctx); err != nil {
		m.rollback(ctx)
		return err
	}
	return nil
}

// claim inserts key into index. The claim is only compensated once it succeeded,
// so a key owned by another record is never released.
func (m *mutation) claim(ctx context.Context, index *repository.UniqueIndex, key model.UniqueKey) error {
	if err := index.Insert(ctx, key); err != nil {
		m.rollback(ctx)
		if errors.Is(err, repository.ErrDuplicateKey) {
			return fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return err
	}
	m.undo = append(m.undo, func(ctx context.Context) error {
		return index.Remove(ctx, key)
	})
	return nil
}

// release removes key from index, restoring it on rollback.
func (m *mutation) release(ctx context.Context, index *repository.UniqueIndex, key model.UniqueKey) error {
	return m.step(ctx,
		func(ctx context.Context) error { return index.Remove(ctx, key) },
		func(ctx context.Context) error {
			if err := index.Insert(ctx, key); err != nil && !errors.Is(err, repository.ErrDuplicateKey) {
				return err
			}
			return nil
		},
	)
}

func (m *mutation) rollback(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	for i := len(m.undo) - 1; i >= 0; i-- {
		if err := m.undo[i](ctx); err != nil {
			m.logger.Error("Rollback step failed, store may be inconsistent",
				zap.String("op", m.op),
				zap.Int("step", i),
				zap.Error(err),
			)
		}
	}
	m.undo = nil
}
