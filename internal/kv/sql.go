package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

// SQLStore implements Store on top of three tables (kv_hashes, kv_sets, kv_counters).
// Queries are written with ? placeholders and rebound for the connected driver,
// so the same implementation serves SQLite and PostgreSQL.
type SQLStore struct {
	db *sqlx.DB
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore creates a store over an already migrated database.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

type hashField struct {
	Field string `db:"field"`
	Value string `db:"value"`
}

func (s *SQLStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	var rows []hashField
	q := s.db.Rebind(`SELECT field, value FROM kv_hashes WHERE key = ?`)
	if err := s.db.SelectContext(ctx, &rows, q, key); err != nil {
		return nil, wrap("hgetall", key, err)
	}

	fields := make(map[string]string, len(rows))
	for _, row := range rows {
		fields[row.Field] = row.Value
	}
	return fields, nil
}

func (s *SQLStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}

	// Sorted so repeated writes of the same map produce the same statement.
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make([]string, 0, len(names))
	args := make([]any, 0, len(names)*3)
	for _, name := range names {
		values = append(values, "(?, ?, ?)")
		args = append(args, key, name, fields[name])
	}

	q := s.db.Rebind(`INSERT INTO kv_hashes (key, field, value) VALUES ` + strings.Join(values, ", ") + `
		ON CONFLICT (key, field) DO UPDATE SET value = excluded.value`)
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return wrap("hset", key, err)
	}
	return nil
}

func (s *SQLStore) HExists(ctx context.Context, key string) (bool, error) {
	var n int
	q := s.db.Rebind(`SELECT COUNT(*) FROM kv_hashes WHERE key = ?`)
	if err := s.db.GetContext(ctx, &n, q, key); err != nil {
		return false, wrap("hexists", key, err)
	}
	return n > 0, nil
}

func (s *SQLStore) Del(ctx context.Context, key string) error {
	q := s.db.Rebind(`DELETE FROM kv_hashes WHERE key = ?`)
	if _, err := s.db.ExecContext(ctx, q, key); err != nil {
		return wrap("del", key, err)
	}
	return nil
}

func (s *SQLStore) SAdd(ctx context.Context, set, member string) (bool, error) {
	q := s.db.Rebind(`INSERT INTO kv_sets (set_key, member) VALUES (?, ?) ON CONFLICT (set_key, member) DO NOTHING`)
	res, err := s.db.ExecContext(ctx, q, set, member)
	if err != nil {
		return false, wrap("sadd", set, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, wrap("sadd", set, err)
	}
	return n > 0, nil
}

func (s *SQLStore) SRem(ctx context.Context, set, member string) error {
	q := s.db.Rebind(`DELETE FROM kv_sets WHERE set_key = ? AND member = ?`)
	if _, err := s.db.ExecContext(ctx, q, set, member); err != nil {
		return wrap("srem", set, err)
	}
	return nil
}

func (s *SQLStore) SIsMember(ctx context.Context, set, member string) (bool, error) {
	var n int
	q := s.db.Rebind(`SELECT COUNT(*) FROM kv_sets WHERE set_key = ? AND member = ?`)
	if err := s.db.GetContext(ctx, &n, q, set, member); err != nil {
		return false, wrap("sismember", set, err)
	}
	return n > 0, nil
}

func (s *SQLStore) SMembers(ctx context.Context, set string) ([]string, error) {
	var members []string
	q := s.db.Rebind(`SELECT member FROM kv_sets WHERE set_key = ?`)
	if err := s.db.SelectContext(ctx, &members, q, set); err != nil {
		return nil, wrap("smembers", set, err)
	}
	return members, nil
}

func (s *SQLStore) SCard(ctx context.Context, set string) (int64, error) {
	var n int64
	q := s.db.Rebind(`SELECT COUNT(*) FROM kv_sets WHERE set_key = ?`)
	if err := s.db.GetContext(ctx, &n, q, set); err != nil {
		return 0, wrap("scard", set, err)
	}
	return n, nil
}

func (s *SQLStore) Incr(ctx context.Context, counter string) (int64, error) {
	var value int64
	q := s.db.Rebind(`INSERT INTO kv_counters (key, value) VALUES (?, 1)
		ON CONFLICT (key) DO UPDATE SET value = kv_counters.value + 1
		RETURNING value`)
	if err := s.db.GetContext(ctx, &value, q, counter); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: incr %s: no value returned", ErrBackend, counter)
		}
		return 0, wrap("incr", counter, err)
	}
	return value, nil
}

func wrap(op, key string, err error) error {
	return fmt.Errorf("%w: %s %s: %v", ErrBackend, op, key, err)
}
