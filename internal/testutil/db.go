// Package testutil provides test helpers shared by packages that need a live,
// migrated key-value database.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/alexivanou/geotemp-api/internal/config"
	"github.com/alexivanou/geotemp-api/internal/database"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

var dbSeq atomic.Int64

// MigrationsRoot returns the absolute path of the repository's migrations directory.
func MigrationsRoot() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

// MemoryDBConfig returns a config naming a fresh shared-cache in-memory database.
func MemoryDBConfig() config.DBConfig {
	return config.DBConfig{
		Type: config.DBTypeMemory,
		Name: fmt.Sprintf("testdb_%d", dbSeq.Add(1)),
	}
}

// NewMemoryDB opens a private in-memory SQLite database, applies the migrations
// and closes it when the test ends.
func NewMemoryDB(t testing.TB) *sqlx.DB {
	t.Helper()

	cfg := MemoryDBConfig()
	db, err := database.Connect(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db, cfg, MigrationsRoot()))
	return db
}
