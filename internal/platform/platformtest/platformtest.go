// Package platformtest opens throwaway migrated databases for tests.
package platformtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/crease/crease/internal/platform"
)

// NewSQLite returns a migrated SQLite database in a temporary directory.
// It is closed when the test ends.
func NewSQLite(t testing.TB) *platform.DB {
	t.Helper()

	db, err := platform.Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "crease.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, platform.AutoMigrate(db))
	return db
}
