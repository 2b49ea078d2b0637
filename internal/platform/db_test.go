package platform_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crease/crease/internal/platform"
)

func TestRebind(t *testing.T) {
	q := "SELECT id FROM deliveries WHERE match_id = ? AND innings = ? ORDER BY seq"

	assert.Equal(t, q, platform.SQLite.Rebind(q))
	assert.Equal(t,
		"SELECT id FROM deliveries WHERE match_id = $1 AND innings = $2 ORDER BY seq",
		platform.Postgres.Rebind(q))
	assert.Equal(t, "SELECT 1", platform.Postgres.Rebind("SELECT 1"))
}

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in      string
		want    platform.Dialect
		wantErr bool
	}{
		{in: "postgres", want: platform.Postgres},
		{in: "PostgreSQL", want: platform.Postgres},
		{in: "sqlite", want: platform.SQLite},
		{in: " sqlite3 ", want: platform.SQLite},
		{in: "mysql", wantErr: true},
	}
	for _, tt := range tests {
		got, err := platform.ParseDialect(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestOpenSQLiteAndMigrate(t *testing.T) {
	ctx := context.Background()
	db, err := platform.Open(ctx, "sqlite", filepath.Join(t.TempDir(), "crease.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, platform.AutoMigrate(db))
	// A second run has nothing to apply.
	require.NoError(t, platform.AutoMigrate(db))

	for _, table := range []string{"matches", "deliveries", "match_state"} {
		var n int
		err := db.QueryRowContext(ctx,
			db.Rebind("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?"), table,
		).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "table %s", table)
	}
}

func TestOpenRequiresURL(t *testing.T) {
	_, err := platform.Open(context.Background(), "sqlite", "  ")
	assert.Error(t, err)

	_, err = platform.Open(context.Background(), "oracle", "x")
	assert.Error(t, err)
}

func TestMillisRoundTrip(t *testing.T) {
	now := platform.FromMillis(1_700_000_000_123)
	assert.Equal(t, int64(1_700_000_000_123), platform.Millis(now))
}
