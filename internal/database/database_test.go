package database

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "postgres", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestMigrateUpDown(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, DriverModernc, ":memory:")
	require.NoError(t, err)
	defer conn.Close()

	r := NewRunner(conn, zaptest.NewLogger(t))
	require.NoError(t, r.Up(ctx))

	v, err := r.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	for _, table := range []string{"stores", "store_slugs", "categories", "products", "custom_buttons"} {
		var name string
		err := conn.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, table)
	}

	require.NoError(t, r.Status(ctx))
	require.NoError(t, r.Down(ctx))

	v, err = r.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)

	// Up is idempotent once applied.
	require.NoError(t, Migrate(ctx, conn, nil))
	require.NoError(t, Migrate(ctx, conn, nil))
}

func TestCreate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "migrations")
	now := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)

	path, err := Create(dir, "add coupons", now)
	require.NoError(t, err)
	assert.Equal(t, "20240309140500_add_coupons.sql", filepath.Base(path))

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "-- +goose Up"))

	_, err = Create(dir, "  ", now)
	assert.Error(t, err)
}
