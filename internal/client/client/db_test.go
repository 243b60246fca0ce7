package client

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"binderkeeper/internal/binder"
	"binderkeeper/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestInitDatabase_MigratesAndWires(t *testing.T) {
	ctx := context.Background()

	repos, err := InitDatabase(ctx, ":memory:", testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.DB.Close() })

	// snapshot table exists and round-trips
	snap := binder.NewSnapshot("b1", nil, binder.DefaultPreferences())
	require.NoError(t, repos.Snapshots.Write(ctx, snap))

	got, err := repos.Snapshots.Read(ctx, "b1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "b1", got.BinderID)

	// metadata table exists
	require.NoError(t, repos.Metadata.Set(ctx, "k", []byte("v")))
	v, err := repos.Metadata.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}

func TestInitDatabase_MigrationsIdempotent(t *testing.T) {
	ctx := context.Background()

	repos, err := InitDatabase(ctx, "file:dbinit_tests?mode=memory&cache=shared", testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.DB.Close() })

	require.NoError(t, RunMigrations(ctx, repos.DB))
}
