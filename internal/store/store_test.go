package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/cinemahome/internal/config"
)

// exerciseStore runs the behaviour every backend must share
func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()

	hidden, err := s.LoadHidden(ctx)
	require.NoError(t, err)
	assert.Empty(t, hidden, "fresh session has nothing hidden")
	assert.NotNil(t, hidden)

	location, err := s.LoadLocation(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", location)

	require.NoError(t, s.SaveHidden(ctx, []int64{5, 9, 2}))
	hidden, err = s.LoadHidden(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 9, 2}, hidden, "order must survive a round trip")

	require.NoError(t, s.SaveHidden(ctx, nil))
	hidden, err = s.LoadHidden(ctx)
	require.NoError(t, err)
	assert.Empty(t, hidden)

	require.NoError(t, s.SaveLocation(ctx, "VIVO Cluj"))
	require.NoError(t, s.SaveLocation(ctx, "Iulius Mall"))
	location, err = s.LoadLocation(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Iulius Mall", location)

	require.NoError(t, s.SaveHidden(ctx, []int64{3}))
	require.NoError(t, s.Clear(ctx))
	hidden, err = s.LoadHidden(ctx)
	require.NoError(t, err)
	assert.Empty(t, hidden)
	location, err = s.LoadLocation(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", location, "cleared session falls back to no location")
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), "session-a")
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
}

func TestSQLiteStoreHonorsCancelledContext(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), "session-a")
	require.NoError(t, err)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, s.SaveHidden(ctx, []int64{1}))
	_, err = s.LoadLocation(ctx)
	assert.Error(t, err)

	hidden, err := s.LoadHidden(context.Background())
	require.NoError(t, err)
	assert.Empty(t, hidden)
}

func TestSQLiteStoreSessionsAreIsolated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	a, err := NewSQLiteStore(path, "a")
	require.NoError(t, err)
	defer a.Close()
	b, err := NewSQLiteStore(path, "b")
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.SaveHidden(ctx, []int64{1}))

	hidden, err := b.LoadHidden(ctx)
	require.NoError(t, err)
	assert.Empty(t, hidden)
}

func TestOpenSelectsBackend(t *testing.T) {
	cfg := &config.Config{
		StoreBackend: config.StoreSQLite,
		DatabaseFile: filepath.Join(t.TempDir(), "open.db"),
		SessionID:    "default",
	}

	s, err := Open(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()
	assert.IsType(t, &SQLiteStore{}, s)

	cfg.StoreBackend = "etcd"
	_, err = Open(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestDecodeHiddenRejectsGarbage(t *testing.T) {
	_, err := decodeHidden("not json")
	assert.Error(t, err)

	hidden, err := decodeHidden("null")
	require.NoError(t, err)
	assert.Equal(t, []int64{}, hidden)
}

// Needs a reachable server: REDIS_TEST_ADDR=localhost:6379 go test ./internal/store
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	ctx := context.Background()
	s, err := NewRedisStore(ctx, addr, "", 0, "test-"+t.Name())
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Clear(ctx))
	defer s.Clear(ctx)

	exerciseStore(t, s)
}
