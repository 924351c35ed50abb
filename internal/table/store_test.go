package table

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/ariefcatur/go-kiosk-orders/internal/validation"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx)
	assert.ErrorIs(t, err, ErrNotSelected)

	require.NoError(t, s.Set(ctx, " 4 "))
	id, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "4", id)

	require.NoError(t, s.Set(ctx, "12"))
	id, err = s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "12", id)

	var ve *validation.Error
	require.ErrorAs(t, s.Set(ctx, "   "), &ve)
	assert.Equal(t, "table_id", ve.Field)
	id, err = s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "12", id)

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))
	_, err = s.Get(ctx)
	assert.ErrorIs(t, err, ErrNotSelected)
}

func TestFileStore(t *testing.T) {
	exerciseStore(t, NewFileStore(filepath.Join(t.TempDir(), "state")))
}

func TestFileStore_SurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewFileStore(dir).Set(context.Background(), "7"))

	id, err := NewFileStore(dir).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "7", id)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{"), 0o644))

	_, err := s.Get(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotSelected)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	exerciseStore(t, NewRedisStore(rdb, "kiosk-a"))
}

func TestRedisStore_KeyPerDevice(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	ctx := context.Background()

	require.NoError(t, NewRedisStore(rdb, "kiosk-a").Set(ctx, "3"))
	got, err := mr.Get("kiosk:kiosk-a:table")
	require.NoError(t, err)
	assert.Equal(t, "3", got)

	_, err = NewRedisStore(rdb, "kiosk-b").Get(ctx)
	assert.ErrorIs(t, err, ErrNotSelected)
}
