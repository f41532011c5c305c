package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notekeep/notekeep/pkg/notes"
)

func newTestLocal(t *testing.T) *Local {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.sqlite")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	local, err := NewLocal(path, logger)
	require.NoError(t, err)
	t.Cleanup(func() { local.Close() })
	return local
}

func strptr(s string) *string {
	return &s
}

func TestLocalRoundTrip(t *testing.T) {
	local := newTestLocal(t)
	ctx := context.Background()

	created, err := local.Create(ctx, notes.Patch{Title: strptr("Groceries"), Content: strptr("milk")})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.False(t, created.UpdatedAt.IsZero())

	got, err := local.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.Title)
	assert.Equal(t, "milk", got.Content)
}

func TestLocalCreateDefaults(t *testing.T) {
	local := newTestLocal(t)

	created, err := local.Create(context.Background(), notes.Patch{})
	require.NoError(t, err)
	assert.Equal(t, "Untitled", created.Title)
	assert.Equal(t, "", created.Content)
	assert.True(t, strings.HasPrefix(created.ID, "n_"))
}

func TestLocalIDUniqueness(t *testing.T) {
	local := newTestLocal(t)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		created, err := local.Create(ctx, notes.Patch{})
		require.NoError(t, err)
		require.False(t, seen[created.ID], "duplicate id: %s", created.ID)
		seen[created.ID] = true
	}
}

func TestLocalNewestFirst(t *testing.T) {
	local := newTestLocal(t)
	ctx := context.Background()

	first, err := local.Create(ctx, notes.Patch{Title: strptr("first")})
	require.NoError(t, err)
	second, err := local.Create(ctx, notes.Patch{Title: strptr("second")})
	require.NoError(t, err)

	list, err := local.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestLocalUpdateMerge(t *testing.T) {
	local := newTestLocal(t)
	ctx := context.Background()

	created, err := local.Create(ctx, notes.Patch{Title: strptr("a"), Content: strptr("Y")})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	updated, err := local.Update(ctx, created.ID, notes.Patch{Title: strptr("X")})
	require.NoError(t, err)
	assert.Equal(t, "X", updated.Title)
	assert.Equal(t, "Y", updated.Content, "unset patch fields must not clobber")
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	stored, err := local.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "X", stored.Title)
	assert.Equal(t, "Y", stored.Content)
}

func TestLocalNotFound(t *testing.T) {
	local := newTestLocal(t)
	ctx := context.Background()

	_, err := local.Get(ctx, "n_missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = local.Update(ctx, "n_missing", notes.Patch{Title: strptr("x")})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLocalDeleteIdempotent(t *testing.T) {
	local := newTestLocal(t)
	ctx := context.Background()

	created, err := local.Create(ctx, notes.Patch{Title: strptr("doomed")})
	require.NoError(t, err)

	require.NoError(t, local.Delete(ctx, created.ID))
	require.NoError(t, local.Delete(ctx, created.ID), "second delete must succeed")

	list, err := local.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestLocalCorruptionSelfHeal(t *testing.T) {
	local := newTestLocal(t)
	ctx := context.Background()

	_, err := local.db.Exec(
		"INSERT INTO notekeep_kv (key, value) VALUES (?, ?)",
		collectionKey, "{definitely not json")
	require.NoError(t, err)

	list, err := local.List(ctx)
	require.NoError(t, err, "corruption must never be fatal")
	assert.Empty(t, list)

	// The corrupt value must be gone, not left to fail again.
	var count int
	row := local.db.QueryRow("SELECT COUNT(*) FROM notekeep_kv WHERE key = ?", collectionKey)
	require.NoError(t, row.Scan(&count))
	assert.Equal(t, 0, count)

	// And the store is usable afterwards.
	_, err = local.Create(ctx, notes.Patch{Title: strptr("fresh start")})
	require.NoError(t, err)
}

func TestLocalEndToEnd(t *testing.T) {
	local := newTestLocal(t)
	ctx := context.Background()

	list, err := local.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)

	created, err := local.Create(ctx, notes.Patch{Title: strptr("Groceries")})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.ID, "n_"))
	assert.Equal(t, "Groceries", created.Title)
	assert.Equal(t, "", created.Content)
	t1 := created.UpdatedAt

	time.Sleep(5 * time.Millisecond)

	updated, err := local.Update(ctx, created.ID, notes.Patch{Content: strptr("milk")})
	require.NoError(t, err)
	assert.Equal(t, "milk", updated.Content)
	assert.True(t, updated.UpdatedAt.After(t1))

	require.NoError(t, local.Delete(ctx, created.ID))

	list, err = local.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
