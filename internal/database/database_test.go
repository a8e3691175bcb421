package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_InMemoryCreatesSchema(t *testing.T) {
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='deleted_items'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "deleted_items", name)
}

func TestOpen_FileIsReopenable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "bin.db")

	db, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO deleted_items(id, media_id, path, name, added_at, size, kind, deleted_at, expires_at)
		VALUES ('r1', 'm1', '/p', 'p', 1, 2, 'image', 3, 4)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM deleted_items`).Scan(&n))
	assert.Equal(t, 1, n)
}
