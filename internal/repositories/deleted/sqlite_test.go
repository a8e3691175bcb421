package deleted

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/gallerybin/internal/common"
	"github.com/dmitrijs2005/gallerybin/internal/database"
	"github.com/dmitrijs2005/gallerybin/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func item(id, mediaID string, deletedAtMs int64) models.DeletedItem {
	media := models.MediaItem{
		ID:       mediaID,
		Path:     "/pics/" + mediaID + ".mp4",
		Name:     mediaID + ".mp4",
		AddedAt:  1_700_000_000,
		Size:     4096,
		Kind:     models.KindVideo,
		Duration: 1500 * time.Millisecond,
	}
	return models.NewDeletedItem(id, media, time.UnixMilli(deletedAtMs))
}

func TestInsertAndGet(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	want := item("r1", "m1", 1_000)
	require.NoError(t, r.Insert(ctx, want))

	got, err := r.GetByID(ctx, "r1")
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(want, got))

	got, err = r.GetByMediaID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "r1", got.ID)

	_, err = r.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = r.GetByMediaID(ctx, "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestInsert_DuplicateMediaIDRejected(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, item("r1", "m1", 1_000)))
	err := r.Insert(ctx, item("r2", "m1", 2_000))
	require.ErrorIs(t, err, common.ErrAlreadyInBin)

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDeleteByIDAndMediaID(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, item("r1", "m1", 1_000)))
	require.NoError(t, r.Insert(ctx, item("r2", "m2", 1_000)))

	require.NoError(t, r.DeleteByID(ctx, "r1"))
	assert.ErrorIs(t, r.DeleteByID(ctx, "r1"), common.ErrorNotFound)

	require.NoError(t, r.DeleteByMediaID(ctx, "m2"))
	assert.ErrorIs(t, r.DeleteByMediaID(ctx, "m2"), common.ErrorNotFound)

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListAll_MostRecentFirst(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, item("r1", "m1", 1_000)))
	require.NoError(t, r.Insert(ctx, item("r3", "m3", 3_000)))
	require.NoError(t, r.Insert(ctx, item("r2", "m2", 2_000)))

	got, err := r.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"r3", "r2", "r1"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestExpiredThresholdIsInclusive(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	a := item("r1", "m1", 1_000)
	b := item("r2", "m2", 5_000)
	require.NoError(t, r.Insert(ctx, a))
	require.NoError(t, r.Insert(ctx, b))

	due, err := r.ListExpired(ctx, a.ExpiresAt-1)
	require.NoError(t, err)
	assert.Empty(t, due)

	due, err = r.ListExpired(ctx, a.ExpiresAt)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "r1", due[0].ID)

	n, err := r.DeleteExpired(ctx, a.ExpiresAt)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	left, err := r.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "r2", left[0].ID)
}

func TestDeleteManyAndDeleteAll(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	for i, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, r.Insert(ctx, item("r-"+id, id, int64(i))))
	}

	n, err := r.DeleteMany(ctx, []string{"r-a", "r-b", "missing"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = r.DeleteMany(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	ids, err := r.MediaIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"c": {}, "d": {}}, ids)

	n, err = r.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	ids, err = r.MediaIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestClosedDatabaseReturnsErrors(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	require.Error(t, r.Insert(ctx, item("r1", "m1", 1)))
	_, err := r.ListAll(ctx)
	require.Error(t, err)
	_, err = r.Count(ctx)
	require.Error(t, err)
	_, err = r.GetByID(ctx, "r1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
}
