package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artdeck/artdeck-go/internal/store"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func appendEvent(t *testing.T, db *DB, roomID int64, shapeID, contentKey string) int64 {
	t.Helper()
	id, err := db.Append(context.Background(), store.AppendParams{
		RoomID:     roomID,
		UserID:     "user-1",
		Message:    `{"action":"create"}`,
		ShapeID:    shapeID,
		ContentKey: contentKey,
	})
	require.NoError(t, err)
	return id
}

func TestAppend_ListRecentNewestFirst(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first := appendEvent(t, db, 1, "a", "ka")
	second := appendEvent(t, db, 1, "b", "kb")
	appendEvent(t, db, 2, "c", "kc")

	entries, err := db.ListRecent(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, second, entries[0].ID)
	assert.Equal(t, first, entries[1].ID)
	assert.Equal(t, int64(1), entries[0].RoomID)
	assert.Equal(t, "user-1", entries[0].UserID)
	assert.Equal(t, `{"action":"create"}`, entries[0].Message)
	assert.False(t, entries[0].CreatedAt.IsZero())
}

func TestListRecent_Limit(t *testing.T) {
	db := newTestDB(t)
	for i := 0; i < 5; i++ {
		appendEvent(t, db, 1, "", "")
	}

	entries, err := db.ListRecent(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestDeleteByShapeID_ScopedToRoom(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	appendEvent(t, db, 1, "s1", "k")
	appendEvent(t, db, 1, "s1", "k2")
	appendEvent(t, db, 2, "s1", "k")

	n, err := db.DeleteByShapeID(ctx, 1, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	other, err := db.ListRecent(ctx, 2, 10)
	require.NoError(t, err)
	assert.Len(t, other, 1)

	n, err = db.DeleteByShapeID(ctx, 1, "")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeleteByContent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	appendEvent(t, db, 1, "a", "same")
	appendEvent(t, db, 1, "b", "other")

	n, err := db.DeleteByContent(ctx, 1, "same")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	left, err := db.ListRecent(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, left, 1)
}

func TestDeleteAll(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	appendEvent(t, db, 1, "a", "")
	appendEvent(t, db, 1, "b", "")
	appendEvent(t, db, 3, "c", "")

	n, err := db.DeleteAll(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	left, err := db.ListRecent(ctx, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, left)

	kept, err := db.ListRecent(ctx, 3, 10)
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestClosed(t *testing.T) {
	db, err := New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = db.Append(context.Background(), store.AppendParams{RoomID: 1})
	assert.Error(t, err)
}
