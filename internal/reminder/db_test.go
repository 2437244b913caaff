package reminder

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "reminders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func findReminder(t *testing.T, db *DB, id int64) Reminder {
	t.Helper()
	list, err := db.List(context.Background())
	require.NoError(t, err)
	for _, r := range list {
		if r.ID == id {
			return r
		}
	}
	t.Fatalf("reminder %d not stored", id)
	return Reminder{}
}

func TestDBCreateAssignsIncreasingIDs(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	first, err := db.Create(ctx, "Выпить воды")
	require.NoError(t, err)
	second, err := db.Create(ctx, "Размяться")
	require.NoError(t, err)

	assert.Greater(t, second, first)
}

func TestDBCreateRejectsBlankText(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Create(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrValidation)

	reminders, err := db.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reminders)
}

func TestDBListReturnsCreatedAt(t *testing.T) {
	db := openTestDB(t)
	fixed := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	db.now = func() time.Time { return fixed }
	ctx := context.Background()

	id, err := db.Create(ctx, "  Позавтракать ")
	require.NoError(t, err)

	reminders, err := db.List(ctx)
	require.NoError(t, err)
	require.Len(t, reminders, 1)

	assert.Equal(t, id, reminders[0].ID)
	assert.Equal(t, "Позавтракать", reminders[0].Text)
	assert.False(t, reminders[0].Done)
	assert.True(t, fixed.Equal(reminders[0].CreatedAt))
}

func TestDBSetDone(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id, err := db.Create(ctx, "Принять лекарства")
	require.NoError(t, err)

	require.NoError(t, db.SetDone(ctx, id, true))
	assert.True(t, findReminder(t, db, id).Done)

	require.NoError(t, db.SetDone(ctx, id, false))
	assert.False(t, findReminder(t, db, id).Done)
}

func TestDBUnknownIDIsNotFound(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	assert.ErrorIs(t, db.SetDone(ctx, 42, true), ErrNotFound)
	assert.ErrorIs(t, db.Delete(ctx, 42), ErrNotFound)
}

func TestDBDelete(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	keep, err := db.Create(ctx, "Покормить кошку")
	require.NoError(t, err)
	drop, err := db.Create(ctx, "Проверить почту")
	require.NoError(t, err)

	require.NoError(t, db.Delete(ctx, drop))

	reminders, err := db.List(ctx)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, keep, reminders[0].ID)
}

func TestDBCounts(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for _, text := range []string{"a", "b", "c"} {
		_, err := db.Create(ctx, text)
		require.NoError(t, err)
	}
	require.NoError(t, db.SetDone(ctx, 2, true))

	total, done, err := db.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, 1, done)
}

func TestOpenDBMigratesLegacyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	raw, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = raw.Exec("CREATE TABLE reminders (id INTEGER PRIMARY KEY, text TEXT, done INTEGER)")
	require.NoError(t, err)
	_, err = raw.Exec("INSERT INTO reminders (text, done) VALUES ('Подъём', 1)")
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	reminders, err := db.List(context.Background())
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, "Подъём", reminders[0].Text)
	assert.True(t, reminders[0].Done)
	assert.True(t, reminders[0].CreatedAt.IsZero())
}
