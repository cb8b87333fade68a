package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389-research/daylock/internal/models"
	"github.com/2389-research/daylock/internal/storage"
)

var testNow = time.Date(2024, time.June, 10, 15, 0, 0, 0, time.UTC)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.db")
	store, err := Open(path, time.UTC)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func entryOn(offset int, body string, locked bool) *models.JournalEntry {
	day := testNow.AddDate(0, 0, offset)
	entry := models.NewJournalEntry(day, body, models.MoodGood)
	if locked {
		entry.Lock(day.Add(21 * time.Hour))
	}
	return entry
}

func TestSaveAndGetEntry(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	entry := entryOn(0, "Long run in the rain.", true)
	require.NoError(t, store.SaveEntry(ctx, entry))

	got, err := store.GetEntry(ctx, entry.Day)
	require.NoError(t, err)

	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, "2024-06-10", got.DayKey())
	assert.Equal(t, "Long run in the rain.", got.Body)
	assert.Equal(t, models.MoodGood, got.Mood)
	assert.True(t, got.Locked)
	require.NotNil(t, got.LockedAt)
	assert.True(t, got.LockedAt.Equal(*entry.LockedAt))
}

func TestGetEntryNotFound(t *testing.T) {
	store := openTempStore(t)

	_, err := store.GetEntry(context.Background(), testNow)
	assert.ErrorIs(t, err, storage.ErrEntryNotFound)
}

func TestSaveEntryReplacesSameDay(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	entry := entryOn(0, "draft", false)
	require.NoError(t, store.SaveEntry(ctx, entry))

	entry.Body = "final"
	entry.Lock(testNow)
	require.NoError(t, store.SaveEntry(ctx, entry))

	entries, err := store.ListEntries(ctx, storage.ListOptions{Now: testNow})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "final", entries[0].Body)
	assert.True(t, entries[0].Locked)
}

func TestListEntriesFilters(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	for _, e := range []*models.JournalEntry{
		entryOn(0, "today draft", false),
		entryOn(-1, "yesterday", true),
		entryOn(-6, "six days ago", true),
		entryOn(-7, "a week ago", true),
		entryOn(-40, "last month", true),
	} {
		require.NoError(t, store.SaveEntry(ctx, e))
	}

	all, err := store.ListEntries(ctx, storage.ListOptions{Now: testNow})
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.True(t, all[i-1].Day.After(all[i].Day), "entries must be newest first")
	}

	week, err := store.ListEntries(ctx, storage.ListOptions{Days: 7, Now: testNow})
	require.NoError(t, err)
	assert.Len(t, week, 3)

	locked, err := store.ListEntries(ctx, storage.ListOptions{LockedOnly: true, Now: testNow})
	require.NoError(t, err)
	assert.Len(t, locked, 4)

	limited, err := store.ListEntries(ctx, storage.ListOptions{Limit: 2, LockedOnly: true, Now: testNow})
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "2024-06-09", limited[0].DayKey())
	assert.Equal(t, "2024-06-04", limited[1].DayKey())
}

func TestCancelledContext(t *testing.T) {
	store := openTempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.SaveEntry(ctx, entryOn(0, "x", false)), context.Canceled)
	_, err := store.GetEntry(ctx, testNow)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = store.ListEntries(ctx, storage.ListOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ", time.UTC)
	assert.Error(t, err)
}

func TestOpenAppliesPragmas(t *testing.T) {
	store := openTempStore(t)

	var journalMode string
	require.NoError(t, store.sqlDB.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var busyTimeout int
	require.NoError(t, store.sqlDB.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout))
	assert.Equal(t, 5000, busyTimeout)

	var foreignKeys int
	require.NoError(t, store.sqlDB.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys))
	assert.Equal(t, 1, foreignKeys)

	// NORMAL
	var synchronous int
	require.NoError(t, store.sqlDB.QueryRow("PRAGMA synchronous").Scan(&synchronous))
	assert.Equal(t, 1, synchronous)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	store, err := Open(path, time.UTC)
	require.NoError(t, err)
	require.NoError(t, store.SaveEntry(ctx, entryOn(-1, "persisted", true)))
	require.NoError(t, store.Close())

	reopened, err := Open(path, time.UTC)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.GetEntry(ctx, testNow.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.Body)
}

func TestApplyMigrationsOnce(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	fsys := fstest.MapFS{
		"002_extra.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE extra (id INTEGER);\n-- +migrate Down\nDROP TABLE extra;\n")},
	}
	require.NoError(t, applyMigrations(ctx, store.sqlDB, fsys))
	require.NoError(t, applyMigrations(ctx, store.sqlDB, fsys))

	var count int
	require.NoError(t, store.sqlDB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM schema_migrations WHERE name = ?", "002_extra.sql").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestApplyMigrationsRequiresDB(t *testing.T) {
	var db *sql.DB
	assert.Error(t, applyMigrations(context.Background(), db, fstest.MapFS{}))
}

func TestExtractUpMigration(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "no markers", content: "CREATE TABLE a (x);", want: "CREATE TABLE a (x);"},
		{name: "up only", content: "-- +migrate Up\nCREATE TABLE a (x);", want: "\nCREATE TABLE a (x);"},
		{name: "up and down", content: "-- +migrate Up\nCREATE TABLE a (x);\n-- +migrate Down\nDROP TABLE a;", want: "\nCREATE TABLE a (x);\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractUpMigration(tt.content))
		})
	}
}
