// ABOUTME: SQLite-backed journal storage using the pure-Go modernc driver.
// ABOUTME: Keeps one row per calendar day keyed by YYYY-MM-DD and applies embedded migrations on open.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/2389-research/daylock/internal/models"
	"github.com/2389-research/daylock/internal/storage"
	"github.com/2389-research/daylock/internal/storage/sqlite/migrations"
)

// Store provides SQLite-backed journal persistence.
type Store struct {
	sqlDB *sql.DB
	loc   *time.Location
}

var _ storage.JournalStore = (*Store)(nil)

// Open opens a journal SQLite store at path and applies migrations.
// Day keys are interpreted in loc (time.Local when nil).
func Open(path string, loc *time.Location) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if loc == nil {
		loc = time.Local
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o750); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, loc: loc}, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveEntry inserts or replaces the row for entry.Day.
func (s *Store) SaveEntry(ctx context.Context, entry *models.JournalEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if entry == nil {
		return fmt.Errorf("entry is required")
	}

	var lockedAt sql.NullInt64
	if entry.LockedAt != nil {
		lockedAt = sql.NullInt64{Int64: entry.LockedAt.UTC().UnixMilli(), Valid: true}
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO journal_entries (
	day,
	id,
	body,
	mood,
	locked,
	created_at,
	updated_at,
	locked_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(day) DO UPDATE SET
	id = excluded.id,
	body = excluded.body,
	mood = excluded.mood,
	locked = excluded.locked,
	created_at = excluded.created_at,
	updated_at = excluded.updated_at,
	locked_at = excluded.locked_at
`,
		s.dayKey(entry.Day),
		entry.ID.String(),
		strings.TrimSpace(entry.Body),
		entry.Mood.String(),
		boolToInt(entry.Locked),
		entry.CreatedAt.UTC().UnixMilli(),
		entry.UpdatedAt.UTC().UnixMilli(),
		lockedAt,
	)
	if err != nil {
		return fmt.Errorf("save entry: %w", err)
	}
	return nil
}

// GetEntry returns the entry for the given day, or storage.ErrEntryNotFound.
func (s *Store) GetEntry(ctx context.Context, day time.Time) (*models.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT day, id, body, mood, locked, created_at, updated_at, locked_at
FROM journal_entries
WHERE day = ?
`, s.dayKey(day))

	entry, err := s.scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

// ListEntries lists entries most recent first, applying the Days, LockedOnly and Limit filters.
func (s *Store) ListEntries(ctx context.Context, opts storage.ListOptions) ([]*models.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	query := `
SELECT day, id, body, mood, locked, created_at, updated_at, locked_at
FROM journal_entries
WHERE 1 = 1`
	var args []any

	if cutoff := opts.Cutoff(s.loc); !cutoff.IsZero() {
		// YYYY-MM-DD keys sort lexically in calendar order.
		query += " AND day >= ?"
		args = append(args, models.DayKey(cutoff))
	}
	if opts.LockedOnly {
		query += " AND locked = 1"
	}
	query += " ORDER BY day DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*models.JournalEntry
	for rows.Next() {
		entry, err := s.scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanEntry(row scanner) (*models.JournalEntry, error) {
	var (
		dayKey    string
		id        string
		body      string
		mood      string
		locked    int
		createdAt int64
		updatedAt int64
		lockedAt  sql.NullInt64
	)
	if err := row.Scan(&dayKey, &id, &body, &mood, &locked, &createdAt, &updatedAt, &lockedAt); err != nil {
		return nil, err
	}

	day, err := models.ParseDayKey(dayKey, s.loc)
	if err != nil {
		return nil, err
	}
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid id for %s: %w", dayKey, err)
	}
	parsedMood, err := models.ParseMood(mood)
	if err != nil {
		return nil, fmt.Errorf("invalid mood for %s: %w", dayKey, err)
	}

	entry := &models.JournalEntry{
		ID:        parsedID,
		Day:       day,
		Body:      body,
		Mood:      parsedMood,
		Locked:    locked != 0,
		CreatedAt: time.UnixMilli(createdAt).UTC(),
		UpdatedAt: time.UnixMilli(updatedAt).UTC(),
	}
	if lockedAt.Valid {
		at := time.UnixMilli(lockedAt.Int64).UTC()
		entry.LockedAt = &at
	}
	return entry, nil
}

func (s *Store) dayKey(day time.Time) string {
	return models.DayKey(day.In(s.loc))
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
