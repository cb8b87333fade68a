// ABOUTME: Markdown-based journal storage with one file per calendar day.
// ABOUTME: Stores entries as markdown files with YAML frontmatter under month directories.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/2389-research/daylock/internal/mdfile"
	"github.com/2389-research/daylock/internal/models"
)

// JournalMDStore stores journal entries as markdown files under a single root.
// Layout: <root>/<YYYY-MM>/<YYYY-MM-DD>.md
type JournalMDStore struct {
	fs   afero.Fs
	root string
	loc  *time.Location
}

// journalFrontmatter is the YAML frontmatter for journal entry files.
type journalFrontmatter struct {
	ID        string `yaml:"id"`
	Date      string `yaml:"date"`
	Mood      string `yaml:"mood,omitempty"`
	Locked    bool   `yaml:"locked"`
	CreatedAt string `yaml:"created_at"`
	UpdatedAt string `yaml:"updated_at"`
	LockedAt  string `yaml:"locked_at,omitempty"`
}

// NewJournalMDStore creates a journal store rooted at root on fs.
// Day keys are interpreted in loc (time.Local when nil).
func NewJournalMDStore(fs afero.Fs, root string, loc *time.Location) (*JournalMDStore, error) {
	if fs == nil {
		return nil, fmt.Errorf("filesystem is required")
	}
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("journal root is required")
	}
	if loc == nil {
		loc = time.Local
	}
	return &JournalMDStore{
		fs:   fs,
		root: root,
		loc:  loc,
	}, nil
}

// SaveEntry writes the entry for entry.Day, replacing any existing file for that day.
func (s *JournalMDStore) SaveEntry(ctx context.Context, entry *models.JournalEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := s.pathForDay(entry.Day)

	fm := journalFrontmatter{
		ID:        entry.ID.String(),
		Date:      models.DayKey(entry.Day.In(s.loc)),
		Mood:      entry.Mood.String(),
		Locked:    entry.Locked,
		CreatedAt: mdfile.FormatTime(entry.CreatedAt),
		UpdatedAt: mdfile.FormatTime(entry.UpdatedAt),
	}
	if entry.LockedAt != nil {
		fm.LockedAt = mdfile.FormatTime(*entry.LockedAt)
	}

	content, err := mdfile.RenderFrontmatter(fm, strings.TrimRight(entry.Body, "\n")+"\n")
	if err != nil {
		return fmt.Errorf("failed to render frontmatter: %w", err)
	}

	if err := mdfile.AtomicWrite(s.fs, path, []byte(content)); err != nil {
		return fmt.Errorf("failed to write entry: %w", err)
	}

	entry.FilePath = path
	return nil
}

// GetEntry reads the entry for the given day.
func (s *JournalMDStore) GetEntry(ctx context.Context, day time.Time) (*models.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.pathForDay(day)
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to read entry: %w", err)
	}
	return s.parseJournalEntry(path, string(data))
}

// ListEntries lists journal entries, filtered by lock state and date range.
func (s *JournalMDStore) ListEntries(ctx context.Context, opts ListOptions) ([]*models.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	exists, err := afero.DirExists(s.fs, s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat journal root: %w", err)
	}
	if !exists {
		return nil, nil
	}

	monthDirs, err := afero.ReadDir(s.fs, s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal root: %w", err)
	}

	cutoff := opts.Cutoff(s.loc)
	var entries []*models.JournalEntry

	for _, monthDir := range monthDirs {
		if !monthDir.IsDir() {
			continue
		}
		if _, err := time.Parse("2006-01", monthDir.Name()); err != nil {
			continue
		}

		dirPath := filepath.Join(s.root, monthDir.Name())
		files, err := afero.ReadDir(s.fs, dirPath)
		if err != nil {
			continue
		}

		for _, file := range files {
			if file.IsDir() || !strings.HasSuffix(file.Name(), ".md") {
				continue
			}

			// Check the date cutoff by file name before reading the file.
			day, err := models.ParseDayKey(strings.TrimSuffix(file.Name(), ".md"), s.loc)
			if err != nil {
				continue
			}
			if !cutoff.IsZero() && day.Before(cutoff) {
				continue
			}

			filePath := filepath.Join(dirPath, file.Name())
			data, err := afero.ReadFile(s.fs, filePath)
			if err != nil {
				continue
			}

			entry, err := s.parseJournalEntry(filePath, string(data))
			if err != nil {
				continue
			}
			if !opts.Include(entry, cutoff) {
				continue
			}
			entries = append(entries, entry)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Day.After(entries[j].Day)
	})

	if opts.Limit > 0 && len(entries) > opts.Limit {
		entries = entries[:opts.Limit]
	}

	return entries, nil
}

// Close releases any resources held by the store.
func (s *JournalMDStore) Close() error {
	return nil
}

func (s *JournalMDStore) pathForDay(day time.Time) string {
	local := day.In(s.loc)
	return filepath.Join(s.root, local.Format("2006-01"), models.DayKey(local)+".md")
}

// parseJournalEntry parses a markdown file into a JournalEntry.
func (s *JournalMDStore) parseJournalEntry(path string, content string) (*models.JournalEntry, error) {
	yamlStr, body := mdfile.ParseFrontmatter(content)
	if yamlStr == "" {
		return nil, fmt.Errorf("no frontmatter found in %s", path)
	}

	var fm journalFrontmatter
	if err := yaml.Unmarshal([]byte(yamlStr), &fm); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	id, err := uuid.Parse(fm.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid UUID in frontmatter: %w", err)
	}

	day, err := models.ParseDayKey(fm.Date, s.loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date in frontmatter: %w", err)
	}

	mood, err := models.ParseMood(fm.Mood)
	if err != nil {
		return nil, fmt.Errorf("invalid mood in frontmatter: %w", err)
	}

	entry := &models.JournalEntry{
		ID:       id,
		Day:      day,
		Body:     strings.TrimSpace(body),
		Mood:     mood,
		Locked:   fm.Locked,
		FilePath: path,
	}

	if entry.CreatedAt, err = mdfile.ParseTime(fm.CreatedAt); err != nil {
		return nil, fmt.Errorf("invalid created_at in frontmatter: %w", err)
	}
	if entry.UpdatedAt, err = mdfile.ParseTime(fm.UpdatedAt); err != nil {
		return nil, fmt.Errorf("invalid updated_at in frontmatter: %w", err)
	}
	if fm.LockedAt != "" {
		lockedAt, err := mdfile.ParseTime(fm.LockedAt)
		if err != nil {
			return nil, fmt.Errorf("invalid locked_at in frontmatter: %w", err)
		}
		entry.LockedAt = &lockedAt
	}

	return entry, nil
}
