// Package mirror is the durable client-side key-value store backing the sync
// pipeline: it mirrors the full entries snapshot, the settings object and the
// pending offline-write queue, each under its own storage key, and survives
// process restarts.
//
// Reads never fail: absent or corrupt values come back as zero values.
// Writes are best-effort: a storage error is logged and swallowed, never
// propagated, so a full disk can not block an edit or a save.
package mirror

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/moodix/journal/internal/dbx"
	"github.com/moodix/journal/internal/logging"
	"github.com/moodix/journal/internal/mirror/migrations"
	"github.com/moodix/journal/internal/models"
)

const (
	keyEntries  = "journal_data"
	keySettings = "journal_settings"
	keyQueue    = "offline_save_queue"
)

// QueueItem is one pending offline write: the entry to replay and when it
// was queued.
type QueueItem struct {
	Entry     models.JournalEntry `json:"entry"`
	Timestamp int64               `json:"timestamp"`
}

// Store is the local mirror. All methods are safe for concurrent use as long
// as the underlying DBTX is (a *sql.DB is).
type Store struct {
	db  dbx.DBTX
	log logging.Logger

	// now is swappable in tests to pin queue timestamps.
	now func() time.Time
}

// New binds a Store to an already-migrated database handle.
func New(db dbx.DBTX, log logging.Logger) *Store {
	return &Store{db: db, log: log, now: time.Now}
}

// Open opens (creating if needed) the sqlite mirror at dsn, runs migrations
// and returns a Store plus the owned handle for the caller to close.
func Open(ctx context.Context, dsn string, log logging.Logger) (*Store, *sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("opening mirror db: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrating mirror db: %w", err)
	}

	return New(db, log), db, nil
}

// get returns the raw value under key, or "" when absent or unreadable.
func (s *Store) get(ctx context.Context, key string) string {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM storage WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return ""
	}
	if err != nil {
		s.log.Warn(ctx, "mirror read failed", "key", key, "error", err)
		return ""
	}
	return value
}

// set upserts key. Failures are logged, not returned.
func (s *Store) set(ctx context.Context, key, value string) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO storage (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		s.log.Error(ctx, "mirror write failed", "key", key, "error", err)
	}
}

func (s *Store) setJSON(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Error(ctx, "mirror marshal failed", "key", key, "error", err)
		return
	}
	s.set(ctx, key, string(data))
}

// ReadEntries returns the last mirrored entries snapshot. Absent or corrupt
// content yields an empty map.
func (s *Store) ReadEntries(ctx context.Context) models.Entries {
	raw := s.get(ctx, keyEntries)
	if raw == "" {
		return models.Entries{}
	}
	var entries models.Entries
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.log.Warn(ctx, "mirror entries corrupt, treating as empty", "error", err)
		return models.Entries{}
	}
	if entries == nil {
		entries = models.Entries{}
	}
	return entries
}

// WriteEntries overwrites the mirrored snapshot.
func (s *Store) WriteEntries(ctx context.Context, entries models.Entries) {
	s.setJSON(ctx, keyEntries, entries)
}

// MergeOneEntry sets snapshot[entry.date] = entry and writes the snapshot
// back, persisting a single save instantly regardless of network outcome.
func (s *Store) MergeOneEntry(ctx context.Context, entry models.JournalEntry) {
	entries := s.ReadEntries(ctx)
	entries[entry.Date] = entry
	s.WriteEntries(ctx, entries)
}

// ReadSettings returns the mirrored settings, or nil when absent or corrupt.
func (s *Store) ReadSettings(ctx context.Context) *models.Settings {
	raw := s.get(ctx, keySettings)
	if raw == "" {
		return nil
	}
	var settings models.Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		s.log.Warn(ctx, "mirror settings corrupt, ignoring", "error", err)
		return nil
	}
	return &settings
}

// WriteSettings overwrites the mirrored settings object.
func (s *Store) WriteSettings(ctx context.Context, settings models.Settings) {
	s.setJSON(ctx, keySettings, settings)
}

// PeekAll returns the pending-write queue in insertion (FIFO) order.
func (s *Store) PeekAll(ctx context.Context) []QueueItem {
	raw := s.get(ctx, keyQueue)
	if raw == "" {
		return []QueueItem{}
	}
	var queue []QueueItem
	if err := json.Unmarshal([]byte(raw), &queue); err != nil {
		s.log.Warn(ctx, "mirror queue corrupt, treating as empty", "error", err)
		return []QueueItem{}
	}
	return queue
}

// Enqueue appends an entry to the offline queue.
func (s *Store) Enqueue(ctx context.Context, entry models.JournalEntry) {
	queue := s.PeekAll(ctx)
	queue = append(queue, QueueItem{Entry: entry, Timestamp: s.now().UnixMilli()})
	s.setJSON(ctx, keyQueue, queue)
}

// DequeueAt removes the item at index. The drain loop walks the queue from
// the end, so removal is positional rather than oldest-first. Out-of-range
// indexes are ignored.
func (s *Store) DequeueAt(ctx context.Context, index int) {
	queue := s.PeekAll(ctx)
	if index < 0 || index >= len(queue) {
		return
	}
	queue = append(queue[:index], queue[index+1:]...)
	s.setJSON(ctx, keyQueue, queue)
}

// QueueLength reports how many writes are pending.
func (s *Store) QueueLength(ctx context.Context) int {
	return len(s.PeekAll(ctx))
}

// ClearQueue drops every pending write.
func (s *Store) ClearQueue(ctx context.Context) {
	_, err := s.db.ExecContext(ctx, `DELETE FROM storage WHERE key = ?`, keyQueue)
	if err != nil {
		s.log.Error(ctx, "mirror queue clear failed", "error", err)
	}
}
