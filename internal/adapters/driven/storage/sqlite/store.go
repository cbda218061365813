package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/threalwinky/mown/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/threalwinky/mown/internal/core/domain"
	"github.com/threalwinky/mown/internal/core/ports/driven"
)

// Store is the SQLite-backed local storage: the draft journal and the
// offline note cache share one database file.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.mown/data/local.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".mown", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "local.db")

	// WAL mode keeps reads cheap while the autosave loop journals drafts.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DraftStore returns a DraftStore interface backed by this store.
func (s *Store) DraftStore() driven.DraftStore {
	return &draftStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Draft Store ====================

// draftStore implements driven.DraftStore.
type draftStore struct {
	store *Store
}

var _ driven.DraftStore = (*draftStore)(nil)

// SaveDraft stores or replaces the draft for a note.
func (s *draftStore) SaveDraft(ctx context.Context, draft *domain.Draft) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO drafts (note_id, draft_id, content, saved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(note_id) DO UPDATE SET
			draft_id = excluded.draft_id,
			content = excluded.content,
			saved_at = excluded.saved_at
	`, draft.NoteID, draft.ID, draft.Content, draft.SavedAt)

	if err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}
	return nil
}

// GetDraft retrieves the draft for a note.
func (s *draftStore) GetDraft(ctx context.Context, noteID string) (*domain.Draft, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT note_id, draft_id, content, saved_at
		FROM drafts WHERE note_id = ?
	`, noteID)

	var draft domain.Draft
	if err := row.Scan(&draft.NoteID, &draft.ID, &draft.Content, &draft.SavedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning draft: %w", err)
	}
	return &draft, nil
}

// DeleteDraft removes the draft for a note.
func (s *draftStore) DeleteDraft(ctx context.Context, noteID string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM drafts WHERE note_id = ?", noteID)
	if err != nil {
		return fmt.Errorf("deleting draft: %w", err)
	}
	return nil
}

// CacheNotes replaces the cached note listing in one transaction.
func (s *draftStore) CacheNotes(ctx context.Context, notes []domain.Note) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM note_cache"); err != nil {
		return fmt.Errorf("clearing note cache: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO note_cache
			(id, short_id, alias, title, content, permission, owner_id, last_editor_id, view_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, note := range notes {
		if _, err := stmt.ExecContext(ctx, note.ID, note.ShortID, note.Alias, note.Title,
			note.Content, string(note.Permission), note.OwnerID, note.LastEditorID,
			note.ViewCount, note.CreatedAt, note.UpdatedAt); err != nil {
			return fmt.Errorf("caching note: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// CachedNotes returns the cached listing, newest first.
func (s *draftStore) CachedNotes(ctx context.Context) ([]domain.Note, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, short_id, alias, title, content, permission, owner_id, last_editor_id, view_count, created_at, updated_at
		FROM note_cache
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying note cache: %w", err)
	}
	defer rows.Close()

	var notes []domain.Note //nolint:prealloc // size unknown from query
	for rows.Next() {
		var note domain.Note
		var permission string
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(&note.ID, &note.ShortID, &note.Alias, &note.Title,
			&note.Content, &permission, &note.OwnerID, &note.LastEditorID,
			&note.ViewCount, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning cached note: %w", err)
		}

		note.Permission = domain.Permission(permission)
		if createdAt.Valid {
			note.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			note.UpdatedAt = updatedAt.Time
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating note cache: %w", err)
	}

	return notes, nil
}
