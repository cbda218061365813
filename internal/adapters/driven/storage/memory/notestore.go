// Package memory provides in-memory implementations of the driven
// storage ports. They emulate the note server's behaviour closely enough
// for service tests: permission gates, defaults and timestamps.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/threalwinky/mown/internal/core/domain"
	"github.com/threalwinky/mown/internal/core/ports/driven"
)

// Ensure NoteStore implements the interface.
var _ driven.NoteStore = (*NoteStore)(nil)

// NoteStore is an in-memory implementation of driven.NoteStore that
// mimics the server: it gates reads/writes on the viewer identity and
// maintains counters and timestamps.
type NoteStore struct {
	mu        sync.RWMutex
	notes     map[string]domain.Note
	viewerID  string
	updateErr error
}

// NewNoteStore creates a new in-memory note store.
func NewNoteStore() *NoteStore {
	return &NoteStore{notes: make(map[string]domain.Note)}
}

// SetViewer sets the identity the store treats as authenticated, the
// way a bearer token would. Empty means anonymous.
func (s *NoteStore) SetViewer(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewerID = id
}

// FailUpdates makes every subsequent Update return err; nil restores
// normal behaviour.
func (s *NoteStore) FailUpdates(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateErr = err
}

// Seed inserts a note record directly, bypassing permission gates.
func (s *NoteStore) Seed(note domain.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[note.ID] = note
}

// Create makes a new note with server-side defaults.
func (s *NoteStore) Create(_ context.Context, title, content string) (*domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if title == "" {
		title = domain.DefaultTitle
	}
	if content == "" {
		content = domain.DefaultContent(title)
	}
	permission := domain.PermissionPrivate
	if s.viewerID == "" {
		permission = domain.PermissionFreely
	}

	now := time.Now()
	note := domain.Note{
		ID:           uuid.NewString(),
		ShortID:      strings.ReplaceAll(uuid.NewString(), "-", "")[:10],
		Title:        title,
		Content:      content,
		Permission:   permission,
		OwnerID:      s.viewerID,
		LastEditorID: s.viewerID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.notes[note.ID] = note
	return &note, nil
}

// Get retrieves a note by ID, short ID or alias, gated on view access.
func (s *NoteStore) Get(_ context.Context, id string) (*domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.findLocked(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !note.Permission.CanView(s.viewerID, note.OwnerID) {
		return nil, domain.ErrForbidden
	}
	note.ViewCount++
	s.notes[note.ID] = note
	return &note, nil
}

// GetShared retrieves the published view of a note by short ID.
func (s *NoteStore) GetShared(ctx context.Context, shortID string) (*domain.Note, error) {
	return s.Get(ctx, shortID)
}

// ListMine returns the viewer's notes, newest first.
func (s *NoteStore) ListMine(_ context.Context) ([]domain.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.viewerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	var result []domain.Note
	for id := range s.notes {
		if s.notes[id].OwnerID == s.viewerID {
			result = append(result, s.notes[id])
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

// Update overwrites content, title and permission, gated on edit access.
func (s *NoteStore) Update(_ context.Context, id, content, title string, permission domain.Permission) (*domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.updateErr != nil {
		return nil, s.updateErr
	}
	note, ok := s.findLocked(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !note.Permission.CanEdit(s.viewerID, note.OwnerID) {
		return nil, domain.ErrForbidden
	}
	if !permission.Valid() {
		return nil, fmt.Errorf("%w: permission %q", domain.ErrValidation, permission)
	}

	note.Content = content
	note.Title = title
	note.Permission = permission
	note.LastEditorID = s.viewerID
	note.UpdatedAt = time.Now()
	s.notes[note.ID] = note
	return &note, nil
}

// Delete removes a note. Missing notes are not a hard error.
func (s *NoteStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.findLocked(id)
	if !ok {
		return nil
	}
	if s.viewerID == "" || s.viewerID != note.OwnerID {
		return domain.ErrForbidden
	}
	delete(s.notes, note.ID)
	return nil
}

// Status reports a fixed healthy status.
func (s *NoteStore) Status(_ context.Context) (*domain.ServerStatus, error) {
	return &domain.ServerStatus{
		Name:              "memory",
		Version:           "0.0.0",
		Healthy:           true,
		AllowAnonymous:    true,
		DefaultPermission: domain.PermissionEditable,
	}, nil
}

func (s *NoteStore) findLocked(id string) (domain.Note, bool) {
	if note, ok := s.notes[id]; ok {
		return note, true
	}
	for _, note := range s.notes {
		if note.ShortID == id || (note.Alias != "" && note.Alias == id) {
			return note, true
		}
	}
	return domain.Note{}, false
}
