package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/threalwinky/mown/internal/core/domain"
	"github.com/threalwinky/mown/internal/core/ports/driven"
)

// Ensure DraftStore implements the interface.
var _ driven.DraftStore = (*DraftStore)(nil)

// DraftStore is an in-memory implementation of driven.DraftStore.
type DraftStore struct {
	mu     sync.RWMutex
	drafts map[string]domain.Draft
	cache  []domain.Note
}

// NewDraftStore creates a new in-memory draft store.
func NewDraftStore() *DraftStore {
	return &DraftStore{drafts: make(map[string]domain.Draft)}
}

// SaveDraft stores or replaces the draft for draft.NoteID.
func (s *DraftStore) SaveDraft(_ context.Context, draft *domain.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[draft.NoteID] = *draft
	return nil
}

// GetDraft returns the draft for a note.
func (s *DraftStore) GetDraft(_ context.Context, noteID string) (*domain.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	draft, ok := s.drafts[noteID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &draft, nil
}

// DeleteDraft removes the draft for a note.
func (s *DraftStore) DeleteDraft(_ context.Context, noteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, noteID)
	return nil
}

// CacheNotes replaces the cached note listing.
func (s *DraftStore) CacheNotes(_ context.Context, notes []domain.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = append([]domain.Note(nil), notes...)
	return nil
}

// CachedNotes returns the cached listing, newest first.
func (s *DraftStore) CachedNotes(_ context.Context) ([]domain.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	notes := append([]domain.Note(nil), s.cache...)
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})
	return notes, nil
}
