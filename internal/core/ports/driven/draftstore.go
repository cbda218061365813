package driven

import (
	"context"

	"github.com/threalwinky/mown/internal/core/domain"
)

// DraftStore journals unsaved editor buffers locally so a crash never
// loses typed text, and caches note listings for offline display.
// One draft per note; a successful remote save clears it.
type DraftStore interface {
	// SaveDraft stores or replaces the draft for draft.NoteID.
	SaveDraft(ctx context.Context, draft *domain.Draft) error

	// GetDraft returns the draft for a note, or domain.ErrNotFound.
	GetDraft(ctx context.Context, noteID string) (*domain.Draft, error)

	// DeleteDraft removes the draft for a note. Missing is not an error.
	DeleteDraft(ctx context.Context, noteID string) error

	// CacheNotes replaces the cached note listing.
	CacheNotes(ctx context.Context, notes []domain.Note) error

	// CachedNotes returns the last cached listing, newest first.
	CachedNotes(ctx context.Context) ([]domain.Note, error)
}
