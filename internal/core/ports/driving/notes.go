package driving

import (
	"context"

	"github.com/threalwinky/mown/internal/core/domain"
)

// NoteSummary is a note listing row with a plain-text description.
type NoteSummary struct {
	Note        domain.Note
	Description string
}

// NoteService manages notes outside of an editing session.
type NoteService interface {
	// Create makes a new note and returns the server record.
	Create(ctx context.Context, title string) (*domain.Note, error)

	// Get retrieves a note by ID, short ID or alias.
	Get(ctx context.Context, id string) (*domain.Note, error)

	// GetShared retrieves the published view of a note.
	GetShared(ctx context.Context, shortID string) (*domain.Note, error)

	// List returns the signed-in user's notes and refreshes the local
	// cache for offline listing.
	List(ctx context.Context) ([]NoteSummary, error)

	// ListCached returns the last locally cached listing.
	ListCached(ctx context.Context) ([]NoteSummary, error)

	// Delete removes a note.
	Delete(ctx context.Context, id string) error

	// ChangePermission moves a note to a new sharing level.
	ChangePermission(ctx context.Context, id string, p domain.Permission) (*domain.Note, error)

	// Status reports the server's public status and configuration.
	Status(ctx context.Context) (*domain.ServerStatus, error)
}
