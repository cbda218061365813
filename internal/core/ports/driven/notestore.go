package driven

import (
	"context"

	"github.com/threalwinky/mown/internal/core/domain"
)

// NoteStore is the remote note server. Implementations map transport
// failures to the domain error taxonomy: domain.ErrNotFound for missing
// identifiers, domain.ErrForbidden for permission denials and
// domain.ErrTransient for network/store faults.
type NoteStore interface {
	// Create makes a new note. Empty title defaults to "Untitled" and the
	// server fills in shortID, permission and timestamps.
	Create(ctx context.Context, title, content string) (*domain.Note, error)

	// Get retrieves a note by ID, short ID or alias.
	Get(ctx context.Context, id string) (*domain.Note, error)

	// GetShared retrieves the published view of a note by short ID.
	GetShared(ctx context.Context, shortID string) (*domain.Note, error)

	// ListMine returns the signed-in user's notes, newest first.
	ListMine(ctx context.Context) ([]domain.Note, error)

	// Update overwrites content, title and permission in one write and
	// returns the record with a fresh UpdatedAt. Last write wins; no
	// concurrency token is exchanged.
	Update(ctx context.Context, id, content, title string, permission domain.Permission) (*domain.Note, error)

	// Delete removes a note. Deleting an already-missing note is not a
	// hard error.
	Delete(ctx context.Context, id string) error

	// Status reports the server's public status and configuration.
	Status(ctx context.Context) (*domain.ServerStatus, error)
}
