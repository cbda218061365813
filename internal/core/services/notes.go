package services

import (
	"context"
	"fmt"

	"github.com/threalwinky/mown/internal/core/domain"
	"github.com/threalwinky/mown/internal/core/ports/driven"
	"github.com/threalwinky/mown/internal/core/ports/driving"
	"github.com/threalwinky/mown/internal/logger"
	"github.com/threalwinky/mown/internal/markup"
)

// descriptionLength caps the plain-text snippet shown in listings.
const descriptionLength = 200

// Ensure Notes implements the interface.
var _ driving.NoteService = (*Notes)(nil)

// Notes manages notes outside of editing sessions.
type Notes struct {
	store  driven.NoteStore
	drafts driven.DraftStore
	auth   driving.AuthService
}

// NewNotes creates the note service. The draft store may be nil, which
// disables the offline listing cache.
func NewNotes(store driven.NoteStore, drafts driven.DraftStore, auth driving.AuthService) *Notes {
	return &Notes{store: store, drafts: drafts, auth: auth}
}

// Create makes a new note. The server fills in defaults: "Untitled"
// title, starter content and private permission (freely for anonymous
// creators).
func (n *Notes) Create(ctx context.Context, title string) (*domain.Note, error) {
	note, err := n.store.Create(ctx, title, "")
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return note, nil
}

// Get retrieves a note by ID, short ID or alias.
func (n *Notes) Get(ctx context.Context, id string) (*domain.Note, error) {
	return n.store.Get(ctx, id)
}

// GetShared retrieves the published view of a note.
func (n *Notes) GetShared(ctx context.Context, shortID string) (*domain.Note, error) {
	return n.store.GetShared(ctx, shortID)
}

// List returns the signed-in user's notes and refreshes the local cache.
func (n *Notes) List(ctx context.Context) ([]driving.NoteSummary, error) {
	notes, err := n.store.ListMine(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	if n.drafts != nil {
		if err := n.drafts.CacheNotes(ctx, notes); err != nil {
			logger.Warn("notes: refreshing listing cache: %v", err)
		}
	}
	return summarise(notes), nil
}

// ListCached returns the last locally cached listing.
func (n *Notes) ListCached(ctx context.Context) ([]driving.NoteSummary, error) {
	if n.drafts == nil {
		return nil, nil
	}
	notes, err := n.drafts.CachedNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("cached notes: %w", err)
	}
	return summarise(notes), nil
}

// Delete removes a note.
func (n *Notes) Delete(ctx context.Context, id string) error {
	if err := n.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

// ChangePermission moves a note to a new sharing level. The transition
// set is owner-only: editors who are not the owner may change content
// but not the sharing level.
func (n *Notes) ChangePermission(ctx context.Context, id string, p domain.Permission) (*domain.Note, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: unknown permission %q", domain.ErrValidation, p)
	}

	note, err := n.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	viewerID := ""
	if n.auth != nil {
		if user, err := n.auth.WhoAmI(ctx); err == nil && user != nil {
			viewerID = user.ID
		}
	}

	allowed := false
	for _, t := range note.Permission.Transitions(viewerID, note.OwnerID) {
		if t == p {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, domain.ErrForbidden
	}

	return n.store.Update(ctx, note.ID, note.Content, note.Title, p)
}

// Status reports the server's public status and configuration.
func (n *Notes) Status(ctx context.Context) (*domain.ServerStatus, error) {
	return n.store.Status(ctx)
}

func summarise(notes []domain.Note) []driving.NoteSummary {
	summaries := make([]driving.NoteSummary, 0, len(notes))
	for _, note := range notes {
		summaries = append(summaries, driving.NoteSummary{
			Note:        note,
			Description: markup.Describe(note.Content, descriptionLength),
		})
	}
	return summaries
}
