package noteapi

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/threalwinky/mown/internal/core/domain"
	"github.com/threalwinky/mown/internal/core/ports/driven"
)

// Ensure NoteStore implements the interface.
var _ driven.NoteStore = (*NoteStore)(nil)

// NoteStore provides note CRUD against the note server.
type NoteStore struct {
	client *Client
}

// NewNoteStore creates a note store over the shared client.
func NewNoteStore(client *Client) *NoteStore {
	return &NoteStore{client: client}
}

// noteWire is the server's note representation.
type noteWire struct {
	ID           string    `json:"id"`
	ShortID      string    `json:"short_id"`
	Alias        string    `json:"alias,omitempty"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Permission   string    `json:"permission"`
	OwnerID      string    `json:"owner_id"`
	LastEditorID string    `json:"last_editor_id"`
	ViewCount    int       `json:"view_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// noteEnvelope wraps single-note responses.
type noteEnvelope struct {
	Note noteWire `json:"note"`
}

// notesEnvelope wraps listing responses.
type notesEnvelope struct {
	Notes []noteWire `json:"notes"`
}

func (w noteWire) toDomain() domain.Note {
	return domain.Note{
		ID:           w.ID,
		ShortID:      w.ShortID,
		Alias:        w.Alias,
		Title:        w.Title,
		Content:      w.Content,
		Permission:   domain.Permission(w.Permission),
		OwnerID:      w.OwnerID,
		LastEditorID: w.LastEditorID,
		ViewCount:    w.ViewCount,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}
}

// Create makes a new note. Empty title and content let the server apply
// its defaults.
func (s *NoteStore) Create(ctx context.Context, title, content string) (*domain.Note, error) {
	body := struct {
		Title   string `json:"title,omitempty"`
		Content string `json:"content,omitempty"`
	}{Title: title, Content: content}

	var env noteEnvelope
	if err := s.client.doJSON(ctx, "POST", "/api/notes", body, &env); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	note := env.Note.toDomain()
	return &note, nil
}

// Get retrieves a note by ID, short ID or alias.
func (s *NoteStore) Get(ctx context.Context, id string) (*domain.Note, error) {
	var env noteEnvelope
	if err := s.client.doJSON(ctx, "GET", "/api/notes/"+url.PathEscape(id), nil, &env); err != nil {
		return nil, err
	}
	note := env.Note.toDomain()
	return &note, nil
}

// GetShared retrieves the published view of a note by short ID. No
// credentials are required; the permission gate is the server's.
func (s *NoteStore) GetShared(ctx context.Context, shortID string) (*domain.Note, error) {
	var env noteEnvelope
	if err := s.client.doJSON(ctx, "GET", "/api/notes/s/"+url.PathEscape(shortID), nil, &env); err != nil {
		return nil, err
	}
	note := env.Note.toDomain()
	return &note, nil
}

// ListMine returns the signed-in user's notes.
func (s *NoteStore) ListMine(ctx context.Context) ([]domain.Note, error) {
	var env notesEnvelope
	if err := s.client.doJSON(ctx, "GET", "/api/notes", nil, &env); err != nil {
		return nil, err
	}
	notes := make([]domain.Note, 0, len(env.Notes))
	for _, w := range env.Notes {
		notes = append(notes, w.toDomain())
	}
	return notes, nil
}

// Update overwrites content, title and permission in one write.
func (s *NoteStore) Update(ctx context.Context, id, content, title string, permission domain.Permission) (*domain.Note, error) {
	body := struct {
		Content    string `json:"content"`
		Title      string `json:"title"`
		Permission string `json:"permission"`
	}{Content: content, Title: title, Permission: string(permission)}

	var env noteEnvelope
	if err := s.client.doJSON(ctx, "PUT", "/api/notes/"+url.PathEscape(id), body, &env); err != nil {
		return nil, err
	}
	note := env.Note.toDomain()
	return &note, nil
}

// Delete removes a note.
func (s *NoteStore) Delete(ctx context.Context, id string) error {
	return s.client.doJSON(ctx, "DELETE", "/api/notes/"+url.PathEscape(id), nil, nil)
}

// Status reports the server's public status and configuration.
func (s *NoteStore) Status(ctx context.Context) (*domain.ServerStatus, error) {
	var body struct {
		Name              string `json:"name"`
		Version           string `json:"version"`
		Status            string `json:"status"`
		AllowAnonymous    bool   `json:"allow_anonymous"`
		DefaultPermission string `json:"default_permission"`
	}
	if err := s.client.doJSON(ctx, "GET", "/api/status", nil, &body); err != nil {
		return nil, err
	}
	return &domain.ServerStatus{
		Name:              body.Name,
		Version:           body.Version,
		Healthy:           body.Status == "ok",
		AllowAnonymous:    body.AllowAnonymous,
		DefaultPermission: domain.Permission(body.DefaultPermission),
	}, nil
}
