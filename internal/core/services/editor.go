package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/threalwinky/mown/internal/core/domain"
	"github.com/threalwinky/mown/internal/core/ports/driven"
	"github.com/threalwinky/mown/internal/core/ports/driving"
	"github.com/threalwinky/mown/internal/logger"
	"github.com/threalwinky/mown/internal/markup"
)

// MaxUploadSize is the asset upload cap, mirroring the server's limit.
const MaxUploadSize = 5 * 1024 * 1024

// allowedImageTypes are the accepted upload content types.
var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// Ensure Editor implements the interface.
var _ driving.EditorService = (*Editor)(nil)

// Editor opens editing sessions. Each Open returns an independent session
// object; there is no ambient "current session" state, so any number of
// sessions can coexist (and be constructed in tests).
type Editor struct {
	notes    driven.NoteStore
	assets   driven.AssetStore
	drafts   driven.DraftStore
	renderer driven.Renderer
	auth     driving.AuthService

	delay   time.Duration
	timeout time.Duration
}

// EditorOption configures the Editor service.
type EditorOption func(*Editor)

// WithEditorAutosaveDelay overrides the default debounce window for
// sessions opened by this service.
func WithEditorAutosaveDelay(d time.Duration) EditorOption {
	return func(e *Editor) {
		if d > 0 {
			e.delay = d
		}
	}
}

// WithEditorSaveTimeout overrides the save request timeout.
func WithEditorSaveTimeout(d time.Duration) EditorOption {
	return func(e *Editor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewEditor creates the editor service. The draft store may be nil, which
// disables local crash recovery but changes nothing else.
func NewEditor(
	notes driven.NoteStore,
	assets driven.AssetStore,
	drafts driven.DraftStore,
	renderer driven.Renderer,
	auth driving.AuthService,
	opts ...EditorOption,
) *Editor {
	e := &Editor{
		notes:    notes,
		assets:   assets,
		drafts:   drafts,
		renderer: renderer,
		auth:     auth,
		delay:    DefaultAutosaveDelay,
		timeout:  DefaultSaveTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Open fetches the note, resolves the viewer's capability and seeds a
// session at saveState idle. NotFound and Forbidden abort session
// creation; they are terminal, never retried here.
func (e *Editor) Open(ctx context.Context, noteID string) (driving.EditorSession, error) {
	note, err := e.notes.Get(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("open note %s: %w", noteID, err)
	}
	if !note.Permission.Valid() {
		return nil, fmt.Errorf("open note %s: %w: permission %q", noteID, domain.ErrValidation, note.Permission)
	}

	viewerID := ""
	if user, err := e.auth.WhoAmI(ctx); err != nil {
		// Identity lookup failing is not a load failure: fall back to an
		// anonymous session rather than aborting.
		logger.Warn("editor: identity lookup failed, opening as anonymous: %v", err)
	} else if user != nil {
		viewerID = user.ID
	}

	s := &editorSession{
		notes:      e.notes,
		assets:     e.assets,
		drafts:     e.drafts,
		renderer:   e.renderer,
		note:       *note,
		buffer:     note.Content,
		title:      note.Title,
		permission: note.Permission,
		viewerID:   viewerID,
		capability: note.Permission.CanEdit(viewerID, note.OwnerID),
	}
	if t, ok := markup.DeriveTitle(s.buffer); ok {
		s.title = t
	}

	recovered := false
	if s.capability && e.drafts != nil {
		if draft, err := e.drafts.GetDraft(ctx, note.ID); err == nil &&
			draft.SavedAt.After(note.UpdatedAt) && draft.Content != note.Content {
			s.buffer = draft.Content
			if t, ok := markup.DeriveTitle(s.buffer); ok {
				s.title = t
			}
			recovered = true
		}
	}
	s.recovered = recovered

	s.autosave = NewAutosave(s.persist, s.capability,
		WithAutosaveDelay(e.delay), WithSaveTimeout(e.timeout))

	if recovered {
		// Adopted draft content is an unsaved edit.
		s.autosave.Edit()
	}
	return s, nil
}

// Ensure editorSession implements the interface.
var _ driving.EditorSession = (*editorSession)(nil)

// editorSession owns localBuffer, selection and the autosave machine for
// one open note. Edits apply strictly in arrival order under the mutex.
type editorSession struct {
	notes    driven.NoteStore
	assets   driven.AssetStore
	drafts   driven.DraftStore
	renderer driven.Renderer
	autosave *Autosave

	mu         sync.Mutex
	note       domain.Note
	buffer     string
	title      string
	permission domain.Permission
	selection  domain.Selection
	viewerID   string
	capability bool
	recovered  bool
	closed     bool
}

func (s *editorSession) Note() domain.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.note
}

func (s *editorSession) Buffer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer
}

func (s *editorSession) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

func (s *editorSession) Capability() bool {
	return s.capability
}

func (s *editorSession) RecoveredDraft() bool {
	return s.recovered
}

func (s *editorSession) SaveState() domain.SaveState {
	return s.autosave.State()
}

func (s *editorSession) LastSaved() time.Time {
	return s.autosave.LastSaved()
}

func (s *editorSession) Selection() domain.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

func (s *editorSession) SetSelection(sel domain.Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = sel.Clamp(len(s.buffer))
}

// SetContent replaces the buffer, re-derives the title from the first
// level-1 heading (overwriting any manually set title) and feeds the
// autosave machine one edit event.
func (s *editorSession) SetContent(newText string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrSessionClosed
	}
	s.buffer = newText
	if t, ok := markup.DeriveTitle(newText); ok {
		s.title = t
	}
	s.selection = s.selection.Clamp(len(newText))
	noteID := s.note.ID
	capability := s.capability
	s.mu.Unlock()

	if capability {
		s.journalDraft(noteID, newText)
		s.autosave.Edit()
	}
	return nil
}

// WrapSelection applies a wrap formatting command at the current
// selection and routes the result through the normal edit pipeline.
func (s *editorSession) WrapSelection(before, after, placeholder string) error {
	s.mu.Lock()
	buffer, sel := s.buffer, s.selection
	s.mu.Unlock()

	newBuffer, newSel := markup.Wrap(buffer, sel, before, after, placeholder)
	if err := s.SetContent(newBuffer); err != nil {
		return err
	}
	s.SetSelection(newSel)
	return nil
}

// PrefixLine inserts prefix at the start of the line under the cursor.
func (s *editorSession) PrefixLine(prefix string) error {
	s.mu.Lock()
	buffer, cursor := s.buffer, s.selection.Start
	s.mu.Unlock()

	newBuffer, newSel := markup.LinePrefix(buffer, cursor, prefix)
	if err := s.SetContent(newBuffer); err != nil {
		return err
	}
	s.SetSelection(newSel)
	return nil
}

// InsertBlock inserts a block element at the cursor.
func (s *editorSession) InsertBlock(block string) error {
	s.mu.Lock()
	buffer, cursor := s.buffer, s.selection.Start
	s.mu.Unlock()

	newBuffer, newSel := markup.InsertBlock(buffer, cursor, block)
	if err := s.SetContent(newBuffer); err != nil {
		return err
	}
	s.SetSelection(newSel)
	return nil
}

// SetPermission stages a new sharing level for the next save.
func (s *editorSession) SetPermission(p domain.Permission) error {
	if !p.Valid() {
		return fmt.Errorf("%w: unknown permission %q", domain.ErrValidation, p)
	}
	if !s.capability {
		return domain.ErrNoCapability
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrSessionClosed
	}
	s.permission = p
	s.mu.Unlock()

	s.autosave.Edit()
	return nil
}

// Save short-circuits the debounce and reports the outcome.
func (s *editorSession) Save(ctx context.Context) error {
	return s.autosave.SaveNow(ctx)
}

// UploadAsset uploads image bytes, then appends an image reference to the
// buffer through the normal edit pipeline (so it autosaves like any other
// edit). Upload failure leaves the buffer untouched.
func (s *editorSession) UploadAsset(ctx context.Context, filename string, data []byte) error {
	if !s.capability {
		return domain.ErrNoCapability
	}
	if len(data) > MaxUploadSize {
		return domain.ErrUploadTooLarge
	}
	contentType := http.DetectContentType(data)
	if !allowedImageTypes[contentType] {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedImage, contentType)
	}
	if filename == "" {
		filename = uuid.NewString()
	}

	s.mu.Lock()
	noteID := s.note.ID
	s.mu.Unlock()

	url, err := s.assets.Upload(ctx, noteID, filename, contentType, data)
	if err != nil {
		return fmt.Errorf("upload asset: %w", err)
	}

	s.mu.Lock()
	buffer := s.buffer
	s.mu.Unlock()
	if buffer != "" && !strings.HasSuffix(buffer, "\n") {
		buffer += "\n"
	}
	return s.SetContent(buffer + fmt.Sprintf("![image](%s)\n", url))
}

// Render produces the preview representation of the current buffer.
func (s *editorSession) Render() (string, error) {
	if s.renderer == nil {
		return s.Buffer(), nil
	}
	return s.renderer.Render(s.Buffer())
}

// Close cancels the pending debounce timer and detaches the session. An
// in-flight save finishes on its own; its result is discarded.
func (s *editorSession) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.autosave.Close()
}

// persist is the SaveFunc handed to the autosave machine: one full
// overwrite of content, title and permission. Last write wins; the
// server exchanges no concurrency token, so concurrent editors from
// other sessions may silently overwrite each other (known limitation).
func (s *editorSession) persist(ctx context.Context) error {
	s.mu.Lock()
	id, content, title, permission := s.note.ID, s.buffer, s.title, s.permission
	s.mu.Unlock()

	updated, err := s.notes.Update(ctx, id, content, title, permission)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.note = *updated
	clean := s.buffer == content
	s.mu.Unlock()

	// The draft journal only covers unsaved text.
	if clean && s.drafts != nil {
		if err := s.drafts.DeleteDraft(context.Background(), id); err != nil {
			logger.Warn("editor: clearing draft for %s: %v", id, err)
		}
	}
	return nil
}

// journalDraft writes the buffer to the local draft journal, best effort.
func (s *editorSession) journalDraft(noteID, content string) {
	if s.drafts == nil {
		return
	}
	draft := &domain.Draft{
		ID:      uuid.NewString(),
		NoteID:  noteID,
		Content: content,
		SavedAt: time.Now(),
	}
	if err := s.drafts.SaveDraft(context.Background(), draft); err != nil {
		logger.Warn("editor: journaling draft for %s: %v", noteID, err)
	}
}
