package driving

import (
	"context"
	"time"

	"github.com/threalwinky/mown/internal/core/domain"
)

// EditorService opens interactive editing sessions.
type EditorService interface {
	// Open loads the note, resolves the viewer's capability and returns a
	// fresh session with saveState idle. Fails with domain.ErrNotFound or
	// domain.ErrForbidden as terminal conditions.
	Open(ctx context.Context, noteID string) (EditorSession, error)
}

// EditorSession is one open document: it owns the local buffer and the
// autosave machine exclusively. Sessions are independent; any number can
// exist at once (the current session is never ambient global state).
type EditorSession interface {
	// Note returns the last-known server snapshot.
	Note() domain.Note

	// Buffer returns the current local text. The buffer, not the server,
	// is the source of truth until a save succeeds.
	Buffer() string

	// Title returns the effective title, auto-derived from the first
	// level-1 heading when present.
	Title() string

	// Capability reports whether the viewer may mutate content/permission.
	Capability() bool

	// RecoveredDraft reports whether Open adopted a local draft newer than
	// the server copy.
	RecoveredDraft() bool

	// SaveState returns the current autosave machine state.
	SaveState() domain.SaveState

	// LastSaved returns when the last save succeeded, zero if never.
	LastSaved() time.Time

	// SetContent replaces the buffer with newText: edits apply strictly in
	// arrival order, the title is re-derived and the autosave machine is
	// fed an edit event.
	SetContent(newText string) error

	// Selection and SetSelection track the local cursor/selection range.
	Selection() domain.Selection
	SetSelection(sel domain.Selection)

	// WrapSelection, PrefixLine and InsertBlock apply formatting commands
	// at the current selection; the result flows through the same edit
	// pipeline as typed text.
	WrapSelection(before, after, placeholder string) error
	PrefixLine(prefix string) error
	InsertBlock(block string) error

	// SetPermission stages a new sharing level to be included in the next
	// save. Rejected with domain.ErrNoCapability for non-editors.
	SetPermission(p domain.Permission) error

	// Save short-circuits the debounce and reports the save outcome.
	Save(ctx context.Context) error

	// UploadAsset uploads image bytes and appends an image reference to
	// the buffer through the normal edit pipeline. Clipboard image paste
	// routes through the same call.
	UploadAsset(ctx context.Context, filename string, data []byte) error

	// Render produces the preview representation of the current buffer.
	Render() (string, error)

	// Close cancels any pending debounce timer and detaches the session.
	// An in-flight save is left to finish; its result is discarded.
	Close()
}
