package domain

import (
	"fmt"
	"time"
)

// DefaultTitle is assigned to notes created without one.
const DefaultTitle = "Untitled"

// Note is the persisted note record as returned by the server.
type Note struct {
	// ID is the stable storage identifier.
	ID string

	// ShortID is the public-facing identifier used for published links.
	ShortID string

	// Alias is an optional human-chosen identifier, unique when set.
	Alias string

	// Title is the display title. It may be auto-derived from the first
	// level-1 heading of the content.
	Title string

	// Content is the raw markdown text.
	Content string

	// Permission is the sharing level. Always one of the six known values.
	Permission Permission

	// OwnerID identifies the creator. Empty for anonymous notes.
	OwnerID string

	// LastEditorID identifies the user who last changed the note.
	LastEditorID string

	// ViewCount is maintained by the server on reads.
	ViewCount int

	// CreatedAt and UpdatedAt are maintained by the server on writes.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultContent returns the starter content for a freshly created note.
func DefaultContent(title string) string {
	if title == "" {
		title = DefaultTitle
	}
	return fmt.Sprintf("# %s\n\nStart writing your markdown here...", title)
}

// User is a signed-in identity as reported by the auth service.
type User struct {
	ID       string
	Username string
	Email    string
}

// Tokens holds the access/refresh token pair issued at login.
type Tokens struct {
	Access  string
	Refresh string
}

// Draft is a locally journaled copy of unsaved buffer content, used for
// crash recovery. It never leaves the machine.
type Draft struct {
	ID      string
	NoteID  string
	Content string
	SavedAt time.Time
}

// ServerStatus is the public status/config surface of the note server.
type ServerStatus struct {
	Name              string
	Version           string
	Healthy           bool
	AllowAnonymous    bool
	DefaultPermission Permission
}
