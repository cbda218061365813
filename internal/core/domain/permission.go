package domain

import "fmt"

// Permission is the sharing level of a note. The set is closed: values
// arriving from the server are validated with ParsePermission at the
// boundary and never passed through as free-form strings.
type Permission string

const (
	// PermissionFreely allows anyone, including anonymous viewers, to edit.
	PermissionFreely Permission = "freely"
	// PermissionEditable allows any signed-in user to edit.
	PermissionEditable Permission = "editable"
	// PermissionLimited allows only the owner to view and edit.
	PermissionLimited Permission = "limited"
	// PermissionLocked allows signed-in users to view, only the owner to edit.
	PermissionLocked Permission = "locked"
	// PermissionProtected allows anyone to view, only the owner to edit.
	PermissionProtected Permission = "protected"
	// PermissionPrivate allows only the owner to view and edit.
	PermissionPrivate Permission = "private"
)

// Permissions lists all valid permission levels.
func Permissions() []Permission {
	return []Permission{
		PermissionFreely,
		PermissionEditable,
		PermissionLimited,
		PermissionLocked,
		PermissionProtected,
		PermissionPrivate,
	}
}

// ParsePermission validates a raw permission string from the server or the
// command line. Unknown values are a data-integrity error, not a fallback.
func ParsePermission(raw string) (Permission, error) {
	switch p := Permission(raw); p {
	case PermissionFreely, PermissionEditable, PermissionLimited,
		PermissionLocked, PermissionProtected, PermissionPrivate:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown permission %q", ErrValidation, raw)
	}
}

// Valid reports whether the permission is one of the six known levels.
func (p Permission) Valid() bool {
	_, err := ParsePermission(string(p))
	return err == nil
}

// String returns the wire representation.
func (p Permission) String() string {
	return string(p)
}

// CanEdit resolves the edit capability for a viewer. The empty string is
// the anonymous viewer. Evaluation order:
//
//  1. Owner always edits (both IDs non-empty and equal).
//  2. freely: anyone edits, anonymous included.
//  3. editable: any signed-in user edits.
//  4. Everything else: no.
//
// The function is pure; callers must have validated p already.
func (p Permission) CanEdit(viewerID, ownerID string) bool {
	if viewerID != "" && viewerID == ownerID {
		return true
	}
	switch p {
	case PermissionFreely:
		return true
	case PermissionEditable:
		return viewerID != ""
	default:
		return false
	}
}

// CanView resolves the read capability for a viewer, mirroring the
// server's published-view gate.
func (p Permission) CanView(viewerID, ownerID string) bool {
	switch p {
	case PermissionPrivate, PermissionLimited:
		return viewerID != "" && viewerID == ownerID
	case PermissionLocked:
		return viewerID != ""
	default:
		// freely, editable, protected are publicly readable.
		return true
	}
}

// Transitions returns the permission levels the viewer may move this note
// to. Only the owner may change the sharing level; everyone else gets an
// empty set.
func (p Permission) Transitions(viewerID, ownerID string) []Permission {
	if viewerID == "" || viewerID != ownerID {
		return nil
	}
	return Permissions()
}
