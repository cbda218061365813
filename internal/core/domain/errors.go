package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the server denied the action for this viewer.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation indicates malformed or invalid input, such as a
	// permission value outside the closed six-value set.
	ErrValidation = errors.New("invalid input")

	// ErrTransient indicates a network or store failure that may succeed
	// on retry. Local edits are never discarded because of it.
	ErrTransient = errors.New("transient failure")

	// ErrNoCapability indicates the viewer cannot edit this note.
	ErrNoCapability = errors.New("no edit capability")

	// ErrUnauthenticated indicates the action requires a signed-in user.
	ErrUnauthenticated = errors.New("not signed in")

	// ErrSessionClosed indicates the editor session has been closed.
	ErrSessionClosed = errors.New("editor session closed")

	// ErrUploadTooLarge indicates an asset exceeds the upload size cap.
	ErrUploadTooLarge = errors.New("upload too large")

	// ErrUnsupportedImage indicates an asset is not an accepted image type.
	ErrUnsupportedImage = errors.New("unsupported image type")
)
