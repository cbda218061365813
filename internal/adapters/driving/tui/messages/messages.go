// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/threalwinky/mown/internal/core/domain"
)

// PreviewRendered carries the rendered preview for the secondary pane.
type PreviewRendered struct {
	Content string
	Err     error
}

// SaveCompleted signals a manual save resolved.
type SaveCompleted struct {
	Err error
}

// SaveStateTicked drives the periodic status bar refresh.
type SaveStateTicked struct{}

// PermissionChanged signals the sharing level was staged on the session.
type PermissionChanged struct {
	Permission domain.Permission
	Err        error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
