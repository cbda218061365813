// Package statusbar provides the editor status bar component.
package statusbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/threalwinky/mown/internal/adapters/driving/tui/keymap"
	"github.com/threalwinky/mown/internal/adapters/driving/tui/styles"
	"github.com/threalwinky/mown/internal/core/domain"
)

// Bar displays the note title, save state, sharing level and hints.
type Bar struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	title      string
	saveState  domain.SaveState
	lastSaved  time.Time
	permission domain.Permission
	readOnly   bool
	message    string
	width      int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		width:  80,
	}
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	padding := b.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return b.styles.StatusBar.Width(b.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders title, sharing level and save state.
func (b *Bar) renderLeft() string {
	parts := []string{b.styles.Title.Render(b.title)}

	if b.permission != "" {
		parts = append(parts, b.styles.Muted.Render(fmt.Sprintf("[%s]", b.permission)))
	}
	if b.readOnly {
		parts = append(parts, b.styles.Warning.Render("read-only"))
	}
	parts = append(parts, b.renderSaveState())

	return strings.Join(parts, " ")
}

// renderSaveState renders the save indicator.
func (b *Bar) renderSaveState() string {
	if b.message != "" {
		return b.styles.Error.Render(b.message)
	}

	switch b.saveState {
	case domain.SavePending:
		return b.styles.Warning.Render("●")
	case domain.SaveSaving:
		return b.styles.Muted.Render("saving...")
	case domain.SaveSaved:
		return b.styles.Success.Render("saved")
	case domain.SaveError:
		return b.styles.Error.Render("save failed")
	default:
		if !b.lastSaved.IsZero() {
			return b.styles.Muted.Render("saved " + b.lastSaved.Format("15:04:05"))
		}
		return ""
	}
}

// renderRight renders keybinding hints.
func (b *Bar) renderRight() string {
	bindings := b.keymap.ShortHelp()
	hints := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		h := binding.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetTitle sets the displayed note title.
func (b *Bar) SetTitle(title string) {
	b.title = title
}

// Title returns the displayed note title.
func (b *Bar) Title() string {
	return b.title
}

// SetSaveState sets the save indicator state.
func (b *Bar) SetSaveState(state domain.SaveState, lastSaved time.Time) {
	b.saveState = state
	b.lastSaved = lastSaved
}

// SaveState returns the displayed save state.
func (b *Bar) SaveState() domain.SaveState {
	return b.saveState
}

// SetPermission sets the displayed sharing level.
func (b *Bar) SetPermission(p domain.Permission) {
	b.permission = p
}

// SetReadOnly marks the session as lacking edit capability.
func (b *Bar) SetReadOnly(readOnly bool) {
	b.readOnly = readOnly
}

// SetMessage sets a transient error message, replacing the save state.
func (b *Bar) SetMessage(message string) {
	b.message = message
}

// SetWidth sets the status bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}
