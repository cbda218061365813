// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the editor.
type KeyMap struct {
	// Quit flushes unsaved work and exits.
	Quit key.Binding

	// Save flushes the buffer immediately.
	Save key.Binding

	// Bold wraps the selection in strong emphasis.
	Bold key.Binding

	// Italic wraps the selection in emphasis.
	Italic key.Binding

	// Code wraps the selection in inline code.
	Code key.Binding

	// Link wraps the selection in a link.
	Link key.Binding

	// Heading prefixes the current line with a level-1 heading marker.
	Heading key.Binding

	// TogglePreview shows or hides the rendered pane.
	TogglePreview key.Binding

	// ToggleSync enables or disables scroll coupling.
	ToggleSync key.Binding

	// CyclePermission steps the sharing level (owner only).
	CyclePermission key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Bold: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "bold"),
		),
		Italic: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "italic"),
		),
		Code: key.NewBinding(
			key.WithKeys("ctrl+k"),
			key.WithHelp("ctrl+k", "code"),
		),
		Link: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "link"),
		),
		Heading: key.NewBinding(
			key.WithKeys("ctrl+h"),
			key.WithHelp("ctrl+h", "heading"),
		),
		TogglePreview: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "preview"),
		),
		ToggleSync: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "sync"),
		),
		CyclePermission: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "sharing"),
		),
	}
}

// ShortHelp returns the hints shown in the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.Bold, k.TogglePreview, k.Quit}
}

// FullHelp returns the full list of keybindings.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Bold, k.Italic, k.Code, k.Link, k.Heading},
		{k.Save, k.TogglePreview, k.ToggleSync, k.CyclePermission},
		{k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
