package statusbar

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/threalwinky/mown/internal/core/domain"
)

func newTestBar() *Bar {
	b := NewBar(nil, nil)
	b.SetWidth(120)
	return b
}

func TestBarShowsTitleAndPermission(t *testing.T) {
	b := newTestBar()
	b.SetTitle("Meeting Notes")
	b.SetPermission(domain.PermissionEditable)

	view := b.View()
	assert.Contains(t, view, "Meeting Notes")
	assert.Contains(t, view, "[editable]")
}

func TestBarShowsReadOnlyMarker(t *testing.T) {
	b := newTestBar()
	b.SetReadOnly(true)

	assert.Contains(t, b.View(), "read-only")
}

func TestBarSaveStates(t *testing.T) {
	tests := []struct {
		name  string
		state domain.SaveState
		want  string
	}{
		{"pending", domain.SavePending, "●"},
		{"saving", domain.SaveSaving, "saving..."},
		{"saved", domain.SaveSaved, "saved"},
		{"error", domain.SaveError, "save failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBar()
			b.SetSaveState(tt.state, time.Time{})
			assert.Contains(t, b.View(), tt.want)
		})
	}
}

func TestBarIdleShowsLastSavedTime(t *testing.T) {
	b := newTestBar()
	b.SetSaveState(domain.SaveIdle, time.Date(2026, 8, 2, 11, 30, 45, 0, time.UTC))

	assert.Contains(t, b.View(), "saved 11:30:45")
}

func TestBarMessageReplacesSaveState(t *testing.T) {
	b := newTestBar()
	b.SetSaveState(domain.SaveSaved, time.Now())
	b.SetMessage("save failed")

	view := b.View()
	assert.Contains(t, view, "save failed")
	assert.NotContains(t, view, "saved ")
}

func TestBarPadsToWidth(t *testing.T) {
	b := newTestBar()
	b.SetTitle("Hi")

	for _, line := range strings.Split(b.View(), "\n") {
		assert.Equal(t, 120, lipgloss.Width(line))
	}
}

func TestBarShowsKeyHints(t *testing.T) {
	b := newTestBar()

	view := b.View()
	assert.Contains(t, view, "ctrl+s: save")
	assert.Contains(t, view, "ctrl+c: quit")
}
