package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threalwinky/mown/internal/adapters/driven/storage/memory"
	"github.com/threalwinky/mown/internal/adapters/driving/tui/messages"
	"github.com/threalwinky/mown/internal/core/domain"
	"github.com/threalwinky/mown/internal/core/ports/driving"
	"github.com/threalwinky/mown/internal/core/services"
)

type anonAuth struct{}

func (anonAuth) Login(context.Context, string, string) (*domain.User, error) { return nil, nil }
func (anonAuth) Register(context.Context, string, string, string) (*domain.User, error) {
	return nil, nil
}
func (anonAuth) Logout(context.Context) error                 { return nil }
func (anonAuth) WhoAmI(context.Context) (*domain.User, error) { return nil, nil }

type appFixture struct {
	app     *App
	session driving.EditorSession
	store   *memory.NoteStore
}

func newAppFixture(t *testing.T, content string, permission domain.Permission) *appFixture {
	t.Helper()

	store := memory.NewNoteStore()
	store.Seed(domain.Note{
		ID:         "note-1",
		Title:      "Untitled",
		Content:    content,
		Permission: permission,
	})

	editor := services.NewEditor(store, memory.NewAssetStore(), memory.NewDraftStore(), nil,
		anonAuth{}, services.WithEditorAutosaveDelay(time.Hour))
	session, err := editor.Open(context.Background(), "note-1")
	require.NoError(t, err)
	t.Cleanup(session.Close)

	app := NewApp(Config{Session: session})
	return &appFixture{app: app, session: session, store: store}
}

func keyMsg(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func (f *appFixture) press(key tea.KeyType) tea.Cmd {
	_, cmd := f.app.Update(keyMsg(key))
	return cmd
}

func TestAppStartsWithBothPanes(t *testing.T) {
	f := newAppFixture(t, "# Hi\nbody", domain.PermissionFreely)

	assert.True(t, f.app.ShowingPreview())
	assert.True(t, f.app.SyncEnabled())
	assert.Equal(t, "# Hi\nbody", f.app.editor.Value())
}

func TestAppViewAfterResize(t *testing.T) {
	f := newAppFixture(t, "# Hi\nbody", domain.PermissionFreely)

	_, _ = f.app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	view := f.app.View()
	assert.NotEqual(t, "Loading note...", view)
	assert.Contains(t, view, "body")
}

func TestAppTypingFeedsSession(t *testing.T) {
	f := newAppFixture(t, "", domain.PermissionFreely)

	_, _ = f.app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hello")})

	assert.Equal(t, "hello", f.session.Buffer())
	assert.Equal(t, domain.SavePending, f.session.SaveState())
}

func TestAppBoldInsertsPlaceholder(t *testing.T) {
	f := newAppFixture(t, "note: ", domain.PermissionFreely)

	cmd := f.press(tea.KeyCtrlB)

	assert.Contains(t, f.session.Buffer(), "**bold text**")
	assert.Equal(t, f.session.Buffer(), f.app.editor.Value())
	assert.NotNil(t, cmd, "formatting should refresh the preview")
}

func TestAppHeadingRetitles(t *testing.T) {
	f := newAppFixture(t, "Plans", domain.PermissionFreely)

	f.press(tea.KeyCtrlH)

	assert.True(t, strings.HasPrefix(f.session.Buffer(), "# "))
	assert.Equal(t, "Plans", f.session.Title())
}

func TestAppSaveKeyFlushes(t *testing.T) {
	f := newAppFixture(t, "old", domain.PermissionFreely)
	require.NoError(t, f.session.SetContent("new content"))

	cmd := f.press(tea.KeyCtrlS)
	require.NotNil(t, cmd)
	msg := cmd()

	completed, ok := msg.(messages.SaveCompleted)
	require.True(t, ok)
	assert.NoError(t, completed.Err)

	note, err := f.store.Get(context.Background(), "note-1")
	require.NoError(t, err)
	assert.Equal(t, "new content", note.Content)
}

func TestAppTogglePreview(t *testing.T) {
	f := newAppFixture(t, "text", domain.PermissionFreely)

	f.press(tea.KeyCtrlP)
	assert.False(t, f.app.ShowingPreview())

	f.press(tea.KeyCtrlP)
	assert.True(t, f.app.ShowingPreview())
}

func TestAppToggleSync(t *testing.T) {
	f := newAppFixture(t, "text", domain.PermissionFreely)

	f.press(tea.KeyCtrlY)
	assert.False(t, f.app.SyncEnabled())

	f.press(tea.KeyCtrlY)
	assert.True(t, f.app.SyncEnabled())
}

func TestAppCyclePermissionStagesNextLevel(t *testing.T) {
	f := newAppFixture(t, "text", domain.PermissionFreely)

	cmd := f.press(tea.KeyCtrlG)
	require.NotNil(t, cmd)
	msg := cmd()

	changed, ok := msg.(messages.PermissionChanged)
	require.True(t, ok)
	assert.NoError(t, changed.Err)
	assert.Equal(t, domain.PermissionEditable, changed.Permission)
}

func TestAppPreviewRenderedUpdatesPane(t *testing.T) {
	f := newAppFixture(t, "text", domain.PermissionFreely)
	_, _ = f.app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	_, _ = f.app.Update(messages.PreviewRendered{Content: "rendered output"})

	assert.Contains(t, f.app.View(), "rendered output")
	assert.NoError(t, f.app.Err())
}

func TestAppSaveStateTickReschedules(t *testing.T) {
	f := newAppFixture(t, "text", domain.PermissionFreely)

	_, cmd := f.app.Update(messages.SaveStateTicked{})
	assert.NotNil(t, cmd)
}

func TestAppQuitFlushesUnsavedWork(t *testing.T) {
	f := newAppFixture(t, "old", domain.PermissionFreely)
	require.NoError(t, f.session.SetContent("unsaved"))

	cmd := f.press(tea.KeyCtrlC)
	require.NotNil(t, cmd)
	msg := cmd()

	assert.IsType(t, tea.QuitMsg{}, msg)

	note, err := f.store.Get(context.Background(), "note-1")
	require.NoError(t, err)
	assert.Equal(t, "unsaved", note.Content)

	assert.ErrorIs(t, f.session.Save(context.Background()), domain.ErrSessionClosed)
}

func TestAppCursorScrollDrivesPreview(t *testing.T) {
	f := newAppFixture(t, strings.Repeat("line\n", 60), domain.PermissionFreely)
	_, _ = f.app.Update(tea.WindowSizeMsg{Width: 120, Height: 20})
	f.app.preview.SetContent(strings.Repeat("rendered\n", 120))

	// Exported-API equivalent of textarea's unexported moveToEnd: cursor
	// to the last row, then to the end of that line.
	for f.app.editor.Line() < f.app.editor.LineCount()-1 {
		f.app.editor.CursorDown()
	}
	f.app.editor.CursorEnd()
	f.press(tea.KeyDown)

	assert.Greater(t, f.app.preview.YOffset, 0)
}
