// Package tui implements the split-pane markdown editor: raw text on
// the left, rendered preview on the right, scroll-coupled, autosaving
// through the editing session it is handed.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/threalwinky/mown/internal/adapters/driving/tui/components/statusbar"
	"github.com/threalwinky/mown/internal/adapters/driving/tui/keymap"
	"github.com/threalwinky/mown/internal/adapters/driving/tui/messages"
	"github.com/threalwinky/mown/internal/adapters/driving/tui/styles"
	"github.com/threalwinky/mown/internal/core/domain"
	"github.com/threalwinky/mown/internal/core/ports/driving"
	"github.com/threalwinky/mown/internal/core/services"
)

// saveStatePollInterval drives the status bar refresh.
const saveStatePollInterval = 250 * time.Millisecond

// Config holds the collaborators the editor app needs.
type Config struct {
	// Session is the open editing session the app drives.
	Session driving.EditorSession

	// ScrollCooldown overrides the scroll sync suppression window.
	ScrollCooldown time.Duration
}

// App is the split-pane editor following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	session driving.EditorSession
	sync    *services.ScrollSync
	styles  *styles.Styles
	keys    *keymap.KeyMap
	status  *statusbar.Bar

	editor  textarea.Model
	preview viewport.Model

	showPreview bool
	width       int
	height      int
	ready       bool
	err         error
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the editor app around an open session.
func NewApp(cfg Config) *App {
	s := styles.DefaultStyles()
	keys := keymap.DefaultKeyMap()

	editor := textarea.New()
	editor.SetValue(cfg.Session.Buffer())
	editor.ShowLineNumbers = true
	editor.CharLimit = 0
	editor.Focus()

	preview := viewport.New(0, 0)

	status := statusbar.NewBar(s, keys)
	status.SetTitle(cfg.Session.Title())
	status.SetPermission(cfg.Session.Note().Permission)
	status.SetReadOnly(!cfg.Session.Capability())

	var syncOpts []services.ScrollSyncOption
	if cfg.ScrollCooldown > 0 {
		syncOpts = append(syncOpts, services.WithScrollCooldown(cfg.ScrollCooldown))
	}

	a := &App{
		session:     cfg.Session,
		styles:      s,
		keys:        keys,
		status:      status,
		editor:      editor,
		preview:     preview,
		showPreview: true,
	}
	a.sync = services.NewScrollSync(
		editorPane{app: a},
		previewPane{app: a},
		syncOpts...,
	)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("mown - "+a.session.Title()),
		textarea.Blink,
		a.renderPreview(),
		a.pollSaveState(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.layout()
		return a, a.renderPreview()

	case tea.KeyMsg:
		return a.updateKey(msg)

	case messages.PreviewRendered:
		if msg.Err != nil {
			a.err = msg.Err
			a.status.SetMessage("preview failed")
			return a, nil
		}
		a.preview.SetContent(msg.Content)
		a.sync.OnScroll(services.PanePrimary)
		return a, nil

	case messages.SaveCompleted:
		if msg.Err != nil {
			a.err = msg.Err
			a.status.SetMessage("save failed")
		} else {
			a.err = nil
			a.status.SetMessage("")
		}
		return a, nil

	case messages.PermissionChanged:
		if msg.Err != nil {
			a.err = msg.Err
			a.status.SetMessage("sharing change rejected")
			return a, nil
		}
		a.status.SetMessage("")
		a.status.SetPermission(msg.Permission)
		return a, nil

	case messages.SaveStateTicked:
		a.status.SetSaveState(a.session.SaveState(), a.session.LastSaved())
		a.status.SetTitle(a.session.Title())
		return a, a.pollSaveState()

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil
	}

	return a, nil
}

// updateKey handles one key event.
func (a *App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, a.keys.Quit):
		return a, a.flushAndQuit()

	case keymap.Matches(keyStr, a.keys.Save):
		return a, a.saveNow()

	case keymap.Matches(keyStr, a.keys.Bold):
		return a, a.applyFormat(func() error {
			return a.session.WrapSelection("**", "**", "bold text")
		})

	case keymap.Matches(keyStr, a.keys.Italic):
		return a, a.applyFormat(func() error {
			return a.session.WrapSelection("*", "*", "italic text")
		})

	case keymap.Matches(keyStr, a.keys.Code):
		return a, a.applyFormat(func() error {
			return a.session.WrapSelection("`", "`", "code")
		})

	case keymap.Matches(keyStr, a.keys.Link):
		return a, a.applyFormat(func() error {
			return a.session.WrapSelection("[", "](url)", "link text")
		})

	case keymap.Matches(keyStr, a.keys.Heading):
		return a, a.applyFormat(func() error {
			return a.session.PrefixLine("# ")
		})

	case keymap.Matches(keyStr, a.keys.TogglePreview):
		a.showPreview = !a.showPreview
		if a.showPreview {
			a.sync.SetPane(services.PaneSecondary, previewPane{app: a})
		} else {
			a.sync.SetPane(services.PaneSecondary, nil)
		}
		a.layout()
		return a, a.renderPreview()

	case keymap.Matches(keyStr, a.keys.ToggleSync):
		a.sync.SetEnabled(!a.sync.Enabled())
		return a, nil

	case keymap.Matches(keyStr, a.keys.CyclePermission):
		return a, a.cyclePermission()
	}

	// Everything else edits or moves within the text pane.
	var cmd tea.Cmd
	before := a.editor.Value()
	a.editor, cmd = a.editor.Update(msg)

	if after := a.editor.Value(); after != before {
		if err := a.session.SetContent(after); err != nil {
			a.err = err
			return a, cmd
		}
		a.session.SetSelection(domain.Selection{Start: a.cursorOffset(), End: a.cursorOffset()})
		return a, tea.Batch(cmd, a.renderPreview())
	}

	a.session.SetSelection(domain.Selection{Start: a.cursorOffset(), End: a.cursorOffset()})
	a.sync.OnScroll(services.PanePrimary)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Loading note..."
	}

	a.status.SetWidth(a.width)

	panes := a.styles.EditorPane.Render(a.editor.View())
	if a.showPreview {
		panes = lipgloss.JoinHorizontal(lipgloss.Top,
			panes,
			a.styles.PreviewPane.Render(a.preview.View()),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, panes, a.status.View())
}

// ShowingPreview reports whether the rendered pane is visible.
func (a *App) ShowingPreview() bool {
	return a.showPreview
}

// SyncEnabled reports whether scroll coupling is active.
func (a *App) SyncEnabled() bool {
	return a.sync.Enabled()
}

// Err returns the last error shown to the user.
func (a *App) Err() error {
	return a.err
}

// Run starts the editor and blocks until it exits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// layout distributes the terminal between the panes and the status bar.
func (a *App) layout() {
	contentHeight := a.height - 3 // status bar and pane borders
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.showPreview {
		half := (a.width - 4) / 2
		if half < 1 {
			half = 1
		}
		a.editor.SetWidth(half)
		a.preview.Width = half
	} else {
		w := a.width - 2
		if w < 1 {
			w = 1
		}
		a.editor.SetWidth(w)
	}
	a.editor.SetHeight(contentHeight)
	a.preview.Height = contentHeight
}

// renderPreview renders the buffer for the secondary pane off the
// update loop.
func (a *App) renderPreview() tea.Cmd {
	if !a.showPreview {
		return nil
	}
	return func() tea.Msg {
		content, err := a.session.Render()
		return messages.PreviewRendered{Content: content, Err: err}
	}
}

// saveNow flushes the buffer immediately.
func (a *App) saveNow() tea.Cmd {
	return func() tea.Msg {
		return messages.SaveCompleted{Err: a.session.Save(context.Background())}
	}
}

// flushAndQuit saves unsaved work, closes the session and exits.
func (a *App) flushAndQuit() tea.Cmd {
	return func() tea.Msg {
		if a.session.Capability() && a.session.SaveState() != domain.SaveIdle {
			_ = a.session.Save(context.Background())
		}
		a.session.Close()
		return tea.Quit()
	}
}

// applyFormat runs a formatting command and reloads the pane from the
// session, which owns selection clamping.
func (a *App) applyFormat(format func() error) tea.Cmd {
	a.session.SetSelection(domain.Selection{Start: a.cursorOffset(), End: a.cursorOffset()})
	if err := format(); err != nil {
		a.err = err
		return nil
	}

	a.editor.SetValue(a.session.Buffer())
	a.setCursorOffset(a.session.Selection().End)
	return a.renderPreview()
}

// cyclePermission steps to the next sharing level in order.
func (a *App) cyclePermission() tea.Cmd {
	all := domain.Permissions()
	current := a.session.Note().Permission
	next := all[0]
	for i, p := range all {
		if p == current {
			next = all[(i+1)%len(all)]
			break
		}
	}

	return func() tea.Msg {
		return messages.PermissionChanged{
			Permission: next,
			Err:        a.session.SetPermission(next),
		}
	}
}

// pollSaveState schedules the next status bar refresh.
func (a *App) pollSaveState() tea.Cmd {
	return tea.Tick(saveStatePollInterval, func(time.Time) tea.Msg {
		return messages.SaveStateTicked{}
	})
}

// cursorOffset converts the textarea cursor to a byte offset.
func (a *App) cursorOffset() int {
	value := a.editor.Value()
	row := a.editor.Line()
	col := a.editor.LineInfo().ColumnOffset

	offset := 0
	for i, line := range strings.Split(value, "\n") {
		if i == row {
			if col > len(line) {
				col = len(line)
			}
			return offset + col
		}
		offset += len(line) + 1
	}
	return len(value)
}

// moveEditorToBegin moves the textarea cursor to the beginning of the
// input (row 0, column 0) using only the exported textarea API; bubbles
// keeps its own moveToBegin unexported.
func moveEditorToBegin(m *textarea.Model) {
	for m.Line() > 0 {
		m.CursorUp()
	}
	m.SetCursor(0)
}

// setCursorOffset moves the textarea cursor to a byte offset.
func (a *App) setCursorOffset(offset int) {
	value := a.editor.Value()
	if offset > len(value) {
		offset = len(value)
	}

	row := strings.Count(value[:offset], "\n")
	col := offset
	if i := strings.LastIndexByte(value[:offset], '\n'); i >= 0 {
		col = offset - i - 1
	}

	moveEditorToBegin(&a.editor)
	for i := 0; i < row; i++ {
		a.editor.CursorDown()
	}
	a.editor.SetCursor(col)
}

// editorPane couples the text pane into the scroll sync engine. The
// textarea tracks scrolling through the cursor row, so the cursor is
// the offset.
type editorPane struct {
	app *App
}

func (p editorPane) ScrollOffset() int {
	return p.app.editor.Line()
}

func (p editorPane) MaxScrollOffset() int {
	return p.app.editor.LineCount() - 1
}

func (p editorPane) SetScrollOffset(offset int) {
	moveEditorToBegin(&p.app.editor)
	for i := 0; i < offset; i++ {
		p.app.editor.CursorDown()
	}
}

// previewPane couples the rendered pane into the scroll sync engine.
type previewPane struct {
	app *App
}

func (p previewPane) ScrollOffset() int {
	return p.app.preview.YOffset
}

func (p previewPane) MaxScrollOffset() int {
	return p.app.preview.TotalLineCount() - p.app.preview.Height
}

func (p previewPane) SetScrollOffset(offset int) {
	p.app.preview.SetYOffset(offset)
}
