package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threalwinky/mown/internal/adapters/driven/storage/memory"
	"github.com/threalwinky/mown/internal/core/domain"
	"github.com/threalwinky/mown/internal/core/ports/driving"
)

// staticAuth reports a fixed identity without any token exchange.
type staticAuth struct {
	user *domain.User
	err  error
}

func (a *staticAuth) Login(context.Context, string, string) (*domain.User, error) {
	return a.user, nil
}

func (a *staticAuth) Register(context.Context, string, string, string) (*domain.User, error) {
	return a.user, nil
}

func (a *staticAuth) Logout(context.Context) error { return nil }

func (a *staticAuth) WhoAmI(context.Context) (*domain.User, error) {
	return a.user, a.err
}

var _ driving.AuthService = (*staticAuth)(nil)

// pngBytes is a minimal payload that content sniffing reports as image/png.
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type editorFixture struct {
	store  *memory.NoteStore
	assets *memory.AssetStore
	drafts *memory.DraftStore
	editor *Editor
}

func newEditorFixture(t *testing.T, viewer *domain.User, opts ...EditorOption) *editorFixture {
	t.Helper()
	f := &editorFixture{
		store:  memory.NewNoteStore(),
		assets: memory.NewAssetStore(),
		drafts: memory.NewDraftStore(),
	}
	if viewer != nil {
		f.store.SetViewer(viewer.ID)
	}
	f.editor = NewEditor(f.store, f.assets, f.drafts, nil, &staticAuth{user: viewer}, opts...)
	return f
}

func (f *editorFixture) seed(permission domain.Permission, ownerID, content string) domain.Note {
	note := domain.Note{
		ID:         "note-1",
		ShortID:    "abc123defg",
		Title:      domain.DefaultTitle,
		Content:    content,
		Permission: permission,
		OwnerID:    ownerID,
		UpdatedAt:  time.Now().Add(-time.Hour),
	}
	f.store.Seed(note)
	return note
}

func TestEditorOpenResolvesCapability(t *testing.T) {
	tests := []struct {
		name       string
		permission domain.Permission
		ownerID    string
		viewer     *domain.User
		capability bool
	}{
		{"anonymous on freely", domain.PermissionFreely, "owner", nil, true},
		{"anonymous on editable", domain.PermissionEditable, "owner", nil, false},
		{"signed-in on editable", domain.PermissionEditable, "owner", &domain.User{ID: "bob"}, true},
		{"signed-in on limited", domain.PermissionLimited, "owner", &domain.User{ID: "bob"}, false},
		{"owner on private", domain.PermissionPrivate, "alice", &domain.User{ID: "alice"}, true},
		{"owner on locked", domain.PermissionLocked, "alice", &domain.User{ID: "alice"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEditorFixture(t, tt.viewer)
			f.seed(tt.permission, tt.ownerID, "# Hi\n")

			session, err := f.editor.Open(context.Background(), "note-1")
			require.NoError(t, err)
			defer session.Close()

			assert.Equal(t, tt.capability, session.Capability())
			assert.Equal(t, domain.SaveIdle, session.SaveState())
		})
	}
}

func TestEditorOpenDeniedForHiddenNote(t *testing.T) {
	f := newEditorFixture(t, nil)
	f.seed(domain.PermissionPrivate, "alice", "secret")

	_, err := f.editor.Open(context.Background(), "note-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.editor.Open(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEditorOpenFallsBackToAnonymousOnAuthFailure(t *testing.T) {
	f := newEditorFixture(t, nil)
	f.editor.auth = &staticAuth{err: errors.New("network down")}
	f.seed(domain.PermissionEditable, "owner", "text")

	session, err := f.editor.Open(context.Background(), "note-1")
	require.NoError(t, err)
	defer session.Close()

	// Anonymous viewers cannot edit an editable note.
	assert.False(t, session.Capability())
}

func TestEditorTitleFollowsFirstHeading(t *testing.T) {
	f := newEditorFixture(t, nil)
	f.seed(domain.PermissionFreely, "", "intro\n# Hello World\nmore text\n# Second")

	session, err := f.editor.Open(context.Background(), "note-1")
	require.NoError(t, err)
	defer session.Close()

	assert.Equal(t, "Hello World", session.Title())

	require.NoError(t, session.SetContent("plain text, no heading"))
	// Without a heading the previous title sticks.
	assert.Equal(t, "Hello World", session.Title())

	require.NoError(t, session.SetContent("# Renamed\n\nbody"))
	assert.Equal(t, "Renamed", session.Title())
}

func TestEditorAutosavePersistsEdit(t *testing.T) {
	f := newEditorFixture(t, nil, WithEditorAutosaveDelay(20*time.Millisecond))
	f.seed(domain.PermissionFreely, "", "# Hi\n")

	session, err := f.editor.Open(context.Background(), "note-1")
	require.NoError(t, err)
	defer session.Close()

	require.NoError(t, session.SetContent("# Hi\n\nedited"))
	assert.Equal(t, domain.SavePending, session.SaveState())

	require.Eventually(t, func() bool {
		return session.SaveState() == domain.SaveIdle
	}, time.Second, 5*time.Millisecond)

	stored, err := f.store.Get(context.Background(), "note-1")
	require.NoError(t, err)
	assert.Equal(t, "# Hi\n\nedited", stored.Content)
	assert.False(t, session.LastSaved().IsZero())
}

func TestEditorManualSave(t *testing.T) {
	f := newEditorFixture(t, nil, WithEditorAutosaveDelay(time.Hour))
	f.seed(domain.PermissionFreely, "", "# Hi\n")

	session, err := f.editor.Open(context.Background(), "note-1")
	require.NoError(t, err)
	defer session.Close()

	require.NoError(t, session.SetContent("# Hi\n\nnow"))
	require.NoError(t, session.Save(context.Background()))

	stored, err := f.store.Get(context.Background(), "note-1")
	require.NoError(t, err)
	assert.Equal(t, "# Hi\n\nnow", stored.Content)

	// The session re-seeds its record from the save response.
	assert.Equal(t, stored.UpdatedAt, session.Note().UpdatedAt)
}

func TestEditorReadOnlySessionNeverSaves(t *testing.T) {
	f := newEditorFixture(t, nil, WithEditorAutosaveDelay(10*time.Millisecond))
	f.seed(domain.PermissionEditable, "owner", "text")

	session, err := f.editor.Open(context.Background(), "note-1")
	require.NoError(t, err)
	defer session.Close()
	require.False(t, session.Capability())

	// Local preview edits are allowed but never leave the machine.
	require.NoError(t, session.SetContent("local change"))
	assert.Equal(t, "local change", session.Buffer())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, domain.SaveIdle, session.SaveState())

	stored, err := f.store.Get(context.Background(), "note-1")
	require.NoError(t, err)
	assert.Equal(t, "text", stored.Content)

	assert.ErrorIs(t, session.Save(context.Background()), domain.ErrNoCapability)
	assert.ErrorIs(t, session.SetPermission(domain.PermissionPrivate), domain.ErrNoCapability)
	assert.ErrorIs(t, session.UploadAsset(context.Background(), "a.png", pngBytes), domain.ErrNoCapability)
}

func TestEditorSaveFailureSurfacesAndRecovers(t *testing.T) {
	f := newEditorFixture(t, nil, WithEditorAutosaveDelay(time.Hour))
	f.seed(domain.PermissionFreely, "", "# Hi\n")

	session, err := f.editor.Open(context.Background(), "note-1")
	require.NoError(t, err)
	defer session.Close()

	f.store.FailUpdates(domain.ErrTransient)
	require.NoError(t, session.SetContent("unsaved"))
	assert.ErrorIs(t, session.Save(context.Background()), domain.ErrTransient)
	assert.Equal(t, domain.SaveError, session.SaveState())

	f.store.FailUpdates(nil)
	require.NoError(t, session.Save(context.Background()))
	assert.Equal(t, domain.SaveIdle, session.SaveState())
}

func TestEditorFormattingCommands(t *testing.T) {
	f := newEditorFixture(t, nil, WithEditorAutosaveDelay(time.Hour))
	f.seed(domain.PermissionFreely, "", "hello world")

	session, err := f.editor.Open(context.Background(), "note-1")
	require.NoError(t, err)
	defer session.Close()

	session.SetSelection(domain.Selection{Start: 0, End: 5})
	require.NoError(t, session.WrapSelection("**", "**", "bold text"))
	assert.Equal(t, "**hello** world", session.Buffer())
	assert.Equal(t, domain.Selection{Start: 2, End: 7}, session.Selection())

	require.NoError(t, session.PrefixLine("# "))
	assert.Equal(t, "# **hello** world", session.Buffer())
	assert.Equal(t, "**hello** world", session.Title())
}

func TestEditorSetPermission(t *testing.T) {
	f := newEditorFixture(t, &domain.User{ID: "alice"}, WithEditorAutosaveDelay(time.Hour))
	f.seed(domain.PermissionPrivate, "alice", "# Hi\n")

	session, err := f.editor.Open(context.Background(), "note-1")
	require.NoError(t, err)
	defer session.Close()

	assert.ErrorIs(t, session.SetPermission("everyone"), domain.ErrValidation)

	require.NoError(t, session.SetPermission(domain.PermissionLocked))
	require.NoError(t, session.Save(context.Background()))

	stored, err := f.store.Get(context.Background(), "note-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PermissionLocked, stored.Permission)
}

func TestEditorUploadAsset(t *testing.T) {
	f := newEditorFixture(t, nil, WithEditorAutosaveDelay(time.Hour))
	f.seed(domain.PermissionFreely, "", "# Hi")

	session, err := f.editor.Open(context.Background(), "note-1")
	require.NoError(t, err)
	defer session.Close()

	require.NoError(t, session.UploadAsset(context.Background(), "shot.png", pngBytes))
	assert.Equal(t, "# Hi\n![image](/api/images/asset-1)\n", session.Buffer())

	uploaded := f.assets.Assets()
	require.Len(t, uploaded, 1)
	assert.Equal(t, "image/png", uploaded["asset-1"].ContentType)
	assert.Equal(t, "note-1", uploaded["asset-1"].NoteID)
}

func TestEditorUploadAssetRejectsBadInput(t *testing.T) {
	f := newEditorFixture(t, nil, WithEditorAutosaveDelay(time.Hour))
	f.seed(domain.PermissionFreely, "", "# Hi")

	session, err := f.editor.Open(context.Background(), "note-1")
	require.NoError(t, err)
	defer session.Close()

	err = session.UploadAsset(context.Background(), "big.png", make([]byte, MaxUploadSize+1))
	assert.ErrorIs(t, err, domain.ErrUploadTooLarge)

	err = session.UploadAsset(context.Background(), "notes.txt", []byte("just some text"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedImage)

	f.assets.FailUploads(domain.ErrTransient)
	err = session.UploadAsset(context.Background(), "shot.png", pngBytes)
	assert.ErrorIs(t, err, domain.ErrTransient)
	// A failed upload leaves the buffer untouched.
	assert.Equal(t, "# Hi", session.Buffer())
}

func TestEditorRecoversNewerDraft(t *testing.T) {
	f := newEditorFixture(t, nil, WithEditorAutosaveDelay(time.Hour))
	note := f.seed(domain.PermissionFreely, "", "# Hi\nserver copy")

	draft := &domain.Draft{
		ID:      "draft-1",
		NoteID:  note.ID,
		Content: "# Hi\nunsaved local work",
		SavedAt: time.Now(),
	}
	require.NoError(t, f.drafts.SaveDraft(context.Background(), draft))

	session, err := f.editor.Open(context.Background(), "note-1")
	require.NoError(t, err)
	defer session.Close()

	assert.True(t, session.RecoveredDraft())
	assert.Equal(t, "# Hi\nunsaved local work", session.Buffer())
	// Adopted draft content counts as an unsaved edit.
	assert.Equal(t, domain.SavePending, session.SaveState())

	require.NoError(t, session.Save(context.Background()))

	// Once persisted the draft journal entry is cleared.
	_, err = f.drafts.GetDraft(context.Background(), note.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEditorIgnoresStaleDraft(t *testing.T) {
	f := newEditorFixture(t, nil)
	note := f.seed(domain.PermissionFreely, "", "# Hi\nserver copy")

	draft := &domain.Draft{
		ID:      "draft-1",
		NoteID:  note.ID,
		Content: "older local work",
		SavedAt: note.UpdatedAt.Add(-time.Minute),
	}
	require.NoError(t, f.drafts.SaveDraft(context.Background(), draft))

	session, err := f.editor.Open(context.Background(), "note-1")
	require.NoError(t, err)
	defer session.Close()

	assert.False(t, session.RecoveredDraft())
	assert.Equal(t, "# Hi\nserver copy", session.Buffer())
}

func TestEditorIgnoresDraftWithoutCapability(t *testing.T) {
	f := newEditorFixture(t, nil)
	note := f.seed(domain.PermissionEditable, "owner", "server copy")

	draft := &domain.Draft{
		ID:      "draft-1",
		NoteID:  note.ID,
		Content: "local work",
		SavedAt: time.Now(),
	}
	require.NoError(t, f.drafts.SaveDraft(context.Background(), draft))

	session, err := f.editor.Open(context.Background(), "note-1")
	require.NoError(t, err)
	defer session.Close()

	assert.False(t, session.RecoveredDraft())
	assert.Equal(t, "server copy", session.Buffer())
}

func TestEditorClosedSessionRejectsEdits(t *testing.T) {
	f := newEditorFixture(t, nil)
	f.seed(domain.PermissionFreely, "", "# Hi")

	session, err := f.editor.Open(context.Background(), "note-1")
	require.NoError(t, err)
	session.Close()

	assert.ErrorIs(t, session.SetContent("late"), domain.ErrSessionClosed)
	assert.ErrorIs(t, session.SetPermission(domain.PermissionLocked), domain.ErrSessionClosed)
	assert.ErrorIs(t, session.Save(context.Background()), domain.ErrSessionClosed)
}

func TestEditorRenderWithoutRenderer(t *testing.T) {
	f := newEditorFixture(t, nil)
	f.seed(domain.PermissionFreely, "", "# Hi")

	session, err := f.editor.Open(context.Background(), "note-1")
	require.NoError(t, err)
	defer session.Close()

	out, err := session.Render()
	require.NoError(t, err)
	assert.Equal(t, "# Hi", out)
}
