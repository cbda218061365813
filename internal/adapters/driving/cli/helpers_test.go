package cli

import (
	"context"
	"time"

	"github.com/threalwinky/mown/internal/adapters/driven/storage/memory"
	"github.com/threalwinky/mown/internal/core/domain"
	"github.com/threalwinky/mown/internal/core/services"
)

// stubAuthService is a fixed-identity auth service for command tests.
type stubAuthService struct {
	user *domain.User
}

func (s stubAuthService) Login(context.Context, string, string) (*domain.User, error) {
	return s.user, nil
}

func (s stubAuthService) Register(context.Context, string, string, string) (*domain.User, error) {
	return s.user, nil
}

func (s stubAuthService) Logout(context.Context) error { return nil }

func (s stubAuthService) WhoAmI(context.Context) (*domain.User, error) {
	return s.user, nil
}

// setupTestServices wires the commands to in-memory adapters and returns
// a cleanup that detaches them again.
func setupTestServices() func() {
	store := memory.NewNoteStore()
	store.SetViewer("user-1")
	store.Seed(domain.Note{
		ID:         "note-1",
		ShortID:    "abc123defg",
		Title:      "Test Note 1",
		Content:    "# Test Note 1\n\nSome body text.",
		Permission: domain.PermissionEditable,
		OwnerID:    "user-1",
		UpdatedAt:  time.Now(),
	})

	auth := stubAuthService{user: &domain.User{
		ID:       "user-1",
		Username: "tester",
		Email:    "tester@example.com",
	}}

	configStore = memory.NewConfigStore()
	authService = auth
	noteService = services.NewNotes(store, memory.NewDraftStore(), auth)
	editorService = services.NewEditor(store, memory.NewAssetStore(), memory.NewDraftStore(), nil,
		auth, services.WithEditorAutosaveDelay(time.Hour))

	return func() {
		configStore = nil
		authService = nil
		noteService = nil
		editorService = nil
	}
}
