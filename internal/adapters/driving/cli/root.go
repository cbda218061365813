// Package cli implements the mown command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/threalwinky/mown/internal/adapters/driven/config/file"
	"github.com/threalwinky/mown/internal/adapters/driven/noteapi"
	"github.com/threalwinky/mown/internal/adapters/driven/render"
	"github.com/threalwinky/mown/internal/adapters/driven/storage/sqlite"
	"github.com/threalwinky/mown/internal/core/ports/driven"
	"github.com/threalwinky/mown/internal/core/ports/driving"
	"github.com/threalwinky/mown/internal/core/services"
	"github.com/threalwinky/mown/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services the commands run against. Wired by initServices on first use;
// tests preset them directly.
var (
	configStore   driven.ConfigStore
	authService   driving.AuthService
	noteService   driving.NoteService
	editorService driving.EditorService
)

// Persistent flags.
var (
	verbose    bool
	serverFlag string
)

var rootCmd = &cobra.Command{
	Use:   "mown",
	Short: "Terminal client for collaborative markdown notes",
	Long: `Mown is a terminal client for a collaborative markdown note server.

It edits notes in a split-pane TUI with live preview and autosave, keeps
local drafts for crash recovery, and manages notes, sharing levels and
image uploads from the command line.

Examples:
  mown login
  mown note create --title "Meeting Notes"
  mown note list
  mown edit <note-id>
  mown edit <note-id> --external`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(
		&serverFlag, "server", "", "Note server URL (overrides the configured one)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices wires the default adapters. A test that presets the
// service variables skips the wiring entirely.
func initServices() error {
	if authService != nil && noteService != nil && editorService != nil {
		return nil
	}

	config, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	baseURL := serverFlag
	if baseURL == "" {
		baseURL = config.ServerURL()
	}

	client := noteapi.NewClient(noteapi.Config{
		BaseURL: baseURL,
		Tokens:  config,
	})
	notes := noteapi.NewNoteStore(client)
	assets := noteapi.NewAssetStore(client)
	authAPI := noteapi.NewAuthAPI(client)

	// Local draft storage is best-effort: without it editing still works,
	// only crash recovery and the offline listing cache are lost.
	var drafts driven.DraftStore
	if store, err := sqlite.NewStore(""); err != nil {
		logger.Warn("cli: opening local draft store: %v", err)
	} else {
		drafts = store.DraftStore()
	}

	renderer, err := render.NewGlamour(0)
	if err != nil {
		return fmt.Errorf("initialising renderer: %w", err)
	}

	configStore = config
	authService = services.NewAuth(authAPI, config)
	noteService = services.NewNotes(notes, drafts, authService)
	editorService = services.NewEditor(notes, assets, drafts, renderer, authService,
		services.WithEditorAutosaveDelay(config.AutosaveDelay()))

	return nil
}
