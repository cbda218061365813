package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"

	"github.com/threalwinky/mown/internal/adapters/driving/tui"
	"github.com/threalwinky/mown/internal/adapters/driving/watch"
	"github.com/threalwinky/mown/internal/core/ports/driving"
)

var editCmd = &cobra.Command{
	Use:   "edit [note-id]",
	Short: "Edit a note",
	Long: `Edit a note in the split-pane terminal editor.

The editor shows raw markdown on the left and a rendered preview on the
right, scroll-synced. Edits autosave after a short pause in typing.

With --external the note is exported to a scratch file and opened in
$EDITOR instead; saves to the file are picked up and autosaved.

Controls:
  ctrl+s - Save now
  ctrl+b - Bold           ctrl+e - Italic
  ctrl+k - Inline code    ctrl+l - Link
  ctrl+h - Heading
  ctrl+p - Toggle preview
  ctrl+y - Toggle scroll sync
  ctrl+g - Cycle sharing level
  ctrl+c - Save and quit`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var uploadCmd = &cobra.Command{
	Use:   "upload [note-id] [image-file]",
	Short: "Upload an image and reference it from a note",
	Args:  cobra.ExactArgs(2),
	RunE:  runUpload,
}

// external selects the $EDITOR workflow for edit.
var external bool

func init() {
	editCmd.Flags().BoolVar(
		&external, "external", false, "Edit in $EDITOR instead of the built-in editor")

	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(uploadCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	if editorService == nil {
		return errors.New("editor service not configured")
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in editor: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ctx := context.Background()

	session, err := editorService.Open(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to open note: %w", err)
	}

	if session.RecoveredDraft() {
		cmd.Println("Recovered unsaved local changes.")
	}

	if external {
		return runExternalEdit(ctx, cmd, session)
	}

	var cooldown time.Duration
	if configStore != nil {
		cooldown = configStore.ScrollCooldown()
	}

	app := tui.NewApp(tui.Config{
		Session:        session,
		ScrollCooldown: cooldown,
	})
	if err := app.Run(); err != nil {
		session.Close()
		return fmt.Errorf("editor error: %w", err)
	}
	return nil
}

// runExternalEdit exports the note to a scratch file, runs $EDITOR on it
// and flushes the result.
func runExternalEdit(ctx context.Context, cmd *cobra.Command, session driving.EditorSession) error {
	defer session.Close()

	w, err := watch.New(session, "")
	if err != nil {
		return fmt.Errorf("failed to export note: %w", err)
	}
	defer w.Close()

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	spawn := func(ctx context.Context, path string) error {
		ed := exec.CommandContext(ctx, editor, path)
		ed.Stdin = os.Stdin
		ed.Stdout = os.Stdout
		ed.Stderr = os.Stderr
		return ed.Run()
	}

	if err := watch.Edit(ctx, w, spawn); err != nil {
		return fmt.Errorf("external editor failed: %w", err)
	}

	if session.Capability() {
		if err := session.Save(ctx); err != nil {
			return fmt.Errorf("failed to save note: %w", err)
		}
		cmd.Println("Saved.")
	}
	return nil
}

func runUpload(cmd *cobra.Command, args []string) error {
	if editorService == nil {
		return errors.New("editor service not configured")
	}

	data, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	ctx := context.Background()

	session, err := editorService.Open(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to open note: %w", err)
	}
	defer session.Close()

	if err := session.UploadAsset(ctx, filepath.Base(args[1]), data); err != nil {
		return fmt.Errorf("failed to upload image: %w", err)
	}
	if err := session.Save(ctx); err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}

	cmd.Printf("Uploaded %s to note %s.\n", filepath.Base(args[1]), args[0])
	return nil
}
