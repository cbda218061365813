package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/threalwinky/mown/internal/core/domain"
	"github.com/threalwinky/mown/internal/core/ports/driving"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage notes",
	Long:  `Create, list, view, share, and delete notes.`,
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your notes",
	RunE:  runNoteList,
}

var noteCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new note",
	RunE:  runNoteCreate,
}

var noteGetCmd = &cobra.Command{
	Use:   "get [note-id]",
	Short: "Show a note",
	Long:  `Show a note by ID, short ID or alias.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteGet,
}

var noteSharedCmd = &cobra.Command{
	Use:   "shared [short-id]",
	Short: "Show the published view of a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteShared,
}

var noteDeleteCmd = &cobra.Command{
	Use:   "delete [note-id]",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteDelete,
}

var notePermissionCmd = &cobra.Command{
	Use:   "permission [note-id] [level]",
	Short: "Change a note's sharing level",
	Long: `Change a note's sharing level. Only the owner may do this.

Levels: ` + permissionLevels() + `.`,
	Args: cobra.ExactArgs(2),
	RunE: runNotePermission,
}

// Flags for note list and create.
var (
	noteListCached  bool
	noteCreateTitle string
)

func init() {
	noteListCmd.Flags().BoolVar(
		&noteListCached, "cached", false, "List from the local cache without contacting the server")
	noteCreateCmd.Flags().StringVar(
		&noteCreateTitle, "title", "", "Title for the new note")

	noteCmd.AddCommand(noteListCmd)
	noteCmd.AddCommand(noteCreateCmd)
	noteCmd.AddCommand(noteGetCmd)
	noteCmd.AddCommand(noteSharedCmd)
	noteCmd.AddCommand(noteDeleteCmd)
	noteCmd.AddCommand(notePermissionCmd)
	rootCmd.AddCommand(noteCmd)
}

func runNoteList(cmd *cobra.Command, _ []string) error {
	if noteService == nil {
		return errors.New("note service not configured")
	}

	ctx := context.Background()

	var (
		notes []driving.NoteSummary
		err   error
	)
	if noteListCached {
		notes, err = noteService.ListCached(ctx)
	} else {
		notes, err = noteService.List(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list notes: %w", err)
	}

	if len(notes) == 0 {
		cmd.Println("No notes found.")
		cmd.Println("Create one with: mown note create")
		return nil
	}

	for i := range notes {
		note := notes[i].Note
		cmd.Printf("  %s\n", note.ID)
		cmd.Printf("    Title: %s\n", note.Title)
		cmd.Printf("    Sharing: %s\n", note.Permission)
		if notes[i].Description != "" {
			cmd.Printf("    %s\n", notes[i].Description)
		}
		cmd.Printf("    Updated: %s\n", note.UpdatedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}

	cmd.Printf("Total: %d notes\n", len(notes))
	return nil
}

func runNoteCreate(cmd *cobra.Command, _ []string) error {
	if noteService == nil {
		return errors.New("note service not configured")
	}

	note, err := noteService.Create(context.Background(), noteCreateTitle)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	cmd.Printf("Created note: %s\n", note.ID)
	cmd.Printf("  Title: %s\n", note.Title)
	cmd.Printf("  Sharing: %s\n", note.Permission)
	cmd.Printf("\nEdit it with: mown edit %s\n", note.ID)
	return nil
}

func runNoteGet(cmd *cobra.Command, args []string) error {
	if noteService == nil {
		return errors.New("note service not configured")
	}

	note, err := noteService.Get(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get note: %w", err)
	}

	printNote(cmd, note)
	return nil
}

func runNoteShared(cmd *cobra.Command, args []string) error {
	if noteService == nil {
		return errors.New("note service not configured")
	}

	note, err := noteService.GetShared(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get shared note: %w", err)
	}

	printNote(cmd, note)
	return nil
}

func runNoteDelete(cmd *cobra.Command, args []string) error {
	if noteService == nil {
		return errors.New("note service not configured")
	}

	if err := noteService.Delete(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	cmd.Printf("Deleted note %s.\n", args[0])
	return nil
}

func runNotePermission(cmd *cobra.Command, args []string) error {
	if noteService == nil {
		return errors.New("note service not configured")
	}

	note, err := noteService.ChangePermission(context.Background(), args[0], domain.Permission(args[1]))
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return fmt.Errorf("unknown sharing level %q (levels: %s)", args[1], permissionLevels())
		}
		return fmt.Errorf("failed to change sharing level: %w", err)
	}

	cmd.Printf("Note %s is now %s.\n", note.ID, note.Permission)
	return nil
}

func printNote(cmd *cobra.Command, note *domain.Note) {
	cmd.Printf("Note: %s\n\n", note.ID)
	cmd.Printf("  Title:    %s\n", note.Title)
	cmd.Printf("  Short ID: %s\n", note.ShortID)
	if note.Alias != "" {
		cmd.Printf("  Alias:    %s\n", note.Alias)
	}
	cmd.Printf("  Sharing:  %s\n", note.Permission)
	cmd.Printf("  Views:    %d\n", note.ViewCount)
	cmd.Printf("  Updated:  %s\n", note.UpdatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("\n%s\n", note.Content)
}

func permissionLevels() string {
	levels := domain.Permissions()
	names := make([]string, 0, len(levels))
	for _, p := range levels {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}
