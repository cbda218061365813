package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the note server's status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if noteService == nil {
		return errors.New("note service not configured")
	}

	status, err := noteService.Status(context.Background())
	if err != nil {
		return fmt.Errorf("failed to reach server: %w", err)
	}

	cmd.Printf("Server: %s\n\n", status.Name)
	cmd.Printf("  Version:   %s\n", status.Version)
	if status.Healthy {
		cmd.Printf("  Health:    ok\n")
	} else {
		cmd.Printf("  Health:    degraded\n")
	}
	cmd.Printf("  Anonymous: %t\n", status.AllowAnonymous)
	cmd.Printf("  Default sharing: %s\n", status.DefaultPermission)
	return nil
}
