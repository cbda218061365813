package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the note server",
	Long: `Sign in to the note server and store the session locally.

The password is read from the terminal without echo. For scripted use,
pass --password (it will be visible in the process list).`,
	RunE: runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account on the note server",
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and discard the stored session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE:  runWhoami,
}

// Flags for login and register.
var (
	loginEmail       string
	loginPassword    string
	registerUsername string
)

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted when omitted)")

	registerCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	registerCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted when omitted)")
	registerCmd.Flags().StringVar(&registerUsername, "username", "", "Display name")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	email, password, err := collectCredentials(cmd)
	if err != nil {
		return err
	}

	user, err := authService.Login(context.Background(), email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	cmd.Printf("Signed in as %s (%s)\n", user.Username, user.Email)
	return nil
}

func runRegister(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	email, password, err := collectCredentials(cmd)
	if err != nil {
		return err
	}

	username := registerUsername
	if username == "" {
		cmd.Print("Username: ")
		input, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		username = strings.TrimSpace(input)
	}
	if username == "" {
		return errors.New("username is required")
	}

	user, err := authService.Register(context.Background(), email, password, username)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	cmd.Printf("Account created. Signed in as %s (%s)\n", user.Username, user.Email)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	if err := authService.Logout(context.Background()); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	cmd.Println("Signed out.")
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	user, err := authService.WhoAmI(context.Background())
	if err != nil {
		return fmt.Errorf("identity lookup failed: %w", err)
	}

	if user == nil {
		cmd.Println("Not signed in (anonymous).")
		return nil
	}

	cmd.Printf("%s (%s)\n", user.Username, user.Email)
	return nil
}

// collectCredentials resolves email and password from flags, prompting
// for whatever is missing.
func collectCredentials(cmd *cobra.Command) (string, string, error) {
	email := loginEmail
	if email == "" {
		cmd.Print("Email: ")
		input, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		email = strings.TrimSpace(input)
	}
	if email == "" {
		return "", "", errors.New("email is required")
	}

	password := loginPassword
	if password == "" {
		cmd.Print("Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		cmd.Println()
		if err != nil {
			return "", "", fmt.Errorf("reading password: %w", err)
		}
		password = string(raw)
	}
	if password == "" {
		return "", "", errors.New("password is required")
	}

	return email, password, nil
}
