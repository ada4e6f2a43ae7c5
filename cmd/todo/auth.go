package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
}

func init() {
	authCmd.AddCommand(
		&cobra.Command{
			Use:   "register",
			Short: "Register a new user account",
			Args:  cobra.NoArgs,
			RunE:  runRegister,
		},
		&cobra.Command{
			Use:   "login",
			Short: "Login to an existing account",
			Args:  cobra.NoArgs,
			RunE:  runLogin,
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Logout from the current session",
			Args:  cobra.NoArgs,
			RunE:  runLogout,
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show current authentication status",
			Args:  cobra.NoArgs,
			RunE:  runAuthStatus,
		},
	)
}

func runRegister(cmd *cobra.Command, _ []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	username, err := promptLine("Username: ")
	if err != nil {
		return err
	}
	email, err := promptLine("Email: ")
	if err != nil {
		return err
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	user, err := app.users.Register(cmd.Context(), username, email, password)
	if err != nil {
		return err
	}
	fmt.Printf("Registered %s. Run 'todo auth login' to sign in.\n", user.Username)
	return nil
}

func runLogin(cmd *cobra.Command, _ []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	identifier, err := promptLine("Username or email: ")
	if err != nil {
		return err
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	resp, err := app.auth.Login(cmd.Context(), identifier, password)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s (session valid until %s)\n",
		resp.User.Username, resp.ExpiresAt.Local().Format("2006-01-02 15:04"))
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.auth.Logout(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	user, err := app.auth.GetCurrentSession(cmd.Context())
	if err != nil {
		return err
	}
	if user == nil {
		fmt.Println("Not logged in.")
		return nil
	}
	fmt.Printf("Logged in as %s <%s>\n", user.Username, user.Email)
	return nil
}

// promptLine reads a trimmed line from stdin.
func promptLine(label string) (string, error) {
	fmt.Print(label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo when stdin is a terminal.
func promptPassword(label string) (string, error) {
	fmt.Print(label)
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return promptLineNoLabel()
	}
	b, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func promptLineNoLabel() (string, error) {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
