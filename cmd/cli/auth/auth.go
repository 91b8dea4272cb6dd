package auth

import (
	"fmt"
	"syscall"

	"github.com/scribeapp/scribe/cmd/cli/client"
	"github.com/scribeapp/scribe/cmd/cli/config"
	"github.com/scribeapp/scribe/cmd/cli/root"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// ==========================
// CLI Command Init
// ==========================
func init() {
	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new account",
		Long:  "Register a new account with username, email, and password.",
		RunE:  runRegister,
	}

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the Scribe API",
		Long:  "Authenticate and store a JWT token for subsequent CLI commands.",
		RunE:  runLogin,
	}

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Log out",
		Long:  "Remove the locally saved JWT token. An already issued token stays valid until it expires.",
		RunE:  runLogout,
	}

	root.GetRoot().AddCommand(registerCmd, loginCmd, logoutCmd)
}

// readPassword prompts without echoing so the password never lands in shell history or logs.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ==========================
// Register
// ==========================
func runRegister(cmd *cobra.Command, args []string) error {
	var username, email string
	fmt.Print("Username: ")
	fmt.Scanln(&username)
	fmt.Print("Email: ")
	fmt.Scanln(&email)
	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}

	payload := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}
	if err := client.Do("POST", "/auth/register", payload, nil); err != nil {
		return fmt.Errorf("failed to register: %w", err)
	}

	fmt.Println("Account registered. You can now login.")
	return nil
}

// ==========================
// Login
// ==========================
func runLogin(cmd *cobra.Command, args []string) error {
	var username string
	fmt.Print("Username: ")
	fmt.Scanln(&username)
	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}

	payload := map[string]string{
		"username": username,
		"password": password,
	}
	var result struct {
		Token string `json:"token"`
	}
	if err := client.Do("POST", "/auth/login", payload, &result); err != nil {
		return fmt.Errorf("failed to login: %w", err)
	}
	if result.Token == "" {
		return fmt.Errorf("login succeeded but no token returned")
	}

	if err := config.SaveToken(result.Token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	fmt.Println("Login successful. Token stored locally.")
	return nil
}

// ==========================
// Logout
// ==========================
func runLogout(cmd *cobra.Command, args []string) error {
	if err := config.DeleteToken(); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}
