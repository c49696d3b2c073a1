package main

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"adtfetch/pkg/auth"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the optional wago.tools API token",
	Long: `Manage the optional wago.tools API token.

The token is stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - ADTFETCH_TOKEN environment variable (read-only fallback)

Most CASC files download without a token; set one only if the API
asks for it.`,
}

// authSetCmd represents the auth set command
var authSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store an API token securely",
	Long: `Store the wago.tools API token in the system keychain, or in an
encrypted file when no keychain is available.

The token is read from a hidden prompt and never echoed.`,
	Args: cobra.NoArgs,
	Run:  runAuthSet,
}

// authShowCmd represents the auth show command
var authShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show whether a token is stored",
	Long:  `Show whether an API token is stored, with most of its value masked.`,
	Args:  cobra.NoArgs,
	Run:   runAuthShow,
}

// authClearCmd represents the auth clear command
var authClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored API token",
	Args:  cobra.NoArgs,
	Run:   runAuthClear,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authShowCmd)
	authCmd.AddCommand(authClearCmd)
}

func runAuthSet(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize token storage: %v\n", err)
		os.Exit(1)
	}

	fmt.Print("API token (input hidden): ")
	token, err := readPassword()
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nfailed to read token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println()

	if strings.TrimSpace(token) == "" {
		fmt.Fprintln(os.Stderr, "no token entered, nothing stored")
		os.Exit(1)
	}

	if err := manager.Store(strings.TrimSpace(token)); err != nil {
		fmt.Fprintf(os.Stderr, "failed to store token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Token stored.")
}

func runAuthShow(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize token storage: %v\n", err)
		os.Exit(1)
	}

	token, err := manager.Retrieve()
	if err != nil {
		fmt.Println("No token stored.")
		return
	}
	fmt.Printf("Token: %s\n", maskToken(token))
}

func runAuthClear(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize token storage: %v\n", err)
		os.Exit(1)
	}

	if err := manager.Delete(); err != nil {
		fmt.Println("No token stored.")
		return
	}
	fmt.Println("Token removed.")
}

// readPassword reads a line from the terminal without echoing it
func readPassword() (string, error) {
	data, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// maskToken keeps only the first and last few characters visible
func maskToken(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}
