package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrTokenNotFound means no store holds a token
	ErrTokenNotFound = errors.New("no API token stored")
	// ErrInvalidToken means the supplied token is unusable
	ErrInvalidToken = errors.New("invalid API token")
)

// TokenStore stores and retrieves the optional wago.tools API token
type TokenStore interface {
	// Store saves the token
	Store(token string) error

	// Retrieve returns the stored token
	Retrieve() (string, error)

	// Delete removes the stored token
	Delete() error
}

// Manager reads and writes the token through a chain of stores: the system
// keychain when available, an encrypted file fallback, and the environment
// as a read-only last resort.
type Manager struct {
	stores []TokenStore
}

// NewManager creates a token manager with the available storage backends
func NewManager() (*Manager, error) {
	var stores []TokenStore

	if keyringStore, err := NewKeyringStore(); err == nil {
		stores = append(stores, keyringStore)
	}

	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "token.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	stores = append(stores, NewEnvironmentStore())

	return &Manager{stores: stores}, nil
}

// Store saves the token in the first store that accepts it
func (m *Manager) Store(token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrInvalidToken
	}

	var lastErr error
	for _, store := range m.stores {
		if err := store.Store(token); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}
	if lastErr != nil {
		return fmt.Errorf("failed to store token: %w", lastErr)
	}
	return errors.New("no available token stores")
}

// Retrieve returns the token from the first store that has one
func (m *Manager) Retrieve() (string, error) {
	for _, store := range m.stores {
		if token, err := store.Retrieve(); err == nil && token != "" {
			return token, nil
		}
	}
	return "", ErrTokenNotFound
}

// Delete removes the token from every store that holds it
func (m *Manager) Delete() error {
	deleted := false
	for _, store := range m.stores {
		if err := store.Delete(); err == nil {
			deleted = true
		}
	}
	if !deleted {
		return ErrTokenNotFound
	}
	return nil
}

// getConfigDir returns the adtfetch configuration directory
func getConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "adtfetch"), nil
}
