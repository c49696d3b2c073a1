package auth

import (
	"fmt"
	"os"
)

// TokenEnvVar is checked by the environment store.
const TokenEnvVar = "ADTFETCH_TOKEN"

// EnvironmentStore reads the token from the environment. It is read-only:
// the variable belongs to the shell, not to us.
type EnvironmentStore struct{}

// NewEnvironmentStore creates an environment-backed token store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(token string) error {
	return fmt.Errorf("cannot store token in environment; export %s instead", TokenEnvVar)
}

// Retrieve reads the token from ADTFETCH_TOKEN
func (e *EnvironmentStore) Retrieve() (string, error) {
	token := os.Getenv(TokenEnvVar)
	if token == "" {
		return "", ErrTokenNotFound
	}
	return token, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete() error {
	return fmt.Errorf("cannot delete token from environment; unset %s instead", TokenEnvVar)
}
