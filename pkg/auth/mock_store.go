package auth

import "sync"

// MockStore is an in-memory TokenStore for tests.
type MockStore struct {
	mu    sync.Mutex
	token string
	// Err, when set, is returned by every operation
	Err error
}

// NewMockStore creates an empty in-memory store
func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Store(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if token == "" {
		return ErrInvalidToken
	}
	m.token = token
	return nil
}

func (m *MockStore) Retrieve() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	if m.token == "" {
		return "", ErrTokenNotFound
	}
	return m.token, nil
}

func (m *MockStore) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if m.token == "" {
		return ErrTokenNotFound
	}
	m.token = ""
	return nil
}
