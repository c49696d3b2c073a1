package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 32
	keySize    = 32
	iterations = 100000
)

// EncryptedFileStore keeps the token in an AES-GCM encrypted file. It is
// the fallback when no system keychain is available.
type EncryptedFileStore struct {
	filepath   string
	passphrase string
	mu         sync.Mutex
}

// encryptedFile is the on-disk layout
type encryptedFile struct {
	Salt      string `json:"salt"`
	Encrypted string `json:"encrypted"`
}

// NewEncryptedFileStore creates a file-based token store at filePath
func NewEncryptedFileStore(filePath string) (*EncryptedFileStore, error) {
	dir := filepath.Dir(filePath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	return &EncryptedFileStore{
		filepath:   filePath,
		passphrase: derivePassphrase(),
	}, nil
}

// derivePassphrase builds a machine-local passphrase. ADTFETCH_STORE_KEY
// overrides it for setups that want an explicit secret.
func derivePassphrase() string {
	if key := os.Getenv("ADTFETCH_STORE_KEY"); key != "" {
		return key
	}
	hostname, _ := os.Hostname()
	return fmt.Sprintf("adtfetch:%s:%d", hostname, os.Getuid())
}

// Store encrypts and writes the token
func (e *EncryptedFileStore) Store(token string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if token == "" {
		return ErrInvalidToken
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	sealed, err := e.seal([]byte(token), salt)
	if err != nil {
		return err
	}

	data, err := json.Marshal(encryptedFile{
		Salt:      base64.StdEncoding.EncodeToString(salt),
		Encrypted: base64.StdEncoding.EncodeToString(sealed),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal token file: %w", err)
	}

	if err := os.WriteFile(e.filepath, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Retrieve reads and decrypts the token
func (e *EncryptedFileStore) Retrieve() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	data, err := os.ReadFile(e.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("failed to read token file: %w", err)
	}

	var file encryptedFile
	if err := json.Unmarshal(data, &file); err != nil {
		return "", fmt.Errorf("failed to parse token file: %w", err)
	}

	salt, err := base64.StdEncoding.DecodeString(file.Salt)
	if err != nil {
		return "", fmt.Errorf("failed to decode salt: %w", err)
	}
	sealed, err := base64.StdEncoding.DecodeString(file.Encrypted)
	if err != nil {
		return "", fmt.Errorf("failed to decode token data: %w", err)
	}

	token, err := e.open(sealed, salt)
	if err != nil {
		return "", err
	}
	return string(token), nil
}

// Delete removes the token file
func (e *EncryptedFileStore) Delete() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := os.Remove(e.filepath); err != nil {
		if os.IsNotExist(err) {
			return ErrTokenNotFound
		}
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// seal encrypts plaintext with a key derived from the passphrase and salt
func (e *EncryptedFileStore) seal(plaintext, salt []byte) ([]byte, error) {
	gcm, err := e.cipher(salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// open decrypts data produced by seal
func (e *EncryptedFileStore) open(sealed, salt []byte) ([]byte, error) {
	gcm, err := e.cipher(salt)
	if err != nil {
		return nil, err
	}

	if len(sealed) < gcm.NonceSize() {
		return nil, fmt.Errorf("token data too short")
	}
	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt token: %w", err)
	}
	return plaintext, nil
}

func (e *EncryptedFileStore) cipher(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(e.passphrase), salt, iterations, keySize, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
