// Package secretProvider abstracts where the Fireblocks API user's RSA
// private key comes from. The key is only ever used to sign API request
// JWTs; it is not the Solana signing key, which never leaves Fireblocks.
package secretProvider

import (
	"fmt"
	"os"
)

// ISecretProvider supplies the PEM-encoded RSA secret of the Fireblocks API
// user.
type ISecretProvider interface {
	// GetSecret returns the RSA private key in PEM format.
	GetSecret() ([]byte, error)
}

// StaticSecretProvider wraps an in-memory secret, typically sourced from an
// environment variable.
type StaticSecretProvider struct {
	secret []byte
}

// NewStaticSecretProvider creates a provider for an already-resolved secret.
func NewStaticSecretProvider(secret []byte) (*StaticSecretProvider, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("secret cannot be empty")
	}
	return &StaticSecretProvider{secret: secret}, nil
}

// GetSecret returns the wrapped secret.
func (s *StaticSecretProvider) GetSecret() ([]byte, error) {
	return s.secret, nil
}

// FileSecretProvider reads the secret from a PEM file on disk. The file is
// read on every call so key rotation does not require a restart.
type FileSecretProvider struct {
	path string
}

// NewFileSecretProvider creates a provider reading from the given path.
func NewFileSecretProvider(path string) *FileSecretProvider {
	return &FileSecretProvider{path: path}
}

// GetSecret reads and returns the PEM file contents.
func (f *FileSecretProvider) GetSecret() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret file %s: %w", f.path, err)
	}
	return data, nil
}
