package solSigner

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// InMemoryKeypairSigner implements ISolanaSigner using a local ed25519
// keypair held in memory. Signing is immediate and nothing is broadcast,
// which makes it suitable for development and tests; production deployments
// should use FireblocksSigner so key material stays in custody.
type InMemoryKeypairSigner struct {
	privateKey solana.PrivateKey
	publicKey  solana.PublicKey
}

// NewInMemoryKeypairSigner creates a new InMemoryKeypairSigner from a
// Solana private key. The corresponding public key is derived and cached.
//
// Parameters:
//   - privateKey: The ed25519 private key to sign with
//
// Returns:
//   - *InMemoryKeypairSigner: A new signer instance
//   - error: An error if the private key is nil or malformed
func NewInMemoryKeypairSigner(privateKey solana.PrivateKey) (*InMemoryKeypairSigner, error) {
	if len(privateKey) == 0 {
		return nil, fmt.Errorf("private key cannot be empty")
	}
	return &InMemoryKeypairSigner{
		privateKey: privateKey,
		publicKey:  privateKey.PublicKey(),
	}, nil
}

// NewRandomKeypairSigner creates an InMemoryKeypairSigner with a freshly
// generated keypair.
func NewRandomKeypairSigner() (*InMemoryKeypairSigner, error) {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate keypair: %w", err)
	}
	return NewInMemoryKeypairSigner(key)
}

// GetPublicKey returns the public key associated with this signer.
func (s *InMemoryKeypairSigner) GetPublicKey() solana.PublicKey {
	return s.publicKey
}

// SignMessage signs the message bytes with the in-memory private key.
// The context is accepted for interface compatibility and is not used.
func (s *InMemoryKeypairSigner) SignMessage(_ context.Context, message []byte) (solana.Signature, error) {
	sig, err := s.privateKey.Sign(message)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to sign message: %w", err)
	}
	return sig, nil
}
