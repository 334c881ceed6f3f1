// Package solSigner provides Solana message signing backed by the
// Fireblocks custody service. This package defines the signer interface and
// implementations that produce valid ed25519 signatures over Solana
// transaction messages without ever holding the private key locally: the
// key lives inside a Fireblocks vault, and signing is a remote
// submit-then-poll operation against the Fireblocks transaction API.
//
// Fireblocks broadcasts the signed transaction to the Solana network as an
// intrinsic part of the signing operation. Callers must not broadcast the
// transaction again after a successful SignMessage call; the returned
// signature identifies a transaction that is already on its way on-chain.
package solSigner

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/fireblocks-community/solana-signer-go/pkg/models"
)

// ISolanaSigner defines the interface for signing Solana messages.
// Implementations provide the ability to sign a serialized transaction
// message and expose the public key that signatures verify against,
// supporting different signing backends like local keypairs and the
// Fireblocks custody service.
type ISolanaSigner interface {
	// GetPublicKey returns the Solana public key associated with this
	// signer. Signatures returned by SignMessage verify against this key.
	GetPublicKey() solana.PublicKey

	// SignMessage signs a serialized Solana transaction message and returns
	// the fee payer's signature. The message's fee payer must be this
	// signer's public key.
	//
	// Parameters:
	//   - ctx: Context for the operation; remote implementations may block
	//     for tens of seconds while the custody service completes
	//   - message: The serialized transaction message bytes to sign
	//
	// Returns:
	//   - solana.Signature: A signature that verifies against GetPublicKey()
	//   - error: A typed error describing where the operation stopped
	SignMessage(ctx context.Context, message []byte) (solana.Signature, error)
}

// Transport is the capability the signing core needs from the Fireblocks
// API layer: submit one signing request, and query the status of a request
// by ID. The core is agnostic to authentication and wire details; the
// client package provides the production implementation.
type Transport interface {
	// SubmitTransaction submits a signing request and returns the remote
	// transaction ID. Implementations must not retry internally: a failed
	// submission must be reported as failed, not replayed.
	SubmitTransaction(ctx context.Context, req *models.TransactionRequest) (*models.CreateTransactionResponse, error)

	// GetTransaction returns the current state of a previously submitted
	// transaction.
	GetTransaction(ctx context.Context, txID string) (*models.TransactionResponse, error)
}
