package solSigner

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/fireblocks-community/solana-signer-go/pkg/asset"
)

// AddressResolver is the optional transport capability used to resolve a
// vault's public key at construction time when the caller does not supply
// one. The client package implements it.
type AddressResolver interface {
	GetVaultAddress(ctx context.Context, vaultID string, a asset.Asset) (solana.PublicKey, error)
}

// FireblocksSignerConfig holds the configuration for creating a
// FireblocksSigner. All values are expected to be already validated; see
// the config package for environment-variable loading.
type FireblocksSignerConfig struct {
	// VaultID is the Fireblocks vault account containing the signing key
	VaultID string
	// Asset selects the Solana network the vault key signs for
	Asset asset.Asset
	// PublicKey is the vault's public key. When zero it is resolved from
	// Fireblocks at construction, which requires the transport to implement
	// AddressResolver.
	PublicKey solana.PublicKey
	// PollConfig controls the post-submission polling loop
	PollConfig PollConfig
	// Note is attached to every signing request in the Fireblocks console
	Note string
}

// FireblocksSigner implements ISolanaSigner using the Fireblocks custody
// service. Each SignMessage call is one independent remote signing request:
// canonicalize, submit, poll to a terminal state, then decode and verify
// the returned signature.
//
// A successful SignMessage means Fireblocks has already broadcast the
// signed transaction to the Solana network; callers must not re-broadcast.
//
// The signer is safe for concurrent use. Concurrent SignMessage calls are
// independent remote requests with no ordering guarantee between them; the
// only shared state is the immutable public key and configuration.
type FireblocksSigner struct {
	transport  Transport
	vaultID    string
	asset      asset.Asset
	pk         solana.PublicKey
	pollConfig PollConfig
	note       string
	logger     *zap.Logger
}

// NewFireblocksSigner creates a new FireblocksSigner. When the
// configuration carries no public key, the vault's address is resolved
// from Fireblocks once, here; it is immutable afterwards and shared by all
// signing calls.
//
// Parameters:
//   - ctx: Context for the optional address resolution call
//   - cfg: The signer configuration
//   - transport: The Fireblocks API transport
//   - logger: A zap logger
//
// Returns:
//   - *FireblocksSigner: A ready-to-use signer
//   - error: An error if required configuration is missing or the vault
//     address cannot be resolved
func NewFireblocksSigner(ctx context.Context, cfg *FireblocksSignerConfig, transport Transport, logger *zap.Logger) (*FireblocksSigner, error) {
	if transport == nil {
		return nil, fmt.Errorf("transport is required")
	}
	if cfg.VaultID == "" {
		return nil, fmt.Errorf("vault ID is required")
	}
	if cfg.Asset == "" {
		return nil, fmt.Errorf("asset is required")
	}

	pollConfig := cfg.PollConfig
	if pollConfig.Timeout <= 0 {
		pollConfig.Timeout = DefaultPollTimeout
	}
	if pollConfig.Interval <= 0 {
		pollConfig.Interval = DefaultPollInterval
	}

	pk := cfg.PublicKey
	if pk.IsZero() {
		resolver, ok := transport.(AddressResolver)
		if !ok {
			return nil, fmt.Errorf("no public key configured and transport cannot resolve vault addresses")
		}
		resolved, err := resolver.GetVaultAddress(ctx, cfg.VaultID, cfg.Asset)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve public key for vault %s: %w", cfg.VaultID, err)
		}
		pk = resolved
		logger.Info("resolved vault public key",
			zap.String("vault", cfg.VaultID),
			zap.String("publicKey", pk.String()),
		)
	}

	return &FireblocksSigner{
		transport:  transport,
		vaultID:    cfg.VaultID,
		asset:      cfg.Asset,
		pk:         pk,
		pollConfig: pollConfig,
		note:       cfg.Note,
		logger:     logger,
	}, nil
}

// GetPublicKey returns the vault's public key. This method implements the
// ISolanaSigner interface and never fails: the key is resolved at
// construction.
func (s *FireblocksSigner) GetPublicKey() solana.PublicKey {
	return s.pk
}

// SignMessage signs a serialized Solana transaction message with the vault
// key. The call blocks while Fireblocks processes the request, bounded by
// the configured poll timeout.
//
// Error semantics:
//   - *EncodingError: the message is malformed or names a different fee
//     payer; nothing was submitted
//   - *SubmissionError: Fireblocks did not accept the request; nothing was
//     signed or broadcast
//   - *RemoteFailureError: Fireblocks terminally rejected, blocked,
//     cancelled, or failed the request
//   - *TimeoutError: the wait was abandoned with the request still in
//     flight; the outcome is unknown and retrying may double-broadcast
//   - *DecodeError, *SignatureMismatchError: Fireblocks reported success
//     but the returned signature is unusable; never retried
func (s *FireblocksSigner) SignMessage(ctx context.Context, message []byte) (solana.Signature, error) {
	req, err := NewSigningRequest(message, s.pk, s.asset, s.vaultID, s.note)
	if err != nil {
		return solana.Signature{}, err
	}
	s.logger.Debug("submitting signing request",
		zap.String("vault", s.vaultID),
		zap.String("asset", s.asset.ID()),
		zap.String("fingerprint", req.Fingerprint),
	)

	created, err := s.transport.SubmitTransaction(ctx, req.TransactionRequest())
	if err != nil {
		return solana.Signature{}, &SubmissionError{Err: err}
	}

	resp, err := pollTransaction(ctx, s.transport, created.ID, s.pollConfig, s.logger)
	if err != nil {
		return solana.Signature{}, err
	}

	if resp.Status.IsFailure() {
		return solana.Signature{}, &RemoteFailureError{
			TxID:        resp.ID,
			Status:      resp.Status,
			SubStatus:   resp.SubStatus,
			Description: resp.ErrorDescription,
		}
	}

	sig, err := decodeSignature(resp, req.Message, s.pk)
	if err != nil {
		return solana.Signature{}, err
	}
	s.logger.Info("transaction signed",
		zap.String("txid", resp.ID),
		zap.String("status", resp.Status.String()),
		zap.String("signature", sig.String()),
	)
	return sig, nil
}

// SignTransaction signs the fee-payer slot of an unsigned transaction in
// place. The transaction's message is serialized and signed via
// SignMessage, so the same error semantics and broadcast side effect apply.
//
// Parameters:
//   - ctx: Context for the operation
//   - tx: The transaction to sign; its Signatures slice is populated
//
// Returns:
//   - error: An error if serialization or signing fails, or if this
//     signer's key is not among the transaction's required signers
func (s *FireblocksSigner) SignTransaction(ctx context.Context, tx *solana.Transaction) error {
	message, err := tx.Message.MarshalBinary()
	if err != nil {
		return &EncodingError{Reason: "failed to serialize transaction message", Err: err}
	}

	numRequired := int(tx.Message.Header.NumRequiredSignatures)
	if len(tx.Message.AccountKeys) < numRequired {
		return &EncodingError{Reason: "message declares more signers than account keys"}
	}

	signerIndex := -1
	for i := 0; i < numRequired; i++ {
		if tx.Message.AccountKeys[i].Equals(s.pk) {
			signerIndex = i
			break
		}
	}
	if signerIndex == -1 {
		return &EncodingError{
			Reason: fmt.Sprintf("signer %s is not a required signer of the transaction", s.pk),
		}
	}

	sig, err := s.SignMessage(ctx, message)
	if err != nil {
		return err
	}

	if len(tx.Signatures) != numRequired {
		tx.Signatures = make([]solana.Signature, numRequired)
	}
	tx.Signatures[signerIndex] = sig
	return nil
}
