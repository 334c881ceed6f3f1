package solSigner

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"

	"github.com/fireblocks-community/solana-signer-go/pkg/asset"
	"github.com/fireblocks-community/solana-signer-go/pkg/models"
)

// SigningRequest describes one signing operation against a vault: the exact
// message bytes to be signed, the base64 transaction payload Fireblocks
// receives, and a fingerprint tying the two together. A SigningRequest is
// built once per SignMessage call and never reused.
type SigningRequest struct {
	// Asset selects the Solana network (SOL or SOL_TEST)
	Asset asset.Asset
	// VaultID is the Fireblocks vault account holding the signing key
	VaultID string
	// Message is the exact serialized message the returned signature must
	// verify against
	Message []byte
	// ProgramCallData is the base64-encoded unsigned transaction submitted
	// to Fireblocks
	ProgramCallData string
	// Fingerprint is the hex SHA-256 of Message, used for correlation and
	// to detect canonicalization drift
	Fingerprint string
	// ExternalTxID is a unique per-request identifier sent to Fireblocks so
	// duplicate submissions of the same request are rejected remotely
	ExternalTxID string
	// Note is an optional human-readable note shown in the Fireblocks
	// console; it is not sent to the blockchain
	Note string
}

// NewSigningRequest canonicalizes a serialized Solana message into a
// Fireblocks signing request. The message must deserialize as a legacy or
// v0 message and must name pk as its fee payer; both checks happen before
// any network round trip and fail with an EncodingError.
//
// Parameters:
//   - message: The serialized transaction message bytes
//   - pk: The signer's public key, expected as the message fee payer
//   - a: The target asset/network
//   - vaultID: The source vault account ID
//   - note: Optional note for the Fireblocks console, may be empty
//
// Returns:
//   - *SigningRequest: The canonicalized request
//   - error: An *EncodingError if the message is malformed or the fee payer
//     does not match pk
func NewSigningRequest(message []byte, pk solana.PublicKey, a asset.Asset, vaultID, note string) (*SigningRequest, error) {
	var msg solana.Message
	if err := msg.UnmarshalWithDecoder(bin.NewBinDecoder(message)); err != nil {
		return nil, &EncodingError{Reason: "failed to deserialize solana message", Err: err}
	}

	numRequired := int(msg.Header.NumRequiredSignatures)
	if numRequired == 0 || len(msg.AccountKeys) == 0 {
		return nil, &EncodingError{Reason: "message requires no signatures"}
	}

	// The fee payer is always the first account key. Catching a mismatch
	// here avoids burning a submission Fireblocks would sign with the wrong
	// expectation or reject after approval workflows already fired.
	feePayer := msg.AccountKeys[0]
	if !feePayer.Equals(pk) {
		return nil, &EncodingError{
			Reason: fmt.Sprintf("message fee payer %s does not match signer public key %s", feePayer, pk),
		}
	}

	tx := solana.Transaction{
		Signatures: make([]solana.Signature, numRequired),
		Message:    msg,
	}
	payload, err := tx.MarshalBinary()
	if err != nil {
		return nil, &EncodingError{Reason: "failed to serialize unsigned transaction", Err: err}
	}

	fingerprint := sha256.Sum256(message)
	fingerprintHex := hex.EncodeToString(fingerprint[:])

	return &SigningRequest{
		Asset:           a,
		VaultID:         vaultID,
		Message:         message,
		ProgramCallData: base64.StdEncoding.EncodeToString(payload),
		Fingerprint:     fingerprintHex,
		ExternalTxID:    uuid.NewString() + "-" + fingerprintHex[:8],
		Note:            note,
	}, nil
}

// TransactionRequest converts the signing request into the Fireblocks wire
// format.
func (r *SigningRequest) TransactionRequest() *models.TransactionRequest {
	req := models.NewProgramCallRequest(r.Asset.ID(), r.VaultID, r.ProgramCallData)
	req.ExternalTxID = r.ExternalTxID
	req.Note = r.Note
	return req
}
