package solSigner

import (
	"crypto/ed25519"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/fireblocks-community/solana-signer-go/pkg/models"
)

// decodeSignature extracts and validates the signature from a
// terminal-success transaction response. For Solana, Fireblocks reports the
// fee payer's signature as the transaction hash, base58-encoded.
//
// The decoded signature is verified against the original message bytes and
// the signer's public key before being returned: a signature that decodes
// but does not verify indicates remote-side corruption or a local
// canonicalization bug and must fail loudly rather than end up embedded in
// a transaction.
func decodeSignature(resp *models.TransactionResponse, message []byte, pk solana.PublicKey) (solana.Signature, error) {
	if resp.TxHash == "" {
		return solana.Signature{}, &DecodeError{
			TxID:   resp.ID,
			Reason: fmt.Sprintf("transaction reached status %s but carries no signature", resp.Status),
		}
	}

	sig, err := solana.SignatureFromBase58(resp.TxHash)
	if err != nil {
		return solana.Signature{}, &DecodeError{
			TxID:   resp.ID,
			Reason: fmt.Sprintf("invalid signature encoding %q: %v", resp.TxHash, err),
		}
	}

	if !ed25519.Verify(ed25519.PublicKey(pk.Bytes()), message, sig[:]) {
		return solana.Signature{}, &SignatureMismatchError{
			TxID:      resp.ID,
			PublicKey: pk,
		}
	}
	return sig, nil
}
