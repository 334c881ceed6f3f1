package solSigner

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/fireblocks-community/solana-signer-go/pkg/models"
)

// The error types below partition every SignMessage failure into one of
// three outcome classes:
//
//   - EncodingError, SubmissionError: the request never reached the point of
//     a remote side effect. Nothing was signed or broadcast.
//   - RemoteFailureError: Fireblocks received the request and terminally
//     rejected, blocked, cancelled, or failed it. Nothing was broadcast.
//   - TimeoutError: the local wait was abandoned while the request was
//     still in flight. The outcome is unknown; Fireblocks may still sign
//     and broadcast the transaction. Retrying the same logical operation
//     after a timeout can double-spend.
//   - DecodeError, SignatureMismatchError: Fireblocks reported success but
//     the returned artifact is unusable. The transaction may be on-chain;
//     retrying cannot fix a structural mismatch.

// EncodingError indicates the message could not be canonicalized into a
// Fireblocks signing request. No network call was made.
type EncodingError struct {
	Reason string
	Err    error
}

func (e *EncodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("encoding error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("encoding error: %s", e.Reason)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// SubmissionError indicates the initial submission to Fireblocks failed.
// Submissions are never retried because a failure here means no remote
// transaction was acknowledged to exist.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("transaction submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// RemoteFailureError indicates Fireblocks moved the transaction to a
// terminal failure state. The status and sub-status carry the remote
// reason, e.g. REJECTED / REJECTED_BY_USER or BLOCKED / BLOCKED_BY_POLICY.
type RemoteFailureError struct {
	TxID        string
	Status      models.TransactionStatus
	SubStatus   models.TransactionSubStatus
	Description string
}

func (e *RemoteFailureError) Error() string {
	msg := fmt.Sprintf("txid %s failed with status %s", e.TxID, e.Status)
	if e.SubStatus != "" {
		msg += fmt.Sprintf(" substatus %q", e.SubStatus)
	}
	if e.Description != "" {
		msg += ": " + e.Description
	}
	return msg
}

// TimeoutError indicates the poll deadline elapsed while the transaction
// was still in flight. This is not a remote failure: the signing request
// has been accepted and Fireblocks may still complete and broadcast it.
// Callers that need the real outcome must query Fireblocks directly using
// TxID.
type TimeoutError struct {
	TxID       string
	LastStatus models.TransactionStatus
	Elapsed    time.Duration
	// Cause is set when the wait ended because the caller's context was
	// cancelled rather than because the configured deadline passed.
	Cause error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("gave up waiting for txid %s after %s: outcome unknown, last observed status %q",
		e.TxID, e.Elapsed, e.LastStatus)
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// DecodeError indicates Fireblocks reported a successful signing but the
// response did not contain a well-formed signature.
type DecodeError struct {
	TxID   string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("txid %s: cannot decode signature: %s", e.TxID, e.Reason)
}

// SignatureMismatchError indicates a structurally valid signature came back
// that does not verify against the submitted message and the signer's
// public key. This is always fatal: it means either remote-side corruption
// or a local canonicalization bug, and the signature must never be used.
type SignatureMismatchError struct {
	TxID      string
	PublicKey solana.PublicKey
}

func (e *SignatureMismatchError) Error() string {
	return fmt.Sprintf("txid %s: returned signature does not verify against public key %s", e.TxID, e.PublicKey)
}
