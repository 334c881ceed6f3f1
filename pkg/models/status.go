// Package models defines the wire types exchanged with the Fireblocks
// transaction API: transaction requests and responses, lifecycle statuses,
// and vault address lookups. The JSON field names follow the Fireblocks
// REST API exactly; see https://developers.fireblocks.com/reference for
// the upstream definitions.
package models

// TransactionStatus is the primary lifecycle status of a Fireblocks
// transaction. Fireblocks may introduce new statuses over time, so the type
// is an open string rather than a closed enum; callers must treat any
// unrecognized value as still in flight.
type TransactionStatus string

// Known primary transaction statuses.
const (
	StatusSubmitted                     TransactionStatus = "SUBMITTED"
	StatusPendingAmlScreening           TransactionStatus = "PENDING_AML_SCREENING"
	StatusPendingEnrichment             TransactionStatus = "PENDING_ENRICHMENT"
	StatusPendingAuthorization          TransactionStatus = "PENDING_AUTHORIZATION"
	StatusQueued                        TransactionStatus = "QUEUED"
	StatusPendingSignature              TransactionStatus = "PENDING_SIGNATURE"
	StatusPending3rdPartyManualApproval TransactionStatus = "PENDING_3RD_PARTY_MANUAL_APPROVAL"
	StatusPending3rdParty               TransactionStatus = "PENDING_3RD_PARTY"
	StatusBroadcasting                  TransactionStatus = "BROADCASTING"
	StatusConfirming                    TransactionStatus = "CONFIRMING"
	StatusCompleted                     TransactionStatus = "COMPLETED"
	StatusCancelling                    TransactionStatus = "CANCELLING"
	StatusCancelled                     TransactionStatus = "CANCELLED"
	StatusBlocked                       TransactionStatus = "BLOCKED"
	StatusRejected                      TransactionStatus = "REJECTED"
	StatusFailed                        TransactionStatus = "FAILED"
)

// knownStatuses is the full set of statuses documented by Fireblocks.
var knownStatuses = map[TransactionStatus]struct{}{
	StatusSubmitted:                     {},
	StatusPendingAmlScreening:           {},
	StatusPendingEnrichment:             {},
	StatusPendingAuthorization:          {},
	StatusQueued:                        {},
	StatusPendingSignature:              {},
	StatusPending3rdPartyManualApproval: {},
	StatusPending3rdParty:               {},
	StatusBroadcasting:                  {},
	StatusConfirming:                    {},
	StatusCompleted:                     {},
	StatusCancelling:                    {},
	StatusCancelled:                     {},
	StatusBlocked:                       {},
	StatusRejected:                      {},
	StatusFailed:                        {},
}

// IsKnown reports whether the status is one of the documented Fireblocks
// statuses. Polling code logs a warning for unknown statuses and keeps
// treating them as in flight.
func (s TransactionStatus) IsKnown() bool {
	_, ok := knownStatuses[s]
	return ok
}

// IsTerminal reports whether the transaction has reached a state from which
// Fireblocks will not transition it further, successfully or otherwise.
// Everything else, including statuses this library does not know about,
// requires continued polling.
func (s TransactionStatus) IsTerminal() bool {
	return s.IsSuccess() || s.IsFailure()
}

// IsSuccess reports whether the status is a terminal success. CONFIRMING is
// included: at that point Fireblocks has signed and broadcast the
// transaction and the signature is available, even though network
// confirmations are still accumulating.
func (s TransactionStatus) IsSuccess() bool {
	switch s {
	case StatusCompleted, StatusConfirming:
		return true
	}
	return false
}

// IsFailure reports whether the status is a terminal failure. CANCELLING is
// treated as failed because Fireblocks only enters it on an operator or API
// cancellation that cannot be reversed.
func (s TransactionStatus) IsFailure() bool {
	switch s {
	case StatusFailed, StatusBlocked, StatusRejected, StatusCancelled, StatusCancelling:
		return true
	}
	return false
}

func (s TransactionStatus) String() string {
	return string(s)
}

// TransactionSubStatus qualifies a primary status with the specific reason
// Fireblocks reports, e.g. REJECTED_BY_USER under REJECTED. The full label
// set is large and grows over time, so it is carried as an open string and
// surfaced verbatim in errors and logs.
type TransactionSubStatus string

// Sub-statuses this library inspects or that show up routinely in signing
// flows. Any other value is passed through untouched.
const (
	SubStatusConfirmed           TransactionSubStatus = "CONFIRMED"
	SubStatusBlockedByPolicy     TransactionSubStatus = "BLOCKED_BY_POLICY"
	SubStatusCancelledByUser     TransactionSubStatus = "CANCELLED_BY_USER"
	SubStatusRejectedByUser      TransactionSubStatus = "REJECTED_BY_USER"
	SubStatusFailedAmlScreening  TransactionSubStatus = "FAILED_AML_SCREENING"
	SubStatusInsufficientFunds   TransactionSubStatus = "INSUFFICIENT_FUNDS"
	SubStatusInvalidSignature    TransactionSubStatus = "INVALID_SIGNATURE"
	SubStatusInternalError       TransactionSubStatus = "INTERNAL_ERROR"
	SubStatusConnectivityError   TransactionSubStatus = "CONNECTIVITY_ERROR"
	SubStatusTimeout             TransactionSubStatus = "TIMEOUT"
	SubStatusDroppedByBlockchain TransactionSubStatus = "DROPPED_BY_BLOCKCHAIN"
)

func (s TransactionSubStatus) String() string {
	return string(s)
}
