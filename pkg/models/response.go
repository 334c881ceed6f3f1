package models

import "fmt"

// SystemMessageType classifies a Fireblocks system message.
type SystemMessageType string

const (
	SystemMessageWarn  SystemMessageType = "WARN"
	SystemMessageBlock SystemMessageType = "BLOCK"
)

func (t SystemMessageType) String() string {
	return string(t)
}

// SystemMessageInfo communicates a Fireblocks-side health message. If this
// is populated, delays or incomplete transaction statuses should be
// expected.
type SystemMessageInfo struct {
	Type    SystemMessageType `json:"type,omitempty"`
	Message string            `json:"message,omitempty"`
}

// CreateTransactionResponse is the body returned by POST /v1/transactions.
type CreateTransactionResponse struct {
	// ID is the Fireblocks transaction identifier used for all subsequent
	// status queries.
	ID             string             `json:"id"`
	Status         TransactionStatus  `json:"status"`
	SystemMessages *SystemMessageInfo `json:"systemMessages,omitempty"`
}

// TransactionResponse is the body returned by GET /v1/transactions/{id}.
// Only the fields relevant to signing flows are mapped.
type TransactionResponse struct {
	ID           string               `json:"id"`
	ExternalTxID string               `json:"externalTxId,omitempty"`
	Status       TransactionStatus    `json:"status"`
	SubStatus    TransactionSubStatus `json:"subStatus,omitempty"`
	// TxHash is the on-chain hash of the transaction. For Solana this is
	// the base58-encoded fee-payer signature, populated once the
	// transaction reaches CONFIRMING or COMPLETED (and sometimes during
	// BROADCASTING).
	TxHash             string             `json:"txHash,omitempty"`
	Note               string             `json:"note,omitempty"`
	AssetID            string             `json:"assetId"`
	SourceAddress      string             `json:"sourceAddress,omitempty"`
	CreatedAt          int64              `json:"createdAt,omitempty"`
	LastUpdated        int64              `json:"lastUpdated,omitempty"`
	CreatedBy          string             `json:"createdBy,omitempty"`
	SignedBy           []string           `json:"signedBy,omitempty"`
	RejectedBy         string             `json:"rejectedBy,omitempty"`
	CustomerRefID      string             `json:"customerRefId,omitempty"`
	NumOfConfirmations int32              `json:"numOfConfirmations,omitempty"`
	SystemMessages     *SystemMessageInfo `json:"systemMessages,omitempty"`
	ErrorDescription   string             `json:"errorDescription,omitempty"`
}

// String renders the response for logs without dumping the whole struct.
func (r *TransactionResponse) String() string {
	hash := r.TxHash
	if hash == "" {
		hash = "N/A"
	}
	return fmt.Sprintf("txid: %s status: %s hash: %s", r.ID, r.Status, hash)
}
