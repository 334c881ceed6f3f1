package models

// TransactionOperation selects the Fireblocks operation type. Raw Solana
// transactions are submitted as PROGRAM_CALL operations.
type TransactionOperation string

const (
	// OperationProgramCall submits a pre-serialized Solana transaction for
	// signing; Fireblocks signs it and broadcasts it to the network.
	OperationProgramCall TransactionOperation = "PROGRAM_CALL"
)

// TransferPeerPathType identifies the kind of transaction source.
type TransferPeerPathType string

const (
	// PeerPathVaultAccount sources the transaction from a Fireblocks vault.
	PeerPathVaultAccount TransferPeerPathType = "VAULT_ACCOUNT"
)

// FeeLevel is the Fireblocks fee tier for the transaction.
type FeeLevel string

const (
	FeeLevelLow    FeeLevel = "LOW"
	FeeLevelMedium FeeLevel = "MEDIUM"
	FeeLevelHigh   FeeLevel = "HIGH"
)

// SourceTransferPeerPath is the source of the transaction, always a vault
// account for signing flows.
type SourceTransferPeerPath struct {
	Type TransferPeerPathType `json:"type"`
	ID   string               `json:"id"`
}

// NewVaultSource returns a source path for the given vault account ID.
func NewVaultSource(vaultID string) SourceTransferPeerPath {
	return SourceTransferPeerPath{
		Type: PeerPathVaultAccount,
		ID:   vaultID,
	}
}

// ExtraParameters carries the operation-specific payload. For PROGRAM_CALL
// operations programCallData is the base64-encoded serialized transaction.
type ExtraParameters struct {
	ProgramCallData string `json:"programCallData"`
}

// TransactionRequest is the body of POST /v1/transactions.
type TransactionRequest struct {
	Operation TransactionOperation `json:"operation"`
	// ExternalTxID is a caller-supplied unique identifier. Fireblocks uses
	// it to reject duplicate submissions of the same logical transaction.
	ExternalTxID    string                 `json:"externalTxId,omitempty"`
	Note            string                 `json:"note,omitempty"`
	AssetID         string                 `json:"assetId"`
	Source          SourceTransferPeerPath `json:"source"`
	FeeLevel        FeeLevel               `json:"feeLevel"`
	FailOnLowFee    bool                   `json:"failOnLowFee"`
	ExtraParameters ExtraParameters        `json:"extraParameters"`
	CustomerRefID   string                 `json:"customerRefId,omitempty"`
}

// NewProgramCallRequest builds a PROGRAM_CALL transaction request for the
// given asset and vault with the serialized transaction payload.
func NewProgramCallRequest(assetID, vaultID, programCallData string) *TransactionRequest {
	return &TransactionRequest{
		Operation:       OperationProgramCall,
		AssetID:         assetID,
		Source:          NewVaultSource(vaultID),
		FeeLevel:        FeeLevelLow,
		FailOnLowFee:    false,
		ExtraParameters: ExtraParameters{ProgramCallData: programCallData},
	}
}
