package models

// VaultWalletAddress is one deposit address of a vault account for a given
// asset. For Solana assets the address is the base58-encoded ed25519 public
// key of the vault's signing key.
type VaultWalletAddress struct {
	AssetID     string `json:"assetId"`
	Address     string `json:"address"`
	Description string `json:"description,omitempty"`
}

// VaultAddressesResponse is the body returned by
// GET /v1/vault/accounts/{vaultId}/{assetId}/addresses_paginated.
type VaultAddressesResponse struct {
	Addresses []VaultWalletAddress `json:"addresses"`
	Paging    *Paging              `json:"paging,omitempty"`
}

// Paging carries pagination cursors for paginated vault endpoints.
type Paging struct {
	Before string `json:"before,omitempty"`
	After  string `json:"after,omitempty"`
}
