// Package asset defines the Fireblocks asset identifiers for the Solana
// networks this library can sign for.
package asset

import (
	"fmt"
	"strings"
)

// Asset is a Fireblocks asset identifier. It selects which Solana network a
// vault key signs and broadcasts to.
type Asset string

const (
	// Sol is the Solana mainnet asset.
	Sol Asset = "SOL"
	// SolTest is the Solana devnet/testnet asset.
	SolTest Asset = "SOL_TEST"
)

// ID returns the asset identifier as sent to the Fireblocks API.
func (a Asset) ID() string {
	return string(a)
}

func (a Asset) String() string {
	return string(a)
}

// IsMainnet reports whether the asset targets Solana mainnet.
func (a Asset) IsMainnet() bool {
	return a == Sol
}

// Parse converts a string into an Asset. Matching is case-insensitive.
func Parse(s string) (Asset, error) {
	switch strings.ToUpper(s) {
	case string(Sol):
		return Sol, nil
	case string(SolTest):
		return SolTest, nil
	default:
		return "", fmt.Errorf("unknown asset %q: expected SOL or SOL_TEST", s)
	}
}

// ForNetwork returns the asset for the requested network selector.
func ForNetwork(mainnet bool) Asset {
	if mainnet {
		return Sol
	}
	return SolTest
}
