// Package jwtSigner implements Fireblocks API request signing. Every request
// to the Fireblocks REST API carries a short-lived RS256 JWT whose claims
// bind the token to the request path and a SHA-256 hash of the request body,
// as specified at https://developers.fireblocks.com/reference/signing-a-request.
package jwtSigner

import (
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpiry is the JWT lifetime in seconds. Fireblocks rejects tokens
// with exp more than 30 seconds past iat on some endpoints, but accepts up
// to 55 seconds on the transaction endpoints used here.
const tokenExpiry = 55 * time.Second

// JWTSigner produces the Authorization header value for Fireblocks API
// requests. It is safe for concurrent use; the key and API key are
// immutable after construction.
type JWTSigner struct {
	key    *rsa.PrivateKey
	apiKey string
}

// NewJWTSigner parses the PEM-encoded RSA private key of the API user and
// returns a signer for the given API key.
//
// Parameters:
//   - apiKey: The Fireblocks API key (UUID format)
//   - secretPEM: The RSA private key in PEM format
//
// Returns:
//   - *JWTSigner: A ready-to-use request signer
//   - error: An error if the PEM cannot be parsed as an RSA private key
func NewJWTSigner(apiKey string, secretPEM []byte) (*JWTSigner, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(secretPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSA private key: %w", err)
	}
	return &JWTSigner{
		key:    key,
		apiKey: apiKey,
	}, nil
}

// APIKey returns the API key this signer authenticates as. The same value
// must be sent in the X-API-KEY header alongside the JWT.
func (j *JWTSigner) APIKey() string {
	return j.apiKey
}

// SignRequest builds the Authorization header value for one API request.
// The token binds the request path and a hash of the body, so it must be
// regenerated per request; pass an empty body for GET requests.
//
// Parameters:
//   - path: The URI part of the request, e.g. "/v1/transactions"
//   - body: The raw HTTP request body, or nil
//
// Returns:
//   - string: The "Bearer <token>" Authorization header value
//   - error: An error if token signing fails
func (j *JWTSigner) SignRequest(path string, body []byte) (string, error) {
	bodyHash := sha256.Sum256(body)
	now := time.Now()

	claims := jwt.MapClaims{
		"uri":      path,
		"nonce":    rand.Uint64(),
		"iat":      now.Unix(),
		"exp":      now.Add(tokenExpiry).Unix(),
		"sub":      j.apiKey,
		"bodyHash": hex.EncodeToString(bodyHash[:]),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(j.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign request JWT: %w", err)
	}
	return "Bearer " + token, nil
}
