// Package client implements the authenticated HTTP transport for the
// Fireblocks REST API. It exposes exactly the operations the signing core
// needs: submitting a transaction for signing, querying its status, and
// resolving a vault's Solana address.
//
// Request authentication (RS256 JWT per request plus the X-API-KEY header)
// is handled internally; callers never deal with credentials beyond
// construction. Idempotent GET requests are retried a few times with a
// short delay to ride out transient network errors; POST requests are never
// retried here, because a duplicate submission is a remote side effect.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	retry "github.com/avast/retry-go"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/fireblocks-community/solana-signer-go/pkg/asset"
	"github.com/fireblocks-community/solana-signer-go/pkg/jwtSigner"
	"github.com/fireblocks-community/solana-signer-go/pkg/models"
	"github.com/fireblocks-community/solana-signer-go/pkg/util"
)

const (
	// ProductionAPI is the production Fireblocks API endpoint.
	ProductionAPI = "https://api.fireblocks.io"
	// SandboxAPI is the sandbox Fireblocks API endpoint for testing.
	SandboxAPI = "https://sandbox-api.fireblocks.io"

	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "solana-signer-go"
)

var (
	rtyAtt = retry.Attempts(4)
	rtyDel = retry.Delay(400 * time.Millisecond)
	rtyErr = retry.LastErrorOnly(true)
)

// APIError is returned when Fireblocks responds with a non-2xx status.
type APIError struct {
	// StatusCode is the HTTP status code of the response
	StatusCode int
	// Body is the raw response body, which usually carries a JSON error
	// message from Fireblocks
	Body string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fireblocks API error: status %d: %s", e.StatusCode, e.Body)
}

// Config holds the configuration for creating a Fireblocks API client.
type Config struct {
	// APIKey is the Fireblocks API key (UUID format)
	APIKey string
	// SecretPEM is the RSA private key of the API user in PEM format
	SecretPEM []byte
	// BaseURL is the API endpoint; defaults to ProductionAPI when empty
	BaseURL string
	// Timeout bounds each HTTP request; defaults to 15 seconds when zero
	Timeout time.Duration
	// UserAgent overrides the default User-Agent header when non-empty
	UserAgent string
}

// Client talks to the Fireblocks REST API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	jwt        *jwtSigner.JWTSigner
	userAgent  string
	logger     *zap.Logger
}

// NewClient creates a Fireblocks API client from the given configuration.
//
// Parameters:
//   - cfg: The client configuration including credentials and endpoint
//   - logger: A zap logger; request/response details are logged at debug level
//
// Returns:
//   - *Client: A ready-to-use API client
//   - error: An error if the configuration is incomplete or the RSA key is invalid
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	jwt, err := jwtSigner.NewJWTSigner(cfg.APIKey, cfg.SecretPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to create request signer: %w", err)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = ProductionAPI
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		jwt:        jwt,
		userAgent:  userAgent,
		logger:     logger,
	}, nil
}

// send performs one authenticated request and decodes the JSON response
// into out. The JWT is regenerated per call because it binds the path and
// body hash.
func (c *Client) send(ctx context.Context, method, path string, body []byte, out interface{}) error {
	auth, err := c.jwt.SignRequest(path, body)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", auth)
	req.Header.Set("X-API-KEY", c.jwt.APIKey())
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	c.logger.Debug("fireblocks response",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// getWithRetry wraps send for idempotent GETs. Transient failures are
// retried with a fixed short delay; client errors (4xx) are not, since
// repeating them cannot succeed.
func (c *Client) getWithRetry(ctx context.Context, path string, out interface{}) error {
	return retry.Do(func() error {
		return c.send(ctx, http.MethodGet, path, nil, out)
	},
		rtyAtt, rtyDel, rtyErr,
		retry.Context(ctx),
		retry.RetryIf(func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.StatusCode >= 500 || apiErr.StatusCode == http.StatusTooManyRequests
			}
			return true
		}),
	)
}

// SubmitTransaction submits a signing request to Fireblocks via
// POST /v1/transactions. Fireblocks signs the embedded transaction with the
// vault key and broadcasts it to the Solana network as part of the same
// operation.
//
// This call is never retried: if it fails, no remote side effect was
// acknowledged, and resubmitting blindly could create a duplicate
// transaction.
//
// Parameters:
//   - ctx: Context for the request
//   - req: The transaction request to submit
//
// Returns:
//   - *models.CreateTransactionResponse: The transaction ID and initial status
//   - error: An error if the request fails or Fireblocks rejects it
func (c *Client) SubmitTransaction(ctx context.Context, req *models.TransactionRequest) (*models.CreateTransactionResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction request: %w", err)
	}

	var resp models.CreateTransactionResponse
	if err := c.send(ctx, http.MethodPost, "/v1/transactions", body, &resp); err != nil {
		return nil, err
	}
	c.logger.Info("submitted transaction",
		zap.String("txid", resp.ID),
		zap.String("status", resp.Status.String()),
	)
	if resp.SystemMessages != nil {
		c.logger.Warn("transaction carries a system message",
			zap.String("txid", resp.ID),
			zap.String("type", resp.SystemMessages.Type.String()),
			zap.String("message", resp.SystemMessages.Message),
		)
	}
	return &resp, nil
}

// GetTransaction retrieves the current status and details of a transaction
// via GET /v1/transactions/{id}. Transient failures are retried.
//
// Parameters:
//   - ctx: Context for the request
//   - txID: The Fireblocks transaction ID
//
// Returns:
//   - *models.TransactionResponse: The current transaction state
//   - error: An error if the request fails after retries
func (c *Client) GetTransaction(ctx context.Context, txID string) (*models.TransactionResponse, error) {
	var resp models.TransactionResponse
	if err := c.getWithRetry(ctx, "/v1/transactions/"+txID, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetVaultAddress resolves the Solana public key held by a vault for the
// given asset. The first address returned by Fireblocks is the vault's
// permanent deposit address, which for Solana is the signing key itself.
//
// Parameters:
//   - ctx: Context for the request
//   - vaultID: The vault account ID to query
//   - a: The asset identifier (SOL or SOL_TEST)
//
// Returns:
//   - solana.PublicKey: The vault's public key for the asset
//   - error: An error if the lookup fails or no address exists
func (c *Client) GetVaultAddress(ctx context.Context, vaultID string, a asset.Asset) (solana.PublicKey, error) {
	path := fmt.Sprintf("/v1/vault/accounts/%s/%s/addresses_paginated", vaultID, a.ID())

	var resp models.VaultAddressesResponse
	if err := c.getWithRetry(ctx, path, &resp); err != nil {
		return solana.PublicKey{}, err
	}

	addr, found := util.Find(resp.Addresses, func(w models.VaultWalletAddress) bool {
		return w.Address != ""
	})
	if !found {
		return solana.PublicKey{}, fmt.Errorf("vault %s has no %s address", vaultID, a)
	}

	pk, err := solana.PublicKeyFromBase58(addr.Address)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("vault %s returned invalid %s address %q: %w", vaultID, a, addr.Address, err)
	}
	c.logger.Debug("resolved vault address",
		zap.String("vault", vaultID),
		zap.String("asset", a.ID()),
		zap.Strings("addresses", util.Map(resp.Addresses, func(w models.VaultWalletAddress, _ uint64) string {
			return w.Address
		})),
	)
	return pk, nil
}
