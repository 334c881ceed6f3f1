// Package config loads signer configuration from FIREBLOCKS_* environment
// variables. It mirrors the variables Fireblocks operators already use, so
// a deployment configured for other Fireblocks tooling works unchanged.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/fireblocks-community/solana-signer-go/pkg/asset"
	"github.com/fireblocks-community/solana-signer-go/pkg/client"
	"github.com/fireblocks-community/solana-signer-go/pkg/secretProvider"
	"github.com/fireblocks-community/solana-signer-go/pkg/secretProvider/awsSMSecretProvider"
	"github.com/fireblocks-community/solana-signer-go/pkg/solSigner"
)

// Environment variable names recognized by FromEnv.
const (
	EnvAPIKey        = "FIREBLOCKS_API_KEY"
	EnvSecret        = "FIREBLOCKS_SECRET"
	EnvSecretPath    = "FIREBLOCKS_SECRET_PATH"
	EnvAWSSecretName = "FIREBLOCKS_AWS_SECRET_NAME"
	EnvAWSRegion     = "FIREBLOCKS_AWS_REGION"
	EnvEndpoint      = "FIREBLOCKS_ENDPOINT"
	EnvVault         = "FIREBLOCKS_VAULT"
	EnvTestnet       = "FIREBLOCKS_TESTNET"
	EnvDevnet        = "FIREBLOCKS_DEVNET"
	EnvPubkey        = "FIREBLOCKS_PUBKEY"
	EnvPollTimeout   = "FIREBLOCKS_POLL_TIMEOUT"
	EnvPollInterval  = "FIREBLOCKS_POLL_INTERVAL"
)

// Environment-path poll defaults, in seconds. These are deliberately more
// generous than solSigner.DefaultPollTimeout: env-configured deployments
// tend to run with approval policies that add human latency.
const (
	defaultEnvPollTimeout  = 60 * time.Second
	defaultEnvPollInterval = 5 * time.Second
)

// Config is the validated, typed form of the FIREBLOCKS_* environment.
type Config struct {
	APIKey   string
	Secret   secretProvider.ISecretProvider
	Endpoint string
	VaultID  string
	Asset    asset.Asset
	// PublicKey is zero unless FIREBLOCKS_PUBKEY was set; a zero value makes
	// the signer resolve the vault address at construction.
	PublicKey    solana.PublicKey
	PollTimeout  time.Duration
	PollInterval time.Duration
}

// FromEnv reads and validates the FIREBLOCKS_* environment variables.
//
// The API secret is sourced from exactly one of, in precedence order:
// FIREBLOCKS_SECRET (inline PEM), FIREBLOCKS_SECRET_PATH (file), or
// FIREBLOCKS_AWS_SECRET_NAME + FIREBLOCKS_AWS_REGION (AWS Secrets Manager).
//
// Returns:
//   - *Config: The validated configuration
//   - error: An error naming the missing or malformed variable
func FromEnv(logger *zap.Logger) (*Config, error) {
	apiKey := os.Getenv(EnvAPIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%s is required", EnvAPIKey)
	}

	vaultID := os.Getenv(EnvVault)
	if vaultID == "" {
		return nil, fmt.Errorf("%s is required", EnvVault)
	}

	secret, err := secretFromEnv(logger)
	if err != nil {
		return nil, err
	}

	testnet, err := boolFromEnv(EnvTestnet)
	if err != nil {
		return nil, err
	}
	devnet, err := boolFromEnv(EnvDevnet)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIKey:       apiKey,
		Secret:       secret,
		Endpoint:     os.Getenv(EnvEndpoint),
		VaultID:      vaultID,
		Asset:        asset.ForNetwork(!testnet && !devnet),
		PollTimeout:  defaultEnvPollTimeout,
		PollInterval: defaultEnvPollInterval,
	}

	if raw := os.Getenv(EnvPubkey); raw != "" {
		pk, err := solana.PublicKeyFromBase58(raw)
		if err != nil {
			return nil, fmt.Errorf("%s is not a valid base58 public key: %w", EnvPubkey, err)
		}
		cfg.PublicKey = pk
	}

	if d, ok, err := secondsFromEnv(EnvPollTimeout); err != nil {
		return nil, err
	} else if ok {
		cfg.PollTimeout = d
	}
	if d, ok, err := secondsFromEnv(EnvPollInterval); err != nil {
		return nil, err
	} else if ok {
		cfg.PollInterval = d
	}
	if cfg.PollInterval <= 0 || cfg.PollTimeout <= 0 {
		return nil, fmt.Errorf("%s and %s must be positive", EnvPollTimeout, EnvPollInterval)
	}

	return cfg, nil
}

// ClientConfig resolves the API secret and returns the transport client
// configuration.
func (c *Config) ClientConfig() (*client.Config, error) {
	pem, err := c.Secret.GetSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to load API secret: %w", err)
	}
	return &client.Config{
		APIKey:    c.APIKey,
		SecretPEM: pem,
		BaseURL:   c.Endpoint,
	}, nil
}

// SignerConfig returns the signer configuration derived from the
// environment.
func (c *Config) SignerConfig() *solSigner.FireblocksSignerConfig {
	return &solSigner.FireblocksSignerConfig{
		VaultID:   c.VaultID,
		Asset:     c.Asset,
		PublicKey: c.PublicKey,
		PollConfig: solSigner.PollConfig{
			Timeout:  c.PollTimeout,
			Interval: c.PollInterval,
		},
	}
}

func secretFromEnv(logger *zap.Logger) (secretProvider.ISecretProvider, error) {
	if pem := os.Getenv(EnvSecret); pem != "" {
		return secretProvider.NewStaticSecretProvider([]byte(pem))
	}
	if path := os.Getenv(EnvSecretPath); path != "" {
		return secretProvider.NewFileSecretProvider(path), nil
	}
	if name := os.Getenv(EnvAWSSecretName); name != "" {
		region := os.Getenv(EnvAWSRegion)
		if region == "" {
			return nil, fmt.Errorf("%s is required when %s is set", EnvAWSRegion, EnvAWSSecretName)
		}
		return awsSMSecretProvider.NewAWSSMSecretProvider(&awsSMSecretProvider.AWSSMSecretProviderConfig{
			Region:     region,
			SecretName: name,
		}, logger), nil
	}
	return nil, fmt.Errorf("one of %s, %s or %s is required", EnvSecret, EnvSecretPath, EnvAWSSecretName)
}

func boolFromEnv(name string) (bool, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s is not a valid boolean: %w", name, err)
	}
	return v, nil
}

func secondsFromEnv(name string) (time.Duration, bool, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false, nil
	}
	secs, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false, fmt.Errorf("%s is not a valid number of seconds: %w", name, err)
	}
	return time.Duration(secs) * time.Second, true, nil
}
