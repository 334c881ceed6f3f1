package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	cli "github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/fireblocks-community/solana-signer-go/pkg/asset"
	"github.com/fireblocks-community/solana-signer-go/pkg/client"
	"github.com/fireblocks-community/solana-signer-go/pkg/config"
	"github.com/fireblocks-community/solana-signer-go/pkg/logger"
	"github.com/fireblocks-community/solana-signer-go/pkg/secretProvider"
	"github.com/fireblocks-community/solana-signer-go/pkg/secretProvider/awsSMSecretProvider"
	"github.com/fireblocks-community/solana-signer-go/pkg/solSigner"
)

func main() {
	// Flag EnvVars are resolved at parse time, so the .env file has to be
	// loaded first. A missing file is fine.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "fireblocks-signer",
		Usage: "Sign Solana transactions with a Fireblocks vault key",
		Description: `The fireblocks-signer CLI submits Solana transaction messages to the
Fireblocks custody service for signing. A successful sign means Fireblocks
has already broadcast the transaction to the network; do not re-broadcast.`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "Enable debug logging",
				EnvVars: []string{"DEBUG"},
			},
			&cli.StringFlag{
				Name:     "api-key",
				Usage:    "Fireblocks API user key",
				Required: true,
				EnvVars:  []string{config.EnvAPIKey},
			},
			&cli.StringFlag{
				Name:     "vault",
				Usage:    "Fireblocks vault account ID holding the signing key",
				Required: true,
				EnvVars:  []string{config.EnvVault},
			},
			// API secret options (exactly one)
			&cli.StringFlag{
				Name:    "secret",
				Usage:   "Fireblocks API RSA secret in PEM format",
				EnvVars: []string{config.EnvSecret},
			},
			&cli.StringFlag{
				Name:    "secret-path",
				Usage:   "Path to a file containing the Fireblocks API RSA secret",
				EnvVars: []string{config.EnvSecretPath},
			},
			&cli.StringFlag{
				Name:    "aws-secret-name",
				Usage:   "AWS Secrets Manager secret name containing the API RSA secret",
				EnvVars: []string{config.EnvAWSSecretName},
			},
			&cli.StringFlag{
				Name:    "aws-region",
				Usage:   "AWS region for the Secrets Manager secret",
				Value:   "us-east-1",
				EnvVars: []string{config.EnvAWSRegion},
			},
			&cli.StringFlag{
				Name:    "endpoint",
				Usage:   "Fireblocks API endpoint (defaults to production)",
				EnvVars: []string{config.EnvEndpoint},
			},
			&cli.BoolFlag{
				Name:    "testnet",
				Usage:   "Sign with the SOL_TEST asset instead of SOL",
				EnvVars: []string{config.EnvTestnet, config.EnvDevnet},
			},
			&cli.StringFlag{
				Name:    "pubkey",
				Usage:   "Vault public key in base58 (skips the address lookup when set)",
				EnvVars: []string{config.EnvPubkey},
			},
			&cli.Uint64Flag{
				Name:    "poll-timeout",
				Usage:   "Seconds to wait for Fireblocks to reach a terminal status",
				Value:   60,
				EnvVars: []string{config.EnvPollTimeout},
			},
			&cli.Uint64Flag{
				Name:    "poll-interval",
				Usage:   "Seconds between status queries",
				Value:   5,
				EnvVars: []string{config.EnvPollInterval},
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "address",
				Aliases: []string{"addr"},
				Usage:   "Print the vault's Solana address",
				Action:  addressAction,
			},
			{
				Name:      "sign",
				Aliases:   []string{"s"},
				Usage:     "Sign a serialized transaction message",
				ArgsUsage: "<base64-message>",
				Description: `Submit a base64-encoded serialized Solana transaction message to
Fireblocks for signing and print the resulting base58 signature. The vault
key must be the message's fee payer. Fireblocks broadcasts the signed
transaction as a side effect of signing.`,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "message-file",
						Aliases: []string{"f"},
						Usage:   "Read the raw message bytes from a file instead of an argument",
					},
				},
				Action: signAction,
			},
		},
		Before: validateFlags,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func validateFlags(c *cli.Context) error {
	options := 0
	for _, name := range []string{"secret", "secret-path", "aws-secret-name"} {
		if c.String(name) != "" {
			options++
		}
	}
	if options == 0 {
		return fmt.Errorf("must specify one of: --secret, --secret-path, or --aws-secret-name for the API secret")
	}
	if options > 1 {
		return fmt.Errorf("can only specify one API secret option")
	}
	if c.Uint64("poll-timeout") == 0 || c.Uint64("poll-interval") == 0 {
		return fmt.Errorf("--poll-timeout and --poll-interval must be positive")
	}
	return nil
}

func setupLogger(c *cli.Context) (*zap.Logger, error) {
	return logger.NewLogger(&logger.LoggerConfig{
		Debug: c.Bool("debug"),
	})
}

func setupSecretProvider(c *cli.Context, l *zap.Logger) (secretProvider.ISecretProvider, error) {
	if pem := c.String("secret"); pem != "" {
		return secretProvider.NewStaticSecretProvider([]byte(pem))
	}
	if path := c.String("secret-path"); path != "" {
		return secretProvider.NewFileSecretProvider(path), nil
	}
	return awsSMSecretProvider.NewAWSSMSecretProvider(&awsSMSecretProvider.AWSSMSecretProviderConfig{
		Region:     c.String("aws-region"),
		SecretName: c.String("aws-secret-name"),
	}, l), nil
}

func setupClient(c *cli.Context, l *zap.Logger) (*client.Client, error) {
	secrets, err := setupSecretProvider(c, l)
	if err != nil {
		return nil, err
	}
	pem, err := secrets.GetSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to load API secret: %w", err)
	}
	return client.NewClient(&client.Config{
		APIKey:    c.String("api-key"),
		SecretPEM: pem,
		BaseURL:   c.String("endpoint"),
	}, l)
}

func setupSigner(c *cli.Context, fb *client.Client, l *zap.Logger) (*solSigner.FireblocksSigner, error) {
	cfg := &solSigner.FireblocksSignerConfig{
		VaultID: c.String("vault"),
		Asset:   asset.ForNetwork(!c.Bool("testnet")),
		PollConfig: solSigner.PollConfig{
			Timeout:  time.Duration(c.Uint64("poll-timeout")) * time.Second,
			Interval: time.Duration(c.Uint64("poll-interval")) * time.Second,
		},
	}
	if raw := c.String("pubkey"); raw != "" {
		pk, err := solana.PublicKeyFromBase58(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid --pubkey: %w", err)
		}
		cfg.PublicKey = pk
	}
	return solSigner.NewFireblocksSigner(c.Context, cfg, fb, l)
}

func addressAction(c *cli.Context) error {
	l, err := setupLogger(c)
	if err != nil {
		return err
	}
	defer l.Sync() //nolint:errcheck

	fb, err := setupClient(c, l)
	if err != nil {
		return err
	}

	address, err := fb.GetVaultAddress(c.Context, c.String("vault"), asset.ForNetwork(!c.Bool("testnet")))
	if err != nil {
		return fmt.Errorf("failed to resolve vault address: %w", err)
	}
	fmt.Println(address.String())
	return nil
}

func signAction(c *cli.Context) error {
	l, err := setupLogger(c)
	if err != nil {
		return err
	}
	defer l.Sync() //nolint:errcheck

	message, err := readMessage(c)
	if err != nil {
		return err
	}

	fb, err := setupClient(c, l)
	if err != nil {
		return err
	}
	signer, err := setupSigner(c, fb, l)
	if err != nil {
		return err
	}

	sig, err := signer.SignMessage(c.Context, message)
	if err != nil {
		return err
	}
	fmt.Println(sig.String())
	return nil
}

func readMessage(c *cli.Context) ([]byte, error) {
	if path := c.String("message-file"); path != "" {
		message, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read message file: %w", err)
		}
		return message, nil
	}
	if c.NArg() != 1 {
		return nil, fmt.Errorf("expected exactly one base64-encoded message argument (or --message-file)")
	}
	message, err := base64.StdEncoding.DecodeString(c.Args().First())
	if err != nil {
		return nil, fmt.Errorf("message argument is not valid base64: %w", err)
	}
	return message, nil
}
