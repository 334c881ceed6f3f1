// Package awsSMSecretProvider provides AWS Secrets Manager-based secret
// retrieval for the Fireblocks API RSA key, for deployments that must not
// keep the key on disk or in environment variables.
package awsSMSecretProvider

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"go.uber.org/zap"
)

// AWSSMSecretProviderConfig holds the configuration for the AWS Secrets
// Manager provider.
type AWSSMSecretProviderConfig struct {
	// Region specifies the AWS region where the secret is stored
	Region string
	// SecretName is the name of the secret containing the PEM-encoded RSA key
	SecretName string
}

// AWSSMSecretProvider implements ISecretProvider using AWS Secrets Manager.
// The secret is retrieved on every call rather than cached, so rotating the
// API key in Secrets Manager takes effect on the next request.
type AWSSMSecretProvider struct {
	logger *zap.Logger
	config *AWSSMSecretProviderConfig
}

// NewAWSSMSecretProvider creates a new AWSSMSecretProvider instance.
//
// Parameters:
//   - config: The AWS region and secret name to read
//   - logger: A zap logger for logging retrieval failures
//
// Returns:
//   - *AWSSMSecretProvider: A new Secrets Manager-backed provider
func NewAWSSMSecretProvider(config *AWSSMSecretProviderConfig, logger *zap.Logger) *AWSSMSecretProvider {
	return &AWSSMSecretProvider{
		logger: logger,
		config: config,
	}
}

// GetSecret retrieves the PEM-encoded RSA key from AWS Secrets Manager.
//
// Returns:
//   - []byte: The secret value as bytes
//   - error: An error if the AWS session, retrieval, or secret shape fails
func (a *AWSSMSecretProvider) GetSecret() ([]byte, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(a.config.Region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	svc := secretsmanager.New(sess)

	input := &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(a.config.SecretName),
		VersionStage: aws.String("AWSCURRENT"),
	}

	result, err := svc.GetSecretValue(input)
	if err != nil {
		a.logger.Error("failed to retrieve secret",
			zap.String("secretName", a.config.SecretName),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to get secret value: %w", err)
	}

	if result.SecretString == nil {
		return nil, fmt.Errorf("secret %s has no string value", a.config.SecretName)
	}
	return []byte(*result.SecretString), nil
}
