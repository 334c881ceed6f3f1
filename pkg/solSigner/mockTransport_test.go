package solSigner

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/mock"

	"github.com/fireblocks-community/solana-signer-go/pkg/asset"
	"github.com/fireblocks-community/solana-signer-go/pkg/models"
)

// mockTransport is a testify mock of the Transport interface.
type mockTransport struct {
	mock.Mock
}

func (m *mockTransport) SubmitTransaction(ctx context.Context, req *models.TransactionRequest) (*models.CreateTransactionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CreateTransactionResponse), args.Error(1)
}

func (m *mockTransport) GetTransaction(ctx context.Context, txID string) (*models.TransactionResponse, error) {
	args := m.Called(ctx, txID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TransactionResponse), args.Error(1)
}

// mockResolverTransport additionally implements AddressResolver.
type mockResolverTransport struct {
	mockTransport
}

func (m *mockResolverTransport) GetVaultAddress(ctx context.Context, vaultID string, a asset.Asset) (solana.PublicKey, error) {
	args := m.Called(ctx, vaultID, a)
	return args.Get(0).(solana.PublicKey), args.Error(1)
}
