package solSigner

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fireblocks-community/solana-signer-go/pkg/asset"
	"github.com/fireblocks-community/solana-signer-go/pkg/models"
)

func newTestSigner(t *testing.T, transport Transport, pk solana.PublicKey, poll PollConfig) *FireblocksSigner {
	t.Helper()
	signer, err := NewFireblocksSigner(context.Background(), &FireblocksSignerConfig{
		VaultID:    "0",
		Asset:      asset.SolTest,
		PublicKey:  pk,
		PollConfig: poll,
	}, transport, zap.NewNop())
	require.NoError(t, err)
	return signer
}

func pendingResponse(txID string, status models.TransactionStatus) *models.TransactionResponse {
	return &models.TransactionResponse{ID: txID, Status: status, AssetID: "SOL_TEST"}
}

// completedResponse builds a terminal-success response whose txHash is a
// real signature of message by key.
func completedResponse(t *testing.T, txID string, key solana.PrivateKey, message []byte) *models.TransactionResponse {
	t.Helper()
	sig, err := key.Sign(message)
	require.NoError(t, err)
	return &models.TransactionResponse{
		ID:      txID,
		Status:  models.StatusCompleted,
		TxHash:  sig.String(),
		AssetID: "SOL_TEST",
	}
}

func TestSignMessage_SucceedsAfterPendingPolls(t *testing.T) {
	key, pk := testKeypair(t)
	message := buildTestMessage(t, pk)

	mt := new(mockTransport)
	mt.On("SubmitTransaction", mock.Anything, mock.Anything).
		Return(&models.CreateTransactionResponse{ID: "tx-1", Status: models.StatusSubmitted}, nil)
	mt.On("GetTransaction", mock.Anything, "tx-1").
		Return(pendingResponse("tx-1", models.StatusPendingSignature), nil).Times(4)
	mt.On("GetTransaction", mock.Anything, "tx-1").
		Return(completedResponse(t, "tx-1", key, message), nil)

	signer := newTestSigner(t, mt, pk, PollConfig{Timeout: 500 * time.Millisecond, Interval: 10 * time.Millisecond})
	sig, err := signer.SignMessage(context.Background(), message)
	require.NoError(t, err)

	assert.True(t, ed25519.Verify(ed25519.PublicKey(pk.Bytes()), message, sig[:]))
	mt.AssertExpectations(t)
}

func TestSignMessage_SubmitErrorFailsWithoutPolling(t *testing.T) {
	_, pk := testKeypair(t)
	message := buildTestMessage(t, pk)

	mt := new(mockTransport)
	mt.On("SubmitTransaction", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("connection refused"))

	signer := newTestSigner(t, mt, pk, PollConfig{Timeout: time.Second, Interval: 10 * time.Millisecond})
	_, err := signer.SignMessage(context.Background(), message)

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Contains(t, subErr.Error(), "connection refused")
	mt.AssertNotCalled(t, "GetTransaction", mock.Anything, mock.Anything)
}

func TestSignMessage_TimesOutWhileInFlight(t *testing.T) {
	_, pk := testKeypair(t)
	message := buildTestMessage(t, pk)

	const (
		timeout  = 80 * time.Millisecond
		interval = 20 * time.Millisecond
	)

	mt := new(mockTransport)
	mt.On("SubmitTransaction", mock.Anything, mock.Anything).
		Return(&models.CreateTransactionResponse{ID: "tx-2", Status: models.StatusSubmitted}, nil)
	mt.On("GetTransaction", mock.Anything, "tx-2").
		Return(pendingResponse("tx-2", models.StatusQueued), nil)

	signer := newTestSigner(t, mt, pk, PollConfig{Timeout: timeout, Interval: interval})

	start := time.Now()
	_, err := signer.SignMessage(context.Background(), message)
	elapsed := time.Since(start)

	var toErr *TimeoutError
	require.ErrorAs(t, err, &toErr)
	assert.Equal(t, "tx-2", toErr.TxID)
	assert.Equal(t, models.StatusQueued, toErr.LastStatus)
	assert.GreaterOrEqual(t, elapsed, timeout)
	assert.Less(t, elapsed, timeout+interval+50*time.Millisecond,
		"the wait must not overshoot the deadline by more than one interval")
}

func TestSignMessage_BlockedFailsImmediately(t *testing.T) {
	_, pk := testKeypair(t)
	message := buildTestMessage(t, pk)

	mt := new(mockTransport)
	mt.On("SubmitTransaction", mock.Anything, mock.Anything).
		Return(&models.CreateTransactionResponse{ID: "tx-3", Status: models.StatusSubmitted}, nil)
	mt.On("GetTransaction", mock.Anything, "tx-3").
		Return(&models.TransactionResponse{
			ID:        "tx-3",
			Status:    models.StatusBlocked,
			SubStatus: models.SubStatusBlockedByPolicy,
		}, nil)

	signer := newTestSigner(t, mt, pk, PollConfig{Timeout: 5 * time.Second, Interval: time.Second})

	start := time.Now()
	_, err := signer.SignMessage(context.Background(), message)
	elapsed := time.Since(start)

	var remoteErr *RemoteFailureError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, models.StatusBlocked, remoteErr.Status)
	assert.Equal(t, models.SubStatusBlockedByPolicy, remoteErr.SubStatus)
	assert.Less(t, elapsed, time.Second, "terminal failure must not wait out the timeout")
}

func TestSignMessage_RemoteFailureCarriesReason(t *testing.T) {
	_, pk := testKeypair(t)
	message := buildTestMessage(t, pk)

	mt := new(mockTransport)
	mt.On("SubmitTransaction", mock.Anything, mock.Anything).
		Return(&models.CreateTransactionResponse{ID: "tx-4", Status: models.StatusSubmitted}, nil)
	mt.On("GetTransaction", mock.Anything, "tx-4").
		Return(&models.TransactionResponse{
			ID:               "tx-4",
			Status:           models.StatusFailed,
			SubStatus:        models.SubStatusInsufficientFunds,
			ErrorDescription: "not enough SOL for fees",
		}, nil)

	signer := newTestSigner(t, mt, pk, PollConfig{Timeout: time.Second, Interval: 10 * time.Millisecond})
	_, err := signer.SignMessage(context.Background(), message)

	var remoteErr *RemoteFailureError
	require.ErrorAs(t, err, &remoteErr)
	assert.Contains(t, remoteErr.Error(), "INSUFFICIENT_FUNDS")
	assert.Contains(t, remoteErr.Error(), "not enough SOL for fees")
}

func TestSignMessage_SignatureMismatch(t *testing.T) {
	_, pk := testKeypair(t)
	wrongKey, _ := testKeypair(t)
	message := buildTestMessage(t, pk)

	mt := new(mockTransport)
	mt.On("SubmitTransaction", mock.Anything, mock.Anything).
		Return(&models.CreateTransactionResponse{ID: "tx-5", Status: models.StatusSubmitted}, nil)
	mt.On("GetTransaction", mock.Anything, "tx-5").
		Return(completedResponse(t, "tx-5", wrongKey, message), nil)

	signer := newTestSigner(t, mt, pk, PollConfig{Timeout: time.Second, Interval: 10 * time.Millisecond})
	_, err := signer.SignMessage(context.Background(), message)

	var mismatchErr *SignatureMismatchError
	require.ErrorAs(t, err, &mismatchErr)
	assert.Equal(t, pk, mismatchErr.PublicKey)
}

func TestSignMessage_DecodeErrors(t *testing.T) {
	_, pk := testKeypair(t)
	message := buildTestMessage(t, pk)

	cases := []struct {
		name   string
		txHash string
	}{
		{name: "missing signature", txHash: ""},
		{name: "wrong length", txHash: "3yZe7d"},
		{name: "not base58", txHash: "0OIl+/"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mt := new(mockTransport)
			mt.On("SubmitTransaction", mock.Anything, mock.Anything).
				Return(&models.CreateTransactionResponse{ID: "tx-6", Status: models.StatusSubmitted}, nil)
			mt.On("GetTransaction", mock.Anything, "tx-6").
				Return(&models.TransactionResponse{
					ID:     "tx-6",
					Status: models.StatusCompleted,
					TxHash: tc.txHash,
				}, nil)

			signer := newTestSigner(t, mt, pk, PollConfig{Timeout: time.Second, Interval: 10 * time.Millisecond})
			_, err := signer.SignMessage(context.Background(), message)

			var decErr *DecodeError
			require.ErrorAs(t, err, &decErr)
		})
	}
}

func TestSignMessage_TransportErrorsDuringPollAreRetried(t *testing.T) {
	key, pk := testKeypair(t)
	message := buildTestMessage(t, pk)

	mt := new(mockTransport)
	mt.On("SubmitTransaction", mock.Anything, mock.Anything).
		Return(&models.CreateTransactionResponse{ID: "tx-7", Status: models.StatusSubmitted}, nil)
	mt.On("GetTransaction", mock.Anything, "tx-7").
		Return(nil, errors.New("gateway timeout")).Times(2)
	mt.On("GetTransaction", mock.Anything, "tx-7").
		Return(completedResponse(t, "tx-7", key, message), nil)

	signer := newTestSigner(t, mt, pk, PollConfig{Timeout: time.Second, Interval: 10 * time.Millisecond})
	sig, err := signer.SignMessage(context.Background(), message)
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(ed25519.PublicKey(pk.Bytes()), message, sig[:]))
	mt.AssertExpectations(t)
}

func TestSignMessage_UnknownStatusKeepsPolling(t *testing.T) {
	key, pk := testKeypair(t)
	message := buildTestMessage(t, pk)

	mt := new(mockTransport)
	mt.On("SubmitTransaction", mock.Anything, mock.Anything).
		Return(&models.CreateTransactionResponse{ID: "tx-8", Status: models.StatusSubmitted}, nil)
	mt.On("GetTransaction", mock.Anything, "tx-8").
		Return(pendingResponse("tx-8", models.TransactionStatus("PENDING_SOMETHING_NEW")), nil).Times(2)
	mt.On("GetTransaction", mock.Anything, "tx-8").
		Return(completedResponse(t, "tx-8", key, message), nil)

	signer := newTestSigner(t, mt, pk, PollConfig{Timeout: time.Second, Interval: 10 * time.Millisecond})
	_, err := signer.SignMessage(context.Background(), message)
	require.NoError(t, err)
	mt.AssertExpectations(t)
}

func TestSignMessage_CallbackObservesInFlightStatuses(t *testing.T) {
	key, pk := testKeypair(t)
	message := buildTestMessage(t, pk)

	mt := new(mockTransport)
	mt.On("SubmitTransaction", mock.Anything, mock.Anything).
		Return(&models.CreateTransactionResponse{ID: "tx-9", Status: models.StatusSubmitted}, nil)
	mt.On("GetTransaction", mock.Anything, "tx-9").
		Return(pendingResponse("tx-9", models.StatusBroadcasting), nil).Times(3)
	mt.On("GetTransaction", mock.Anything, "tx-9").
		Return(completedResponse(t, "tx-9", key, message), nil)

	var observed []models.TransactionStatus
	signer := newTestSigner(t, mt, pk, PollConfig{
		Timeout:  time.Second,
		Interval: 10 * time.Millisecond,
		Callback: func(r *models.TransactionResponse) {
			observed = append(observed, r.Status)
		},
	})

	_, err := signer.SignMessage(context.Background(), message)
	require.NoError(t, err)
	assert.Equal(t, []models.TransactionStatus{
		models.StatusBroadcasting,
		models.StatusBroadcasting,
		models.StatusBroadcasting,
	}, observed)
}

func TestSignMessage_ContextCancelled(t *testing.T) {
	_, pk := testKeypair(t)
	message := buildTestMessage(t, pk)

	mt := new(mockTransport)
	mt.On("SubmitTransaction", mock.Anything, mock.Anything).
		Return(&models.CreateTransactionResponse{ID: "tx-10", Status: models.StatusSubmitted}, nil)
	mt.On("GetTransaction", mock.Anything, "tx-10").
		Return(pendingResponse("tx-10", models.StatusQueued), nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	signer := newTestSigner(t, mt, pk, PollConfig{Timeout: 10 * time.Second, Interval: 20 * time.Millisecond})
	_, err := signer.SignMessage(ctx, message)

	var toErr *TimeoutError
	require.ErrorAs(t, err, &toErr)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSignMessage_EncodingErrorBeforeNetwork(t *testing.T) {
	_, pk := testKeypair(t)
	_, other := testKeypair(t)
	message := buildTestMessage(t, other)

	mt := new(mockTransport)
	signer := newTestSigner(t, mt, pk, DefaultPollConfig())

	_, err := signer.SignMessage(context.Background(), message)
	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
	mt.AssertNotCalled(t, "SubmitTransaction", mock.Anything, mock.Anything)
}

func TestSignTransaction(t *testing.T) {
	key, pk := testKeypair(t)
	message := buildTestMessage(t, pk)

	var msg solana.Message
	require.NoError(t, msg.UnmarshalBase64(mustBase64(t, message)))
	tx := &solana.Transaction{Message: msg}

	mt := new(mockTransport)
	mt.On("SubmitTransaction", mock.Anything, mock.Anything).
		Return(&models.CreateTransactionResponse{ID: "tx-11", Status: models.StatusSubmitted}, nil)
	mt.On("GetTransaction", mock.Anything, "tx-11").
		Return(completedResponse(t, "tx-11", key, message), nil)

	signer := newTestSigner(t, mt, pk, PollConfig{Timeout: time.Second, Interval: 10 * time.Millisecond})
	require.NoError(t, signer.SignTransaction(context.Background(), tx))

	require.Len(t, tx.Signatures, 1)
	assert.True(t, ed25519.Verify(ed25519.PublicKey(pk.Bytes()), message, tx.Signatures[0][:]))
}

func TestSignTransaction_NotASigner(t *testing.T) {
	_, pk := testKeypair(t)
	_, other := testKeypair(t)
	message := buildTestMessage(t, other)

	var msg solana.Message
	require.NoError(t, msg.UnmarshalBase64(mustBase64(t, message)))
	tx := &solana.Transaction{Message: msg}

	signer := newTestSigner(t, new(mockTransport), pk, DefaultPollConfig())
	err := signer.SignTransaction(context.Background(), tx)

	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Contains(t, encErr.Reason, "not a required signer")
}

func TestNewFireblocksSigner_ResolvesPublicKey(t *testing.T) {
	_, pk := testKeypair(t)

	mt := new(mockResolverTransport)
	mt.On("GetVaultAddress", mock.Anything, "0", asset.SolTest).Return(pk, nil)

	signer, err := NewFireblocksSigner(context.Background(), &FireblocksSignerConfig{
		VaultID: "0",
		Asset:   asset.SolTest,
	}, mt, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, pk, signer.GetPublicKey())
	mt.AssertExpectations(t)
}

func TestNewFireblocksSigner_Validation(t *testing.T) {
	_, pk := testKeypair(t)

	_, err := NewFireblocksSigner(context.Background(), &FireblocksSignerConfig{
		VaultID:   "0",
		Asset:     asset.SolTest,
		PublicKey: pk,
	}, nil, zap.NewNop())
	assert.Error(t, err, "nil transport must fail")

	_, err = NewFireblocksSigner(context.Background(), &FireblocksSignerConfig{
		Asset:     asset.SolTest,
		PublicKey: pk,
	}, new(mockTransport), zap.NewNop())
	assert.Error(t, err, "missing vault ID must fail")

	// No public key and a transport that cannot resolve addresses.
	_, err = NewFireblocksSigner(context.Background(), &FireblocksSignerConfig{
		VaultID: "0",
		Asset:   asset.SolTest,
	}, new(mockTransport), zap.NewNop())
	assert.Error(t, err)
}

func mustBase64(t *testing.T, data []byte) string {
	t.Helper()
	return base64.StdEncoding.EncodeToString(data)
}
