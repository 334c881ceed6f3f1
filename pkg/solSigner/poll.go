package solSigner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fireblocks-community/solana-signer-go/pkg/models"
)

const (
	// DefaultPollTimeout is the default wall-clock budget for one signing
	// request, measured from submission.
	DefaultPollTimeout = 15 * time.Second
	// DefaultPollInterval is the default delay between status queries.
	DefaultPollInterval = 5 * time.Second
)

// PollConfig controls how a signing request is polled after submission.
// A fixed interval with a hard deadline is used instead of exponential
// backoff: Fireblocks completion latency is bounded and predictable, and a
// deterministic interval keeps the end-to-end latency close to the true
// completion time. The deadline is measured from submission, so a flapping
// in-flight status cannot extend the wait.
type PollConfig struct {
	// Timeout is the maximum time to wait for a terminal status
	Timeout time.Duration
	// Interval is the delay between consecutive status queries
	Interval time.Duration
	// Callback, if set, is invoked with every in-flight status observation.
	// It is intended for logging or progress reporting and must not block.
	Callback func(*models.TransactionResponse)
}

// DefaultPollConfig returns the default polling configuration.
func DefaultPollConfig() PollConfig {
	return PollConfig{
		Timeout:  DefaultPollTimeout,
		Interval: DefaultPollInterval,
	}
}

// pollTransaction queries the transaction status at a fixed interval until
// it reaches a terminal state or the deadline passes. The status is queried
// immediately, then every cfg.Interval, with the final sleep clamped so the
// last query lands on the deadline; the wait never overshoots the deadline
// by more than one interval.
//
// Transport errors during polling are retried until the deadline: a
// transient network blip must not abort an otherwise-succeeding remote
// signature. Unrecognized statuses are logged and treated as in flight,
// since Fireblocks adds statuses over time.
//
// Returns the terminal response, or the last observed response together
// with a *TimeoutError when the deadline (or ctx) expires first.
func pollTransaction(ctx context.Context, transport Transport, txID string, cfg PollConfig, logger *zap.Logger) (*models.TransactionResponse, error) {
	start := time.Now()
	deadline := start.Add(cfg.Timeout)

	var last *models.TransactionResponse
	for {
		resp, err := transport.GetTransaction(ctx, txID)
		switch {
		case err != nil:
			logger.Warn("transaction status query failed, retrying until deadline",
				zap.String("txid", txID),
				zap.Error(err),
			)
		case resp.Status.IsTerminal():
			return resp, nil
		default:
			last = resp
			if !resp.Status.IsKnown() {
				logger.Warn("unrecognized transaction status, treating as in flight",
					zap.String("txid", txID),
					zap.String("status", resp.Status.String()),
				)
			}
			if cfg.Callback != nil {
				cfg.Callback(resp)
			}
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		sleep := cfg.Interval
		if sleep > remaining {
			sleep = remaining
		}

		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return last, &TimeoutError{
				TxID:       txID,
				LastStatus: lastStatus(last),
				Elapsed:    time.Since(start),
				Cause:      ctx.Err(),
			}
		case <-timer.C:
		}
	}

	logger.Warn("timed out waiting for transaction to reach a terminal status",
		zap.String("txid", txID),
		zap.String("lastStatus", lastStatus(last).String()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return last, &TimeoutError{
		TxID:       txID,
		LastStatus: lastStatus(last),
		Elapsed:    time.Since(start),
	}
}

func lastStatus(resp *models.TransactionResponse) models.TransactionStatus {
	if resp == nil {
		return ""
	}
	return resp.Status
}
