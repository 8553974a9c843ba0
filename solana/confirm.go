package solana

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

const (
	defaultConfirmTimeout      = 60 * time.Second
	defaultConfirmPollInterval = 2 * time.Second
)

type confirmOutcome int

const (
	outcomePending confirmOutcome = iota
	outcomeConfirmed
	outcomeFailed
	outcomeTimeout
)

func (o confirmOutcome) String() string {
	switch o {
	case outcomeConfirmed:
		return "confirmed"
	case outcomeFailed:
		return "failed"
	case outcomeTimeout:
		return "timeout"
	default:
		return "pending"
	}
}

// confirmer polls the network for the status of one signature at a time.
type confirmer struct {
	network  Network
	timeout  time.Duration
	interval time.Duration
	log      *zap.Logger
}

// await polls until the signature is confirmed, fails, or the timeout passes.
// Status query errors are treated as "not known yet".
func (c *confirmer) await(ctx context.Context, sig solana.Signature) (confirmOutcome, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		outcome, err := c.check(ctx, sig)
		if outcome != outcomePending {
			return outcome, err
		}
		if err != nil {
			c.log.Debug("signature status query failed", zap.Stringer("signature", sig), zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return outcomeTimeout, nil
		case <-ticker.C:
		}
	}
}

// check queries the signature once. For outcomeFailed the error describes the on-chain failure;
// for outcomePending it is the query error, if any.
func (c *confirmer) check(ctx context.Context, sig solana.Signature) (confirmOutcome, error) {
	status, err := c.network.GetSignatureStatus(ctx, sig)
	if err != nil {
		return outcomePending, err
	}
	if status == nil {
		return outcomePending, nil
	}
	if status.Err != nil {
		return outcomeFailed, fmt.Errorf("transaction error: %v", status.Err)
	}
	switch status.ConfirmationStatus {
	case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
		return outcomeConfirmed, nil
	}
	return outcomePending, nil
}
