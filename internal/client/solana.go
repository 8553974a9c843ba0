package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
)

const defaultRPCTimeout = 30 * time.Second

// SolanaClient is a client for working with Solana RPC.
// Every call runs under its own timeout on top of the caller's context.
type SolanaClient struct {
	rpcClient  *rpc.Client
	rpcURL     string
	timeout    time.Duration
	commitment rpc.CommitmentType
}

// NewSolanaClient creates a new Solana client for the given RPC endpoint.
func NewSolanaClient(rpcURL string, timeout time.Duration) *SolanaClient {
	if timeout <= 0 {
		timeout = defaultRPCTimeout
	}
	return &SolanaClient{
		rpcClient:  rpc.New(rpcURL),
		rpcURL:     rpcURL,
		timeout:    timeout,
		commitment: rpc.CommitmentConfirmed,
	}
}

// RPCURL returns the endpoint the client talks to
func (c *SolanaClient) RPCURL() string {
	return c.rpcURL
}

// GetBalance gets SOL balance in lamports for owner
func (c *SolanaClient) GetBalance(ctx context.Context, owner solana.PublicKey) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	balance, err := c.rpcClient.GetBalance(ctx, owner, c.commitment)
	if err != nil {
		return 0, fmt.Errorf("failed to get SOL balance: %w", err)
	}
	return balance.Value, nil
}

// GetLatestBlockhash fetches a fresh blockhash to anchor a new transaction
func (c *SolanaClient) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// GetRecentBlockhash is deprecated, use GetLatestBlockhash
	recent, err := c.rpcClient.GetLatestBlockhash(ctx, c.commitment)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("failed to get recent blockhash: %w", err)
	}
	if recent.Value == nil {
		return solana.Hash{}, fmt.Errorf("failed to get recent blockhash: empty response")
	}
	return recent.Value.Blockhash, nil
}

// SendRawTransaction submits an already signed, serialized transaction
func (c *SolanaClient) SendRawTransaction(ctx context.Context, raw []byte) (solana.Signature, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	sig, err := c.rpcClient.SendRawTransactionWithOpts(
		ctx,
		raw,
		rpc.TransactionOpts{
			SkipPreflight:       false, // Transaction validation before node
			PreflightCommitment: c.commitment,
		},
	)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}
	return sig, nil
}

// GetSignatureStatus returns the status of a single signature.
// A nil status with nil error means the network does not know the signature yet.
func (c *SolanaClient) GetSignatureStatus(ctx context.Context, sig solana.Signature) (*rpc.SignatureStatusesResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.rpcClient.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		return nil, fmt.Errorf("failed to get signature status: %w", err)
	}
	if out == nil || len(out.Value) == 0 {
		return nil, nil
	}
	return out.Value[0], nil
}

// RequestAirdrop asks the test network faucet for lamports
func (c *SolanaClient) RequestAirdrop(ctx context.Context, owner solana.PublicKey, lamports uint64) (solana.Signature, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	sig, err := c.rpcClient.RequestAirdrop(ctx, owner, lamports, c.commitment)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to request airdrop: %w", err)
	}
	return sig, nil
}

// IsBlockhashNotFoundError checks if error indicates that the transaction's blockhash expired
func IsBlockhashNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "blockhash not found") ||
		strings.Contains(errStr, "block height exceeded")
}

// IsRPCRejection reports whether the node answered a send with an error, so the
// transaction was definitely not accepted. Timeouts and dropped connections are not
// rejections: the node may have taken the transaction before the reply was lost.
func IsRPCRejection(err error) bool {
	if err == nil {
		return false
	}
	var rpcErr *jsonrpc.RPCError
	return errors.As(err, &rpcErr) || IsBlockhashNotFoundError(err)
}
