package solana

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Network is the blockchain RPC surface the wallet core needs.
// Implemented by client.SolanaClient.
type Network interface {
	GetBalance(ctx context.Context, owner solana.PublicKey) (uint64, error)
	GetLatestBlockhash(ctx context.Context) (solana.Hash, error)
	SendRawTransaction(ctx context.Context, raw []byte) (solana.Signature, error)
	// GetSignatureStatus returns nil when the network does not know the signature yet.
	GetSignatureStatus(ctx context.Context, sig solana.Signature) (*rpc.SignatureStatusesResult, error)
	RequestAirdrop(ctx context.Context, owner solana.PublicKey, lamports uint64) (solana.Signature, error)
}
