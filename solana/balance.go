package solana

import (
	"context"
	"errors"
	"math"

	"github.com/DishankChauhan/Domain-Search/internal/common"
	"github.com/DishankChauhan/Domain-Search/internal/logger"
	"github.com/DishankChauhan/Domain-Search/internal/model"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

const (
	DefaultAirdropSOL = 2.0

	clusterMainnet = "mainnet-beta"
)

// BalanceService reads on-chain balances. Nothing is cached.
type BalanceService struct {
	network Network
	cluster string
	confirm *confirmer
	log     *zap.Logger
}

func NewBalanceService(network Network, cluster string, confirm *confirmer, log *zap.Logger) *BalanceService {
	return &BalanceService{
		network: network,
		cluster: cluster,
		confirm: confirm,
		log:     logger.OrNop(log).Named("balance"),
	}
}

// BalanceLamports returns the live balance of the session's account in lamports.
func (b *BalanceService) BalanceLamports(ctx context.Context, session model.WalletSession) (uint64, error) {
	owner, err := solana.PublicKeyFromBase58(session.PublicKey)
	if err != nil {
		return 0, wrap(ErrNoWalletConnected, err)
	}
	lamports, err := b.network.GetBalance(ctx, owner)
	if err != nil {
		return 0, wrap(ErrNetwork, err)
	}
	return lamports, nil
}

// Balance returns the live balance of the session's account in SOL.
func (b *BalanceService) Balance(ctx context.Context, session model.WalletSession) (float64, error) {
	lamports, err := b.BalanceLamports(ctx, session)
	if err != nil {
		return 0, err
	}
	return common.LamportsToSOLFloat(lamports), nil
}

// RequestAirdrop asks the test network faucet for amountSOL (DefaultAirdropSOL when zero)
// and waits for the airdrop to confirm.
func (b *BalanceService) RequestAirdrop(ctx context.Context, session model.WalletSession, amountSOL float64) (string, error) {
	if b.cluster == clusterMainnet {
		return "", ErrAirdropUnavailable
	}
	if amountSOL == 0 {
		amountSOL = DefaultAirdropSOL
	}
	if amountSOL < 0 || math.IsNaN(amountSOL) || math.IsInf(amountSOL, 0) {
		return "", ErrInvalidAmount
	}
	lamports, err := common.FloorSOLToLamports(amountSOL)
	if err != nil {
		return "", wrap(ErrInvalidAmount, err)
	}
	if lamports == 0 {
		return "", ErrInvalidAmount
	}
	return b.RequestAirdropLamports(ctx, session, lamports)
}

// RequestAirdropLamports is RequestAirdrop for an exact lamport amount. Zero means DefaultAirdropSOL.
func (b *BalanceService) RequestAirdropLamports(ctx context.Context, session model.WalletSession, lamports uint64) (string, error) {
	if b.cluster == clusterMainnet {
		return "", ErrAirdropUnavailable
	}
	if lamports == 0 {
		lamports = DefaultAirdropSOL * common.LamportsPerSOL
	}

	owner, err := solana.PublicKeyFromBase58(session.PublicKey)
	if err != nil {
		return "", wrap(ErrNoWalletConnected, err)
	}

	sig, err := b.network.RequestAirdrop(ctx, owner, lamports)
	if err != nil {
		return "", wrap(ErrNetwork, err)
	}
	b.log.Info("airdrop requested", zap.Stringer("signature", sig), zap.Uint64("lamports", lamports))

	outcome, detail := b.confirm.await(ctx, sig)
	switch outcome {
	case outcomeConfirmed:
		return sig.String(), nil
	case outcomeFailed:
		return "", withSignature(ErrSubmissionFailed, sig.String(), detail)
	default:
		return "", withSignature(ErrConfirmationTimeout, sig.String(), errors.New("airdrop not confirmed"))
	}
}
