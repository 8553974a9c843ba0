package solana

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/DishankChauhan/Domain-Search/internal/common"
	"github.com/DishankChauhan/Domain-Search/internal/logger"
	"github.com/DishankChauhan/Domain-Search/internal/metrics"
	"github.com/DishankChauhan/Domain-Search/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultSignTimeout = 2 * time.Minute

// EngineOptions configures a PaymentEngine.
type EngineOptions struct {
	Merchant    solana.PublicKey
	Cluster     string
	SignTimeout time.Duration
	Logger      *zap.Logger
	Metrics     metrics.Recorder
}

// PaymentEngine runs one payment attempt at a time: balance check, fresh blockhash,
// build, sign, submit, confirm, and only then the ledger append.
type PaymentEngine struct {
	sessions    *SessionManager
	oracle      *PriceOracle
	balances    *BalanceService
	ledger      *Ledger
	pending     *pendingBook
	network     Network
	confirm     *confirmer
	merchant    solana.PublicKey
	cluster     string
	signTimeout time.Duration
	log         *zap.Logger
	metrics     metrics.Recorder

	inFlight chan struct{}
}

func NewPaymentEngine(
	sessions *SessionManager,
	oracle *PriceOracle,
	balances *BalanceService,
	ledger *Ledger,
	network Network,
	confirm *confirmer,
	opts EngineOptions,
) *PaymentEngine {
	if opts.SignTimeout <= 0 {
		opts.SignTimeout = defaultSignTimeout
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NoopRecorder{}
	}
	return &PaymentEngine{
		sessions:    sessions,
		oracle:      oracle,
		balances:    balances,
		ledger:      ledger,
		pending:     &pendingBook{store: ledger.store},
		network:     network,
		confirm:     confirm,
		merchant:    opts.Merchant,
		cluster:     opts.Cluster,
		signTimeout: opts.SignTimeout,
		log:         logger.OrNop(opts.Logger).Named("pay"),
		metrics:     opts.Metrics,
		inFlight:    make(chan struct{}, 1),
	}
}

// Pay charges fiatTotal in SOL to the active wallet and records the confirmed transaction.
// There is no automatic retry. A ConfirmationTimeout error carries the signature and the
// payment is kept as pending until Reconcile resolves it.
func (e *PaymentEngine) Pay(ctx context.Context, items []model.CartItem, fiatTotal float64) (*model.TransactionRecord, error) {
	select {
	case e.inFlight <- struct{}{}:
		defer func() { <-e.inFlight }()
	default:
		return nil, ErrPaymentInProgress
	}

	attemptID := uuid.NewString()
	log := e.log.With(zap.String("attempt", attemptID))
	start := time.Now()

	record, err := e.pay(ctx, log, items, fiatTotal)

	labels := map[string]string{"cluster": e.cluster, "outcome": "confirmed"}
	if err != nil {
		labels["outcome"] = string(CodeOf(err))
		log.Warn("payment failed", zap.Error(err), zap.String("signature", SignatureOf(err)))
	}
	e.metrics.IncCounter("payment", labels)
	e.metrics.ObserveLatency("payment", time.Since(start), labels)
	return record, err
}

func (e *PaymentEngine) pay(ctx context.Context, log *zap.Logger, items []model.CartItem, fiatTotal float64) (*model.TransactionRecord, error) {
	if fiatTotal <= 0 || math.IsNaN(fiatTotal) || math.IsInf(fiatTotal, 0) {
		return nil, wrap(ErrInvalidAmount, fmt.Errorf("total must be positive, got %v", fiatTotal))
	}

	// The session and signer are snapshotted so a disconnect cannot affect this attempt.
	session, signer, err := e.sessions.active()
	if err != nil {
		return nil, err
	}
	from, err := solana.PublicKeyFromBase58(session.PublicKey)
	if err != nil {
		return nil, wrap(ErrNoWalletConnected, err)
	}

	nativeAmount := e.oracle.Convert(fiatTotal)
	lamports, err := common.FloorSOLToLamports(nativeAmount)
	if err != nil {
		return nil, wrap(ErrInvalidAmount, err)
	}
	if lamports == 0 {
		return nil, wrap(ErrInvalidAmount, errors.New("amount is below one lamport"))
	}

	balance, err := e.balances.BalanceLamports(ctx, session)
	if err != nil {
		return nil, err
	}
	if balance < lamports {
		return nil, &Error{
			Code: CodeInsufficientBalance,
			Message: fmt.Sprintf("insufficient SOL balance: have %s SOL, need %s SOL",
				common.LamportsToSOL(balance), common.LamportsToSOL(lamports)),
		}
	}

	intent := model.TransferIntent{
		From:         session,
		To:           e.merchant.String(),
		NativeAmount: common.LamportsToSOLFloat(lamports),
		Lamports:     lamports,
		Items:        slices.Clone(items),
	}

	// Every attempt gets its own blockhash, fetched right before the build.
	blockhash, err := e.network.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, wrap(ErrNetwork, err)
	}
	tx, err := buildTransfer(from, e.merchant, lamports, blockhash)
	if err != nil {
		return nil, wrap(ErrSubmissionFailed, err)
	}

	log.Info("requesting wallet signature",
		zap.String("wallet", session.WalletID),
		zap.Uint64("lamports", lamports),
		zap.Float64("usd", fiatTotal),
	)

	// From here on the attempt runs to a result or its own timeout, whatever the caller does.
	detached := context.WithoutCancel(ctx)
	sig, err := callWithTimeout(detached, e.signTimeout, func(ctx context.Context) (solana.Signature, error) {
		return signer.SignAndSubmit(ctx, tx)
	})
	if err != nil {
		if sig != (solana.Signature{}) {
			// The network may hold the transaction. Reconcile settles it.
			e.keepPending(detached, log, sig, intent, fiatTotal)
		}
		return nil, classifySubmitError(err)
	}
	log.Info("transaction submitted", zap.Stringer("signature", sig))

	outcome, detail := e.confirm.await(detached, sig)
	switch outcome {
	case outcomeFailed:
		return nil, withSignature(ErrSubmissionFailed, sig.String(), detail)
	case outcomeTimeout:
		e.keepPending(detached, log, sig, intent, fiatTotal)
		return nil, withSignature(ErrConfirmationTimeout, sig.String(), nil)
	}

	record := newRecord(sig.String(), intent, fiatTotal, time.Now())
	if err := e.ledger.Append(detached, record); err != nil {
		// Confirmed on chain but not recorded: keep it so Reconcile can append it later.
		e.keepPending(detached, log, sig, intent, fiatTotal)
		return nil, withSignature(ErrPersistence, sig.String(), err)
	}
	return &record, nil
}

func (e *PaymentEngine) keepPending(ctx context.Context, log *zap.Logger, sig solana.Signature, intent model.TransferIntent, fiatTotal float64) {
	err := e.pending.add(ctx, model.PendingPayment{
		Signature:   sig.String(),
		Lamports:    intent.Lamports,
		FiatAmount:  fiatTotal,
		Items:       intent.Items,
		From:        intent.From.PublicKey,
		To:          intent.To,
		SubmittedAt: time.Now(),
		WalletType:  intent.From.WalletID,
	})
	if err != nil {
		log.Error("failed to save pending payment", zap.Stringer("signature", sig), zap.Error(err))
	}
}

// Reconcile checks a pending payment once more. A confirmed payment moves to the ledger,
// a failed one is dropped, and one still unknown stays pending.
func (e *PaymentEngine) Reconcile(ctx context.Context, signature string) (*model.TransactionRecord, error) {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return nil, wrap(ErrPendingNotFound, err)
	}
	p, ok, err := e.pending.get(ctx, signature)
	if err != nil {
		return nil, wrap(ErrPersistence, err)
	}
	if !ok {
		return nil, ErrPendingNotFound
	}

	outcome, detail := e.confirm.check(ctx, sig)
	switch outcome {
	case outcomePending:
		if detail != nil {
			return nil, withSignature(ErrNetwork, signature, detail)
		}
		return nil, withSignature(ErrConfirmationTimeout, signature, nil)
	case outcomeFailed:
		if err := e.pending.remove(ctx, signature); err != nil {
			return nil, withSignature(ErrPersistence, signature, err)
		}
		return nil, withSignature(ErrSubmissionFailed, signature, detail)
	}

	intent := model.TransferIntent{
		From:         model.WalletSession{PublicKey: p.From, WalletID: p.WalletType},
		To:           p.To,
		NativeAmount: common.LamportsToSOLFloat(p.Lamports),
		Lamports:     p.Lamports,
		Items:        p.Items,
	}
	record := newRecord(signature, intent, p.FiatAmount, time.Now())
	if err := e.ledger.Append(ctx, record); err != nil && !errors.Is(err, ErrDuplicateSignature) {
		return nil, withSignature(ErrPersistence, signature, err)
	}
	if err := e.pending.remove(ctx, signature); err != nil {
		return nil, withSignature(ErrPersistence, signature, err)
	}

	e.log.Info("pending payment reconciled", zap.String("signature", signature))
	return &record, nil
}

// Pending lists payments submitted but not yet confirmed.
func (e *PaymentEngine) Pending(ctx context.Context) ([]model.PendingPayment, error) {
	list, err := e.pending.list(ctx)
	if err != nil {
		return nil, wrap(ErrPersistence, err)
	}
	return list, nil
}

func buildTransfer(from, to solana.PublicKey, lamports uint64, blockhash solana.Hash) (*solana.Transaction, error) {
	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(lamports, from, to).Build(),
		},
		blockhash,
		solana.TransactionPayer(from),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return tx, nil
}

func newRecord(signature string, intent model.TransferIntent, fiatTotal float64, at time.Time) model.TransactionRecord {
	return model.TransactionRecord{
		Signature:    signature,
		NativeAmount: intent.NativeAmount,
		Lamports:     intent.Lamports,
		FiatAmount:   fiatTotal,
		Items:        intent.Items,
		From:         intent.From.PublicKey,
		To:           intent.To,
		Timestamp:    at,
		Status:       model.TransactionStatusConfirmed,
		WalletType:   intent.From.WalletID,
	}
}
