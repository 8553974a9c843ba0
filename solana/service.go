package solana

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DishankChauhan/Domain-Search/internal/common"
	"github.com/DishankChauhan/Domain-Search/internal/logger"
	"github.com/DishankChauhan/Domain-Search/internal/metrics"
	"github.com/DishankChauhan/Domain-Search/internal/model"
	"github.com/DishankChauhan/Domain-Search/internal/storage"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Options wires a Service. Network, Quotes and Store are required.
type Options struct {
	Network  Network
	Quotes   QuoteSource
	Store    storage.Store
	Injector Injector
	Mobile   MobileAdapter

	Merchant string
	Cluster  string
	Identity AppIdentity

	FallbackPrice        float64
	PriceRefreshInterval time.Duration
	PriceFetchTimeout    time.Duration
	ConnectTimeout       time.Duration
	SignTimeout          time.Duration
	ConfirmTimeout       time.Duration
	ConfirmPollInterval  time.Duration

	Logger  *zap.Logger
	Metrics metrics.Recorder
}

// Service is the wallet and payment surface used by the UI, the HTTP API and the CLI.
// Create one per process and pass it around.
type Service struct {
	sessions *SessionManager
	oracle   *PriceOracle
	balances *BalanceService
	ledger   *Ledger
	engine   *PaymentEngine
	merchant solana.PublicKey
	cluster  string
	log      *zap.Logger
}

func NewService(opts Options) (*Service, error) {
	if opts.Network == nil || opts.Quotes == nil || opts.Store == nil {
		return nil, errors.New("network, quote source and store are required")
	}
	merchant, err := solana.PublicKeyFromBase58(opts.Merchant)
	if err != nil {
		return nil, fmt.Errorf("invalid merchant address: %w", err)
	}
	if opts.ConfirmTimeout <= 0 {
		opts.ConfirmTimeout = defaultConfirmTimeout
	}
	if opts.ConfirmPollInterval <= 0 {
		opts.ConfirmPollInterval = defaultConfirmPollInterval
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NoopRecorder{}
	}
	log := logger.OrNop(opts.Logger)

	confirm := &confirmer{
		network:  opts.Network,
		timeout:  opts.ConfirmTimeout,
		interval: opts.ConfirmPollInterval,
		log:      log.Named("confirm"),
	}
	sessions := NewSessionManager(SessionOptions{
		Injector:       opts.Injector,
		Mobile:         opts.Mobile,
		Network:        opts.Network,
		Store:          opts.Store,
		Identity:       opts.Identity,
		Cluster:        opts.Cluster,
		ConnectTimeout: opts.ConnectTimeout,
		Logger:         log,
		Metrics:        opts.Metrics,
	})
	oracle := NewPriceOracle(opts.Quotes, OracleOptions{
		FallbackPrice:   opts.FallbackPrice,
		RefreshInterval: opts.PriceRefreshInterval,
		FetchTimeout:    opts.PriceFetchTimeout,
		Logger:          log,
	})
	balances := NewBalanceService(opts.Network, opts.Cluster, confirm, log)
	ledger := NewLedger(opts.Store, log)
	engine := NewPaymentEngine(sessions, oracle, balances, ledger, opts.Network, confirm, EngineOptions{
		Merchant:    merchant,
		Cluster:     opts.Cluster,
		SignTimeout: opts.SignTimeout,
		Logger:      log,
		Metrics:     opts.Metrics,
	})

	return &Service{
		sessions: sessions,
		oracle:   oracle,
		balances: balances,
		ledger:   ledger,
		engine:   engine,
		merchant: merchant,
		cluster:  opts.Cluster,
		log:      log,
	}, nil
}

// Start launches the background price refresh. It returns immediately.
func (s *Service) Start(ctx context.Context) {
	go s.oracle.Run(ctx)
}

// Close stops the background price refresh.
func (s *Service) Close() {
	s.oracle.Stop()
}

func (s *Service) DiscoverWallets() []model.WalletDescriptor {
	return s.sessions.DiscoverWallets()
}

func (s *Service) Connect(ctx context.Context, hint string) (*model.WalletSession, error) {
	return s.sessions.Connect(ctx, hint)
}

func (s *Service) Disconnect(ctx context.Context) error {
	return s.sessions.Disconnect(ctx)
}

func (s *Service) RestoreSession(ctx context.Context) (*model.WalletSession, error) {
	return s.sessions.RestoreSession(ctx)
}

// Session returns the active session, or nil.
func (s *Service) Session() *model.WalletSession {
	return s.sessions.Session()
}

// Balance returns the live balance of the connected wallet with its USD value.
func (s *Service) Balance(ctx context.Context) (*model.BalanceResponse, error) {
	session, _, err := s.sessions.active()
	if err != nil {
		return nil, err
	}
	lamports, err := s.balances.BalanceLamports(ctx, session)
	if err != nil {
		return nil, err
	}

	rate := s.oracle.Current()
	sol := common.LamportsToSOL(lamports)
	usd := decimal.NewFromUint64(lamports).Shift(-common.SOLDecimals).Mul(decimal.NewFromFloat(rate))

	return &model.BalanceResponse{
		Address:  session.PublicKey,
		SOL:      sol,
		Lamports: lamports,
		Rate:     rate,
		USD:      usd.StringFixed(2),
	}, nil
}

// RequestAirdrop funds the connected wallet on a test network.
func (s *Service) RequestAirdrop(ctx context.Context, amountSOL float64) (string, error) {
	session, _, err := s.sessions.active()
	if err != nil {
		return "", err
	}
	return s.balances.RequestAirdrop(ctx, session, amountSOL)
}

// RequestAirdropSOL funds the connected wallet with an exact decimal SOL amount such as "1.5".
// An empty amount requests the default.
func (s *Service) RequestAirdropSOL(ctx context.Context, amount string) (string, error) {
	var lamports uint64
	if amount != "" {
		n, err := common.SOLToLamports(amount)
		if err != nil {
			return "", wrap(ErrInvalidAmount, err)
		}
		if n == 0 {
			return "", ErrInvalidAmount
		}
		lamports = n
	}
	session, _, err := s.sessions.active()
	if err != nil {
		return "", err
	}
	return s.balances.RequestAirdropLamports(ctx, session, lamports)
}

func (s *Service) Pay(ctx context.Context, items []model.CartItem, fiatTotal float64) (*model.TransactionRecord, error) {
	return s.engine.Pay(ctx, items, fiatTotal)
}

func (s *Service) Reconcile(ctx context.Context, signature string) (*model.TransactionRecord, error) {
	return s.engine.Reconcile(ctx, signature)
}

func (s *Service) Pending(ctx context.Context) ([]model.PendingPayment, error) {
	return s.engine.Pending(ctx)
}

func (s *Service) History(ctx context.Context) ([]model.TransactionRecord, error) {
	return s.ledger.All(ctx)
}

func (s *Service) PurchasedDomains(ctx context.Context) ([]model.CartItem, error) {
	return s.ledger.PurchasedDomains(ctx)
}

func (s *Service) Summary(ctx context.Context) (model.LedgerSummary, error) {
	return s.ledger.Summary(ctx)
}

// Price returns the quote used for conversions. FetchedAt is zero while on the fallback price.
func (s *Service) Price() model.PriceQuote {
	q, _ := s.oracle.Quote()
	return q
}

// RefreshPrice fetches a new quote right away.
func (s *Service) RefreshPrice(ctx context.Context) model.PriceQuote {
	s.oracle.Refresh(ctx)
	return s.Price()
}

func (s *Service) ConvertUSD(usd float64) float64 {
	return s.oracle.Convert(usd)
}

func (s *Service) ExplorerURL(signature string) string {
	return common.ExplorerURL(signature, s.cluster)
}

func (s *Service) FormatAddress(address string, chars int) string {
	return common.FormatAddress(address, chars)
}

func (s *Service) MerchantAddress() string {
	return s.merchant.String()
}

func (s *Service) Cluster() string {
	return s.cluster
}
