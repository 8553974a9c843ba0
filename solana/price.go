package solana

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DishankChauhan/Domain-Search/internal/logger"
	"github.com/DishankChauhan/Domain-Search/internal/model"

	"go.uber.org/zap"
)

const (
	DefaultFallbackPrice = 100.0

	defaultRefreshInterval = 5 * time.Minute
	defaultFetchTimeout    = 10 * time.Second
)

// QuoteSource returns the current SOL price in USD.
// Implemented by client.CoinGeckoClient.
type QuoteSource interface {
	GetSOLtoUSDrate(ctx context.Context) (float64, error)
}

// OracleOptions configures a PriceOracle.
type OracleOptions struct {
	FallbackPrice   float64
	RefreshInterval time.Duration
	FetchTimeout    time.Duration
	Logger          *zap.Logger
}

// PriceOracle keeps a best-effort SOL/USD rate. Readers never block and never see an error.
type PriceOracle struct {
	source   QuoteSource
	quote    atomic.Pointer[model.PriceQuote]
	fallback float64
	interval time.Duration
	timeout  time.Duration
	log      *zap.Logger

	stopChan chan struct{}
	stopOnce sync.Once
}

func NewPriceOracle(source QuoteSource, opts OracleOptions) *PriceOracle {
	if opts.FallbackPrice <= 0 {
		opts.FallbackPrice = DefaultFallbackPrice
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = defaultRefreshInterval
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}
	return &PriceOracle{
		source:   source,
		fallback: opts.FallbackPrice,
		interval: opts.RefreshInterval,
		timeout:  opts.FetchTimeout,
		log:      logger.OrNop(opts.Logger).Named("price"),
		stopChan: make(chan struct{}),
	}
}

// Refresh fetches a new rate. On failure the cached quote is kept and the error is only logged.
func (o *PriceOracle) Refresh(ctx context.Context) {
	rate, err := callWithTimeout(ctx, o.timeout, o.source.GetSOLtoUSDrate)
	if err != nil {
		o.log.Warn("failed to refresh SOL price, keeping cached rate",
			zap.Float64("rate", o.Current()),
			zap.Error(err),
		)
		return
	}
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		o.log.Warn("ignoring invalid SOL price", zap.Float64("rate", rate))
		return
	}

	o.quote.Store(&model.PriceQuote{NativeToFiat: rate, FetchedAt: time.Now()})
	o.log.Debug("SOL price refreshed", zap.Float64("rate", rate))
}

// Current returns the cached rate, or the fallback price before the first successful fetch.
func (o *PriceOracle) Current() float64 {
	if q := o.quote.Load(); q != nil {
		return q.NativeToFiat
	}
	return o.fallback
}

// Quote returns the cached quote. ok is false while only the fallback is available.
func (o *PriceOracle) Quote() (quote model.PriceQuote, ok bool) {
	if q := o.quote.Load(); q != nil {
		return *q, true
	}
	return model.PriceQuote{NativeToFiat: o.fallback}, false
}

// Convert returns the SOL amount worth usd at the current rate.
func (o *PriceOracle) Convert(usd float64) float64 {
	return usd / o.Current()
}

// Run refreshes once and then on every interval until ctx is done or Stop is called.
func (o *PriceOracle) Run(ctx context.Context) {
	o.log.Info("starting price oracle", zap.Duration("interval", o.interval))
	o.Refresh(ctx)

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			o.Refresh(ctx)
		case <-o.stopChan:
			o.log.Info("stopping price oracle")
			return
		case <-ctx.Done():
			o.log.Info("context cancelled, stopping price oracle")
			return
		}
	}
}

// Stop ends Run. Safe to call more than once.
func (o *PriceOracle) Stop() {
	o.stopOnce.Do(func() { close(o.stopChan) })
}
