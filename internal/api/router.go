package api

import (
	"net/http"
	"time"

	_ "github.com/DishankChauhan/Domain-Search/docs"
	"github.com/DishankChauhan/Domain-Search/internal/handler"
	"github.com/DishankChauhan/Domain-Search/internal/logger"

	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// SetupRouter sets up router with handlers.
// metrics may be nil, in which case /metrics is not served.
func SetupRouter(walletHandler *handler.WalletHandler, metrics http.Handler, log *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}

	// Wallet endpoints
	mux.HandleFunc("/wallet/discover", walletHandler.Discover)
	mux.HandleFunc("/wallet/connect", walletHandler.Connect)
	mux.HandleFunc("/wallet/disconnect", walletHandler.Disconnect)
	mux.HandleFunc("/wallet/session", walletHandler.Session)
	mux.HandleFunc("/wallet/balance", walletHandler.GetBalance)
	mux.HandleFunc("/wallet/airdrop", walletHandler.Airdrop)

	// Payment endpoints
	mux.HandleFunc("/pay", walletHandler.Pay)
	mux.HandleFunc("/pay/reconcile", walletHandler.Reconcile)
	mux.HandleFunc("/pay/pending", walletHandler.Pending)
	mux.HandleFunc("/merchant", walletHandler.Merchant)

	// History and price endpoints
	mux.HandleFunc("/history", walletHandler.History)
	mux.HandleFunc("/domains", walletHandler.Domains)
	mux.HandleFunc("/price", walletHandler.Price)
	mux.HandleFunc("/explorer/{signature}", walletHandler.Explorer)

	return withRequestLog(mux, logger.OrNop(log).Named("http"))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func withRequestLog(next http.Handler, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)),
		)
	})
}
