package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DishankChauhan/Domain-Search/internal/api"
	"github.com/DishankChauhan/Domain-Search/internal/handler"
	"github.com/DishankChauhan/Domain-Search/internal/metrics"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the wallet and payment HTTP API",
	Long: `Starts the HTTP API with Swagger UI at /swagger/.
The keystore password is read from the OS keyring, or prompted once at startup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var (
			recorder       metrics.Recorder = metrics.NoopRecorder{}
			metricsHandler http.Handler
		)
		if cfg.MetricsEnabled {
			prom := metrics.NewPrometheusRecorder()
			recorder, metricsHandler = prom, prom.Handler()
		}

		svc, closeSvc, err := buildService(ctx, recorder)
		if err != nil {
			return err
		}
		defer closeSvc()

		// Unlock up front so signing never blocks on a terminal prompt mid-request.
		if _, err := os.Stat(cfg.WalletFilePath); err == nil {
			pw, err := keystorePassword(cfg.WalletFilePath)()
			if err != nil {
				return err
			}
			clear(pw)
		} else {
			log.Warn("no keystore found, run generate to create one", zap.String("path", cfg.WalletFilePath))
		}

		svc.Start(ctx)
		if session, err := svc.RestoreSession(ctx); err != nil {
			log.Warn("failed to restore wallet session", zap.Error(err))
		} else if session != nil {
			log.Info("wallet session restored", zap.String("publicKey", session.PublicKey))
		}

		router := api.SetupRouter(handler.NewWalletHandler(svc, log), metricsHandler, log)
		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("server starting",
				zap.String("port", cfg.Port),
				zap.String("cluster", cfg.SolanaCluster),
				zap.String("swagger", "http://localhost:"+cfg.Port+"/swagger/index.html"),
			)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
