package cmd

import (
	"context"
	"fmt"

	"github.com/DishankChauhan/Domain-Search/internal/client"
	"github.com/DishankChauhan/Domain-Search/internal/config"
	"github.com/DishankChauhan/Domain-Search/internal/crypto"
	"github.com/DishankChauhan/Domain-Search/internal/metrics"
	"github.com/DishankChauhan/Domain-Search/internal/storage"
	"github.com/DishankChauhan/Domain-Search/solana"

	"go.uber.org/zap"
)

// keystorePassword resolves the keystore password lazily: memory first,
// then the OS keyring, then an interactive prompt.
func keystorePassword(path string) solana.PasswordFunc {
	return func() ([]byte, error) {
		if pw, err := config.GetWalletPasswordBytes(); err == nil {
			return pw, nil
		}
		address, err := crypto.ReadWalletAddress(path)
		if err != nil {
			return nil, err
		}
		found, err := config.LoadPasswordFromKeyring(address)
		if err != nil {
			log.Warn("keyring unavailable, falling back to prompt", zap.Error(err))
		}
		if !found {
			if err := config.PromptForPassword(); err != nil {
				return nil, err
			}
		}
		return config.GetWalletPasswordBytes()
	}
}

// buildService wires storage, the RPC and price clients and the local keystore wallet
// into a Service. The returned close func releases the store.
func buildService(ctx context.Context, recorder metrics.Recorder) (*solana.Service, func(), error) {
	store, err := storage.Open(ctx, storage.Options{
		Driver:   cfg.StorageDriver,
		Path:     cfg.StoragePath,
		RedisURL: cfg.RedisURL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}

	wallet := solana.NewLocalWallet(cfg.WalletFilePath, keystorePassword(cfg.WalletFilePath))
	svc, err := solana.NewService(solana.Options{
		Network:  client.NewSolanaClient(cfg.SolanaRPCURL, cfg.RPCTimeout),
		Quotes:   client.NewCoinGeckoClient(cfg.PriceAPIURL, cfg.PriceFetchTimeout),
		Store:    store,
		Injector: solana.LocalInjector{Wallet: wallet},
		Merchant: cfg.MerchantWallet,
		Cluster:  cfg.SolanaCluster,
		Identity: solana.AppIdentity{
			Name: cfg.AppName,
			URI:  cfg.AppURI,
			Icon: cfg.AppIcon,
		},
		FallbackPrice:        cfg.FallbackSOLPrice,
		PriceRefreshInterval: cfg.PriceRefreshInterval,
		PriceFetchTimeout:    cfg.PriceFetchTimeout,
		ConnectTimeout:       cfg.ConnectTimeout,
		SignTimeout:          cfg.SignTimeout,
		ConfirmTimeout:       cfg.ConfirmTimeout,
		ConfirmPollInterval:  cfg.ConfirmPollInterval,
		Logger:               log,
		Metrics:              recorder,
	})
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return svc, func() {
		svc.Close()
		store.Close()
	}, nil
}

// ensureSession restores the persisted session or connects the local keystore.
func ensureSession(ctx context.Context, svc *solana.Service) error {
	session, err := svc.RestoreSession(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		_, err = svc.Connect(ctx, "auto")
	}
	return err
}
