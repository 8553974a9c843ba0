package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/DishankChauhan/Domain-Search/internal/config"
	"github.com/DishankChauhan/Domain-Search/internal/crypto"
	"github.com/DishankChauhan/Domain-Search/internal/metrics"
	"github.com/DishankChauhan/Domain-Search/solana"

	"github.com/spf13/cobra"
)

var (
	generateOut      string
	generateRemember bool
	generateQR       string
	airdropAmount    string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Create an encrypted .cwt keystore",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := generateOut
		if path == "" {
			path = cfg.WalletFilePath
		}
		if err := config.PromptForPassword(); err != nil {
			return err
		}
		pw, err := config.GetWalletPasswordBytes()
		if err != nil {
			return err
		}
		defer clear(pw)

		resp, err := solana.GenerateWallet(path, cfg.SolanaCluster, pw, crypto.DefaultKDF)
		if err != nil {
			if solana.IsFileExistsError(err) {
				return fmt.Errorf("keystore %s already exists, refusing to overwrite", path)
			}
			return err
		}

		if generateRemember {
			if err := config.RememberPassword(resp.Address); err != nil {
				return err
			}
		}
		if generateQR != "" {
			png, err := solana.QRCodePNG(resp.Address)
			if err != nil {
				return err
			}
			if err := os.WriteFile(generateQR, png, 0o644); err != nil {
				return fmt.Errorf("failed to write QR code: %w", err)
			}
		}
		return printJSON(cmd, resp)
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the connected wallet balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, closeSvc, err := buildService(ctx, metrics.NoopRecorder{})
		if err != nil {
			return err
		}
		defer closeSvc()

		if err := ensureSession(ctx, svc); err != nil {
			return err
		}
		svc.RefreshPrice(ctx)
		balance, err := svc.Balance(ctx)
		if err != nil {
			return err
		}
		return printJSON(cmd, balance)
	},
}

var airdropCmd = &cobra.Command{
	Use:   "airdrop",
	Short: "Request test SOL on devnet or testnet",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, closeSvc, err := buildService(ctx, metrics.NoopRecorder{})
		if err != nil {
			return err
		}
		defer closeSvc()

		if err := ensureSession(ctx, svc); err != nil {
			return err
		}
		sig, err := svc.RequestAirdropSOL(ctx, airdropAmount)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), svc.ExplorerURL(sig))
		return nil
	},
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Forget the persisted wallet session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, closeSvc, err := buildService(ctx, metrics.NoopRecorder{})
		if err != nil {
			return err
		}
		defer closeSvc()

		session, err := svc.RestoreSession(ctx)
		if err != nil {
			return err
		}
		if session == nil {
			return errors.New("no wallet session to disconnect")
		}
		return svc.Disconnect(ctx)
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "keystore path (default WALLET_FILE_PATH)")
	generateCmd.Flags().BoolVar(&generateRemember, "remember", false, "store the password in the OS keyring")
	generateCmd.Flags().StringVar(&generateQR, "qr", "", "also write the address QR code to this PNG file")

	airdropCmd.Flags().StringVar(&airdropAmount, "amount", "", "SOL to request, e.g. 1.5 (default 2)")
}
