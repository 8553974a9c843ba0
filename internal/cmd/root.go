package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/DishankChauhan/Domain-Search/internal/config"
	"github.com/DishankChauhan/Domain-Search/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "domainswipe",
	Short: "DomainSwipe wallet and payment node",
	Long: `Connects a Solana wallet, prices domain carts in SOL and settles them on-chain.

Configuration comes from the environment (and a .env file when present).
The local .cwt keystore acts as the injected wallet for the API and the CLI.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(); err != nil {
			return err
		}
		cfg = config.Get()

		l, err := logger.New(cfg.LogLevel)
		if err != nil {
			return err
		}
		log = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(airdropCmd)
	rootCmd.AddCommand(payCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(domainsCmd)
	rootCmd.AddCommand(priceCmd)
	rootCmd.AddCommand(disconnectCmd)
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
