package cmd

import (
	"github.com/DishankChauhan/Domain-Search/internal/metrics"
	"github.com/DishankChauhan/Domain-Search/internal/model"

	"github.com/spf13/cobra"
)

var priceUSD float64

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List confirmed purchases, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, closeSvc, err := buildService(ctx, metrics.NoopRecorder{})
		if err != nil {
			return err
		}
		defer closeSvc()

		records, err := svc.History(ctx)
		if err != nil {
			return err
		}
		summary, err := svc.Summary(ctx)
		if err != nil {
			return err
		}
		return printJSON(cmd, model.HistoryResponse{Summary: summary, Transactions: records})
	},
}

var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "List every purchased domain",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, closeSvc, err := buildService(ctx, metrics.NoopRecorder{})
		if err != nil {
			return err
		}
		defer closeSvc()

		domains, err := svc.PurchasedDomains(ctx)
		if err != nil {
			return err
		}
		return printJSON(cmd, domains)
	},
}

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Fetch the SOL/USD rate",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, closeSvc, err := buildService(ctx, metrics.NoopRecorder{})
		if err != nil {
			return err
		}
		defer closeSvc()

		quote := svc.RefreshPrice(ctx)
		resp := model.PriceResponse{
			Rate:      quote.NativeToFiat,
			FetchedAt: quote.FetchedAt,
			Live:      !quote.FetchedAt.IsZero(),
		}
		if priceUSD > 0 {
			resp.USD = priceUSD
			resp.SOL = svc.ConvertUSD(priceUSD)
		}
		return printJSON(cmd, resp)
	},
}

func init() {
	priceCmd.Flags().Float64Var(&priceUSD, "usd", 0, "USD amount to convert to SOL")
}
