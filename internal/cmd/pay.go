package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/DishankChauhan/Domain-Search/internal/metrics"
	"github.com/DishankChauhan/Domain-Search/internal/model"
	"github.com/DishankChauhan/Domain-Search/solana"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var payCmd = &cobra.Command{
	Use:     "pay DOMAIN=PRICE...",
	Short:   "Pay for domains with the connected wallet",
	Example: "  domainswipe pay example.com=12.99 swipe.io=39",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		items, total, err := parseCart(args)
		if err != nil {
			return err
		}

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

		record, err := svc.Pay(ctx, items, total)
		if err != nil {
			if sig := solana.SignatureOf(err); sig != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "transaction %s\nreconcile later with: domainswipe reconcile %s\n", svc.ExplorerURL(sig), sig)
			}
			return err
		}
		return printJSON(cmd, model.PayResponse{
			Transaction: *record,
			ExplorerURL: svc.ExplorerURL(record.Signature),
		})
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile [SIGNATURE]",
	Short: "Settle payments that timed out waiting for confirmation",
	Long:  "Checks one pending payment, or all of them when no signature is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, closeSvc, err := buildService(ctx, metrics.NoopRecorder{})
		if err != nil {
			return err
		}
		defer closeSvc()

		sigs := args
		if len(sigs) == 0 {
			pending, err := svc.Pending(ctx)
			if err != nil {
				return err
			}
			for _, p := range pending {
				sigs = append(sigs, p.Signature)
			}
		}

		var records []model.TransactionRecord
		for _, sig := range sigs {
			record, err := svc.Reconcile(ctx, sig)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", sig, err)
				continue
			}
			records = append(records, *record)
		}
		return printJSON(cmd, records)
	},
}

// parseCart turns DOMAIN=PRICE arguments into cart items and their USD total.
func parseCart(args []string) ([]model.CartItem, float64, error) {
	items := make([]model.CartItem, 0, len(args))
	total := decimal.Zero
	for i, arg := range args {
		name, priceStr, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, 0, fmt.Errorf("invalid cart item %q: want DOMAIN=PRICE", arg)
		}
		price, err := decimal.NewFromString(priceStr)
		if err != nil || price.IsNegative() {
			return nil, 0, fmt.Errorf("invalid price in %q", arg)
		}
		ext := ""
		if dot := strings.Index(name, "."); dot >= 0 {
			ext = name[dot:]
		}
		items = append(items, model.CartItem{
			ID:        strconv.Itoa(i + 1),
			Name:      name,
			PriceUSD:  price.InexactFloat64(),
			Extension: ext,
		})
		total = total.Add(price)
	}
	return items, total.InexactFloat64(), nil
}
