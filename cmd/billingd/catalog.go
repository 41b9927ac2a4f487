package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/code-payments/flipchat-billing/billing"
	"github.com/code-payments/flipchat-billing/playbilling"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the resolved product catalog",
	RunE:  runCatalog,
}

func init() {
	RootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	env, err := setup(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	pb := playbilling.New(ctx, env.log, env.cfg.Billing, env.client, billing.NopListener{})
	pb.Wait()
	defer pb.Disconnect()

	if pb.State() != billing.StateConnected {
		return fmt.Errorf("store service not connected: %s", pb.State())
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tPRODUCT\tTITLE\tPRICE\tOFFERS")
	for _, category := range []billing.Category{
		billing.CategoryNonConsumable,
		billing.CategoryConsumable,
		billing.CategorySubscription,
	} {
		for _, entry := range pb.Catalog().Entries(category) {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				category,
				entry.ProductID,
				entry.Detail.Title,
				price(entry.Detail),
				deref(entry.Detail.OfferTokens),
			)
		}
	}
	return w.Flush()
}

func price(detail *billing.OfferDetail) string {
	if detail.OneTimePurchaseOfferDetails != nil {
		return detail.OneTimePurchaseOfferDetails.FormattedPrice
	}
	if detail.SumPriceAmountMicros != nil {
		return billing.MicrosToDecimal(*detail.SumPriceAmountMicros).StringFixed(2) + " " + deref(detail.PriceCurrencyCodes)
	}
	return "-"
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
