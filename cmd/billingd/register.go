package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/code-payments/flipchat-billing/billing"
	"github.com/code-payments/flipchat-billing/playbilling"
	"github.com/code-payments/flipchat-billing/receipt"
)

var (
	registerToken       string
	registerProductID   string
	registerProductType string
	registerOwner       string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Record a purchase token and fulfill it",
	Long: `Record a purchase token reported by the buyer's device as a receipt and
deliver it as a live purchase update. Requires the play transport.

Example:
  billingd register --token <purchase token> --product coin_pack --type inapp`,
	RunE: runRegister,
}

func init() {
	registerCmd.Flags().StringVar(&registerToken, "token", "", "Purchase token")
	registerCmd.Flags().StringVar(&registerProductID, "product", "", "Product id")
	registerCmd.Flags().StringVar(&registerProductType, "type", string(billing.ProductTypeInApp), "Product type (inapp or subs)")
	registerCmd.Flags().StringVar(&registerOwner, "owner", "", "Receipt owner (defaults to PLAY_OWNER)")
	_ = registerCmd.MarkFlagRequired("token")
	_ = registerCmd.MarkFlagRequired("product")

	RootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	productType := billing.ProductType(registerProductType)
	if productType != billing.ProductTypeInApp && productType != billing.ProductTypeSubs {
		return errors.New("product type must be inapp or subs")
	}

	env, err := setup(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	if env.play == nil {
		return errors.New("register requires the play transport")
	}

	owner := registerOwner
	if owner == "" {
		owner = env.cfg.Play.Owner
	}

	pb := playbilling.New(ctx, env.log, env.cfg.Billing, env.client, &printer{log: env.log})
	pb.Wait()
	defer pb.Disconnect()

	err = env.play.Register(ctx, &receipt.Receipt{
		Token:       registerToken,
		Owner:       owner,
		ProductID:   registerProductID,
		ProductType: productType,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return err
	}
	pb.Wait()

	env.log.Info("Purchase registered",
		zap.String("product_id", registerProductID),
		zap.String("owner", owner),
	)
	return nil
}
