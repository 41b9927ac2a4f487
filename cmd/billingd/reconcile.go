package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/code-payments/flipchat-billing/playbilling"
)

var verbose bool

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Connect, reconcile the buyer's purchases and disconnect",
	Long: `Connect to the store service, catalog the configured products and drive
every owned purchase through consumption and acknowledgement.

Every listener event is logged as it arrives.`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable billing debug logging")
	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	env, err := setup(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	env.cfg.Billing.Logging = env.cfg.Billing.Logging || verbose

	env.log.Info("Starting reconciliation")
	pb := playbilling.New(ctx, env.log, env.cfg.Billing, env.client, &printer{log: env.log})
	pb.Wait()

	env.log.Info("Reconciliation finished", zap.Stringer("state", pb.State()))
	pb.Disconnect()
	return nil
}
