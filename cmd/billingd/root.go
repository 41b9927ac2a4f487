package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/code-payments/flipchat-billing/logger"
)

var configDir string

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "billingd",
	Short: "Store billing reconciliation",
	Long: `billingd connects to the store service, catalogs the configured products
and reconciles the buyer's purchases through consumption and acknowledgement.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
		if logErr != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		l.Error("command failed", zap.Error(err))
		_ = l.Sync()
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "Directory containing the .env file")
}
