package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/code-payments/flipchat-billing/billing"
	"github.com/code-payments/flipchat-billing/billing/memory"
	"github.com/code-payments/flipchat-billing/billing/play"
	"github.com/code-payments/flipchat-billing/config"
	"github.com/code-payments/flipchat-billing/database/postgres"
	"github.com/code-payments/flipchat-billing/logger"
	"github.com/code-payments/flipchat-billing/receipt"
	receiptcache "github.com/code-payments/flipchat-billing/receipt/cache"
	receiptmemory "github.com/code-payments/flipchat-billing/receipt/memory"
	receiptpg "github.com/code-payments/flipchat-billing/receipt/postgres"
)

// environment is everything a command needs to talk to the store service.
type environment struct {
	cfg      *config.Config
	log      *zap.Logger
	client   billing.Client
	play     *play.Client
	receipts receipt.Store
	close    func()
}

func setup(ctx context.Context) (*environment, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	env := &environment{
		cfg:   cfg,
		log:   log,
		close: func() { _ = log.Sync() },
	}

	if err := env.openReceipts(ctx); err != nil {
		return nil, err
	}

	switch cfg.Play.Transport {
	case config.TransportPlay:
		var credentials []byte
		if cfg.Play.CredentialsFile != "" {
			credentials, err = os.ReadFile(cfg.Play.CredentialsFile)
			if err != nil {
				env.close()
				return nil, fmt.Errorf("failed to read credentials: %w", err)
			}
		}

		env.play = play.NewClient(log, play.Config{
			PackageName:     cfg.Play.PackageName,
			Owner:           cfg.Play.Owner,
			RegionCode:      cfg.Play.RegionCode,
			CredentialsJSON: credentials,
		}, env.receipts)
		env.client = env.play
	case config.TransportMemory:
		env.client = newDemoClient(cfg)
	default:
		env.close()
		return nil, fmt.Errorf("unknown transport %q", cfg.Play.Transport)
	}

	log.Debug("Billing environment ready", zap.String("transport", cfg.Play.Transport))
	return env, nil
}

func (env *environment) openReceipts(ctx context.Context) error {
	if env.cfg.Database.Enabled() {
		db, err := postgres.Open(ctx, env.cfg.Database)
		if err != nil {
			return err
		}
		if err := receiptpg.CreateSchema(ctx, db); err != nil {
			db.Close()
			return err
		}

		closeLog := env.close
		env.close = func() {
			db.Close()
			closeLog()
		}
		env.receipts = receiptpg.NewInPostgres(db)
	} else {
		env.receipts = receiptmemory.NewInMemory()
	}

	if env.cfg.Receipts.CacheTTL > 0 {
		env.receipts = receiptcache.NewInCache(env.receipts, env.cfg.Receipts.CacheTTL)
	}
	return nil
}

// newDemoClient seeds an in-memory store service with a product for every
// configured key and an unsettled purchase for every one-time product.
func newDemoClient(cfg *config.Config) *memory.Client {
	client := memory.NewClient()

	oneTime := append(append([]string(nil), cfg.Billing.NonConsumableKeys...), cfg.Billing.ConsumableKeys...)
	for _, productID := range oneTime {
		client.AddProduct(memory.OneTimeProduct(productID, productID, 990000, "USD"))
		client.AddPurchase(billing.ProductTypeInApp, &billing.Purchase{
			PackageName: cfg.Play.PackageName,
			Products:    []string{productID},
			State:       billing.PurchaseStatePurchased,
			Quantity:    1,
		})
	}

	for _, productID := range cfg.Billing.SubscriptionKeys {
		client.AddProduct(memory.SubscriptionProduct(productID, productID,
			memory.Offer("monthly", []string{"demo"}, memory.Phase(4990000, "USD", "P1M")),
		))
	}

	return client
}
