package playbilling

import (
	"context"

	"go.uber.org/zap"

	"github.com/code-payments/flipchat-billing/billing"
	"github.com/code-payments/flipchat-billing/logger"
)

// Config holds the product keys and logging setting of a billing client.
type Config struct {
	// NonConsumableKeys are product ids that are bought once and kept.
	NonConsumableKeys []string `mapstructure:"non_consumable_keys" default:""`
	// ConsumableKeys are product ids that can be bought repeatedly.
	ConsumableKeys []string `mapstructure:"consumable_keys" default:""`
	// SubscriptionKeys are subscription product ids.
	SubscriptionKeys []string `mapstructure:"subscription_keys" default:""`
	// Logging enables billing log output.
	Logging bool `mapstructure:"logging" default:"false"`
}

func (c Config) Keys() billing.ProductKeys {
	return billing.ProductKeys{
		NonConsumable: c.NonConsumableKeys,
		Consumable:    c.ConsumableKeys,
		Subscription:  c.SubscriptionKeys,
	}
}

// PlayBilling is the host-facing billing client. It connects on creation
// and reports everything to the listener it was created with.
type PlayBilling struct {
	coordinator *billing.Coordinator
	logging     *logger.Switch
}

func New(ctx context.Context, log *zap.Logger, cfg Config, client billing.Client, listener billing.Listener) *PlayBilling {
	gated, logging := logger.NewSwitch(log.Named("billing"), cfg.Logging)

	pb := &PlayBilling{
		coordinator: billing.NewCoordinator(gated, client, listener, cfg.Keys()),
		logging:     logging,
	}
	pb.coordinator.Connect(ctx)
	return pb
}

func (pb *PlayBilling) Buy(ctx context.Context, activity billing.Activity, productID string, productType billing.ProductType) {
	pb.coordinator.Buy(ctx, activity, productID, productType)
}

func (pb *PlayBilling) Disconnect() {
	pb.coordinator.Disconnect()
}

func (pb *PlayBilling) EnableLogging(enabled bool) {
	pb.logging.Enable(enabled)
}

func (pb *PlayBilling) State() billing.State {
	return pb.coordinator.State()
}

func (pb *PlayBilling) Catalog() *billing.Catalog {
	return pb.coordinator.Catalog()
}

// Wait blocks until outstanding store calls have completed.
func (pb *PlayBilling) Wait() {
	pb.coordinator.Wait()
}
