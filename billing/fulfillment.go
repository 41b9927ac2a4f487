package billing

import (
	"context"

	"go.uber.org/zap"
)

// Outcome records which completion calls a Fulfill attempt made and which
// of them succeeded.
type Outcome struct {
	Consumed             bool
	AcknowledgeAttempted bool
	Acknowledged         bool
}

// Fulfiller completes purchases against the store service.
//
// Every purchase is consumed, whatever its category, and purchased but
// unacknowledged purchases are also acknowledged. Failed calls are dropped;
// the purchase stays eligible for the next reconciliation.
type Fulfiller struct {
	log      *zap.Logger
	client   Client
	listener Listener
}

func NewFulfiller(log *zap.Logger, client Client, listener Listener) *Fulfiller {
	return &Fulfiller{
		log:      log,
		client:   client,
		listener: listener,
	}
}

func (f *Fulfiller) Fulfill(ctx context.Context, purchase *Purchase, category Category) Outcome {
	log := f.log.With(
		zap.String("purchase_token", purchase.PurchaseToken),
		zap.String("category", category.String()),
	)

	var outcome Outcome

	if err := f.client.Consume(ctx, purchase.PurchaseToken); err != nil {
		log.Debug("Consume rejected", zap.Error(err))
	} else {
		outcome.Consumed = true
		f.notify(ctx, log, purchase)
	}

	if purchase.State == PurchaseStatePurchased && !purchase.Acknowledged {
		outcome.AcknowledgeAttempted = true

		if err := f.client.Acknowledge(ctx, purchase.PurchaseToken); err != nil {
			log.Debug("Acknowledge rejected", zap.Error(err))
		} else {
			outcome.Acknowledged = true
			f.notify(ctx, log, purchase)
		}
	}

	return outcome
}

// notify drops updates for a session that was closed while the call was in
// flight.
func (f *Fulfiller) notify(ctx context.Context, log *zap.Logger, purchase *Purchase) {
	if ctx.Err() != nil {
		log.Debug("Dropping purchase update for closed session")
		return
	}
	f.listener.OnPurchasesUpdated(purchase)
}
