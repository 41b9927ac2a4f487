package billing

import "context"

// Client is the store service transport.
//
// Calls that fail on the store side return a *ResultError so the original
// result code reaches the listener unmodified.
type Client interface {
	// StartConnection begins the setup handshake. The outcome, and every later
	// connection or purchase event, is delivered to l.
	StartConnection(ctx context.Context, l ClientListener)

	// EndConnection tears the connection down without waiting for in-flight
	// calls.
	EndConnection()

	IsReady() bool

	QueryProductDetails(ctx context.Context, productType ProductType, productIDs []string) ([]*ProductDetails, error)

	// QueryPurchases returns the buyer's owned purchases across all of the
	// given product types.
	QueryPurchases(ctx context.Context, productTypes ...ProductType) ([]*Purchase, error)

	// LaunchBillingFlow presents a purchase flow to the buyer. The purchase
	// itself is reported later through OnPurchasesUpdated.
	LaunchBillingFlow(ctx context.Context, activity Activity, params *FlowParams) error

	Consume(ctx context.Context, purchaseToken string) error
	Acknowledge(ctx context.Context, purchaseToken string) error
}

type ClientListener interface {
	OnBillingSetupFinished(result Result)
	OnBillingServiceDisconnected()
	OnPurchasesUpdated(result Result, purchases []*Purchase)
}
