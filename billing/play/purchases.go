package play

import (
	"context"
	"time"

	"google.golang.org/api/androidpublisher/v3"

	"github.com/code-payments/flipchat-billing/billing"
	"github.com/code-payments/flipchat-billing/receipt"
)

// Play Developer API purchase states.
const (
	productPurchased = 0
	productCancelled = 1
	productPending   = 2

	consumed     = 1
	acknowledged = 1

	paymentPending = 0
)

func (c *Client) getPurchase(ctx context.Context, svc *androidpublisher.Service, r *receipt.Receipt) (*billing.Purchase, error) {
	if r.ProductType == billing.ProductTypeSubs {
		return c.getSubscriptionPurchase(ctx, svc, r)
	}
	return c.getProductPurchase(ctx, svc, r)
}

func (c *Client) getProductPurchase(ctx context.Context, svc *androidpublisher.Service, r *receipt.Receipt) (*billing.Purchase, error) {
	p, err := svc.Purchases.Products.Get(c.cfg.PackageName, r.ProductID, r.Token).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	if p.PurchaseState == productCancelled || p.ConsumptionState == consumed {
		return nil, errNotOwned
	}

	state := billing.PurchaseStatePurchased
	if p.PurchaseState == productPending {
		state = billing.PurchaseStatePending
	}

	quantity := int(p.Quantity)
	if quantity == 0 {
		quantity = 1
	}

	return &billing.Purchase{
		OrderID:       p.OrderId,
		PackageName:   c.cfg.PackageName,
		Products:      []string{r.ProductID},
		PurchaseToken: r.Token,
		State:         state,
		Acknowledged:  p.AcknowledgementState == acknowledged,
		Quantity:      quantity,
		PurchaseTime:  time.UnixMilli(p.PurchaseTimeMillis),
	}, nil
}

func (c *Client) getSubscriptionPurchase(ctx context.Context, svc *androidpublisher.Service, r *receipt.Receipt) (*billing.Purchase, error) {
	s, err := svc.Purchases.Subscriptions.Get(c.cfg.PackageName, r.ProductID, r.Token).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	if time.UnixMilli(s.ExpiryTimeMillis).Before(time.Now()) {
		return nil, errNotOwned
	}

	state := billing.PurchaseStatePurchased
	if s.PaymentState != nil && *s.PaymentState == paymentPending {
		state = billing.PurchaseStatePending
	}

	return &billing.Purchase{
		OrderID:       s.OrderId,
		PackageName:   c.cfg.PackageName,
		Products:      []string{r.ProductID},
		PurchaseToken: r.Token,
		State:         state,
		Acknowledged:  s.AcknowledgementState == acknowledged,
		Quantity:      1,
		PurchaseTime:  time.UnixMilli(s.StartTimeMillis),
	}, nil
}
