package play

import (
	"context"
	"errors"
	"slices"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/api/androidpublisher/v3"
	"google.golang.org/api/option"

	"github.com/code-payments/flipchat-billing/billing"
	"github.com/code-payments/flipchat-billing/receipt"
)

const DefaultRegionCode = "US"

type Config struct {
	// PackageName is the Android app's package name.
	PackageName string

	// Owner is the buyer whose receipts make up the purchase history.
	Owner string

	// RegionCode selects the regional subscription price. Defaults to
	// DefaultRegionCode.
	RegionCode string

	// The contents of a service account JSON file. Empty uses the options
	// passed to NewClient only.
	CredentialsJSON []byte
}

// FlowPresenter is implemented by activities that can present a purchase
// flow to the buyer.
type FlowPresenter interface {
	PresentBillingFlow(ctx context.Context, params *billing.FlowParams) error
}

// Client is a billing transport backed by the Google Play Developer API.
//
// The Play Developer API has no notion of a buyer's device, so purchase
// history is read from the receipts reported for the configured owner.
type Client struct {
	log      *zap.Logger
	cfg      Config
	receipts receipt.Store
	opts     []option.ClientOption

	mu       sync.RWMutex
	svc      *androidpublisher.Service
	listener billing.ClientListener
}

func NewClient(log *zap.Logger, cfg Config, receipts receipt.Store, opts ...option.ClientOption) *Client {
	if cfg.RegionCode == "" {
		cfg.RegionCode = DefaultRegionCode
	}

	return &Client{
		log: log.With(
			zap.String("package_name", cfg.PackageName),
			zap.String("owner", cfg.Owner),
		),
		cfg:      cfg,
		receipts: receipts,
		opts:     opts,
	}
}

func (c *Client) StartConnection(ctx context.Context, l billing.ClientListener) {
	var opts []option.ClientOption
	if len(c.cfg.CredentialsJSON) > 0 {
		opts = append(opts, option.WithCredentialsJSON(c.cfg.CredentialsJSON))
	}
	opts = append(opts, c.opts...)

	svc, err := androidpublisher.NewService(ctx, opts...)
	if err != nil {
		c.log.Warn("Failed to create android publisher client", zap.Error(err))
		l.OnBillingSetupFinished(billing.Result{
			Code:         billing.ResponseCodeBillingUnavailable,
			DebugMessage: err.Error(),
		})
		return
	}

	c.mu.Lock()
	c.svc = svc
	c.listener = l
	c.mu.Unlock()

	l.OnBillingSetupFinished(billing.Result{Code: billing.ResponseCodeOK})
}

func (c *Client) EndConnection() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.svc = nil
	c.listener = nil
}

func (c *Client) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.svc != nil
}

func (c *Client) QueryProductDetails(ctx context.Context, productType billing.ProductType, productIDs []string) ([]*billing.ProductDetails, error) {
	svc, err := c.service()
	if err != nil {
		return nil, err
	}

	var details []*billing.ProductDetails
	for _, productID := range productIDs {
		var record *billing.ProductDetails
		switch productType {
		case billing.ProductTypeSubs:
			record, err = c.getSubscription(ctx, svc, productID)
		default:
			record, err = c.getInAppProduct(ctx, svc, productID)
		}

		if isNotFound(err) {
			c.log.Debug("Product not found", zap.String("product_id", productID))
			continue
		} else if err != nil {
			return nil, toResultError(err)
		}
		details = append(details, record)
	}
	return details, nil
}

func (c *Client) QueryPurchases(ctx context.Context, productTypes ...billing.ProductType) ([]*billing.Purchase, error) {
	svc, err := c.service()
	if err != nil {
		return nil, err
	}

	receipts, err := c.receipts.GetReceiptsByOwner(ctx, c.cfg.Owner)
	if err != nil {
		return nil, err
	}

	var owned []*billing.Purchase
	for _, r := range receipts {
		if !slices.Contains(productTypes, r.ProductType) {
			continue
		}

		purchase, err := c.getPurchase(ctx, svc, r)
		if errors.Is(err, errNotOwned) || isNotFound(err) {
			continue
		} else if err != nil {
			return nil, toResultError(err)
		}
		owned = append(owned, purchase)
	}
	return owned, nil
}

func (c *Client) LaunchBillingFlow(ctx context.Context, activity billing.Activity, params *billing.FlowParams) error {
	if _, err := c.service(); err != nil {
		return err
	}

	presenter, ok := activity.(FlowPresenter)
	if !ok {
		return billing.Result{
			Code:         billing.ResponseCodeFeatureNotSupported,
			DebugMessage: "activity cannot present a billing flow",
		}.Err()
	}
	return presenter.PresentBillingFlow(ctx, params)
}

func (c *Client) Consume(ctx context.Context, purchaseToken string) error {
	svc, err := c.service()
	if err != nil {
		return err
	}

	r, err := c.lookupReceipt(ctx, purchaseToken)
	if err != nil {
		return err
	}
	if r.ProductType != billing.ProductTypeInApp {
		return billing.Result{
			Code:         billing.ResponseCodeDeveloperError,
			DebugMessage: "subscriptions cannot be consumed",
		}.Err()
	}

	err = svc.Purchases.Products.Consume(c.cfg.PackageName, r.ProductID, purchaseToken).Context(ctx).Do()
	return toResultError(err)
}

func (c *Client) Acknowledge(ctx context.Context, purchaseToken string) error {
	svc, err := c.service()
	if err != nil {
		return err
	}

	r, err := c.lookupReceipt(ctx, purchaseToken)
	if err != nil {
		return err
	}

	switch r.ProductType {
	case billing.ProductTypeSubs:
		err = svc.Purchases.Subscriptions.Acknowledge(
			c.cfg.PackageName,
			r.ProductID,
			purchaseToken,
			&androidpublisher.SubscriptionPurchasesAcknowledgeRequest{},
		).Context(ctx).Do()
	default:
		err = svc.Purchases.Products.Acknowledge(
			c.cfg.PackageName,
			r.ProductID,
			purchaseToken,
			&androidpublisher.ProductPurchasesAcknowledgeRequest{},
		).Context(ctx).Do()
	}
	return toResultError(err)
}

// Register records a purchase token reported by the buyer and delivers the
// purchase to the connected listener as a live update. Tokens the store does
// not know are rejected without being recorded.
func (c *Client) Register(ctx context.Context, r *receipt.Receipt) error {
	c.mu.RLock()
	svc, listener := c.svc, c.listener
	c.mu.RUnlock()

	if svc == nil {
		return billing.ErrNotConnected
	}

	purchase, err := c.getPurchase(ctx, svc, r)
	if err != nil {
		return toResultError(err)
	}

	if err := c.receipts.PutReceipt(ctx, r); err != nil {
		return err
	}

	c.log.Debug("Registered purchase",
		zap.String("product_id", r.ProductID),
		zap.String("product_type", r.ProductType.String()),
	)
	listener.OnPurchasesUpdated(billing.Result{Code: billing.ResponseCodeOK}, []*billing.Purchase{purchase})
	return nil
}

func (c *Client) service() (*androidpublisher.Service, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.svc == nil {
		return nil, billing.Result{Code: billing.ResponseCodeServiceDisconnected}.Err()
	}
	return c.svc, nil
}

func (c *Client) lookupReceipt(ctx context.Context, purchaseToken string) (*receipt.Receipt, error) {
	r, err := c.receipts.GetReceipt(ctx, purchaseToken)
	if errors.Is(err, receipt.ErrNotFound) {
		return nil, billing.Result{
			Code:         billing.ResponseCodeItemNotOwned,
			DebugMessage: "unknown purchase token",
		}.Err()
	} else if err != nil {
		return nil, err
	}
	return r, nil
}
