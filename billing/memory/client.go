package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/code-payments/flipchat-billing/billing"
)

type Operation uint8

const (
	OperationSetup Operation = iota
	OperationQueryProductDetails
	OperationQueryPurchases
	OperationLaunchBillingFlow
	OperationConsume
	OperationAcknowledge
)

// Client is an in-memory store service. Products and purchases are seeded by
// the caller, and the result of any operation can be overridden to simulate
// store failures.
type Client struct {
	sync.RWMutex

	listener billing.ClientListener
	ready    bool
	notReady bool

	products  map[billing.ProductType][]*billing.ProductDetails
	purchases []*purchaseRecord
	results   map[Operation]billing.Result
	calls     map[Operation]int
	flows     []*billing.FlowParams
}

type purchaseRecord struct {
	purchase    *billing.Purchase
	productType billing.ProductType
	consumed    bool
}

func NewClient() *Client {
	return &Client{
		products: make(map[billing.ProductType][]*billing.ProductDetails),
		results:  make(map[Operation]billing.Result),
		calls:    make(map[Operation]int),
	}
}

// AddProduct seeds a product. Subscription offers without a token are given
// a random one.
func (c *Client) AddProduct(details *billing.ProductDetails) {
	c.Lock()
	defer c.Unlock()

	for _, offer := range details.SubscriptionOfferDetails {
		if offer.OfferToken == "" {
			offer.OfferToken = uuid.NewString()
		}
	}
	c.products[details.ProductType] = append(c.products[details.ProductType], details)
}

// AddPurchase seeds an owned purchase and returns its token. A purchase
// without a token is given a random one.
func (c *Client) AddPurchase(productType billing.ProductType, purchase *billing.Purchase) string {
	c.Lock()
	defer c.Unlock()

	cloned := purchase.Clone()
	if cloned.PurchaseToken == "" {
		cloned.PurchaseToken = uuid.NewString()
	}
	c.purchases = append(c.purchases, &purchaseRecord{purchase: cloned, productType: productType})

	return cloned.PurchaseToken
}

// SetResult forces every later call of op to return result.
func (c *Client) SetResult(op Operation, result billing.Result) {
	c.Lock()
	defer c.Unlock()

	c.results[op] = result
}

func (c *Client) ClearResult(op Operation) {
	c.Lock()
	defer c.Unlock()

	delete(c.results, op)
}

// SetNotReady makes IsReady report false even while connected.
func (c *Client) SetNotReady(notReady bool) {
	c.Lock()
	defer c.Unlock()

	c.notReady = notReady
}

func (c *Client) Calls(op Operation) int {
	c.RLock()
	defer c.RUnlock()

	return c.calls[op]
}

func (c *Client) TotalCalls() int {
	c.RLock()
	defer c.RUnlock()

	var total int
	for _, n := range c.calls {
		total += n
	}
	return total
}

func (c *Client) Flows() []*billing.FlowParams {
	c.RLock()
	defer c.RUnlock()

	return slices.Clone(c.flows)
}

func (c *Client) IsConsumed(token string) bool {
	c.RLock()
	defer c.RUnlock()

	record := c.find(token)
	return record != nil && record.consumed
}

func (c *Client) IsAcknowledged(token string) bool {
	c.RLock()
	defer c.RUnlock()

	record := c.find(token)
	return record != nil && record.purchase.Acknowledged
}

// PushPurchases delivers a live purchase update to the connected listener.
func (c *Client) PushPurchases(result billing.Result, purchases []*billing.Purchase) {
	c.RLock()
	listener := c.listener
	c.RUnlock()

	if listener == nil {
		return
	}
	listener.OnPurchasesUpdated(result, purchases)
}

// DropConnection simulates the store service going away.
func (c *Client) DropConnection() {
	c.Lock()
	listener := c.listener
	c.ready = false
	c.Unlock()

	if listener == nil {
		return
	}
	listener.OnBillingServiceDisconnected()
}

func (c *Client) StartConnection(_ context.Context, l billing.ClientListener) {
	c.Lock()
	c.calls[OperationSetup]++
	result := c.resultFor(OperationSetup)
	c.listener = l
	c.ready = result.OK()
	c.Unlock()

	l.OnBillingSetupFinished(result)
}

func (c *Client) EndConnection() {
	c.Lock()
	defer c.Unlock()

	c.listener = nil
	c.ready = false
}

func (c *Client) IsReady() bool {
	c.RLock()
	defer c.RUnlock()

	return c.ready && !c.notReady
}

func (c *Client) QueryProductDetails(ctx context.Context, productType billing.ProductType, productIDs []string) ([]*billing.ProductDetails, error) {
	c.Lock()
	defer c.Unlock()

	c.calls[OperationQueryProductDetails]++
	if err := c.check(ctx, OperationQueryProductDetails); err != nil {
		return nil, err
	}

	var found []*billing.ProductDetails
	for _, details := range c.products[productType] {
		if slices.Contains(productIDs, details.ProductID) {
			found = append(found, details)
		}
	}
	return found, nil
}

func (c *Client) QueryPurchases(ctx context.Context, productTypes ...billing.ProductType) ([]*billing.Purchase, error) {
	c.Lock()
	defer c.Unlock()

	c.calls[OperationQueryPurchases]++
	if err := c.check(ctx, OperationQueryPurchases); err != nil {
		return nil, err
	}

	var owned []*billing.Purchase
	for _, record := range c.purchases {
		if record.consumed || !slices.Contains(productTypes, record.productType) {
			continue
		}
		owned = append(owned, record.purchase.Clone())
	}
	return owned, nil
}

func (c *Client) LaunchBillingFlow(ctx context.Context, _ billing.Activity, params *billing.FlowParams) error {
	c.Lock()
	defer c.Unlock()

	c.calls[OperationLaunchBillingFlow]++
	if err := c.check(ctx, OperationLaunchBillingFlow); err != nil {
		return err
	}

	c.flows = append(c.flows, params)
	return nil
}

// Consume marks an owned one-time purchase as consumed. Subscriptions cannot
// be consumed.
func (c *Client) Consume(ctx context.Context, purchaseToken string) error {
	c.Lock()
	defer c.Unlock()

	c.calls[OperationConsume]++
	if err := c.check(ctx, OperationConsume); err != nil {
		return err
	}
	if _, forced := c.results[OperationConsume]; forced {
		if record := c.find(purchaseToken); record != nil {
			record.consumed = true
		}
		return nil
	}

	record := c.find(purchaseToken)
	if record == nil || record.consumed {
		return billing.Result{Code: billing.ResponseCodeItemNotOwned, DebugMessage: "item not owned"}.Err()
	}
	if record.productType != billing.ProductTypeInApp {
		return billing.Result{Code: billing.ResponseCodeDeveloperError, DebugMessage: "subscriptions cannot be consumed"}.Err()
	}

	record.consumed = true
	return nil
}

func (c *Client) Acknowledge(ctx context.Context, purchaseToken string) error {
	c.Lock()
	defer c.Unlock()

	c.calls[OperationAcknowledge]++
	if err := c.check(ctx, OperationAcknowledge); err != nil {
		return err
	}

	record := c.find(purchaseToken)
	if record == nil {
		return billing.Result{Code: billing.ResponseCodeItemNotOwned, DebugMessage: "item not owned"}.Err()
	}

	record.purchase.Acknowledged = true
	return nil
}

// check fails calls made while disconnected, after ctx is done, or with an
// overridden non-OK result.
func (c *Client) check(ctx context.Context, op Operation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !c.ready {
		return billing.Result{Code: billing.ResponseCodeServiceDisconnected}.Err()
	}
	return c.resultFor(op).Err()
}

func (c *Client) resultFor(op Operation) billing.Result {
	if result, ok := c.results[op]; ok {
		return result
	}
	return billing.Result{Code: billing.ResponseCodeOK}
}

func (c *Client) find(token string) *purchaseRecord {
	for _, record := range c.purchases {
		if record.purchase.PurchaseToken == token {
			return record
		}
	}
	return nil
}
