package billing

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MessageNoData   = "No data!"
	MessageNotReady = "Google billing service is not ready yet."
)

type State uint8

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateConnectFailed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateConnectFailed:
		return "connect_failed"
	default:
		return "disconnected"
	}
}

var categories = []Category{
	CategoryNonConsumable,
	CategoryConsumable,
	CategorySubscription,
}

// Coordinator drives a billing session: it populates the catalog when the
// connection comes up, reconciles the buyer's purchase history, fulfills
// live purchases and reports everything to the listener.
//
// Each store call runs as its own task. Completions may arrive in any order,
// and completions belonging to a disconnected session are discarded.
type Coordinator struct {
	log       *zap.Logger
	client    Client
	listener  Listener
	keys      ProductKeys
	catalog   *Catalog
	fulfiller *Fulfiller

	mu      sync.Mutex
	state   State
	session *session

	tasks sync.WaitGroup
}

func NewCoordinator(log *zap.Logger, client Client, listener Listener, keys ProductKeys) *Coordinator {
	return &Coordinator{
		log:       log,
		client:    client,
		listener:  listener,
		keys:      keys,
		catalog:   NewCatalog(),
		fulfiller: NewFulfiller(log, client, listener),
	}
}

// Connect starts a new session. Any previous session is abandoned. The
// session lives until Disconnect is called or ctx is cancelled.
func (c *Coordinator) Connect(ctx context.Context) {
	sessionCtx, cancel := context.WithCancel(ctx)
	id := uuid.NewString()
	s := &session{
		c:      c,
		log:    c.log.With(zap.String("session_id", id)),
		ctx:    sessionCtx,
		cancel: cancel,
	}

	c.mu.Lock()
	previous := c.session
	c.session = s
	c.state = StateConnecting
	c.mu.Unlock()

	if previous != nil {
		previous.cancel()
	}

	s.log.Debug("Starting billing connection")
	c.client.StartConnection(sessionCtx, s)
}

// Disconnect ends the store connection without waiting for in-flight calls.
func (c *Coordinator) Disconnect() {
	c.mu.Lock()
	s := c.session
	c.session = nil
	c.state = StateDisconnected
	c.mu.Unlock()

	if s != nil {
		s.cancel()
	}

	c.client.EndConnection()
	c.log.Debug("Billing connection ended")
}

// Buy launches the purchase flow for a cataloged product. Products that are
// not cataloged, or that have no offer token, are skipped with a log line.
func (c *Coordinator) Buy(ctx context.Context, activity Activity, productID string, productType ProductType) {
	log := c.log.With(
		zap.String("product_id", productID),
		zap.String("product_type", productType.String()),
	)

	detail, ok := c.catalog.Find(productType, productID)
	if !ok {
		log.Debug("Not found product to buy")
		return
	}
	if detail.OfferTokens == nil {
		log.Debug("Not found offer product to buy")
		return
	}

	params := &FlowParams{
		ProductDetailsParams: []ProductDetailsParams{
			{
				ProductDetails: detail.ProductDetails,
				OfferToken:     *detail.OfferTokens,
			},
		},
	}

	c.spawn(func() {
		if err := c.client.LaunchBillingFlow(ctx, activity, params); err != nil {
			log.Debug("Failed to launch billing flow", zap.Error(err))
		}
	})
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

func (c *Coordinator) Catalog() *Catalog {
	return c.catalog
}

// Wait blocks until every task started so far has completed.
func (c *Coordinator) Wait() {
	c.tasks.Wait()
}

func (c *Coordinator) spawn(task func()) {
	c.tasks.Add(1)
	go func() {
		defer c.tasks.Done()
		task()
	}()
}

// setState applies a transition only while s is the current session.
func (c *Coordinator) setState(s *session, state State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != s {
		return false
	}
	c.state = state
	return true
}

func (c *Coordinator) onSetupFinished(s *session, result Result) {
	s.log.Debug("Billing setup finished",
		zap.Stringer("code", result.Code),
		zap.String("debug_message", result.DebugMessage),
	)

	if !result.OK() {
		if c.setState(s, StateConnectFailed) {
			c.listener.Failed()
		}
		return
	}

	if !c.setState(s, StateConnected) {
		return
	}
	c.listener.Connected()

	for _, category := range categories {
		c.refreshCategory(s, category)
	}

	c.spawn(func() {
		c.reconcilePurchases(s)
	})
}

func (c *Coordinator) refreshCategory(s *session, category Category) {
	notify := c.priceNotifier(s, category)

	keys := c.keys.Keys(category)
	if len(keys) == 0 {
		notify(Error[[]CatalogEntry](MessageNoData))
		return
	}

	c.spawn(func() {
		c.queryProductDetails(s, category, keys, notify)
	})
}

func (c *Coordinator) queryProductDetails(s *session, category Category, keys []string, notify func(Response[[]CatalogEntry])) {
	log := s.log.With(zap.String("category", category.String()))

	notify(Loading[[]CatalogEntry]())

	if !c.client.IsReady() {
		log.Debug(MessageNotReady)
		notify(Error[[]CatalogEntry](MessageNotReady))
		return
	}

	details, err := c.client.QueryProductDetails(s.ctx, category.ProductType(), keys)
	if err != nil {
		log.Debug("Product details query failed", zap.Error(err))
		notify(ErrorWithResult[[]CatalogEntry](MessageNotReady, ResultFromError(err)))
		return
	}
	if len(details) == 0 {
		log.Debug("Product details query returned no products")
		notify(Error[[]CatalogEntry](MessageNotReady))
		return
	}

	entries := resolveEntries(details)
	if !s.active() {
		log.Debug("Dropping product details for closed session")
		return
	}
	for _, entry := range entries {
		c.catalog.Record(category, entry.ProductID, entry.Detail)
	}

	log.Debug("Product details updated", zap.Int("num_products", len(entries)))
	notify(Success(entries))
}

func (c *Coordinator) priceNotifier(s *session, category Category) func(Response[[]CatalogEntry]) {
	var update func(Response[[]CatalogEntry])
	switch category {
	case CategoryNonConsumable:
		update = c.listener.UpdateNonConsumablePrices
	case CategoryConsumable:
		update = c.listener.UpdateConsumablePrices
	default:
		update = c.listener.UpdateSubscriptionPrices
	}

	return func(response Response[[]CatalogEntry]) {
		if !s.active() {
			return
		}
		update(response)
	}
}

func (c *Coordinator) reconcilePurchases(s *session) {
	purchases, err := c.client.QueryPurchases(s.ctx, ProductTypeInApp, ProductTypeSubs)
	if err != nil {
		s.log.Debug("Purchase query failed", zap.Error(err))
		return
	}

	s.log.Debug("Reconciling purchases", zap.Int("num_purchases", len(purchases)))
	c.handlePurchases(s, purchases)
}

func (c *Coordinator) handlePurchases(s *session, purchases []*Purchase) {
	for _, purchase := range purchases {
		for _, match := range c.keys.ClassifyPurchase(purchase) {
			if !s.active() {
				return
			}
			c.fulfiller.Fulfill(s.ctx, purchase, match.Category)
		}
	}
}

// resolveEntries resolves a product query result keyed by product id. The
// first occurrence of an id fixes its position; the last record for it wins.
func resolveEntries(details []*ProductDetails) []CatalogEntry {
	var entries []CatalogEntry
	positions := make(map[string]int, len(details))

	for _, record := range details {
		if record == nil {
			continue
		}

		entry := CatalogEntry{ProductID: record.ProductID, Detail: ResolveOffer(record)}
		if i, ok := positions[record.ProductID]; ok {
			entries[i] = entry
			continue
		}

		positions[record.ProductID] = len(entries)
		entries = append(entries, entry)
	}
	return entries
}

// session is the transport-facing side of one connection attempt.
type session struct {
	c   *Coordinator
	log *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

func (s *session) active() bool {
	return s.ctx.Err() == nil
}

func (s *session) OnBillingSetupFinished(result Result) {
	if !s.active() {
		return
	}
	s.c.onSetupFinished(s, result)
}

func (s *session) OnBillingServiceDisconnected() {
	if !s.active() {
		return
	}

	s.log.Debug("Billing service disconnected")
	if s.c.setState(s, StateDisconnected) {
		s.c.listener.Disconnected()
	}
}

func (s *session) OnPurchasesUpdated(result Result, purchases []*Purchase) {
	if !s.active() {
		return
	}

	s.c.listener.OnPurchasesUpdate(result, purchases)

	if !result.OK() || len(purchases) == 0 {
		return
	}

	s.c.spawn(func() {
		s.c.handlePurchases(s, purchases)
	})
}
