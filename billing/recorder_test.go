package billing_test

import (
	"sync"

	"github.com/code-payments/flipchat-billing/billing"
)

type purchasesUpdate struct {
	result    billing.Result
	purchases []*billing.Purchase
}

// recorder is a billing.Listener that keeps every event it receives.
type recorder struct {
	sync.Mutex

	purchasesUpdated []*billing.Purchase
	updates          []purchasesUpdate
	connected        int
	disconnected     int
	failed           int
	prices           map[billing.Category][]billing.Response[[]billing.CatalogEntry]
}

func newRecorder() *recorder {
	return &recorder{
		prices: make(map[billing.Category][]billing.Response[[]billing.CatalogEntry]),
	}
}

func (r *recorder) OnPurchasesUpdated(purchase *billing.Purchase) {
	r.Lock()
	defer r.Unlock()
	r.purchasesUpdated = append(r.purchasesUpdated, purchase)
}

func (r *recorder) OnPurchasesUpdate(result billing.Result, purchases []*billing.Purchase) {
	r.Lock()
	defer r.Unlock()
	r.updates = append(r.updates, purchasesUpdate{result: result, purchases: purchases})
}

func (r *recorder) Connected() {
	r.Lock()
	defer r.Unlock()
	r.connected++
}

func (r *recorder) Disconnected() {
	r.Lock()
	defer r.Unlock()
	r.disconnected++
}

func (r *recorder) Failed() {
	r.Lock()
	defer r.Unlock()
	r.failed++
}

func (r *recorder) UpdateNonConsumablePrices(response billing.Response[[]billing.CatalogEntry]) {
	r.addPrices(billing.CategoryNonConsumable, response)
}

func (r *recorder) UpdateConsumablePrices(response billing.Response[[]billing.CatalogEntry]) {
	r.addPrices(billing.CategoryConsumable, response)
}

func (r *recorder) UpdateSubscriptionPrices(response billing.Response[[]billing.CatalogEntry]) {
	r.addPrices(billing.CategorySubscription, response)
}

func (r *recorder) addPrices(category billing.Category, response billing.Response[[]billing.CatalogEntry]) {
	r.Lock()
	defer r.Unlock()
	r.prices[category] = append(r.prices[category], response)
}

func (r *recorder) pricesFor(category billing.Category) []billing.Response[[]billing.CatalogEntry] {
	r.Lock()
	defer r.Unlock()
	return append([]billing.Response[[]billing.CatalogEntry](nil), r.prices[category]...)
}

func (r *recorder) purchaseUpdates() []*billing.Purchase {
	r.Lock()
	defer r.Unlock()
	return append([]*billing.Purchase(nil), r.purchasesUpdated...)
}

func (r *recorder) rawUpdates() []purchasesUpdate {
	r.Lock()
	defer r.Unlock()
	return append([]purchasesUpdate(nil), r.updates...)
}
