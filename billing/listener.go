package billing

// Listener receives every catalog update, purchase outcome and connection
// event. Methods may be invoked concurrently from transport tasks.
type Listener interface {
	// OnPurchasesUpdated fires once per successful consume or acknowledge.
	OnPurchasesUpdated(purchase *Purchase)

	// OnPurchasesUpdate passes through every live purchase update as received
	// from the store service, before classification.
	OnPurchasesUpdate(result Result, purchases []*Purchase)

	Connected()
	Disconnected()
	Failed()

	UpdateNonConsumablePrices(response Response[[]CatalogEntry])
	UpdateConsumablePrices(response Response[[]CatalogEntry])
	UpdateSubscriptionPrices(response Response[[]CatalogEntry])
}

// NopListener ignores every event. Embed it to implement a subset of
// Listener.
type NopListener struct{}

func (NopListener) OnPurchasesUpdated(_ *Purchase) {}
func (NopListener) OnPurchasesUpdate(_ Result, _ []*Purchase) {}
func (NopListener) Connected() {}
func (NopListener) Disconnected() {}
func (NopListener) Failed() {}
func (NopListener) UpdateNonConsumablePrices(_ Response[[]CatalogEntry]) {}
func (NopListener) UpdateConsumablePrices(_ Response[[]CatalogEntry]) {}
func (NopListener) UpdateSubscriptionPrices(_ Response[[]CatalogEntry]) {}
