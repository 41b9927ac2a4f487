package billing

import "sync"

// Catalog holds the resolved offers of each product category.
//
// Entries are only ever appended. Querying the same product twice stores it
// twice; Find returns the first match.
type Catalog struct {
	mu            sync.RWMutex
	nonConsumable []CatalogEntry
	consumable    []CatalogEntry
	subscription  []CatalogEntry
}

func NewCatalog() *Catalog {
	return &Catalog{}
}

func (c *Catalog) Record(category Category, productID string, detail *OfferDetail) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := CatalogEntry{ProductID: productID, Detail: detail}
	switch category {
	case CategoryNonConsumable:
		c.nonConsumable = append(c.nonConsumable, entry)
	case CategoryConsumable:
		c.consumable = append(c.consumable, entry)
	case CategorySubscription:
		c.subscription = append(c.subscription, entry)
	}
}

// Find looks up productID in the caches searched for productType: one-time
// products check non-consumables then consumables, anything else checks
// subscriptions.
func (c *Catalog) Find(productType ProductType, productID string) (*OfferDetail, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if productType == ProductTypeInApp {
		if detail, ok := findEntry(c.nonConsumable, productID); ok {
			return detail, true
		}
		return findEntry(c.consumable, productID)
	}
	return findEntry(c.subscription, productID)
}

func (c *Catalog) IsKnown(productType ProductType, productID string) bool {
	_, ok := c.Find(productType, productID)
	return ok
}

// Entries returns a snapshot of one category's cache in insertion order.
func (c *Catalog) Entries(category Category) []CatalogEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var entries []CatalogEntry
	switch category {
	case CategoryNonConsumable:
		entries = c.nonConsumable
	case CategoryConsumable:
		entries = c.consumable
	case CategorySubscription:
		entries = c.subscription
	}
	return append([]CatalogEntry(nil), entries...)
}

func findEntry(entries []CatalogEntry, productID string) (*OfferDetail, bool) {
	for _, entry := range entries {
		if entry.ProductID == productID {
			return entry.Detail, true
		}
	}
	return nil, false
}
