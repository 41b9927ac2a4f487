package billing

import "slices"

type Category uint8

const (
	CategoryUnclassified Category = iota
	CategoryNonConsumable
	CategoryConsumable
	CategorySubscription
)

func (c Category) String() string {
	switch c {
	case CategoryNonConsumable:
		return "non_consumable"
	case CategoryConsumable:
		return "consumable"
	case CategorySubscription:
		return "subscription"
	default:
		return "unclassified"
	}
}

// ProductType is the store product type queried for the category.
func (c Category) ProductType() ProductType {
	if c == CategorySubscription {
		return ProductTypeSubs
	}
	return ProductTypeInApp
}

// ProductKeys are the configured product identifiers of each category. A
// product is expected to appear in at most one list.
type ProductKeys struct {
	NonConsumable []string
	Consumable    []string
	Subscription  []string
}

// Keys returns the configured identifiers of one category.
func (k ProductKeys) Keys(category Category) []string {
	switch category {
	case CategoryNonConsumable:
		return k.NonConsumable
	case CategoryConsumable:
		return k.Consumable
	case CategorySubscription:
		return k.Subscription
	default:
		return nil
	}
}

// Classify returns the category of the first list containing productID,
// checked in non-consumable, consumable, subscription order.
func (k ProductKeys) Classify(productID string) Category {
	switch {
	case slices.Contains(k.NonConsumable, productID):
		return CategoryNonConsumable
	case slices.Contains(k.Consumable, productID):
		return CategoryConsumable
	case slices.Contains(k.Subscription, productID):
		return CategorySubscription
	default:
		return CategoryUnclassified
	}
}

type Match struct {
	ProductID string
	Category  Category
}

// ClassifyPurchase classifies every product on the purchase. A purchase that
// carries several configured products yields one match per product, and each
// match is fulfilled separately.
func (k ProductKeys) ClassifyPurchase(purchase *Purchase) []Match {
	var matches []Match
	for _, productID := range purchase.Products {
		category := k.Classify(productID)
		if category == CategoryUnclassified {
			continue
		}
		matches = append(matches, Match{ProductID: productID, Category: category})
	}
	return matches
}
