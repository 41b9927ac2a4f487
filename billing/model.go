package billing

import "time"

type ProductType string

const (
	ProductTypeInApp ProductType = "inapp"
	ProductTypeSubs  ProductType = "subs"
)

func (t ProductType) String() string {
	return string(t)
}

type PurchaseState uint8

const (
	PurchaseStateUnspecified PurchaseState = iota
	PurchaseStatePurchased
	PurchaseStatePending
)

func (s PurchaseState) String() string {
	switch s {
	case PurchaseStatePurchased:
		return "purchased"
	case PurchaseStatePending:
		return "pending"
	default:
		return "unspecified"
	}
}

// ProductDetails is the raw product metadata record returned by the store
// service. It is retained on every OfferDetail because launching a purchase
// flow requires it.
type ProductDetails struct {
	ProductID   string
	ProductType ProductType
	Title       string
	Name        string
	Description string

	OneTimePurchaseOfferDetails *OneTimePurchaseOfferDetails
	SubscriptionOfferDetails    []*SubscriptionOfferDetails
}

type OneTimePurchaseOfferDetails struct {
	FormattedPrice    string
	PriceAmountMicros int64
	PriceCurrencyCode string
}

type SubscriptionOfferDetails struct {
	BasePlanID    string
	OfferID       string
	OfferToken    string
	OfferTags     []string
	PricingPhases []*PricingPhase
}

type RecurrenceMode uint8

const (
	RecurrenceModeUnspecified RecurrenceMode = iota
	RecurrenceModeInfinite
	RecurrenceModeFinite
	RecurrenceModeNonRecurring
)

type PricingPhase struct {
	FormattedPrice    string
	PriceAmountMicros int64
	PriceCurrencyCode string
	BillingPeriod     string
	BillingCycleCount int
	RecurrenceMode    RecurrenceMode
}

// OfferDetail is the catalog's normalized view of one product.
//
// The derived fields are nil when the product has no subscription offers.
type OfferDetail struct {
	Title       string
	Description string
	Name        string
	ProductType ProductType
	ProductID   string

	OneTimePurchaseOfferDetails *OneTimePurchaseOfferDetails
	SubscriptionOfferDetails    []*SubscriptionOfferDetails

	OfferTokens          *string
	OfferTags            *string
	SumPriceAmountMicros *int64
	FormattedPrices      *string
	PriceCurrencyCodes   *string

	ProductDetails *ProductDetails
}

type CatalogEntry struct {
	ProductID string
	Detail    *OfferDetail
}

// Purchase is a purchase record owned by the store service.
type Purchase struct {
	OrderID       string
	PackageName   string
	Products      []string
	PurchaseToken string
	State         PurchaseState
	Acknowledged  bool
	Quantity      int
	PurchaseTime  time.Time
}

func (p *Purchase) Clone() *Purchase {
	if p == nil {
		return nil
	}

	cloned := *p
	cloned.Products = append([]string(nil), p.Products...)
	return &cloned
}

// FlowParams is the purchase-flow request handed to the store service.
type FlowParams struct {
	ProductDetailsParams []ProductDetailsParams
}

type ProductDetailsParams struct {
	ProductDetails *ProductDetails
	OfferToken     string
}

// Activity is the host's presentation context for a purchase flow. It is
// passed through to the transport untouched.
type Activity any
