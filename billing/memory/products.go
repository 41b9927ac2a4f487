package memory

import (
	"github.com/code-payments/flipchat-billing/billing"
)

func OneTimeProduct(productID, title string, micros int64, currencyCode string) *billing.ProductDetails {
	return &billing.ProductDetails{
		ProductID:   productID,
		ProductType: billing.ProductTypeInApp,
		Title:       title,
		Name:        title,
		OneTimePurchaseOfferDetails: &billing.OneTimePurchaseOfferDetails{
			FormattedPrice:    billing.FormatPrice(micros, currencyCode),
			PriceAmountMicros: micros,
			PriceCurrencyCode: currencyCode,
		},
	}
}

func SubscriptionProduct(productID, title string, offers ...*billing.SubscriptionOfferDetails) *billing.ProductDetails {
	return &billing.ProductDetails{
		ProductID:                productID,
		ProductType:              billing.ProductTypeSubs,
		Title:                    title,
		Name:                     title,
		SubscriptionOfferDetails: offers,
	}
}

func Offer(basePlanID string, tags []string, phases ...*billing.PricingPhase) *billing.SubscriptionOfferDetails {
	return &billing.SubscriptionOfferDetails{
		BasePlanID:    basePlanID,
		OfferTags:     tags,
		PricingPhases: phases,
	}
}

func Phase(micros int64, currencyCode, billingPeriod string) *billing.PricingPhase {
	return &billing.PricingPhase{
		FormattedPrice:    billing.FormatPrice(micros, currencyCode),
		PriceAmountMicros: micros,
		PriceCurrencyCode: currencyCode,
		BillingPeriod:     billingPeriod,
		RecurrenceMode:    billing.RecurrenceModeInfinite,
	}
}
