package billing

import "strings"

const offerSeparator = ", "

// ResolveOffer normalizes a raw product record into an OfferDetail.
//
// Subscription offers are flattened into single display strings: one group
// per offer, each group holding the joined values of its pricing phases. The
// raw record stays available on the result for per-phase detail.
func ResolveOffer(details *ProductDetails) *OfferDetail {
	detail := &OfferDetail{
		Title:                       details.Title,
		Description:                 details.Description,
		Name:                        details.Name,
		ProductType:                 details.ProductType,
		ProductID:                   details.ProductID,
		OneTimePurchaseOfferDetails: details.OneTimePurchaseOfferDetails,
		SubscriptionOfferDetails:    details.SubscriptionOfferDetails,
		ProductDetails:              details,
	}

	offers := details.SubscriptionOfferDetails
	if offers == nil {
		return detail
	}

	var (
		tokens     = make([]string, 0, len(offers))
		tags       = make([]string, 0, len(offers))
		prices     = make([]string, 0, len(offers))
		currencies = make([]string, 0, len(offers))
		sum        int64
	)
	for _, offer := range offers {
		tokens = append(tokens, offer.OfferToken)
		tags = append(tags, strings.Join(offer.OfferTags, offerSeparator))

		phasePrices := make([]string, 0, len(offer.PricingPhases))
		phaseCurrencies := make([]string, 0, len(offer.PricingPhases))
		for _, phase := range offer.PricingPhases {
			sum += phase.PriceAmountMicros
			phasePrices = append(phasePrices, phase.FormattedPrice)
			phaseCurrencies = append(phaseCurrencies, phase.PriceCurrencyCode)
		}
		prices = append(prices, strings.Join(phasePrices, offerSeparator))
		currencies = append(currencies, strings.Join(phaseCurrencies, offerSeparator))
	}

	detail.OfferTokens = joined(tokens)
	detail.OfferTags = joined(tags)
	detail.SumPriceAmountMicros = &sum
	detail.FormattedPrices = joined(prices)
	detail.PriceCurrencyCodes = joined(currencies)

	return detail
}

func joined(values []string) *string {
	s := strings.Join(values, offerSeparator)
	return &s
}
