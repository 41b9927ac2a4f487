package play

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
	"google.golang.org/api/androidpublisher/v3"

	"github.com/code-payments/flipchat-billing/billing"
)

const stateActive = "ACTIVE"

func (c *Client) getInAppProduct(ctx context.Context, svc *androidpublisher.Service, productID string) (*billing.ProductDetails, error) {
	product, err := svc.Inappproducts.Get(c.cfg.PackageName, productID).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	title, description := inAppListing(product)
	details := &billing.ProductDetails{
		ProductID:   product.Sku,
		ProductType: billing.ProductTypeInApp,
		Title:       title,
		Name:        title,
		Description: description,
	}

	if product.DefaultPrice != nil {
		micros, err := strconv.ParseInt(product.DefaultPrice.PriceMicros, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid price for %s: %w", productID, err)
		}

		details.OneTimePurchaseOfferDetails = &billing.OneTimePurchaseOfferDetails{
			FormattedPrice:    billing.FormatPrice(micros, product.DefaultPrice.Currency),
			PriceAmountMicros: micros,
			PriceCurrencyCode: product.DefaultPrice.Currency,
		}
	}

	return details, nil
}

// inAppListing picks the default language listing, or the first listing by
// language code when there is none.
func inAppListing(product *androidpublisher.InAppProduct) (title, description string) {
	if listing, ok := product.Listings[product.DefaultLanguage]; ok {
		return listing.Title, listing.Description
	}

	languages := make([]string, 0, len(product.Listings))
	for language := range product.Listings {
		languages = append(languages, language)
	}
	if len(languages) == 0 {
		return product.Sku, ""
	}

	sort.Strings(languages)
	listing := product.Listings[languages[0]]
	return listing.Title, listing.Description
}

func (c *Client) getSubscription(ctx context.Context, svc *androidpublisher.Service, productID string) (*billing.ProductDetails, error) {
	subscription, err := svc.Monetization.Subscriptions.Get(c.cfg.PackageName, productID).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	details := &billing.ProductDetails{
		ProductID:   subscription.ProductId,
		ProductType: billing.ProductTypeSubs,
		Title:       subscription.ProductId,
		Name:        subscription.ProductId,
	}
	if len(subscription.Listings) > 0 && subscription.Listings[0] != nil {
		details.Title = subscription.Listings[0].Title
		details.Name = subscription.Listings[0].Title
		details.Description = subscription.Listings[0].Description
	}

	for _, plan := range subscription.BasePlans {
		if plan.State != "" && plan.State != stateActive {
			continue
		}

		basePhase, ok := c.basePlanPhase(plan)
		if !ok {
			continue
		}
		baseTags := tags(plan.OfferTags)

		resp, err := svc.Monetization.Subscriptions.BasePlans.Offers.List(c.cfg.PackageName, productID, plan.BasePlanId).Context(ctx).Do()
		if err != nil {
			return nil, err
		}

		for _, offer := range resp.SubscriptionOffers {
			if offer.State != "" && offer.State != stateActive {
				continue
			}

			phases, ok := c.offerPhases(offer, basePhase)
			if !ok {
				continue
			}

			details.SubscriptionOfferDetails = append(details.SubscriptionOfferDetails, &billing.SubscriptionOfferDetails{
				BasePlanID:    plan.BasePlanId,
				OfferID:       offer.OfferId,
				OfferToken:    offerToken(plan.BasePlanId, offer.OfferId),
				OfferTags:     append(append([]string(nil), baseTags...), tags(offer.OfferTags)...),
				PricingPhases: append(phases, basePhase),
			})
		}

		details.SubscriptionOfferDetails = append(details.SubscriptionOfferDetails, &billing.SubscriptionOfferDetails{
			BasePlanID:    plan.BasePlanId,
			OfferToken:    offerToken(plan.BasePlanId, ""),
			OfferTags:     baseTags,
			PricingPhases: []*billing.PricingPhase{basePhase},
		})
	}

	return details, nil
}

// basePlanPhase returns the recurring phase of a base plan priced for the
// configured region.
func (c *Client) basePlanPhase(plan *androidpublisher.BasePlan) (*billing.PricingPhase, bool) {
	var price *androidpublisher.Money
	for _, config := range plan.RegionalConfigs {
		if config.RegionCode == c.cfg.RegionCode {
			price = config.Price
			break
		}
	}
	if price == nil {
		return nil, false
	}

	phase := pricingPhase(price)
	switch {
	case plan.AutoRenewingBasePlanType != nil:
		phase.BillingPeriod = plan.AutoRenewingBasePlanType.BillingPeriodDuration
		phase.RecurrenceMode = billing.RecurrenceModeInfinite
	case plan.PrepaidBasePlanType != nil:
		phase.BillingPeriod = plan.PrepaidBasePlanType.BillingPeriodDuration
		phase.BillingCycleCount = 1
		phase.RecurrenceMode = billing.RecurrenceModeNonRecurring
	}
	return phase, true
}

// offerPhases returns the introductory phases of an offer. Offers that are
// not available in the configured region are skipped. Discounted phases are
// priced against the base plan's regional price.
func (c *Client) offerPhases(offer *androidpublisher.SubscriptionOffer, base *billing.PricingPhase) ([]*billing.PricingPhase, bool) {
	var phases []*billing.PricingPhase
	for _, offerPhase := range offer.Phases {
		var config *androidpublisher.RegionalSubscriptionOfferPhaseConfig
		for _, candidate := range offerPhase.RegionalConfigs {
			if candidate.RegionCode == c.cfg.RegionCode {
				config = candidate
				break
			}
		}
		if config == nil {
			return nil, false
		}

		var phase *billing.PricingPhase
		if config.Price != nil {
			phase = pricingPhase(config.Price)
		} else {
			micros := discountedMicros(base.PriceAmountMicros, config)
			phase = &billing.PricingPhase{
				FormattedPrice:    billing.FormatPrice(micros, base.PriceCurrencyCode),
				PriceAmountMicros: micros,
				PriceCurrencyCode: base.PriceCurrencyCode,
			}
		}

		phase.BillingPeriod = offerPhase.Duration
		phase.BillingCycleCount = int(offerPhase.RecurrenceCount)
		phase.RecurrenceMode = billing.RecurrenceModeFinite
		phases = append(phases, phase)
	}
	return phases, true
}

// discountedMicros prices an offer phase that has no explicit price. A phase
// with neither a relative nor an absolute discount is free.
func discountedMicros(baseMicros int64, config *androidpublisher.RegionalSubscriptionOfferPhaseConfig) int64 {
	base := decimal.NewFromInt(baseMicros)

	var price decimal.Decimal
	switch {
	case config.RelativeDiscount > 0:
		price = base.Mul(decimal.NewFromInt(1).Sub(decimal.NewFromFloat(config.RelativeDiscount)))
	case config.AbsoluteDiscount != nil:
		price = base.Sub(decimal.NewFromInt(moneyToMicros(config.AbsoluteDiscount)))
	default:
		return 0
	}

	if price.IsNegative() {
		return 0
	}
	return price.Round(0).IntPart()
}

func pricingPhase(price *androidpublisher.Money) *billing.PricingPhase {
	micros := moneyToMicros(price)
	return &billing.PricingPhase{
		FormattedPrice:    billing.FormatPrice(micros, price.CurrencyCode),
		PriceAmountMicros: micros,
		PriceCurrencyCode: price.CurrencyCode,
	}
}

func moneyToMicros(m *androidpublisher.Money) int64 {
	return decimal.New(m.Units, 0).
		Add(decimal.New(m.Nanos, -9)).
		Shift(6).
		IntPart()
}

func offerToken(basePlanID, offerID string) string {
	if offerID == "" {
		return basePlanID
	}
	return basePlanID + "/" + offerID
}

func tags(offerTags []*androidpublisher.OfferTag) []string {
	var result []string
	for _, tag := range offerTags {
		result = append(result, tag.Tag)
	}
	return result
}
