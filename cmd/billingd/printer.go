package main

import (
	"go.uber.org/zap"

	"github.com/code-payments/flipchat-billing/billing"
)

// printer logs every billing event at info level.
type printer struct {
	log *zap.Logger
}

func (p *printer) OnPurchasesUpdated(purchase *billing.Purchase) {
	p.log.Info("Purchase fulfilled",
		zap.Strings("products", purchase.Products),
		zap.String("purchase_token", purchase.PurchaseToken),
		zap.Stringer("state", purchase.State),
	)
}

func (p *printer) OnPurchasesUpdate(result billing.Result, purchases []*billing.Purchase) {
	p.log.Info("Purchases updated",
		zap.Stringer("code", result.Code),
		zap.Int("num_purchases", len(purchases)),
	)
}

func (p *printer) Connected() {
	p.log.Info("Connected")
}

func (p *printer) Disconnected() {
	p.log.Info("Disconnected")
}

func (p *printer) Failed() {
	p.log.Warn("Billing setup failed")
}

func (p *printer) UpdateNonConsumablePrices(response billing.Response[[]billing.CatalogEntry]) {
	p.prices(billing.CategoryNonConsumable, response)
}

func (p *printer) UpdateConsumablePrices(response billing.Response[[]billing.CatalogEntry]) {
	p.prices(billing.CategoryConsumable, response)
}

func (p *printer) UpdateSubscriptionPrices(response billing.Response[[]billing.CatalogEntry]) {
	p.prices(billing.CategorySubscription, response)
}

func (p *printer) prices(category billing.Category, response billing.Response[[]billing.CatalogEntry]) {
	fields := []zap.Field{
		zap.Stringer("category", category),
		zap.Stringer("status", response.Status),
	}

	switch response.Status {
	case billing.StatusSuccess:
		fields = append(fields, zap.Int("num_products", len(response.Data)))
	case billing.StatusError:
		fields = append(fields, zap.String("message", response.Message))
		if response.Result != nil {
			fields = append(fields, zap.Stringer("code", response.Result.Code))
		}
	}

	p.log.Info("Prices updated", fields...)
}
