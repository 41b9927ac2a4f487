package postgres

import (
	"time"

	"github.com/code-payments/flipchat-billing/billing"
	"github.com/code-payments/flipchat-billing/receipt"
)

const receiptTable = "billing_receipts"

// Schema creates the receipt table.
const Schema = `
CREATE TABLE IF NOT EXISTS ` + receiptTable + ` (
	"token"       TEXT PRIMARY KEY,
	"owner"       TEXT NOT NULL,
	"productId"   TEXT NOT NULL,
	"productType" TEXT NOT NULL,
	"createdAt"   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS billing_receipts_owner_idx ON ` + receiptTable + ` ("owner", "createdAt");
`

// receiptModel maps to the billing_receipts table
type receiptModel struct {
	Token       string    `db:"token"`
	Owner       string    `db:"owner"`
	ProductID   string    `db:"productId"`
	ProductType string    `db:"productType"`
	CreatedAt   time.Time `db:"createdAt"`
}

func toModel(r *receipt.Receipt) *receiptModel {
	return &receiptModel{
		Token:       r.Token,
		Owner:       r.Owner,
		ProductID:   r.ProductID,
		ProductType: string(r.ProductType),
		CreatedAt:   r.CreatedAt,
	}
}

func fromModel(m *receiptModel) *receipt.Receipt {
	return &receipt.Receipt{
		Token:       m.Token,
		Owner:       m.Owner,
		ProductID:   m.ProductID,
		ProductType: billing.ProductType(m.ProductType),
		CreatedAt:   m.CreatedAt,
	}
}
