package receipt

import (
	"context"
	"errors"
	"time"

	"github.com/code-payments/flipchat-billing/billing"
)

var (
	ErrExists   = errors.New("receipt already exists")
	ErrNotFound = errors.New("receipt not found")
)

// Receipt is a purchase token reported by a buyer's device. Receipts make up
// the buyer's purchase history on the server side.
type Receipt struct {
	Token       string
	Owner       string
	ProductID   string
	ProductType billing.ProductType
	CreatedAt   time.Time
}

type Store interface {
	// PutReceipt records a receipt. Tokens are unique; recording the same token
	// twice returns ErrExists.
	PutReceipt(ctx context.Context, receipt *Receipt) error

	GetReceipt(ctx context.Context, token string) (*Receipt, error)

	// GetReceiptsByOwner returns the owner's receipts, oldest first.
	GetReceiptsByOwner(ctx context.Context, owner string) ([]*Receipt, error)
}

func (r *Receipt) Clone() *Receipt {
	return &Receipt{
		Token:       r.Token,
		Owner:       r.Owner,
		ProductID:   r.ProductID,
		ProductType: r.ProductType,
		CreatedAt:   r.CreatedAt,
	}
}
