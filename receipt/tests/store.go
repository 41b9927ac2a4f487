package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/code-payments/flipchat-billing/billing"
	"github.com/code-payments/flipchat-billing/receipt"
)

func RunStoreTests(t *testing.T, s receipt.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s receipt.Store){
		testReceiptStore_HappyPath,
		testReceiptStore_ByOwner,
	} {
		tf(t, s)
		teardown()
	}
}

func testReceiptStore_HappyPath(t *testing.T, store receipt.Store) {
	ctx := context.Background()

	expected := &receipt.Receipt{
		Token:       "purchase-token",
		Owner:       "owner",
		ProductID:   "gold_monthly",
		ProductType: billing.ProductTypeSubs,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}

	_, err := store.GetReceipt(ctx, expected.Token)
	require.Equal(t, receipt.ErrNotFound, err)

	require.NoError(t, store.PutReceipt(ctx, expected))

	actual, err := store.GetReceipt(ctx, expected.Token)
	require.NoError(t, err)
	require.Equal(t, expected.Token, actual.Token)
	require.Equal(t, expected.Owner, actual.Owner)
	require.Equal(t, expected.ProductID, actual.ProductID)
	require.Equal(t, expected.ProductType, actual.ProductType)
	require.True(t, expected.CreatedAt.Equal(actual.CreatedAt))

	require.Equal(t, receipt.ErrExists, store.PutReceipt(ctx, expected))
}

func testReceiptStore_ByOwner(t *testing.T, store receipt.Store) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	receipts, err := store.GetReceiptsByOwner(ctx, "owner")
	require.NoError(t, err)
	require.Empty(t, receipts)

	for i, r := range []*receipt.Receipt{
		{Token: "newest", Owner: "owner", ProductID: "coin_pack", ProductType: billing.ProductTypeInApp},
		{Token: "oldest", Owner: "owner", ProductID: "gold_monthly", ProductType: billing.ProductTypeSubs},
		{Token: "other", Owner: "someone-else", ProductID: "coin_pack", ProductType: billing.ProductTypeInApp},
	} {
		r.CreatedAt = now.Add(-time.Duration(i) * time.Minute)
		if r.Token == "newest" {
			r.CreatedAt = now.Add(time.Minute)
		}
		require.NoError(t, store.PutReceipt(ctx, r))
	}

	receipts, err = store.GetReceiptsByOwner(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, receipts, 2)
	require.Equal(t, "oldest", receipts[0].Token)
	require.Equal(t, "newest", receipts[1].Token)
}
