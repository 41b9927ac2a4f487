package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductKeys_Classify(t *testing.T) {
	keys := ProductKeys{
		NonConsumable: []string{"remove_ads"},
		Consumable:    []string{"coin_pack"},
		Subscription:  []string{"gold_monthly"},
	}

	assert.Equal(t, CategoryNonConsumable, keys.Classify("remove_ads"))
	assert.Equal(t, CategoryConsumable, keys.Classify("coin_pack"))
	assert.Equal(t, CategorySubscription, keys.Classify("gold_monthly"))
	assert.Equal(t, CategoryUnclassified, keys.Classify("unknown"))
	assert.Equal(t, CategoryUnclassified, ProductKeys{}.Classify("remove_ads"))
}

func TestProductKeys_ClassifyPrecedence(t *testing.T) {
	keys := ProductKeys{
		NonConsumable: []string{"everywhere"},
		Consumable:    []string{"everywhere", "twice"},
		Subscription:  []string{"everywhere", "twice"},
	}

	assert.Equal(t, CategoryNonConsumable, keys.Classify("everywhere"))
	assert.Equal(t, CategoryConsumable, keys.Classify("twice"))
}

func TestProductKeys_ClassifyPurchase(t *testing.T) {
	keys := ProductKeys{
		NonConsumable: []string{"remove_ads"},
		Consumable:    []string{"coin_pack"},
		Subscription:  []string{"gold_monthly"},
	}

	t.Run("single product", func(t *testing.T) {
		matches := keys.ClassifyPurchase(&Purchase{Products: []string{"coin_pack"}})
		require.Len(t, matches, 1)
		assert.Equal(t, Match{ProductID: "coin_pack", Category: CategoryConsumable}, matches[0])
	})

	t.Run("spans categories", func(t *testing.T) {
		matches := keys.ClassifyPurchase(&Purchase{Products: []string{"gold_monthly", "unknown", "remove_ads"}})
		assert.Equal(t, []Match{
			{ProductID: "gold_monthly", Category: CategorySubscription},
			{ProductID: "remove_ads", Category: CategoryNonConsumable},
		}, matches)
	})

	t.Run("unclassified", func(t *testing.T) {
		assert.Empty(t, keys.ClassifyPurchase(&Purchase{Products: []string{"unknown"}}))
		assert.Empty(t, keys.ClassifyPurchase(&Purchase{}))
	})
}

func TestCategory_ProductType(t *testing.T) {
	assert.Equal(t, ProductTypeInApp, CategoryNonConsumable.ProductType())
	assert.Equal(t, ProductTypeInApp, CategoryConsumable.ProductType())
	assert.Equal(t, ProductTypeSubs, CategorySubscription.ProductType())
}
