package cache

import (
	"context"
	"time"

	"github.com/ReneKroon/ttlcache"

	"github.com/code-payments/flipchat-billing/receipt"
)

// Cache is a read-through cache for receipt lookups by token. Receipts are
// immutable once stored, so entries only ever expire.
type Cache struct {
	db    receipt.Store
	ttl   time.Duration
	cache *ttlcache.Cache
}

func NewInCache(db receipt.Store, ttl time.Duration) receipt.Store {
	return &Cache{
		db:    db,
		ttl:   ttl,
		cache: newCache(ttl),
	}
}

func newCache(ttl time.Duration) *ttlcache.Cache {
	cache := ttlcache.NewCache()
	cache.SetTTL(ttl)
	return cache
}

func (c *Cache) reset() {
	c.cache.Close()
	c.cache = newCache(c.ttl)
}

func (c *Cache) PutReceipt(ctx context.Context, r *receipt.Receipt) error {
	return c.db.PutReceipt(ctx, r)
}

func (c *Cache) GetReceipt(ctx context.Context, token string) (*receipt.Receipt, error) {
	cached, ok := c.cache.Get(token)
	if ok {
		return cached.(*receipt.Receipt).Clone(), nil
	}

	r, err := c.db.GetReceipt(ctx, token)
	if err != nil {
		return nil, err
	}

	c.cache.Set(token, r.Clone())
	return r, nil
}

func (c *Cache) GetReceiptsByOwner(ctx context.Context, owner string) ([]*receipt.Receipt, error) {
	return c.db.GetReceiptsByOwner(ctx, owner)
}
