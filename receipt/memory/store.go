package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/code-payments/flipchat-billing/receipt"
)

type InMemoryStore struct {
	mu       sync.RWMutex
	receipts map[string]*receipt.Receipt
}

func NewInMemory() receipt.Store {
	return &InMemoryStore{
		receipts: map[string]*receipt.Receipt{},
	}
}

func (s *InMemoryStore) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.receipts = make(map[string]*receipt.Receipt)
}

func (s *InMemoryStore) PutReceipt(_ context.Context, r *receipt.Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.receipts[r.Token]; ok {
		return receipt.ErrExists
	}

	s.receipts[r.Token] = r.Clone()
	return nil
}

func (s *InMemoryStore) GetReceipt(_ context.Context, token string) (*receipt.Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.receipts[token]
	if !ok {
		return nil, receipt.ErrNotFound
	}
	return r.Clone(), nil
}

func (s *InMemoryStore) GetReceiptsByOwner(_ context.Context, owner string) ([]*receipt.Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var receipts []*receipt.Receipt
	for _, r := range s.receipts {
		if r.Owner == owner {
			receipts = append(receipts, r.Clone())
		}
	}

	sort.Slice(receipts, func(i, j int) bool {
		if receipts[i].CreatedAt.Equal(receipts[j].CreatedAt) {
			return receipts[i].Token < receipts[j].Token
		}
		return receipts[i].CreatedAt.Before(receipts[j].CreatedAt)
	})
	return receipts, nil
}
