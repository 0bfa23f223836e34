package store

import (
	"context"
	"sort"
	"strings"
	"sync"
)

type MemoryStore struct {
	receipts map[string]Receipt
	mu       sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		receipts: make(map[string]Receipt),
	}
}

func (s *MemoryStore) AppendReceipt(ctx context.Context, r Receipt) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.receipts[r.ID]; !exists {
		s.receipts[r.ID] = r
	}
	return nil
}

func (s *MemoryStore) GetReceipt(ctx context.Context, id string) (Receipt, error) {
	select {
	case <-ctx.Done():
		return Receipt{}, ctx.Err()
	default:
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.receipts[id]
	if !ok {
		return Receipt{}, ErrReceiptNotFound
	}
	return r, nil
}

func (s *MemoryStore) ListReceipts(ctx context.Context, wallet string, limit, offset int32) ([]Receipt, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	s.mu.RLock()
	var result []Receipt
	for _, r := range s.receipts {
		if strings.EqualFold(r.Wallet, wallet) {
			result = append(result, r)
		}
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].ConfirmedAt.Equal(result[j].ConfirmedAt) {
			return result[i].ConfirmedAt.After(result[j].ConfirmedAt)
		}
		return result[i].ID < result[j].ID
	})

	start := int(offset)
	if start > len(result) {
		return nil, nil
	}
	end := len(result)
	if limit > 0 && start+int(limit) < end {
		end = start + int(limit)
	}
	return result[start:end], nil
}
