package in_memory

import (
	"context"
	"sync"

	"github.com/sharebid/auction-engine/internal/domain"
	"github.com/sharebid/auction-engine/internal/port"
)

var _ port.Cache = (*Cache)(nil)

type Cache struct {
	mu    sync.Mutex
	store map[string]*domain.ClearingResult
}

func NewCache() *Cache {
	return &Cache{store: make(map[string]*domain.ClearingResult)}
}

func (c *Cache) SetResult(ctx context.Context, auctionID string, r *domain.ClearingResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copy := *r
	c.store[auctionID] = &copy
	return nil
}

func (c *Cache) GetResult(ctx context.Context, auctionID string) (*domain.ClearingResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.store[auctionID]
	if !ok {
		return nil, nil
	}
	copy := *r
	return &copy, nil
}

func (c *Cache) Invalidate(ctx context.Context, auctionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, auctionID)
	return nil
}
