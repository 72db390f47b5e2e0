package in_memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sharebid/auction-engine/internal/domain"
	"github.com/sharebid/auction-engine/internal/port"
)

var _ port.Repository = (*MemoryRepo)(nil)

// MemoryRepo keeps everything in process memory. Used by tests and
// local single-node runs.
type MemoryRepo struct {
	mu       sync.Mutex
	auctions map[string]*domain.Auction
	bids     map[string][]domain.Bid
	results  map[string]*domain.ClearingResult
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		auctions: make(map[string]*domain.Auction),
		bids:     make(map[string][]domain.Bid),
		results:  make(map[string]*domain.ClearingResult),
	}
}

func (r *MemoryRepo) SaveAuction(ctx context.Context, a *domain.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copy := *a
	r.auctions[a.ID] = &copy
	return nil
}

func (r *MemoryRepo) LoadAuction(ctx context.Context, auctionID string) (*domain.Auction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.auctions[auctionID]
	if !ok {
		return nil, port.ErrNotFound
	}
	copy := *a
	return &copy, nil
}

func (r *MemoryRepo) UpdateAuctionStatus(ctx context.Context, auctionID string, from, to domain.AuctionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.auctions[auctionID]
	if !ok || a.Status != from {
		return port.ErrNotFound
	}
	a.Status = to
	if to == domain.Completed {
		now := time.Now().UTC()
		a.ResolvedAt = &now
	}
	return nil
}

func (r *MemoryRepo) ListAuctions(ctx context.Context, status domain.AuctionStatus) ([]domain.Auction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []domain.Auction
	for _, a := range r.auctions {
		if a.Status == status {
			res = append(res, *a)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res, nil
}

func (r *MemoryRepo) SaveBid(ctx context.Context, auctionID string, b *domain.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bids[auctionID] = append(r.bids[auctionID], *b)
	return nil
}

func (r *MemoryRepo) LoadBids(ctx context.Context, auctionID string) ([]domain.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bids := r.bids[auctionID]
	res := make([]domain.Bid, len(bids))
	copy(res, bids)
	return res, nil
}

func (r *MemoryRepo) SaveResult(ctx context.Context, auctionID string, result *domain.ClearingResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[auctionID] = result
	return nil
}

func (r *MemoryRepo) LoadResult(ctx context.Context, auctionID string) (*domain.ClearingResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.results[auctionID]
	if !ok {
		return nil, port.ErrNotFound
	}
	return res, nil
}
