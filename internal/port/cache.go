package port

import (
	"context"

	"github.com/sharebid/auction-engine/internal/domain"
)

type Cache interface {
	SetResult(ctx context.Context, auctionID string, r *domain.ClearingResult) error
	// GetResult returns (nil, nil) on a cache miss.
	GetResult(ctx context.Context, auctionID string) (*domain.ClearingResult, error)
	Invalidate(ctx context.Context, auctionID string) error
}
