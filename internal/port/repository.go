package port

import (
	"context"
	"errors"

	"github.com/sharebid/auction-engine/internal/domain"
)

// ErrNotFound is returned by adapters when the requested auction,
// bid or result does not exist (or is not in the expected status
// for a conditional update).
var ErrNotFound = errors.New("not found")

type Repository interface {
	SaveAuction(ctx context.Context, a *domain.Auction) error
	LoadAuction(ctx context.Context, auctionID string) (*domain.Auction, error)
	// UpdateAuctionStatus performs a conditional lifecycle transition
	// and fails with ErrNotFound when the auction is missing or not in
	// the expected status.
	UpdateAuctionStatus(ctx context.Context, auctionID string, from, to domain.AuctionStatus) error
	// ListAuctions returns auctions in a given status, oldest first.
	ListAuctions(ctx context.Context, status domain.AuctionStatus) ([]domain.Auction, error)

	SaveBid(ctx context.Context, auctionID string, b *domain.Bid) error
	// LoadBids returns the finalized bid snapshot in submission order.
	LoadBids(ctx context.Context, auctionID string) ([]domain.Bid, error)

	SaveResult(ctx context.Context, auctionID string, r *domain.ClearingResult) error
	LoadResult(ctx context.Context, auctionID string) (*domain.ClearingResult, error)
}
