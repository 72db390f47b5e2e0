package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sharebid/auction-engine/internal/domain"
	"github.com/sharebid/auction-engine/internal/port"
)

var (
	ErrBiddingClosed = errors.New("auction is not accepting bids")
	ErrNotResolvable = errors.New("auction is not ready to resolve")
)

// Engine ties the pure clearing pipeline to the surrounding platform:
// auction lifecycle, bid intake, persistence of results and the audit
// trace. The computation itself stays in Resolve and owns no I/O.
type Engine struct {
	repo  port.Repository
	cache port.Cache
	log   *logrus.Logger
}

func NewEngine(repo port.Repository, cache port.Cache, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.New()
	}
	return &Engine{repo: repo, cache: cache, log: log}
}

// CreateAuction records a new auction in DRAFT.
func (e *Engine) CreateAuction(ctx context.Context, name string, totalSupply int64) (*domain.Auction, error) {
	if totalSupply <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSupply, totalSupply)
	}
	a := &domain.Auction{
		ID:          uuid.NewString(),
		Name:        name,
		TotalSupply: totalSupply,
		Status:      domain.Draft,
		CreatedAt:   time.Now().UTC(),
	}
	if err := e.repo.SaveAuction(ctx, a); err != nil {
		return nil, fmt.Errorf("save auction: %w", err)
	}
	return a, nil
}

// OpenBidding moves DRAFT -> COLLECTING_BIDS.
func (e *Engine) OpenBidding(ctx context.Context, auctionID string) error {
	return e.repo.UpdateAuctionStatus(ctx, auctionID, domain.Draft, domain.CollectingBids)
}

// ActivateAuction seals the bid set: COLLECTING_BIDS -> ACTIVE.
func (e *Engine) ActivateAuction(ctx context.Context, auctionID string) error {
	return e.repo.UpdateAuctionStatus(ctx, auctionID, domain.CollectingBids, domain.Active)
}

// CancelAuction aborts an auction that has not completed.
func (e *Engine) CancelAuction(ctx context.Context, auctionID string) error {
	a, err := e.repo.LoadAuction(ctx, auctionID)
	if err != nil {
		return err
	}
	if a.Status == domain.Completed || a.Status == domain.Cancelled {
		return fmt.Errorf("cannot cancel auction in status %s", a.Status)
	}
	if err := e.repo.UpdateAuctionStatus(ctx, auctionID, a.Status, domain.Cancelled); err != nil {
		return err
	}
	if e.cache != nil {
		_ = e.cache.Invalidate(ctx, auctionID)
	}
	return nil
}

// SubmitBid validates and records one sealed bid. Bids are only
// accepted while the auction is collecting.
func (e *Engine) SubmitBid(ctx context.Context, auctionID string, b *domain.Bid) error {
	a, err := e.repo.LoadAuction(ctx, auctionID)
	if err != nil {
		return err
	}
	if !a.CanAcceptBids() {
		return ErrBiddingClosed
	}

	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.SubmittedAt.IsZero() {
		b.SubmittedAt = time.Now().UTC()
	}
	if err := ValidateBid(b); err != nil {
		return err
	}
	return e.repo.SaveBid(ctx, auctionID, b)
}

// ResolveAuction seals the snapshot, runs the clearing computation and
// persists the result plus audit trace. Only ACTIVE auctions resolve;
// the conditional status update makes double resolution a no-op race
// loser rather than a double write.
func (e *Engine) ResolveAuction(ctx context.Context, auctionID string) (*domain.ClearingResult, error) {
	a, err := e.repo.LoadAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if !a.CanResolve() {
		return nil, fmt.Errorf("%w: status %s", ErrNotResolvable, a.Status)
	}

	bids, err := e.repo.LoadBids(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("load bids: %w", err)
	}

	result, err := Resolve(a.TotalSupply, bids)
	if err != nil {
		return nil, err
	}

	// Persist the result before flipping the status: a failed save
	// leaves the auction ACTIVE and retryable. The conditional flip
	// still arbitrates concurrent resolvers; a race loser has merely
	// overwritten the identical result.
	if err := e.repo.SaveResult(ctx, auctionID, result); err != nil {
		return nil, fmt.Errorf("save result: %w", err)
	}
	if err := e.repo.UpdateAuctionStatus(ctx, auctionID, domain.Active, domain.Completed); err != nil {
		return nil, err
	}
	if e.cache != nil {
		_ = e.cache.SetResult(ctx, auctionID, result)
	}

	e.log.WithFields(logrus.Fields{
		"auction_id":       auctionID,
		"total_bids":       result.Trace.TotalBids,
		"clearing_logic":   result.Trace.ClearingLogic,
		"clearing_price":   result.ClearingPrice.String(),
		"shares_allocated": result.SharesAllocated,
		"shares_remaining": result.SharesRemaining,
	}).Info("auction resolved")

	return result, nil
}

// GetResult returns the persisted clearing result, cache-first.
func (e *Engine) GetResult(ctx context.Context, auctionID string) (*domain.ClearingResult, error) {
	if e.cache != nil {
		if r, err := e.cache.GetResult(ctx, auctionID); err == nil && r != nil {
			return r, nil
		}
	}
	r, err := e.repo.LoadResult(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		_ = e.cache.SetResult(ctx, auctionID, r)
	}
	return r, nil
}

func (e *Engine) GetAuction(ctx context.Context, auctionID string) (*domain.Auction, error) {
	return e.repo.LoadAuction(ctx, auctionID)
}

// ListAuctions returns all auctions in the given status, oldest first.
func (e *Engine) ListAuctions(ctx context.Context, status domain.AuctionStatus) ([]domain.Auction, error) {
	return e.repo.ListAuctions(ctx, status)
}

func (e *Engine) ListBids(ctx context.Context, auctionID string) ([]domain.Bid, error) {
	if _, err := e.repo.LoadAuction(ctx, auctionID); err != nil {
		return nil, err
	}
	return e.repo.LoadBids(ctx, auctionID)
}
