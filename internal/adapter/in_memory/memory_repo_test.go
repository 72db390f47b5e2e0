package in_memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"

	"github.com/sharebid/auction-engine/internal/domain"
	"github.com/sharebid/auction-engine/internal/port"
)

func TestMemoryRepo_AuctionRoundTrip(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	a := &domain.Auction{
		ID:          "a-1",
		Name:        "series-a",
		TotalSupply: 1000,
		Status:      domain.Draft,
		CreatedAt:   time.Now().UTC(),
	}
	assert.Nil(t, repo.SaveAuction(ctx, a))

	loaded, err := repo.LoadAuction(ctx, "a-1")
	assert.Nil(t, err)
	check.Equal(t, "series-a", loaded.Name)
	check.Equal(t, int64(1000), loaded.TotalSupply)

	_, err = repo.LoadAuction(ctx, "missing")
	check.True(t, errors.Is(err, port.ErrNotFound))
}

func TestMemoryRepo_ConditionalStatusUpdate(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	a := &domain.Auction{ID: "a-1", TotalSupply: 1000, Status: domain.Active}
	assert.Nil(t, repo.SaveAuction(ctx, a))

	assert.Nil(t, repo.UpdateAuctionStatus(ctx, "a-1", domain.Active, domain.Completed))

	loaded, err := repo.LoadAuction(ctx, "a-1")
	assert.Nil(t, err)
	check.Equal(t, domain.Completed, loaded.Status)
	check.NotNil(t, loaded.ResolvedAt)

	// A second transition from ACTIVE loses the race.
	err = repo.UpdateAuctionStatus(ctx, "a-1", domain.Active, domain.Completed)
	check.True(t, errors.Is(err, port.ErrNotFound))
}

func TestMemoryRepo_BidsPreserveSubmissionOrder(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	for _, id := range []string{"b-1", "b-2", "b-3"} {
		err := repo.SaveBid(ctx, "a-1", &domain.Bid{
			ID:       id,
			Quantity: 10,
			MaxPrice: decimal.RequireFromString("5.25"),
		})
		assert.Nil(t, err)
	}

	bids, err := repo.LoadBids(ctx, "a-1")
	assert.Nil(t, err)
	assert.Equal(t, 3, len(bids))
	check.Equal(t, "b-1", bids[0].ID)
	check.Equal(t, "b-3", bids[2].ID)
}

func TestMemoryRepo_ResultRoundTrip(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	_, err := repo.LoadResult(ctx, "a-1")
	check.True(t, errors.Is(err, port.ErrNotFound))

	r := &domain.ClearingResult{
		TotalSupply:     1000,
		ClearingPrice:   decimal.RequireFromString("120"),
		SharesAllocated: 1000,
	}
	assert.Nil(t, repo.SaveResult(ctx, "a-1", r))

	loaded, err := repo.LoadResult(ctx, "a-1")
	assert.Nil(t, err)
	check.Equal(t, int64(1000), loaded.SharesAllocated)
}

func TestCache_MissReturnsNil(t *testing.T) {
	c := NewCache()
	ctx := context.Background()

	r, err := c.GetResult(ctx, "missing")
	check.Nil(t, err)
	check.Nil(t, r)

	assert.Nil(t, c.SetResult(ctx, "a-1", &domain.ClearingResult{SharesAllocated: 5}))
	r, err = c.GetResult(ctx, "a-1")
	check.Nil(t, err)
	if check.NotNil(t, r) {
		check.Equal(t, int64(5), r.SharesAllocated)
	}

	assert.Nil(t, c.Invalidate(ctx, "a-1"))
	r, _ = c.GetResult(ctx, "a-1")
	check.Nil(t, r)
}

func TestCache_IsolatedFromCallerMutation(t *testing.T) {
	c := NewCache()
	ctx := context.Background()

	r := &domain.ClearingResult{
		ClearingPrice:   decimal.RequireFromString("120"),
		SharesAllocated: 800,
	}
	assert.Nil(t, c.SetResult(ctx, "a-1", r))

	// Mutating the stored value must not leak into the cache.
	r.SharesAllocated = 0

	cached, err := c.GetResult(ctx, "a-1")
	assert.Nil(t, err)
	if check.NotNil(t, cached) {
		check.Equal(t, int64(800), cached.SharesAllocated)
	}

	// Nor must mutating a fetched value corrupt later reads.
	cached.SharesAllocated = 1
	again, err := c.GetResult(ctx, "a-1")
	assert.Nil(t, err)
	if check.NotNil(t, again) {
		check.Equal(t, int64(800), again.SharesAllocated)
	}
}

func TestMemoryRepo_ListAuctionsByStatus(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	base := time.Now().UTC()
	assert.Nil(t, repo.SaveAuction(ctx, &domain.Auction{ID: "a-2", Status: domain.Draft, CreatedAt: base.Add(time.Second)}))
	assert.Nil(t, repo.SaveAuction(ctx, &domain.Auction{ID: "a-1", Status: domain.Draft, CreatedAt: base}))
	assert.Nil(t, repo.SaveAuction(ctx, &domain.Auction{ID: "a-3", Status: domain.Active, CreatedAt: base}))

	drafts, err := repo.ListAuctions(ctx, domain.Draft)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(drafts))
	check.Equal(t, "a-1", drafts[0].ID)
	check.Equal(t, "a-2", drafts[1].ID)

	cancelled, err := repo.ListAuctions(ctx, domain.Cancelled)
	assert.Nil(t, err)
	check.Equal(t, 0, len(cancelled))
}
