package core

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"pgregory.net/rapid"

	"github.com/sharebid/auction-engine/internal/domain"
)

func genBids(t *rapid.T) []domain.Bid {
	n := rapid.IntRange(0, 25).Draw(t, "bidCount")
	bids := make([]domain.Bid, 0, n)
	for i := 0; i < n; i++ {
		// A small price domain forces frequent ties so the FIFO
		// tie-break and pro-rata tiers get exercised.
		cents := rapid.Int64Range(1, 40).Draw(t, fmt.Sprintf("price%d", i)) * 25
		qty := rapid.Int64Range(1, 2000).Draw(t, fmt.Sprintf("qty%d", i))
		offset := rapid.Int64Range(0, 1_000_000).Draw(t, fmt.Sprintf("offset%d", i))
		bids = append(bids, domain.Bid{
			ID:          fmt.Sprintf("bid-%d", i),
			BidderID:    fmt.Sprintf("bidder-%d", i),
			BidderEmail: fmt.Sprintf("bidder-%d@example.com", i),
			Quantity:    qty,
			MaxPrice:    decimal.New(cents, -2),
			SubmittedAt: baseTime.Add(time.Duration(offset) * time.Millisecond),
		})
	}
	return bids
}

func TestProperty_SupplyBound(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		supply := rapid.Int64Range(1, 50_000).Draw(t, "supply")
		bids := genBids(t)

		result, err := Resolve(supply, bids)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.SharesAllocated > supply {
			t.Fatalf("allocated %d exceeds supply %d", result.SharesAllocated, supply)
		}
		if result.SharesRemaining != supply-result.SharesAllocated {
			t.Fatalf("remaining %d != supply %d - allocated %d",
				result.SharesRemaining, supply, result.SharesAllocated)
		}
	})
}

func TestProperty_UniformPriceAndExactAmounts(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		supply := rapid.Int64Range(1, 50_000).Draw(t, "supply")
		bids := genBids(t)

		result, err := Resolve(supply, bids)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, a := range result.Allocations {
			if a.AllocatedQuantity > 0 && !a.ClearingPrice.Equal(result.ClearingPrice) {
				t.Fatalf("allocation %s priced %s, result clearing price %s",
					a.BidID, a.ClearingPrice, result.ClearingPrice)
			}
			want := result.ClearingPrice.Mul(decimal.NewFromInt(a.AllocatedQuantity))
			if !a.TotalAmount.Equal(want) {
				t.Fatalf("allocation %s amount %s, want %s", a.BidID, a.TotalAmount, want)
			}
		}
	})
}

func TestProperty_AllocationKindsFollowPrice(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		supply := rapid.Int64Range(1, 50_000).Draw(t, "supply")
		bids := genBids(t)

		result, err := Resolve(supply, bids)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, a := range result.Allocations {
			bid := bidByID(bids, a.BidID)
			switch {
			case bid.MaxPrice.LessThan(result.ClearingPrice):
				// Exclusion below clearing.
				if a.AllocatedQuantity != 0 || a.Kind != domain.AllocationNone {
					t.Fatalf("below-clearing bid %s allocated %d (%s)",
						a.BidID, a.AllocatedQuantity, a.Kind)
				}
			case bid.MaxPrice.GreaterThan(result.ClearingPrice):
				// Monotonicity: full fill unless capped purely by
				// remaining supply, in which case supply is exhausted.
				if a.AllocatedQuantity != a.OriginalQuantity && result.SharesAllocated != supply {
					t.Fatalf("above-clearing bid %s allocated %d of %d with supply unexhausted",
						a.BidID, a.AllocatedQuantity, a.OriginalQuantity)
				}
			}
		}
	})
}

func TestProperty_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		supply := rapid.Int64Range(1, 50_000).Draw(t, "supply")
		bids := genBids(t)

		first, err := Resolve(supply, bids)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := Resolve(supply, bids)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		firstJSON, _ := json.Marshal(first)
		secondJSON, _ := json.Marshal(second)
		if string(firstJSON) != string(secondJSON) {
			t.Fatalf("same input produced different results:\n%s\n%s", firstJSON, secondJSON)
		}
	})
}

func TestProperty_TraceDemandIsContiguous(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		supply := rapid.Int64Range(1, 50_000).Draw(t, "supply")
		bids := genBids(t)

		result, err := Resolve(supply, bids)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var running int64
		for i, step := range result.Trace.Steps {
			if step.RunningDemandBefore != running {
				t.Fatalf("step %d: demand before %d, want %d", i, step.RunningDemandBefore, running)
			}
			if step.RunningDemandAfter != running+step.Quantity {
				t.Fatalf("step %d: demand after %d, want %d", i, step.RunningDemandAfter, running+step.Quantity)
			}
			running = step.RunningDemandAfter

			isLast := i == len(result.Trace.Steps)-1
			if step.IsClearingBid && !isLast {
				t.Fatalf("step %d marked clearing but trace continues", i)
			}
		}
	})
}

func bidByID(bids []domain.Bid, id string) *domain.Bid {
	for i := range bids {
		if bids[i].ID == id {
			return &bids[i]
		}
	}
	return nil
}
