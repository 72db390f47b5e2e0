package core

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/sharebid/auction-engine/internal/domain"
)

// BidBefore is the single ordering rule the whole engine hangs off:
// higher max_price first, and for equal prices the earlier submitted_at
// first (FIFO). Both demand accumulation and allocation walk bids in
// exactly this order.
func BidBefore(a, b *domain.Bid) bool {
	if !a.MaxPrice.Equal(b.MaxPrice) {
		return a.MaxPrice.GreaterThan(b.MaxPrice)
	}
	return a.SubmittedAt.Before(b.SubmittedAt)
}

// SortBidsForClearing returns a new slice in processing order.
// The input is never mutated.
func SortBidsForClearing(bids []domain.Bid) []domain.Bid {
	sorted := make([]domain.Bid, len(bids))
	copy(sorted, bids)
	sort.SliceStable(sorted, func(i, j int) bool {
		return BidBefore(&sorted[i], &sorted[j])
	})
	return sorted
}

// clearing is the resolver's verdict: the uniform price, its
// classification, and the trace steps accumulated on the way there.
type clearing struct {
	price       decimal.Decimal
	logic       domain.ClearingLogic
	fraction    *decimal.Decimal
	steps       []domain.BidStep
	totalDemand int64
}

// resolveClearing walks bids in sorted order accumulating demand until
// it crosses totalSupply. It emits one BidStep per processed bid and
// stops at the clearing bid; bids past it never enter the trace.
func resolveClearing(totalSupply int64, sorted []domain.Bid) clearing {
	var totalDemand int64
	for i := range sorted {
		totalDemand += sorted[i].Quantity
	}

	if len(sorted) == 0 {
		return clearing{
			price:       decimal.Zero,
			logic:       domain.LogicUndersub,
			steps:       []domain.BidStep{},
			totalDemand: 0,
		}
	}

	var running int64
	steps := make([]domain.BidStep, 0, len(sorted))
	for i := range sorted {
		bid := &sorted[i]
		before := running
		running += bid.Quantity

		step := domain.BidStep{
			BidID:               bid.ID,
			BidderEmail:         bid.BidderEmail,
			MaxPrice:            bid.MaxPrice,
			Quantity:            bid.Quantity,
			RunningDemandBefore: before,
			RunningDemandAfter:  running,
		}

		if running >= totalSupply {
			step.IsClearingBid = true
			steps = append(steps, step)

			res := clearing{
				price:       bid.MaxPrice,
				steps:       steps,
				totalDemand: totalDemand,
			}
			if running > totalSupply && before < totalSupply {
				// Oversubscribed exactly at the margin: the clearing
				// bid's price tier shares the leftover supply.
				frac := decimal.NewFromInt(totalSupply - before).
					Div(decimal.NewFromInt(bid.Quantity))
				res.logic = domain.LogicProRata
				res.fraction = &frac
				annotateProRataSteps(res.steps, bid.MaxPrice, &frac)
			} else {
				res.logic = domain.LogicFullAllocation
			}
			return res
		}

		steps = append(steps, step)
	}

	// Demand never reached supply: everyone is filled at the lowest
	// submitted price.
	return clearing{
		price:       sorted[len(sorted)-1].MaxPrice,
		logic:       domain.LogicUndersub,
		steps:       steps,
		totalDemand: totalDemand,
	}
}

// annotateProRataSteps records the fraction on every trace step at the
// clearing price, since the whole tier is pro-rated uniformly.
func annotateProRataSteps(steps []domain.BidStep, clearingPrice decimal.Decimal, frac *decimal.Decimal) {
	for i := range steps {
		if steps[i].MaxPrice.Equal(clearingPrice) {
			steps[i].ProRataFraction = frac
		}
	}
}
