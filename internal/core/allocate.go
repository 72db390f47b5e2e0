package core

import (
	"github.com/shopspring/decimal"

	"github.com/sharebid/auction-engine/internal/domain"
)

// allocate assigns a verdict to every bid in the snapshot, not only
// the bids seen before the clearing threshold: the clearing price is
// uniform over the whole set. Walks the same sorted order as demand
// accumulation so the running remaining-supply cap is consistent.
func allocate(totalSupply int64, sorted []domain.Bid, cl clearing) []domain.Allocation {
	allocations := make([]domain.Allocation, 0, len(sorted))
	var allocatedSoFar int64

	for i := range sorted {
		bid := &sorted[i]
		a := domain.Allocation{
			BidID:            bid.ID,
			BidderID:         bid.BidderID,
			BidderEmail:      bid.BidderEmail,
			OriginalQuantity: bid.Quantity,
			ClearingPrice:    cl.price,
		}

		switch {
		case bid.MaxPrice.LessThan(cl.price):
			a.Kind = domain.AllocationNone

		case bid.MaxPrice.Equal(cl.price) && cl.fraction != nil:
			// Floor, never round up: rounding loss is accepted rather
			// than redistributed. The running cap still applies so the
			// total can never exceed supply.
			granted := decimal.NewFromInt(bid.Quantity).Mul(*cl.fraction).Floor().IntPart()
			granted = min(granted, totalSupply-allocatedSoFar)
			if granted == 0 {
				a.Kind = domain.AllocationNone
			} else {
				a.Kind = domain.AllocationProRata
				a.AllocatedQuantity = granted
				a.ProRataFraction = cl.fraction
			}

		default:
			// Above the clearing price, or at it without
			// oversubscription. The cap guards residual rounding only.
			a.Kind = domain.AllocationFull
			a.AllocatedQuantity = min(bid.Quantity, totalSupply-allocatedSoFar)
		}

		allocatedSoFar += a.AllocatedQuantity
		allocations = append(allocations, a)
	}

	return allocations
}
