package core

import (
	"github.com/shopspring/decimal"

	"github.com/sharebid/auction-engine/internal/domain"
)

// Resolve runs the full clearing pipeline over an immutable bid
// snapshot: validate, sort, find the clearing price, allocate, and
// assemble the report. It is a pure function; identical input always
// produces an identical ClearingResult.
func Resolve(totalSupply int64, bids []domain.Bid) (*domain.ClearingResult, error) {
	if err := ValidateBids(totalSupply, bids); err != nil {
		return nil, err
	}

	sorted := SortBidsForClearing(bids)
	cl := resolveClearing(totalSupply, sorted)
	allocations := allocate(totalSupply, sorted, cl)

	return assembleResult(totalSupply, cl, allocations), nil
}

// assembleResult aggregates allocations into the final report. No
// decisions are made here; sums and amounts stay in exact arithmetic.
func assembleResult(totalSupply int64, cl clearing, allocations []domain.Allocation) *domain.ClearingResult {
	var sharesAllocated int64
	for i := range allocations {
		a := &allocations[i]
		a.TotalAmount = cl.price.Mul(decimal.NewFromInt(a.AllocatedQuantity))
		sharesAllocated += a.AllocatedQuantity
	}

	return &domain.ClearingResult{
		TotalSupply:     totalSupply,
		ClearingPrice:   cl.price,
		TotalDemand:     cl.totalDemand,
		SharesAllocated: sharesAllocated,
		SharesRemaining: totalSupply - sharesAllocated,
		ProRataApplied:  cl.logic == domain.LogicProRata,
		Allocations:     allocations,
		Trace: domain.CalculationTrace{
			TotalBids:     len(allocations),
			ClearingLogic: cl.logic,
			Steps:         cl.steps,
		},
	}
}
