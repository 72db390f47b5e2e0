package domain

import (
	"github.com/shopspring/decimal"
)

type AllocationKind string
type ClearingLogic string

const (
	AllocationFull    AllocationKind = "full"
	AllocationProRata AllocationKind = "pro_rata"
	AllocationNone    AllocationKind = "rejected"

	LogicFullAllocation ClearingLogic = "full_allocation"
	LogicProRata        ClearingLogic = "pro_rata_at_clearing_price"
	LogicUndersub       ClearingLogic = "undersubscribed"
)

// Allocation is the engine's verdict for a single bid.
// TotalAmount is always AllocatedQuantity × ClearingPrice, exact.
type Allocation struct {
	BidID             string           `json:"bid_id"`
	BidderID          string           `json:"bidder_id"`
	BidderEmail       string           `json:"bidder_email"`
	OriginalQuantity  int64            `json:"original_quantity"`
	AllocatedQuantity int64            `json:"allocated_quantity"`
	ClearingPrice     decimal.Decimal  `json:"clearing_price"`
	TotalAmount       decimal.Decimal  `json:"total_amount"`
	Kind              AllocationKind   `json:"allocation_kind"`
	ProRataFraction   *decimal.Decimal `json:"pro_rata_fraction,omitempty"`
}

// BidStep records one bid's pass through demand accumulation,
// in processing order (price desc, submitted_at asc).
type BidStep struct {
	BidID               string           `json:"bid_id"`
	BidderEmail         string           `json:"bidder_email"`
	MaxPrice            decimal.Decimal  `json:"max_price"`
	Quantity            int64            `json:"quantity"`
	RunningDemandBefore int64            `json:"running_demand_before"`
	RunningDemandAfter  int64            `json:"running_demand_after"`
	IsClearingBid       bool             `json:"is_clearing_bid"`
	ProRataFraction     *decimal.Decimal `json:"pro_rata_fraction,omitempty"`
}

// CalculationTrace is the auditable record of how the clearing price
// was reached. The surrounding platform persists it verbatim for
// dispute resolution.
type CalculationTrace struct {
	TotalBids     int           `json:"total_bids"`
	ClearingLogic ClearingLogic `json:"clearing_logic"`
	Steps         []BidStep     `json:"steps"`
}

// ClearingResult is the full output of one engine invocation.
// It is constructed once, never mutated, and owned by the caller.
type ClearingResult struct {
	TotalSupply     int64            `json:"total_supply"`
	ClearingPrice   decimal.Decimal  `json:"clearing_price"`
	TotalDemand     int64            `json:"total_demand"`
	SharesAllocated int64            `json:"shares_allocated"`
	SharesRemaining int64            `json:"shares_remaining"`
	ProRataApplied  bool             `json:"pro_rata_applied"`
	Allocations     []Allocation     `json:"allocations"`
	Trace           CalculationTrace `json:"trace"`
}
