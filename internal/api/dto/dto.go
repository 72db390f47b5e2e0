package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Decimal fields marshal as JSON strings, so prices and amounts never
// round-trip through binary floats on the wire.

type CreateAuctionRequest struct {
	Name        string `json:"name" binding:"required"`
	TotalSupply int64  `json:"total_supply" binding:"required"`
}

type CreateAuctionResponse struct {
	AuctionID string `json:"auction_id"`
	Status    string `json:"status"`
}

type SubmitBidRequest struct {
	BidID       string          `json:"bid_id,omitempty"` // for deduplication
	BidderID    string          `json:"bidder_id" binding:"required"`
	BidderEmail string          `json:"bidder_email" binding:"required"`
	Quantity    int64           `json:"quantity" binding:"required"`
	MaxPrice    decimal.Decimal `json:"max_price" binding:"required"`
}

type SubmitBidResponse struct {
	BidID   string `json:"bid_id"`
	Message string `json:"message,omitempty"`
}

type StatusResponse struct {
	AuctionID string `json:"auction_id"`
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
}

type Auction struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	TotalSupply int64      `json:"total_supply"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

type Bid struct {
	ID          string          `json:"id"`
	BidderID    string          `json:"bidder_id"`
	BidderEmail string          `json:"bidder_email"`
	Quantity    int64           `json:"quantity"`
	MaxPrice    decimal.Decimal `json:"max_price"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

type ListAuctionsResponse struct {
	Auctions []Auction `json:"auctions"`
}

type GetAuctionResponse struct {
	Auction Auction `json:"auction"`
	Bids    []Bid   `json:"bids"`
}

type Allocation struct {
	BidID             string           `json:"bid_id"`
	BidderID          string           `json:"bidder_id"`
	BidderEmail       string           `json:"bidder_email"`
	OriginalQuantity  int64            `json:"original_quantity"`
	AllocatedQuantity int64            `json:"allocated_quantity"`
	ClearingPrice     decimal.Decimal  `json:"clearing_price"`
	TotalAmount       decimal.Decimal  `json:"total_amount"`
	AllocationKind    string           `json:"allocation_kind"`
	ProRataFraction   *decimal.Decimal `json:"pro_rata_fraction,omitempty"`
}

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

type CalculationTrace struct {
	TotalBids     int       `json:"total_bids"`
	ClearingLogic string    `json:"clearing_logic"`
	Steps         []BidStep `json:"steps"`
}

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

// ResolveRequest is the stateless one-shot form: the caller owns
// persistence and hands the engine a finalized snapshot.
type ResolveRequest struct {
	TotalSupply int64 `json:"total_supply" binding:"required"`
	Bids        []Bid `json:"bids"`
}

type ResolveResponse struct {
	AuctionID string         `json:"auction_id,omitempty"`
	Result    ClearingResult `json:"result"`
}
