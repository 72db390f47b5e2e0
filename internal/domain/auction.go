package domain

import "time"

type AuctionStatus string

const (
	Draft          AuctionStatus = "DRAFT"
	CollectingBids AuctionStatus = "COLLECTING_BIDS"
	Active         AuctionStatus = "ACTIVE"
	Completed      AuctionStatus = "COMPLETED"
	Cancelled      AuctionStatus = "CANCELLED"
)

// Auction is the platform record the engine computes against: a fixed
// supply of shares and a lifecycle status. The clearing computation
// itself only ever sees TotalSupply plus a bid snapshot.
type Auction struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	TotalSupply int64         `json:"total_supply"`
	Status      AuctionStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	ResolvedAt  *time.Time    `json:"resolved_at,omitempty"`
}

// CanAcceptBids reports whether new bids may still be recorded.
func (a *Auction) CanAcceptBids() bool {
	return a.Status == CollectingBids
}

// CanResolve reports whether the auction is ready for clearing.
func (a *Auction) CanResolve() bool {
	return a.Status == Active
}
