package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bid is one sealed offer: how many shares the bidder wants and the
// ceiling price per share they are willing to pay. Bids are immutable
// once handed to the engine; SubmittedAt is used only for tie-breaking.
type Bid struct {
	ID          string          `json:"id"`
	BidderID    string          `json:"bidder_id"`
	BidderEmail string          `json:"bidder_email"`
	Quantity    int64           `json:"quantity"`
	MaxPrice    decimal.Decimal `json:"max_price"`
	SubmittedAt time.Time       `json:"submitted_at"`
}
