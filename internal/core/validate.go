package core

import (
	"errors"
	"fmt"

	"github.com/sharebid/auction-engine/internal/domain"
)

var (
	// ErrInvalidSupply is returned when an auction is resolved with a
	// non-positive share supply. No partial result is produced.
	ErrInvalidSupply = errors.New("total supply must be positive")

	// ErrInvalidBid is the sentinel wrapped by every InvalidBidError,
	// so callers can match the whole class with errors.Is.
	ErrInvalidBid = errors.New("invalid bid")
)

// InvalidBidError names the offending bid and the field that failed.
// One malformed bid rejects the entire batch: silently dropping a bid
// from a financial allocation is not acceptable.
type InvalidBidError struct {
	BidID  string
	Field  string
	Reason string
}

func (e *InvalidBidError) Error() string {
	return fmt.Sprintf("invalid bid %q: %s %s", e.BidID, e.Field, e.Reason)
}

func (e *InvalidBidError) Unwrap() error { return ErrInvalidBid }

// ValidateBids checks the supply and every bid before any computation.
// All-or-nothing: the first structural defect fails the whole batch.
// An empty bid set is valid and degenerates to the no-demand result.
func ValidateBids(totalSupply int64, bids []domain.Bid) error {
	if totalSupply <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSupply, totalSupply)
	}
	for i := range bids {
		if err := ValidateBid(&bids[i]); err != nil {
			return err
		}
	}
	return nil
}

// ValidateBid checks a single bid's structure. Shared by the batch
// validator and by bid intake on the API surface.
func ValidateBid(b *domain.Bid) error {
	switch {
	case b.ID == "":
		return &InvalidBidError{BidID: b.ID, Field: "id", Reason: "must not be empty"}
	case b.BidderID == "":
		return &InvalidBidError{BidID: b.ID, Field: "bidder_id", Reason: "must not be empty"}
	case b.BidderEmail == "":
		return &InvalidBidError{BidID: b.ID, Field: "bidder_email", Reason: "must not be empty"}
	case b.Quantity <= 0:
		return &InvalidBidError{BidID: b.ID, Field: "quantity", Reason: fmt.Sprintf("must be positive, got %d", b.Quantity)}
	case !b.MaxPrice.IsPositive():
		return &InvalidBidError{BidID: b.ID, Field: "max_price", Reason: fmt.Sprintf("must be positive, got %s", b.MaxPrice)}
	}
	return nil
}
