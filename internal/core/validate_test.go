package core

import (
	"errors"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"

	"github.com/sharebid/auction-engine/internal/domain"
)

func TestValidateBids_RejectsNonPositiveSupply(t *testing.T) {
	for _, supply := range []int64{0, -1, -1000} {
		err := ValidateBids(supply, nil)
		check.True(t, errors.Is(err, ErrInvalidSupply))
	}
}

func TestValidateBids_EmptySetIsValid(t *testing.T) {
	check.Nil(t, ValidateBids(1000, nil))
	check.Nil(t, ValidateBids(1000, []domain.Bid{}))
}

func TestValidateBids_RejectsWholeBatch(t *testing.T) {
	bids := []domain.Bid{
		newBid("good", 100, "120", 0),
		newBid("bad", 0, "120", 0), // zero quantity
	}

	err := ValidateBids(1000, bids)
	assert.NotNil(t, err)
	check.True(t, errors.Is(err, ErrInvalidBid))

	var invalid *InvalidBidError
	if check.True(t, errors.As(err, &invalid)) {
		check.Equal(t, "bad", invalid.BidID)
		check.Equal(t, "quantity", invalid.Field)
	}

	// No partial result: Resolve refuses the batch outright.
	result, err := Resolve(1000, bids)
	check.Nil(t, result)
	check.NotNil(t, err)
}

func TestValidateBid_FieldChecks(t *testing.T) {
	valid := newBid("ok", 100, "120", 0)

	cases := []struct {
		name   string
		mutate func(*domain.Bid)
		field  string
	}{
		{"missing id", func(b *domain.Bid) { b.ID = "" }, "id"},
		{"missing bidder id", func(b *domain.Bid) { b.BidderID = "" }, "bidder_id"},
		{"missing bidder email", func(b *domain.Bid) { b.BidderEmail = "" }, "bidder_email"},
		{"zero quantity", func(b *domain.Bid) { b.Quantity = 0 }, "quantity"},
		{"negative quantity", func(b *domain.Bid) { b.Quantity = -5 }, "quantity"},
		{"zero price", func(b *domain.Bid) { b.MaxPrice = decimal.Zero }, "max_price"},
		{"negative price", func(b *domain.Bid) { b.MaxPrice = decimal.RequireFromString("-1.50") }, "max_price"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := valid
			tc.mutate(&b)

			err := ValidateBid(&b)
			assert.NotNil(t, err)

			var invalid *InvalidBidError
			if check.True(t, errors.As(err, &invalid)) {
				check.Equal(t, tc.field, invalid.Field)
			}
		})
	}
}

func TestValidateBid_AcceptsValidBid(t *testing.T) {
	b := newBid("ok", 1, "0.01", 0)
	check.Nil(t, ValidateBid(&b))
}
