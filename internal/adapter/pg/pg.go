package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sharebid/auction-engine/internal/domain"
	"github.com/sharebid/auction-engine/internal/port"
)

var _ port.Repository = (*PgRepo)(nil)

type PgRepo struct {
	pool *pgxpool.Pool
}

// call Close when finished working with the database.
func NewPgRepo(ctx context.Context, dsn string) (*PgRepo, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}
	return &PgRepo{pool: pool}, nil
}

func (p *PgRepo) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

func (p *PgRepo) SaveAuction(ctx context.Context, a *domain.Auction) error {
	if a == nil {
		return errors.New("nil auction")
	}
	_, err := p.pool.Exec(ctx, `
INSERT INTO auctions(id, name, total_supply, status, created_at, resolved_at)
VALUES($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO UPDATE SET
  name = EXCLUDED.name,
  total_supply = EXCLUDED.total_supply,
  status = EXCLUDED.status,
  resolved_at = EXCLUDED.resolved_at
`, a.ID, a.Name, a.TotalSupply, string(a.Status), a.CreatedAt, a.ResolvedAt)
	return err
}

func (p *PgRepo) LoadAuction(ctx context.Context, auctionID string) (*domain.Auction, error) {
	var a domain.Auction
	var status string
	err := p.pool.QueryRow(ctx, `
SELECT id, name, total_supply, status, created_at, resolved_at
FROM auctions
WHERE id = $1
`, auctionID).Scan(&a.ID, &a.Name, &a.TotalSupply, &status, &a.CreatedAt, &a.ResolvedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	a.Status = domain.AuctionStatus(status)
	return &a, nil
}

// UpdateAuctionStatus transitions status only when the current status
// matches, so concurrent resolvers cannot both complete an auction.
func (p *PgRepo) UpdateAuctionStatus(ctx context.Context, auctionID string, from, to domain.AuctionStatus) error {
	res, err := p.pool.Exec(ctx, `
UPDATE auctions
SET status = $1,
    resolved_at = CASE WHEN $1 = 'COMPLETED' THEN NOW() ELSE resolved_at END
WHERE id = $2 AND status = $3
`, string(to), auctionID, string(from))
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return port.ErrNotFound
	}
	return nil
}

func (p *PgRepo) SaveBid(ctx context.Context, auctionID string, b *domain.Bid) error {
	if b == nil {
		return errors.New("nil bid")
	}
	_, err := p.pool.Exec(ctx, `
INSERT INTO bids(id, auction_id, bidder_id, bidder_email, quantity, max_price, submitted_at)
VALUES($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO NOTHING
`, b.ID, auctionID, b.BidderID, b.BidderEmail, b.Quantity, b.MaxPrice, b.SubmittedAt)
	return err
}

// LoadBids returns the bid snapshot in submission order.
func (p *PgRepo) LoadBids(ctx context.Context, auctionID string) ([]domain.Bid, error) {
	rows, err := p.pool.Query(ctx, `
SELECT id, bidder_id, bidder_email, quantity, max_price, submitted_at
FROM bids
WHERE auction_id = $1
ORDER BY submitted_at ASC
`, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Bid
	for rows.Next() {
		var b domain.Bid
		if err := rows.Scan(&b.ID, &b.BidderID, &b.BidderEmail, &b.Quantity, &b.MaxPrice, &b.SubmittedAt); err != nil {
			return nil, err
		}
		res = append(res, b)
	}
	return res, rows.Err()
}

// SaveResult persists the full clearing result, allocations and trace
// included, as a JSONB audit record.
func (p *PgRepo) SaveResult(ctx context.Context, auctionID string, r *domain.ClearingResult) error {
	if r == nil {
		return errors.New("nil result")
	}
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `
INSERT INTO clearing_results(auction_id, clearing_price, shares_allocated, result_json, created_at)
VALUES($1,$2,$3,$4,NOW())
ON CONFLICT (auction_id) DO UPDATE SET
  clearing_price = EXCLUDED.clearing_price,
  shares_allocated = EXCLUDED.shares_allocated,
  result_json = EXCLUDED.result_json,
  created_at = NOW()
`, auctionID, r.ClearingPrice, r.SharesAllocated, string(b))
	return err
}

func (p *PgRepo) LoadResult(ctx context.Context, auctionID string) (*domain.ClearingResult, error) {
	var data string
	err := p.pool.QueryRow(ctx, `SELECT result_json FROM clearing_results WHERE auction_id = $1`, auctionID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var r domain.ClearingResult
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// ListAuctions returns auctions in a given status.
func (p *PgRepo) ListAuctions(ctx context.Context, status domain.AuctionStatus) ([]domain.Auction, error) {
	rows, err := p.pool.Query(ctx, `
SELECT id, name, total_supply, status, created_at, resolved_at
FROM auctions
WHERE status = $1
ORDER BY created_at ASC
`, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Auction
	for rows.Next() {
		var a domain.Auction
		var st string
		if err := rows.Scan(&a.ID, &a.Name, &a.TotalSupply, &st, &a.CreatedAt, &a.ResolvedAt); err != nil {
			return nil, err
		}
		a.Status = domain.AuctionStatus(st)
		res = append(res, a)
	}
	return res, rows.Err()
}
