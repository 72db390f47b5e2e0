package http

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sharebid/auction-engine/internal/api/dto"
	"github.com/sharebid/auction-engine/internal/core"
	"github.com/sharebid/auction-engine/internal/domain"
	"github.com/sharebid/auction-engine/internal/middleware"
	"github.com/sharebid/auction-engine/internal/port"
)

type HTTPServer struct {
	Eng          *core.Engine
	submittedIDs sync.Map // for deduplication by BidID
}

func NewHTTPServer(eng *core.Engine) *HTTPServer {
	return &HTTPServer{Eng: eng}
}

func (s *HTTPServer) Router() *gin.Engine {
	r := gin.Default()

	rl := middleware.NewRateLimiter(time.Millisecond * 100)
	r.Use(rl.Middleware())

	r.POST("/auctions", s.createAuction)
	r.POST("/auctions/:id/open", s.openBidding)
	r.POST("/auctions/:id/activate", s.activateAuction)
	r.POST("/auctions/:id/cancel", s.cancelAuction)
	r.POST("/auctions/:id/bids", s.submitBid)
	r.POST("/auctions/:id/resolve", s.resolveAuction)
	r.GET("/auctions", s.listAuctions)
	r.GET("/auctions/:id", s.getAuction)
	r.GET("/auctions/:id/result", s.getResult)
	r.POST("/resolve", s.resolveSnapshot)

	return r
}

func (s *HTTPServer) createAuction(c *gin.Context) {
	var req dto.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := s.Eng.CreateAuction(c.Request.Context(), req.Name, req.TotalSupply)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CreateAuctionResponse{
		AuctionID: a.ID,
		Status:    string(a.Status),
	})
}

func (s *HTTPServer) openBidding(c *gin.Context) {
	id := c.Param("id")
	if err := s.Eng.OpenBidding(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{AuctionID: id, Status: string(domain.CollectingBids)})
}

func (s *HTTPServer) activateAuction(c *gin.Context) {
	id := c.Param("id")
	if err := s.Eng.ActivateAuction(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{AuctionID: id, Status: string(domain.Active)})
}

func (s *HTTPServer) cancelAuction(c *gin.Context) {
	id := c.Param("id")
	if err := s.Eng.CancelAuction(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{AuctionID: id, Status: string(domain.Cancelled)})
}

func (s *HTTPServer) submitBid(c *gin.Context) {
	var req dto.SubmitBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// deduplication
	if req.BidID != "" {
		if _, exists := s.submittedIDs.LoadOrStore(req.BidID, struct{}{}); exists {
			c.JSON(http.StatusOK, dto.SubmitBidResponse{BidID: req.BidID, Message: "duplicate bid"})
			return
		}
	}

	bidID := req.BidID
	if bidID == "" {
		bidID = uuid.NewString()
	}

	b := &domain.Bid{
		ID:          bidID,
		BidderID:    req.BidderID,
		BidderEmail: req.BidderEmail,
		Quantity:    req.Quantity,
		MaxPrice:    req.MaxPrice,
	}
	if err := s.Eng.SubmitBid(c.Request.Context(), c.Param("id"), b); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SubmitBidResponse{BidID: b.ID})
}

func (s *HTTPServer) resolveAuction(c *gin.Context) {
	id := c.Param("id")
	result, err := s.Eng.ResolveAuction(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ResolveResponse{
		AuctionID: id,
		Result:    convertResult(result),
	})
}

func (s *HTTPServer) listAuctions(c *gin.Context) {
	status := c.Query("status")
	if status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status query parameter is required"})
		return
	}
	auctions, err := s.Eng.ListAuctions(c.Request.Context(), domain.AuctionStatus(status))
	if err != nil {
		writeError(c, err)
		return
	}
	res := make([]dto.Auction, len(auctions))
	for i := range auctions {
		res[i] = convertAuction(&auctions[i])
	}
	c.JSON(http.StatusOK, dto.ListAuctionsResponse{Auctions: res})
}

func (s *HTTPServer) getAuction(c *gin.Context) {
	id := c.Param("id")
	a, err := s.Eng.GetAuction(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	bids, err := s.Eng.ListBids(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.GetAuctionResponse{
		Auction: convertAuction(a),
		Bids:    convertBids(bids),
	})
}

func (s *HTTPServer) getResult(c *gin.Context) {
	id := c.Param("id")
	result, err := s.Eng.GetResult(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ResolveResponse{
		AuctionID: id,
		Result:    convertResult(result),
	})
}

// resolveSnapshot is the stateless form of the operation: a finalized
// snapshot in, a clearing result out, nothing persisted.
func (s *HTTPServer) resolveSnapshot(c *gin.Context) {
	var req dto.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bids := make([]domain.Bid, len(req.Bids))
	for i, b := range req.Bids {
		bids[i] = domain.Bid{
			ID:          b.ID,
			BidderID:    b.BidderID,
			BidderEmail: b.BidderEmail,
			Quantity:    b.Quantity,
			MaxPrice:    b.MaxPrice,
			SubmittedAt: b.SubmittedAt,
		}
	}

	result, err := core.Resolve(req.TotalSupply, bids)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ResolveResponse{Result: convertResult(result)})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, port.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrInvalidSupply), errors.Is(err, core.ErrInvalidBid):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrBiddingClosed), errors.Is(err, core.ErrNotResolvable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func convertAuction(a *domain.Auction) dto.Auction {
	return dto.Auction{
		ID:          a.ID,
		Name:        a.Name,
		TotalSupply: a.TotalSupply,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt,
		ResolvedAt:  a.ResolvedAt,
	}
}

func convertBids(bids []domain.Bid) []dto.Bid {
	res := make([]dto.Bid, len(bids))
	for i, b := range bids {
		res[i] = dto.Bid{
			ID:          b.ID,
			BidderID:    b.BidderID,
			BidderEmail: b.BidderEmail,
			Quantity:    b.Quantity,
			MaxPrice:    b.MaxPrice,
			SubmittedAt: b.SubmittedAt,
		}
	}
	return res
}

func convertResult(r *domain.ClearingResult) dto.ClearingResult {
	allocations := make([]dto.Allocation, len(r.Allocations))
	for i, a := range r.Allocations {
		allocations[i] = dto.Allocation{
			BidID:             a.BidID,
			BidderID:          a.BidderID,
			BidderEmail:       a.BidderEmail,
			OriginalQuantity:  a.OriginalQuantity,
			AllocatedQuantity: a.AllocatedQuantity,
			ClearingPrice:     a.ClearingPrice,
			TotalAmount:       a.TotalAmount,
			AllocationKind:    string(a.Kind),
			ProRataFraction:   a.ProRataFraction,
		}
	}
	steps := make([]dto.BidStep, len(r.Trace.Steps))
	for i, st := range r.Trace.Steps {
		steps[i] = dto.BidStep{
			BidID:               st.BidID,
			BidderEmail:         st.BidderEmail,
			MaxPrice:            st.MaxPrice,
			Quantity:            st.Quantity,
			RunningDemandBefore: st.RunningDemandBefore,
			RunningDemandAfter:  st.RunningDemandAfter,
			IsClearingBid:       st.IsClearingBid,
			ProRataFraction:     st.ProRataFraction,
		}
	}
	return dto.ClearingResult{
		TotalSupply:     r.TotalSupply,
		ClearingPrice:   r.ClearingPrice,
		TotalDemand:     r.TotalDemand,
		SharesAllocated: r.SharesAllocated,
		SharesRemaining: r.SharesRemaining,
		ProRataApplied:  r.ProRataApplied,
		Allocations:     allocations,
		Trace: dto.CalculationTrace{
			TotalBids:     r.Trace.TotalBids,
			ClearingLogic: string(r.Trace.ClearingLogic),
			Steps:         steps,
		},
	}
}
