package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/voxbet/terminal/internal/domain"
	"github.com/voxbet/terminal/internal/service"
)

// BetHandler serves the bet ledger CRUD endpoints.
type BetHandler struct {
	betSvc *service.BetService
}

// NewBetHandler creates a BetHandler.
func NewBetHandler(betSvc *service.BetService) *BetHandler {
	return &BetHandler{betSvc: betSvc}
}

// List godoc
// GET /api/bets
func (h *BetHandler) List(c *gin.Context) {
	bets, err := h.betSvc.ListBets(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "ERR_INTERNAL", "could not fetch bets")
		return
	}
	c.JSON(http.StatusOK, bets)
}

// Create godoc
// POST /api/bets
// Body: {"selection":"Djokovic","match":"Wimbledon Final","stake":"10","odds":"1.75"}
func (h *BetHandler) Create(c *gin.Context) {
	var body struct {
		Selection    string `json:"selection" binding:"required"`
		Match        string `json:"match"     binding:"required"`
		Stake        string `json:"stake"     binding:"required"`
		Odds         string `json:"odds"      binding:"required"`
		PotentialWin string `json:"potentialWin"`
		Status       string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "ERR_VALIDATION", err.Error())
		return
	}

	stake, err := decimal.NewFromString(body.Stake)
	if err != nil || !stake.IsPositive() {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_STAKE", "stake must be a positive decimal string")
		return
	}
	odds, err := decimal.NewFromString(body.Odds)
	if err != nil || !odds.IsPositive() {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_ODDS", "odds must be a positive decimal string")
		return
	}

	req := domain.CreateBetRequest{
		Selection: body.Selection,
		Match:     body.Match,
		Stake:     stake,
		Odds:      odds,
		Status:    domain.BetStatus(body.Status),
	}
	if body.PotentialWin != "" {
		pw, err := decimal.NewFromString(body.PotentialWin)
		if err != nil {
			respondError(c, http.StatusBadRequest, "ERR_INVALID_POTENTIAL_WIN", "potentialWin must be a decimal string")
			return
		}
		req.PotentialWin = pw
	}

	bet, err := h.betSvc.CreateBet(c.Request.Context(), req)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bet)
}

// Delete godoc
// DELETE /api/bets/:id
func (h *BetHandler) Delete(c *gin.Context) {
	id, ok := parseBetID(c)
	if !ok {
		return
	}

	if err := h.betSvc.DeleteBet(c.Request.Context(), id); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bet cancelled successfully"})
}

// UpdateStatus godoc
// PATCH /api/bets/:id/status
// Body: {"status":"placed"}
func (h *BetHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseBetID(c)
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "ERR_VALIDATION", err.Error())
		return
	}

	bet, err := h.betSvc.UpdateBetStatus(c.Request.Context(), id, domain.BetStatus(body.Status))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, bet)
}

// PlaceAll godoc
// POST /api/bets/place-all
func (h *BetHandler) PlaceAll(c *gin.Context) {
	n, err := h.betSvc.PlaceAll(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "ERR_INTERNAL", "could not place bets")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All pending bets placed", "placed": n})
}

// parseBetID pulls the numeric :id parameter, writing a 400 on failure.
func parseBetID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_BET_ID", "invalid bet id")
		return 0, false
	}
	return id, true
}
