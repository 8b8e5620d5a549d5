package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/voxbet/terminal/internal/domain"
)

// MatchHandler serves the read-only match catalogue.
type MatchHandler struct {
	cat *domain.Catalogue
}

// NewMatchHandler creates a MatchHandler.
func NewMatchHandler(cat *domain.Catalogue) *MatchHandler {
	return &MatchHandler{cat: cat}
}

// List godoc
// GET /api/matches
func (h *MatchHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.cat.Matches)
}

// BetOptions godoc
// GET /api/matches/:id/bet-options
func (h *MatchHandler) BetOptions(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_MATCH_ID", "invalid match id")
		return
	}

	if h.cat.MatchByID(id) == nil {
		respondError(c, http.StatusNotFound, "ERR_NOT_FOUND", domain.ErrMatchNotFound.Error())
		return
	}
	c.JSON(http.StatusOK, h.cat.OptionsForMatch(id))
}
