package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voxbet/terminal/internal/domain"
	"github.com/voxbet/terminal/internal/service"
)

// VoiceHandler serves the utterance pipeline endpoints.
type VoiceHandler struct {
	cmdSvc *service.CommandService
}

// NewVoiceHandler creates a VoiceHandler.
func NewVoiceHandler(cmdSvc *service.CommandService) *VoiceHandler {
	return &VoiceHandler{cmdSvc: cmdSvc}
}

// Command godoc
// POST /api/voice-command
// Body: {"command":"bet 10 pounds on Djokovic to win","confidence":0.87}
// The optional confidence is the speech recogniser's transcription score; it
// caps the parser's own confidence before the gate decides.
func (h *VoiceHandler) Command(c *gin.Context) {
	var body struct {
		Command    string   `json:"command" binding:"required"`
		Confidence *float64 `json:"confidence"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "ERR_VALIDATION", err.Error())
		return
	}

	res, err := h.cmdSvc.Interpret(c.Request.Context(), body.Command, body.Confidence)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCommand) {
			respondError(c, http.StatusBadRequest, "ERR_EMPTY_COMMAND", err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "ERR_INTERNAL", "could not process command")
		return
	}
	c.JSON(http.StatusOK, res)
}

// Validate godoc
// POST /api/validate-voice-command
// Body: {"command":"bet 10 pounds on Djokovic to win"}
// Runs the utterance through the language-model validator when configured,
// falling back to the deterministic parser otherwise.
func (h *VoiceHandler) Validate(c *gin.Context) {
	var body struct {
		Command string `json:"command" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "ERR_VALIDATION", err.Error())
		return
	}

	res, err := h.cmdSvc.Validate(c.Request.Context(), body.Command)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCommand) {
			respondError(c, http.StatusBadRequest, "ERR_EMPTY_COMMAND", err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "ERR_INTERNAL", "could not validate command")
		return
	}
	c.JSON(http.StatusOK, res)
}
