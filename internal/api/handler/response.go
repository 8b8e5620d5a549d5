// Package handler holds the gin HTTP handlers. The wire shapes match the
// original terminal client: collections are bare arrays, single resources are
// bare objects, and errors carry a machine code next to the message.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voxbet/terminal/internal/domain"
)

// respondError writes {"error": msg, "code": code} and aborts the chain.
func respondError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": msg,
		"code":  code,
	})
}

// respondDomainError maps a sentinel error onto the right HTTP status.
// Anything unrecognised is a 500 with a generic message.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "ERR_NOT_FOUND", err.Error())
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "ERR_VALIDATION", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "ERR_INTERNAL", "internal error")
	}
}
