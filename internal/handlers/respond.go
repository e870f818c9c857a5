// Package handlers contains the gin HTTP handlers for the API.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/securelife/insurance-backend/pkg/sentinel"
)

// respondOK writes the standard success envelope
func respondOK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// respondList writes the success envelope for list results with a count
func respondList(c *gin.Context, message string, data interface{}, count int) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"count":   count,
		"data":    data,
	})
}

// respondError maps a service error onto an HTTP status. Unknown errors are
// logged and reported as a generic 500 so internals never leak to clients.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, sentinel.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, sentinel.ErrUnauthorized):
		status, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, sentinel.ErrForbidden):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, sentinel.ErrNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, sentinel.ErrInvalidState), errors.Is(err, sentinel.ErrConflict):
		status, message = http.StatusConflict, err.Error()
	default:
		logger.Error("request failed",
			"method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
	}

	c.JSON(status, gin.H{"success": false, "message": message})
}

// respondBadRequest writes a 400 for malformed request payloads
func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
}
