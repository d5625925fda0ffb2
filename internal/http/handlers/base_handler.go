// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rideinsight/internal/ai"
	"rideinsight/internal/modules/analytics"
	"rideinsight/internal/modules/heatmap"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeQueryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, analytics.ErrUnknownQuery):
		writeJSON(c, http.StatusNotFound, errorResponse{Error: err.Error(), Message: analytics.InvalidChoiceMessage})
	case errors.Is(err, heatmap.ErrNoRenderer), errors.Is(err, ai.ErrNoProvider):
		writeError(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(c, http.StatusGatewayTimeout, "upstream timeout")
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
