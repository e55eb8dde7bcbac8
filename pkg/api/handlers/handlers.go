// Package handlers implements the HTTP endpoints of the IntelliGlow API.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/urmzd/intelliglow/pkg/api/types"
	"github.com/urmzd/intelliglow/pkg/bulb"
	"github.com/urmzd/intelliglow/pkg/discovery"
)

// addressParam parses the :address path parameter. A bare host without a port
// gets the default bulb port. On failure a 400 is written and ok is false.
func addressParam(c *gin.Context) (bulb.Addr, bool) {
	raw := c.Param("address")
	addr, err := bulb.ParseAddr(raw)
	if err != nil {
		if raw != "" {
			return bulb.Addr{Host: raw, Port: bulb.DefaultPort}, true
		}
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_address",
			Message: "Address must be host or host:port",
		})
		return bulb.Addr{}, false
	}
	return addr, true
}

// bulbError maps a bulb layer error to the right HTTP status.
func bulbError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, bulb.ErrTimeout):
		c.JSON(http.StatusGatewayTimeout, types.ErrorResponse{
			Error:   "timeout",
			Message: "Request timed out waiting for bulb response",
		})
	case errors.Is(err, discovery.ErrNotRegistered):
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error:   "not_connected",
			Message: err.Error(),
		})
	case errors.Is(err, bulb.ErrNotConnected), errors.Is(err, bulb.ErrClosed):
		c.JSON(http.StatusServiceUnavailable, types.ErrorResponse{
			Error:   "bulb_unavailable",
			Message: err.Error(),
		})
	case errors.Is(err, bulb.ErrValidation):
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "bulb_error",
			Message: err.Error(),
		})
	}
}
