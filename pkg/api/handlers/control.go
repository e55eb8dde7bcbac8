package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/urmzd/intelliglow/pkg/api/types"
	"github.com/urmzd/intelliglow/pkg/bulb/schema"
	"github.com/urmzd/intelliglow/pkg/discovery"
)

// ControlHandler handles bulb state endpoints
type ControlHandler struct {
	registry  *discovery.Registry
	validator *schema.Validator
}

// NewControlHandler creates a new control handler
func NewControlHandler(registry *discovery.Registry, validator *schema.Validator) *ControlHandler {
	return &ControlHandler{registry: registry, validator: validator}
}

// GetStatus handles GET /bulbs/:address/status
// @Summary      Get bulb status
// @Description  Returns the latest state snapshot of a connected bulb
// @Tags         bulbs
// @Produce      json
// @Param        address  path      string  true  "Bulb address as host or host:port"
// @Success      200      {object}  types.StatusResponse
// @Failure      404      {object}  types.ErrorResponse  "No such connection"
// @Failure      503      {object}  types.ErrorResponse  "Connection unusable"
// @Router       /bulbs/{address}/status [get]
func (h *ControlHandler) GetStatus(c *gin.Context) {
	addr, ok := addressParam(c)
	if !ok {
		return
	}

	client, ok := h.registry.Get(addr)
	if !ok {
		bulbError(c, discovery.ErrNotRegistered)
		return
	}

	status, err := client.GetStatus(c.Request.Context())
	if err != nil {
		bulbError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.StatusResponse{
		Bulb:      addr.String(),
		Status:    status,
		Timestamp: time.Now(),
	})
}

// SetState handles POST /bulbs/:address/state
// @Summary      Set bulb state
// @Description  Sets any subset of power, brightness and color in one request. The payload is validated before anything is sent to the bulb.
// @Tags         bulbs
// @Accept       json
// @Produce      json
// @Param        address  path      string  true  "Bulb address as host or host:port"
// @Param        request  body      object  true  "State to set"
// @Success      200      {object}  types.StatusResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid payload"
// @Failure      404      {object}  types.ErrorResponse  "No such connection"
// @Failure      504      {object}  types.ErrorResponse  "Request timed out"
// @Router       /bulbs/{address}/state [post]
func (h *ControlHandler) SetState(c *gin.Context) {
	addr, ok := addressParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var req map[string]any
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	if err := h.validator.ValidateState(req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	client, ok := h.registry.Get(addr)
	if !ok {
		bulbError(c, discovery.ErrNotRegistered)
		return
	}

	if err := client.ApplyState(ctx, req); err != nil {
		bulbError(c, err)
		return
	}

	status, err := client.GetStatus(ctx)
	if err != nil {
		bulbError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.StatusResponse{
		Bulb:      addr.String(),
		Status:    status,
		Timestamp: time.Now(),
	})
}
