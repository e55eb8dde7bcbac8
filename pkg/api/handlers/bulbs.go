package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/urmzd/intelliglow/pkg/api/types"
	"github.com/urmzd/intelliglow/pkg/bulb"
	"github.com/urmzd/intelliglow/pkg/discovery"
)

// BulbsHandler handles connection lifecycle endpoints
type BulbsHandler struct {
	registry *discovery.Registry
}

// NewBulbsHandler creates a new bulbs handler
func NewBulbsHandler(registry *discovery.Registry) *BulbsHandler {
	return &BulbsHandler{registry: registry}
}

// ListBulbs handles GET /bulbs
// @Summary      List connected bulbs
// @Description  Returns a fresh status for every connected bulb
// @Tags         bulbs
// @Produce      json
// @Success      200  {object}  types.ListBulbsResponse
// @Router       /bulbs [get]
func (h *BulbsHandler) ListBulbs(c *gin.Context) {
	statuses := h.registry.GetAllStatuses(c.Request.Context())

	c.JSON(http.StatusOK, types.ListBulbsResponse{
		Bulbs: statuses,
		Count: len(statuses),
	})
}

// ConnectBulb handles POST /bulbs/connect
// @Summary      Connect to a bulb
// @Description  Establishes a connection to a bulb and registers it
// @Tags         bulbs
// @Accept       json
// @Produce      json
// @Param        request  body      types.ConnectRequest  true  "Bulb address"
// @Success      200      {object}  types.ConnectResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      504      {object}  types.ErrorResponse  "Bulb did not answer"
// @Router       /bulbs/connect [post]
func (h *BulbsHandler) ConnectBulb(c *gin.Context) {
	var req types.ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "Request body must include a host",
		})
		return
	}
	if req.Port == 0 {
		req.Port = bulb.DefaultPort
	}
	addr := bulb.Addr{Host: req.Host, Port: req.Port}

	client, err := h.registry.Connect(c.Request.Context(), addr)
	if err != nil {
		bulbError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.ConnectResponse{
		Bulb:   addr.String(),
		Status: client.LastStatus(),
	})
}

// DisconnectBulb handles DELETE /bulbs/:address
// @Summary      Disconnect a bulb
// @Description  Closes the connection to a bulb and removes it from the registry
// @Tags         bulbs
// @Produce      json
// @Param        address  path      string  true  "Bulb address as host or host:port"
// @Success      200      {object}  types.DisconnectResponse
// @Failure      404      {object}  types.ErrorResponse  "No such connection"
// @Router       /bulbs/{address} [delete]
func (h *BulbsHandler) DisconnectBulb(c *gin.Context) {
	addr, ok := addressParam(c)
	if !ok {
		return
	}

	if !h.registry.Disconnect(addr) {
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error:   "not_connected",
			Message: "No connection to bulb " + addr.String(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DisconnectResponse{
		Bulb:   addr.String(),
		Status: "disconnected",
	})
}

// PingBulb handles POST /bulbs/:address/ping
// @Summary      Ping a bulb
// @Description  Checks reachability with a single round trip and reports the latency
// @Tags         bulbs
// @Produce      json
// @Param        address  path      string  true  "Bulb address as host or host:port"
// @Success      200      {object}  types.PingResponse
// @Failure      404      {object}  types.ErrorResponse  "No such connection"
// @Router       /bulbs/{address}/ping [post]
func (h *BulbsHandler) PingBulb(c *gin.Context) {
	addr, ok := addressParam(c)
	if !ok {
		return
	}

	client, ok := h.registry.Get(addr)
	if !ok {
		bulbError(c, discovery.ErrNotRegistered)
		return
	}

	start := time.Now()
	err := client.Ping(c.Request.Context())
	rtt := time.Since(start)

	resp := types.PingResponse{
		Bulb:      addr.String(),
		Reachable: err == nil,
	}
	if err == nil {
		resp.ResponseTimeMS = float64(rtt.Microseconds()) / 1000
	}
	c.JSON(http.StatusOK, resp)
}
