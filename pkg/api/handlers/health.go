package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/urmzd/intelliglow/pkg/api/types"
	"github.com/urmzd/intelliglow/pkg/bulb"
	"github.com/urmzd/intelliglow/pkg/discovery"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	registry    *discovery.Registry
	defaultBulb *bulb.Addr
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(registry *discovery.Registry, defaultBulb *bulb.Addr) *HealthHandler {
	return &HealthHandler{registry: registry, defaultBulb: defaultBulb}
}

// Health handles GET /health
// @Summary      Health check
// @Description  Returns the health status of the API and the bulb connections
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.HealthResponse  "Service is healthy"
// @Failure      503  {object}  types.HealthResponse  "Service is degraded"
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	status := "healthy"
	httpStatus := http.StatusOK

	if h.defaultBulb != nil && !h.registry.IsConnected(*h.defaultBulb) {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, types.HealthResponse{
		Status:         status,
		ConnectedBulbs: h.registry.Len(),
		Timestamp:      time.Now(),
	})
}
