package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/urmzd/intelliglow/pkg/api/types"
	"github.com/urmzd/intelliglow/pkg/bulb"
	"github.com/urmzd/intelliglow/pkg/discovery"
)

// maxScanSeconds caps the budget a single scan request may ask for. The
// scanner holds the sweep to its budget, so this also bounds how long the
// handler can be pinned.
const maxScanSeconds = 60

// DiscoveryHandler handles network scan endpoints
type DiscoveryHandler struct {
	scanner   *discovery.Scanner
	scanPorts discovery.PortRange
}

// NewDiscoveryHandler creates a new discovery handler
func NewDiscoveryHandler(scanner *discovery.Scanner, scanPorts discovery.PortRange) *DiscoveryHandler {
	return &DiscoveryHandler{scanner: scanner, scanPorts: scanPorts}
}

// Scan handles POST /discovery/scan
// @Summary      Scan for bulbs
// @Description  Probes the local /24 subnet for bulbs and returns the responders, fastest first
// @Tags         discovery
// @Accept       json
// @Produce      json
// @Param        request  body      types.ScanRequest  false  "Scan budget (default 5 seconds, max 60)"
// @Success      200      {object}  types.ScanResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid timeout"
// @Failure      500      {object}  types.ErrorResponse  "Scan error"
// @Router       /discovery/scan [post]
func (h *DiscoveryHandler) Scan(c *gin.Context) {
	ctx := c.Request.Context()

	var req types.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req.TimeoutSeconds = 0
	}

	timeout := bulb.DefaultTimeout
	if req.TimeoutSeconds > 0 {
		timeout = time.Duration(req.TimeoutSeconds * float64(time.Second))
	}
	if timeout > maxScanSeconds*time.Second {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_timeout",
			Message: "Scan budget cannot exceed 60 seconds",
		})
		return
	}

	bulbs, err := h.scanner.Discover(ctx, timeout, h.scanPorts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "scan_error",
			Message: err.Error(),
		})
		return
	}

	found := make([]types.DiscoveredBulb, 0, len(bulbs))
	for _, b := range bulbs {
		found = append(found, types.DiscoveredBulb{
			Address:        b.Addr.String(),
			ResponseTimeMS: float64(b.ResponseTime.Microseconds()) / 1000,
		})
	}

	c.JSON(http.StatusOK, types.ScanResponse{
		Bulbs: found,
		Count: len(found),
	})
}
