// Package api exposes the bulb control surface over HTTP.
package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/urmzd/intelliglow/pkg/api/handlers"
	"github.com/urmzd/intelliglow/pkg/bulb"
	"github.com/urmzd/intelliglow/pkg/bulb/schema"
	"github.com/urmzd/intelliglow/pkg/discovery"
)

// Router holds the Gin engine and dependencies
type Router struct {
	engine      *gin.Engine
	registry    *discovery.Registry
	scanner     *discovery.Scanner
	validator   *schema.Validator
	defaultBulb *bulb.Addr
	scanPorts   discovery.PortRange
}

// NewRouter creates a new API router
func NewRouter(registry *discovery.Registry, scanner *discovery.Scanner, validator *schema.Validator, defaultBulb *bulb.Addr, scanPorts discovery.PortRange) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	SetupMiddleware(engine)

	router := &Router{
		engine:      engine,
		registry:    registry,
		scanner:     scanner,
		validator:   validator,
		defaultBulb: defaultBulb,
		scanPorts:   scanPorts,
	}

	router.setupRoutes()

	return router
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	// Swagger UI
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(301, "/swagger/index.html")
	})

	// Health check at root
	healthHandler := handlers.NewHealthHandler(r.registry, r.defaultBulb)
	r.engine.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.engine.Group("/api/v1")
	{
		// Health
		v1.GET("/health", healthHandler.Health)

		// Discovery
		discoveryHandler := handlers.NewDiscoveryHandler(r.scanner, r.scanPorts)
		v1.POST("/discovery/scan", discoveryHandler.Scan)

		// Bulbs
		bulbsHandler := handlers.NewBulbsHandler(r.registry)
		controlHandler := handlers.NewControlHandler(r.registry, r.validator)
		bulbs := v1.Group("/bulbs")
		{
			bulbs.GET("", bulbsHandler.ListBulbs)
			bulbs.POST("/connect", bulbsHandler.ConnectBulb)
			bulbs.DELETE("/:address", bulbsHandler.DisconnectBulb)
			bulbs.POST("/:address/ping", bulbsHandler.PingBulb)

			// Bulb state control
			bulbs.GET("/:address/status", controlHandler.GetStatus)
			bulbs.POST("/:address/state", controlHandler.SetState)
		}
	}
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}

// Handler exposes the underlying engine, mainly for tests.
func (r *Router) Handler() *gin.Engine {
	return r.engine
}
