package server

import (
	"github.com/sigco3111/relationship-visualizer/internal/server/middleware"
	"github.com/sigco3111/relationship-visualizer/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	apiRoutes.GET("/catalog", routes.GetCatalogHandler)
	apiRoutes.GET("/metrics", routes.GetMetricsHandler)
	apiRoutes.DELETE("/metrics", routes.ResetMetricsHandler)

	// Session routes
	apiRoutes.POST("/sessions", routes.CreateSessionHandler)
	apiRoutes.GET("/sessions/:id", routes.GetSessionHandler)
	apiRoutes.DELETE("/sessions/:id", routes.DeleteSessionHandler)

	// Analysis routes
	apiRoutes.POST("/sessions/:id/analyze", routes.AnalyzeHandler)
	apiRoutes.DELETE("/sessions/:id/analyze", routes.CancelAnalysisHandler)

	// Edit routes
	apiRoutes.POST("/sessions/:id/characters", routes.AddCharacterHandler)
	apiRoutes.POST("/sessions/:id/relationships", routes.AddRelationshipHandler)

	// Interaction routes
	apiRoutes.POST("/sessions/:id/pointer", routes.PointerHandler)
	apiRoutes.PUT("/sessions/:id/selection", routes.SelectNodeHandler)
}
