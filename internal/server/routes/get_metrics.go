package routes

import (
	"net/http"

	"github.com/sigco3111/relationship-visualizer/pkg/ai"

	"github.com/labstack/echo/v4"
)

// GetMetricsHandler returns the token usage of the inference backend since
// start or the last reset
func GetMetricsHandler(c echo.Context) error {
	type metricsResponse struct {
		Sessions int             `json:"sessions"`
		Model    ai.ModelMetrics `json:"model"`
	}

	a := app(c)
	res := metricsResponse{Sessions: a.Sessions.Len()}
	if a.AiClient != nil {
		res.Model = a.AiClient.GetMetrics()
	}

	return c.JSON(http.StatusOK, res)
}

// ResetMetricsHandler clears the token usage counters
func ResetMetricsHandler(c echo.Context) error {
	if a := app(c); a.AiClient != nil {
		a.AiClient.ResetMetrics()
	}
	return c.NoContent(http.StatusNoContent)
}
