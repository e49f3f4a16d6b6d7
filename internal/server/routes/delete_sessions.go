package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// DeleteSessionHandler closes a session and cancels its pending analysis
func DeleteSessionHandler(c echo.Context) error {
	s, err := lookupSession(c)
	if s == nil {
		return err
	}

	if err := app(c).Sessions.Delete(s.ID()); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, sessionResponse{Message: "Session deleted"})
}

// CancelAnalysisHandler cancels the pending analysis of a session
func CancelAnalysisHandler(c echo.Context) error {
	s, err := lookupSession(c)
	if s == nil {
		return err
	}

	message := "No analysis pending"
	if s.CancelAnalysis() {
		message = "Analysis cancelled"
	}

	view := s.View()
	return c.JSON(http.StatusOK, sessionResponse{
		Message: message,
		Session: &view,
	})
}
