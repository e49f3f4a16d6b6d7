package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetSessionHandler returns a snapshot of a session
func GetSessionHandler(c echo.Context) error {
	s, err := lookupSession(c)
	if s == nil {
		return err
	}

	view := s.View()
	return c.JSON(http.StatusOK, sessionResponse{
		Message: "OK",
		Session: &view,
	})
}
