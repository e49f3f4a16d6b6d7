package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// SelectNodeHandler selects a node, or clears the selection for an empty id
func SelectNodeHandler(c echo.Context) error {
	type selectBody struct {
		NodeID string `json:"node_id"`
	}

	s, err := lookupSession(c)
	if s == nil {
		return err
	}

	data := new(selectBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, sessionResponse{Message: "Invalid request body"})
	}

	view, err := s.Select(data.NodeID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, sessionResponse{
		Message: "OK",
		Session: &view,
	})
}
