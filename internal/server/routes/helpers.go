package routes

import (
	"context"
	"errors"
	"net/http"

	"github.com/sigco3111/relationship-visualizer/internal/server/middleware"
	"github.com/sigco3111/relationship-visualizer/internal/session"
	"github.com/sigco3111/relationship-visualizer/pkg/graph"
	"github.com/sigco3111/relationship-visualizer/pkg/logger"
	"github.com/sigco3111/relationship-visualizer/pkg/store"

	"github.com/labstack/echo/v4"
)

type sessionResponse struct {
	Message string        `json:"message"`
	Session *session.View `json:"session,omitempty"`
}

func app(c echo.Context) *middleware.App {
	return c.(*middleware.AppContext).App
}

// lookupSession resolves the :id path parameter. On failure it has already
// written the response and returns a nil session. The body is left unread.
func lookupSession(c echo.Context) (*session.Session, error) {
	id := c.Param("id")
	if id == "" {
		return nil, c.JSON(http.StatusBadRequest, sessionResponse{Message: "Invalid session id"})
	}

	s, err := app(c).Sessions.Get(id)
	if err != nil {
		return nil, c.JSON(http.StatusNotFound, sessionResponse{Message: "Session not found"})
	}
	return s, nil
}

// errorStatus maps domain errors to HTTP status codes.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, store.ErrEmptyName),
		errors.Is(err, store.ErrEmptyEndpoint),
		errors.Is(err, graph.ErrEmptyInput),
		errors.Is(err, graph.ErrUnknownMode),
		errors.Is(err, graph.ErrURLModeOff),
		errors.Is(err, session.ErrUnknownEvent):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, session.ErrUnknownNode):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, store.ErrDuplicateName),
		errors.Is(err, session.ErrBusy),
		errors.Is(err, session.ErrSuperseded):
		return http.StatusConflict, err.Error()
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "Request cancelled"
	default:
		logger.Error("Unhandled request error", "err", err)
		return http.StatusInternalServerError, "Internal server error"
	}
}

func errorResponse(c echo.Context, err error) error {
	status, message := errorStatus(err)
	return c.JSON(status, sessionResponse{Message: message})
}
