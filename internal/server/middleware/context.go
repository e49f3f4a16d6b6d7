package middleware

import (
	"github.com/sigco3111/relationship-visualizer/internal/session"
	"github.com/sigco3111/relationship-visualizer/pkg/ai"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/labstack/echo/v4"
)

type AppUser struct {
	UserID string
	Role   string
}

// App carries the process-wide dependencies handlers need. Key is nil when
// authentication is disabled.
type App struct {
	Sessions     *session.Registry
	Analyzer     session.Analyzer
	AiClient     ai.GraphAIClient
	Key          *keyfunc.Keyfunc
	MasterAPIKey string
}

type AppContext struct {
	echo.Context
	App  *App
	User *AppUser
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app, nil}
			return next(cc)
		}
	}
}
