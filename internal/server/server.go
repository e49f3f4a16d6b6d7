package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mid "github.com/sigco3111/relationship-visualizer/internal/server/middleware"
	"github.com/sigco3111/relationship-visualizer/internal/session"
	"github.com/sigco3111/relationship-visualizer/internal/util"
	"github.com/sigco3111/relationship-visualizer/pkg/graph"
	"github.com/sigco3111/relationship-visualizer/pkg/layout"
	"github.com/sigco3111/relationship-visualizer/pkg/loader/web"
	"github.com/sigco3111/relationship-visualizer/pkg/logger"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/go-playground/validator"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

// New builds the HTTP server around app without starting it.
func New(app *mid.App) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("2M"))

	RegisterRoutes(e)
	return e
}

func Init() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	aiClient, err := newAIClient()
	if err != nil {
		logger.Fatal("Failed to create AI client", "err", err)
	}

	analyzer, err := graph.NewAnalyzer(graph.NewAnalyzerParams{
		Client:         aiClient,
		Fetcher:        web.NewFetcher(web.NewFetcherParams{}),
		MaxRetries:     int(util.GetEnvNumeric("AI_MAX_RETRIES", 3)),
		MaxInputTokens: int(util.GetEnvNumeric("AI_MAX_INPUT_TOKENS", 8000)),
		Structured:     util.GetEnvBool("AI_STRUCTURED_OUTPUT", false),
		RetryDelay:     500 * time.Millisecond,
		Timeout:        util.GetEnvSeconds("AI_TIMEOUT_SECONDS", 120),
	})
	if err != nil {
		logger.Fatal("Failed to create analyzer", "err", err)
	}

	var key *keyfunc.Keyfunc
	if authURL := util.GetEnv("AUTH_URL"); authURL != "" {
		k, err := keyfunc.NewDefault([]string{authURL + "/jwks"})
		if err != nil {
			logger.Fatal("Failed to load jwks keys", "err", err)
		}
		key = &k
	} else {
		logger.Warn("AUTH_URL is not set, API authentication is disabled")
	}

	sessions := session.NewRegistry(layout.DefaultCanvas)
	go expireSessions(ctx, sessions, time.Duration(util.GetEnvNumeric("SESSION_IDLE_MINUTES", 60))*time.Minute)

	e := New(&mid.App{
		Sessions:     sessions,
		Analyzer:     analyzer,
		AiClient:     aiClient,
		Key:          key,
		MasterAPIKey: util.GetEnv("MASTER_API_KEY"),
	})

	go func() {
		port := util.GetEnvString("PORT", "8080")
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}

func expireSessions(ctx context.Context, sessions *session.Registry, maxIdle time.Duration) {
	if maxIdle <= 0 {
		return
	}
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sessions.Expire(maxIdle)
		}
	}
}
