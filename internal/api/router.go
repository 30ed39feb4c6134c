package api

import (
	"io/fs"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/jemn/endless-heart/docs"
	"github.com/jemn/endless-heart/internal/api/handler"
	"github.com/jemn/endless-heart/internal/api/middleware"
	"github.com/jemn/endless-heart/internal/core/ports"
)

// Dependencies is everything the HTTP layer needs from the outside.
type Dependencies struct {
	AuthService  ports.AuthService
	ScoreService ports.ScoreService
	Sessions     ports.SessionStore
	Cookies      *middleware.CookieCodec
	Pages        fs.FS
	Checks       map[string]handler.Check
	Log          zerolog.Logger

	// Registerer and Gatherer back the HTTP metrics and /metrics. Nil means
	// the Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(middleware.LoadSession(deps.Sessions, deps.Cookies, deps.Log))

	authHandler := handler.NewAuthHandler(deps.AuthService, deps.Cookies, deps.Log)
	playerHandler := handler.NewPlayerHandler(deps.ScoreService, deps.Log)
	pageHandler := handler.NewPageHandler(deps.Pages)
	guard := middleware.RequireSession()

	// --- Pages ---
	e.GET("/", pageHandler.Root)
	e.GET("/login", pageHandler.Page("login.html"))
	e.GET("/register", pageHandler.Page("register.html"))
	e.GET("/game", pageHandler.Page("game.html"), guard)
	e.GET("/dashboard", pageHandler.Page("dashboard.html"), guard)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/logout", authHandler.Logout)

	// --- Player routes ---
	e.GET("/me", playerHandler.Me, guard)
	scores := e.Group("/api/scores", guard)
	scores.GET("", playerHandler.ListScores)
	scores.POST("", playerHandler.SubmitScore)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
