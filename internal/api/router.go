package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/miapp/portal/docs"
	"github.com/miapp/portal/internal/api/handler"
	"github.com/miapp/portal/internal/api/middleware"
	"github.com/miapp/portal/internal/core/ports"
)

// Deps bundles everything the router wires into handlers. Mongo and Redis
// may be nil; readiness then reports them as disabled.
type Deps struct {
	Sessions        ports.SessionBackend
	Recorder        ports.ActivityRecorder
	Codec           *middleware.SessionCodec
	SecureCookies   bool
	RegistrationURL string
	Mongo           *mongo.Database
	Redis           *redis.Client
	Log             zerolog.Logger
	// Registry receives the HTTP metrics when set; the default registry is
	// used otherwise. /metrics always includes the default registry too.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "portal",
		Registerer: registerer(d.Registry),
	}))

	// --- Dependencies ---
	cfg := handler.PagesConfig{
		RegistrationURL: d.RegistrationURL,
		Recorder:        d.Recorder,
		Log:             d.Log,
	}
	pages := handler.NewPageHandler(d.Sessions, cfg)
	sessions := handler.NewSessionHandler(d.Sessions, cfg)
	session := middleware.Session(d.Codec, d.SecureCookies)

	// --- Pages ---
	e.GET("/", pages.Home, session)
	e.GET("/publicar", pages.Publish, session)
	e.POST("/logout", pages.Logout, session)

	// --- Session record API ---
	e.GET("/session", sessions.Get, session)
	e.PUT("/session", sessions.Adopt, session)
	e.POST("/preferences", sessions.RecordPreference, session)

	// --- Health probes (no session required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: gatherer(d.Registry),
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func registerer(reg *prometheus.Registry) prometheus.Registerer {
	if reg == nil {
		return prometheus.DefaultRegisterer
	}
	return reg
}

func gatherer(reg *prometheus.Registry) prometheus.Gatherer {
	if reg == nil {
		return prometheus.DefaultGatherer
	}
	return prometheus.Gatherers{reg, prometheus.DefaultGatherer}
}
