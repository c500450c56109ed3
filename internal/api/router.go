package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/bl00dPhant0m/LiquiBase/internal/api/docs"
	"github.com/bl00dPhant0m/LiquiBase/internal/api/handler"
	"github.com/bl00dPhant0m/LiquiBase/internal/api/middleware"
	"github.com/bl00dPhant0m/LiquiBase/internal/core/ports"
)

const metricsPath = "/metrics"

// Services are the use cases exposed over HTTP.
type Services struct {
	Books ports.BookService
	Users ports.UserService
	Auth  ports.AuthService
}

// Options configure the cross-cutting parts of the router.
type Options struct {
	Logger zerolog.Logger
	// Policy decides which routes need an identity or a role.
	Policy middleware.Policy
	// Health serves /health/ready. Readiness is not registered when nil.
	Health *handler.HealthDependenciesHandler
	// Registry receives the HTTP metrics. Defaults to the prometheus
	// default registry, where the domain counters live.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)

	promMiddleware, promHandler := prometheusHandlers(opts.Registry)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(opts.Logger))
	e.Use(promMiddleware)
	e.Use(middleware.Authenticate(svc.Auth))
	e.Use(middleware.Authorize(opts.Policy))

	// --- Books ---
	books := handler.NewBookHandler(svc.Books)
	e.POST("/books/add", books.Create)
	e.GET("/books/getAll", books.List)
	e.GET("/books/sortByMax", books.ListByPriceDesc)
	e.GET("/books/sortByMin", books.ListByPriceAsc)
	e.GET("/books/:id", books.Get)
	e.PUT("/books/:id", books.Update)
	e.PATCH("/books/:id", books.Patch)
	e.DELETE("/books/:id", books.Delete)

	// --- Users ---
	users := handler.NewUserHandler(svc.Users)
	e.POST("/users/add", users.Create)
	e.GET("/users/:id", users.Get)
	e.PATCH("/users/:id", users.Update)
	e.DELETE("/users/:id", users.Delete)

	// --- Auth ---
	auth := handler.NewAuthHandler(svc.Auth)
	e.POST("/auth/login", auth.Login)

	// --- Health probes (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	if opts.Health != nil {
		e.GET("/health/ready", opts.Health.Readiness)
	}

	// --- Operations ---
	e.GET(metricsPath, promHandler)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func prometheusHandlers(reg *prometheus.Registry) (echo.MiddlewareFunc, echo.HandlerFunc) {
	mwConfig := echoprometheus.MiddlewareConfig{
		Subsystem: "books_http",
		Skipper: func(c echo.Context) bool {
			return c.Path() == metricsPath
		},
		DoNotUseRequestPathFor404: true,
	}
	if reg == nil {
		return echoprometheus.NewMiddlewareWithConfig(mwConfig), echoprometheus.NewHandler()
	}
	mwConfig.Registerer = reg
	return echoprometheus.NewMiddlewareWithConfig(mwConfig),
		echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus:    true,
		LogMethod:    true,
		LogURI:       true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Error != nil {
				event = log.Warn().Err(v.Error)
			}
			event.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
