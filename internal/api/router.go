package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"

	_ "github.com/spabook/portal/docs"
	"github.com/spabook/portal/internal/api/handler"
	"github.com/spabook/portal/internal/api/middleware"
	"github.com/spabook/portal/internal/core/domain"
	"github.com/spabook/portal/internal/core/ports"
	"github.com/spabook/portal/internal/core/service"
)

const (
	metricsSubsystem = "http"
	rateLimitExpiry  = 3 * time.Minute
)

// Deps is everything the router wires into handlers.
type Deps struct {
	Log      zerolog.Logger
	Sessions *service.SessionManager
	Layouts  *service.LayoutService
	Views    *service.ViewSelector

	SubmitGuard    ports.SubmitGuard
	SubmitGuardTTL time.Duration
	// LoginRateLimit is the per-IP number of auth requests per second.
	LoginRateLimit float64
	AllowedOrigins []string
	SecureCookie   bool

	// Mongo and Redis are optional; readiness only checks what is set.
	Mongo *mongo.Database
	Redis *redis.Client

	// Registry receives HTTP metrics. Nil uses the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(corsConfig(d.AllowedOrigins)))
	e.Use(echoprometheus.NewMiddlewareWithConfig(metricsConfig(d.Registry)))

	// --- Dependencies ---
	session := middleware.Session(d.Sessions, middleware.SessionOptions{
		SecureCookie: d.SecureCookie,
		Logger:       d.Log,
	})
	authHandler := handler.NewAuthHandler(d.Sessions, d.SubmitGuard, d.SubmitGuardTTL, d.Log)
	sessionHandler := handler.NewSessionHandler()
	streamHandler := handler.NewSessionStreamHandler(d.Sessions, d.AllowedOrigins, d.Log)
	layoutHandler := handler.NewLayoutHandler(d.Layouts, d.Views)
	reportsHandler := handler.NewReportsHandler(d.Views)
	healthHandler := handler.NewHealthHandler(d.Mongo, d.Redis)

	// --- Auth routes ---
	auth := e.Group("/auth", loginRateLimiter(d.LoginRateLimit), session)
	auth.POST("/login", authHandler.Login)
	auth.POST("/register", authHandler.Register)
	auth.POST("/logout", authHandler.Logout)

	// --- Session-scoped API ---
	v1 := e.Group("/v1", session)
	v1.GET("/session", sessionHandler.Get)
	v1.GET("/session/permissions/:capability", sessionHandler.Permission)
	v1.GET("/session/stream", streamHandler.Stream)
	v1.GET("/navigation/:shell", layoutHandler.Navigation)
	v1.GET("/layout/:shell", layoutHandler.Layout)
	v1.GET("/views/:page", layoutHandler.Views)

	admin := v1.Group("/admin", middleware.RequireRole(domain.RoleManager, domain.RoleSuperAdmin))
	admin.GET("/reports/summary", reportsHandler.Summary, middleware.RequirePermission(domain.CapViewReports))

	// --- Health probes (no session required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(metricsHandlerConfig(d.Registry)))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
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

func corsConfig(origins []string) echomiddleware.CORSConfig {
	cfg := echomiddleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, middleware.SessionHeader},
		ExposeHeaders: []string{middleware.SessionHeader},
	}
	if len(origins) > 0 {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

func loginRateLimiter(perSecond float64) echo.MiddlewareFunc {
	if perSecond <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: rateLimitExpiry,
	})
	return echomiddleware.RateLimiter(store)
}

func metricsConfig(reg *prometheus.Registry) echoprometheus.MiddlewareConfig {
	cfg := echoprometheus.MiddlewareConfig{Namespace: "spabook", Subsystem: metricsSubsystem}
	if reg != nil {
		cfg.Registerer = reg
	}
	return cfg
}

func metricsHandlerConfig(reg *prometheus.Registry) echoprometheus.HandlerConfig {
	var cfg echoprometheus.HandlerConfig
	if reg != nil {
		cfg.Gatherer = reg
	}
	return cfg
}
