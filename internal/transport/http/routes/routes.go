package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/infra/config"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/transport/http/handlers"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/transport/http/middleware"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth    *usecase.AuthService
	OAuth   *usecase.OAuthService
	Tokens  *usecase.TokenService
	Tickets *usecase.TicketService
	Access  *usecase.AccessService
	Admin   *usecase.AdminService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.HTTPMetrics
	Services    ServiceSet
	Database    DatabaseChecker
	Cache       CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}
	if deps.Config.Frontend.URL != "" {
		r.Use(middleware.CORS([]string{deps.Config.Frontend.URL}))
	}
	r.Use(middleware.Authenticate(deps.Services.Tokens, deps.Logger))

	healthOptions := make([]handlers.HealthOption, 0, 2)
	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}
	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}

	healthHandler := handlers.NewHealthHandler(healthOptions...)
	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := handlers.NewAuthHandler(deps.Services.Auth)
	authHandler.RegisterRoutes(
		r.Group("/auth"),
		buildRateLimitMiddlewares(deps, "auth_register_ip", deps.Config.RateLimit.RegisterMaxAttempts),
		buildRateLimitMiddlewares(deps, "auth_login_ip", deps.Config.RateLimit.LoginMaxAttempts),
	)

	if deps.Services.OAuth != nil {
		oauthHandler := handlers.NewOAuthHandler(deps.Services.OAuth, deps.Config.Frontend.URL)
		oauthHandler.RegisterRoutes(r.Group("/oauth"))
	}

	aiHandler := handlers.NewAIHandler()
	aiHandler.RegisterRoutes(r.Group("/ai"))

	root := r.Group("")

	ticketHandler := handlers.NewTicketHandler(deps.Services.Tickets, deps.Services.Access)
	ticketHandler.RegisterRoutes(root)

	responseHandler := handlers.NewResponseHandler(deps.Services.Tickets, deps.Services.Access)
	responseHandler.RegisterRoutes(root)

	attachmentHandler := handlers.NewAttachmentHandler(deps.Services.Tickets, deps.Services.Access)
	attachmentHandler.RegisterRoutes(root)

	if deps.Services.Admin != nil {
		adminHandler := handlers.NewAdminHandler(deps.Services.Admin)
		adminHandler.RegisterRoutes(root)
	}

	return r
}

func buildRateLimitMiddlewares(deps Dependencies, name string, limit int) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil || limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	quota := middleware.Quota{
		Name:   name,
		Limit:  limit,
		Window: window,
		Key:    middleware.ByClientIP,
	}

	return []gin.HandlerFunc{deps.RateLimiter.Guard(quota)}
}
