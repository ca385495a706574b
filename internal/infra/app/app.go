package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/akhilbawari/ai-helpdesk-portal/internal/core/port"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/infra/cache"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/infra/config"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/infra/database"
	kafkainfra "github.com/akhilbawari/ai-helpdesk-portal/internal/infra/kafka"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/infra/logger"
	oauthinfra "github.com/akhilbawari/ai-helpdesk-portal/internal/infra/oauth"
	redisinfra "github.com/akhilbawari/ai-helpdesk-portal/internal/infra/redis"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/infra/security"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/infra/telemetry"
	postgresrepo "github.com/akhilbawari/ai-helpdesk-portal/internal/repository/postgres"
	redisrepo "github.com/akhilbawari/ai-helpdesk-portal/internal/repository/redis"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/transport/http/middleware"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/transport/http/routes"
	"github.com/akhilbawari/ai-helpdesk-portal/internal/usecase"
)

// Application owns the wired service graph and its long-lived resources.
type Application struct {
	cfg       *config.AppConfig
	engine    *gin.Engine
	logger    *zap.Logger
	pool      *pgxpool.Pool
	redis     *redisinfra.Client
	telemetry *telemetry.Provider
}

// New builds the application from configuration: infrastructure first,
// then repositories, services, and finally the HTTP engine.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	telemetryProvider, err := telemetry.Attach(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	keyProvider, err := security.NewFileKeyProvider(cfg.JWT.KeyDirectory)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init key provider: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)

	var eventPublisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	rateLimitTTL := cfg.Redis.RateLimitTTL
	if rateLimitTTL <= 0 {
		window := cfg.RateLimit.WindowDuration
		if window <= 0 {
			window = time.Minute
		}
		rateLimitTTL = window * 2
	}
	attemptStore := redisrepo.NewAttemptStore(redisClient.Client(), redisrepo.AttemptStoreConfig{
		KeyPrefix: cfg.Redis.RateLimitPrefix,
		TTL:       rateLimitTTL,
	})
	rateLimiter := middleware.NewRateLimiter(attemptStore, log)

	tokenService := usecase.NewTokenService(cfg, keyProvider, repos.Users, log)
	authService := usecase.NewAuthService(repos.Users, tokenService, security.DefaultPasswordValidator(), eventPublisher, log)
	ticketService := usecase.NewTicketService(repos.Tickets, repos.Responses, repos.Attachments, log)
	accessService := usecase.NewAccessService(repos.Tickets, repos.Responses, repos.Attachments, log)
	adminService := usecase.NewAdminService(repos.Users, log)

	var oauthService *usecase.OAuthService
	if cfg.OAuth.GoogleClientID != "" && cfg.OAuth.GoogleClientSecret != "" {
		codeCache := cache.NewCodeCache(cfg.AuthCache)
		googleProvider := oauthinfra.NewGoogleProvider(cfg.OAuth)
		oauthService = usecase.NewOAuthService(googleProvider, repos.Users, tokenService, codeCache, eventPublisher, log)
	} else {
		log.Info("google oauth not configured, sign-in with Google disabled")
	}

	metrics, err := middleware.NewHTTPMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		_ = redisClient.Close()
		pool.Close()
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Metrics:     metrics,
		Database:    pool,
		Cache:       redisClient,
		Services: routes.ServiceSet{
			Auth:    authService,
			OAuth:   oauthService,
			Tokens:  tokenService,
			Tickets: ticketService,
			Access:  accessService,
			Admin:   adminService,
		},
	})

	return &Application{
		cfg:       cfg,
		engine:    engine,
		logger:    log,
		pool:      pool,
		redis:     redisClient,
		telemetry: telemetryProvider,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.telemetry.Shutdown(shutdownCtx)
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting helpdesk API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
