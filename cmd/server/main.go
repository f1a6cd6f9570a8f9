package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/spabook/portal/internal/api"
	"github.com/spabook/portal/internal/api/metrics"
	"github.com/spabook/portal/internal/core/domain"
	"github.com/spabook/portal/internal/core/ports"
	"github.com/spabook/portal/internal/core/service"
	"github.com/spabook/portal/internal/infrastructure/db/mongo"
	"github.com/spabook/portal/internal/infrastructure/db/redis"
	"github.com/spabook/portal/internal/infrastructure/queue"
	"github.com/spabook/portal/internal/infrastructure/storage"
	"github.com/spabook/portal/internal/pkg/config"
	"github.com/spabook/portal/pkg/logger"
)

const (
	serviceName     = "spabook-portal"
	shutdownTimeout = 10 * time.Second
)

func main() {
	// ─── Configuration & logger ───────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		boot := logger.Init(logger.Options{})
		boot.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: serviceName,
		Env:     cfg.Env,
	})
	log.Info().
		Str("port", cfg.Port).
		Str("auth_mode", cfg.Auth.Mode).
		Str("session_storage", cfg.Session.Storage).
		Msg("starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ─── Backing services ─────────────────────────────────────────────
	var db *gomongo.Database
	if cfg.NeedsMongo() {
		client, database, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  serviceName,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to MongoDB")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		db = database
	}

	var rdb *goredis.Client
	if cfg.NeedsRedis() {
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer client.Close()
		rdb = client
	}

	// ─── Session storage ──────────────────────────────────────────────
	var (
		provider ports.SessionStorageProvider
		guard    ports.SubmitGuard
	)
	if rdb != nil {
		provider = redis.NewSessionStorage(rdb, cfg.Session.KeyPrefix, cfg.Session.TTL)
		guard = redis.NewSubmitGuard(rdb, cfg.Session.KeyPrefix)
	} else {
		provider = storage.NewMemoryProvider(cfg.Session.TTL)
		guard = storage.NewMemoryGuard()
	}

	// ─── Authentication ───────────────────────────────────────────────
	var (
		auth   ports.Authenticator
		tokens ports.TokenIssuer
	)
	switch cfg.Auth.Mode {
	case config.AuthModeCredentials:
		accounts := mongo.NewAccountRepository(db)
		if err := accounts.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to ensure account indexes")
		}
		auth = service.NewCredentialAuthenticator(accounts, log)
		tokens = service.NewJWTTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	default:
		auth = service.NewDemoAuthenticator()
		tokens = service.PlaceholderTokens{}
	}

	// ─── Audit trail ──────────────────────────────────────────────────
	var audit ports.AuditRepository = storage.NewLogAudit(log)
	if db != nil {
		audit = mongo.NewAuditRepository(db)
	}
	dispatcher := queue.NewDispatcher(cfg.Session.AuditWorkers, audit, log)
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)

	// ─── Core services ────────────────────────────────────────────────
	var sessions *service.SessionManager
	sessions = service.NewSessionManager(provider, auth, tokens, service.SessionManagerOptions{
		Latency:     cfg.Auth.LoginLatency,
		Logger:      log,
		IdleTimeout: cfg.Session.IdleTimeout,
		OnIdleEvict: func(active int) { metrics.ActiveSessions.Set(float64(active)) },
		Publisher:   dispatcher,
		Observers: []func(domain.SessionChange){
			metrics.SessionObserver(func() int { return sessions.Active() }),
		},
	})
	views := service.NewViewSelector(service.DefaultViews())
	layouts := service.NewLayoutService(service.DefaultNavigation(), views)

	// ─── HTTP server ──────────────────────────────────────────────────
	e := api.NewRouter(api.Deps{
		Log:            log,
		Sessions:       sessions,
		Layouts:        layouts,
		Views:          views,
		SubmitGuard:    guard,
		SubmitGuardTTL: cfg.Session.SubmitGuardTTL,
		LoginRateLimit: cfg.Auth.LoginRateLimit,
		AllowedOrigins: cfg.AllowedOrigins,
		SecureCookie:   cfg.Env == "production",
		Mongo:          db,
		Redis:          rdb,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// ─── Graceful shutdown ────────────────────────────────────────────
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown error")
	}

	// Audit workers drain their queues before the database goes away.
	stopWorkers()
	dispatcher.Wait()

	log.Info().Msg("stopped")
}
