package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tenantgate/tenantgate/internal/application/ports"
	"github.com/tenantgate/tenantgate/internal/config"
	infraauth "github.com/tenantgate/tenantgate/internal/infrastructure/auth"
	"github.com/tenantgate/tenantgate/internal/infrastructure/cache"
	httprouter "github.com/tenantgate/tenantgate/internal/infrastructure/http"
	"github.com/tenantgate/tenantgate/internal/infrastructure/http/handlers"
	"github.com/tenantgate/tenantgate/internal/infrastructure/http/middleware"
	"github.com/tenantgate/tenantgate/internal/infrastructure/persistence/postgres"
	"github.com/tenantgate/tenantgate/internal/infrastructure/queue"
	"github.com/tenantgate/tenantgate/internal/infrastructure/webhook"
)

const apiVersion = "1"

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("ping database")
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("parse REDIS_URL")
		}
		redisClient = redis.NewClient(opt)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed; continuing without redis")
			redisClient = nil
		}
	}

	pemBytes, err := cfg.LoadJWTPublicKey()
	if err != nil {
		log.Fatal().Err(err).Msg("load JWT public key")
	}
	publicKey, err := infraauth.LoadRSAPublicKeyFromPEM(pemBytes)
	if err != nil {
		log.Fatal().Err(err).Msg("parse JWT public key")
	}
	verifier := infraauth.NewVerifier(publicKey, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.Leeway())

	identityRepo := postgres.NewIdentityRepository(pool)
	membershipRepo := postgres.NewMembershipRepository(pool)

	identityCache := cache.NewIdentityCache(
		time.Duration(cfg.Cache.IdentityTTLSecs)*time.Second,
		time.Duration(cfg.Cache.IdentityRefreshSecs)*time.Second,
	)
	membershipCache := cache.NewMembershipCache(
		time.Duration(cfg.Cache.MembershipTTLSecs)*time.Second,
		time.Duration(cfg.Cache.MembershipRefreshSecs)*time.Second,
	)

	invalidatorCtx, stopInvalidator := context.WithCancel(ctx)
	defer stopInvalidator()
	if redisClient != nil {
		invalidator := cache.NewInvalidator(redisClient, identityCache, membershipCache, log)
		go func() {
			if err := invalidator.Run(invalidatorCtx); err != nil && invalidatorCtx.Err() == nil {
				log.Warn().Err(err).Msg("cache invalidator stopped")
			}
		}()
	}

	var emitter ports.WebhookEmitter = webhook.NewNoopEmitter()
	if cfg.Webhook.URL != "" {
		opts := []webhook.HTTPEmitterOption{}
		if cfg.Webhook.AuthHeader != "" {
			opts = append(opts, webhook.WithHeader("Authorization", cfg.Webhook.AuthHeader))
		}
		emitter = webhook.NewHTTPEmitter(cfg.Webhook.URL, opts...)
	}

	var audit ports.AuditEnqueuer
	var auditWorker *queue.Worker
	if redisClient != nil {
		redisOpt, _ := redis.ParseURL(cfg.Redis.URL)
		asynqOpt := asynq.RedisClientOpt{Addr: redisOpt.Addr, Password: redisOpt.Password, DB: redisOpt.DB}
		enq, err := queue.NewAsynqEnqueuer(asynqOpt, log)
		if err != nil {
			log.Fatal().Err(err).Msg("create asynq enqueuer")
		}
		defer enq.Close()
		audit = enq
		auditWorker = queue.NewWorker(asynqOpt, emitter, log)
		go func() {
			if err := auditWorker.Run(); err != nil {
				log.Warn().Err(err).Msg("audit worker stopped")
			}
		}()
	} else {
		audit = queue.NewNoopEnqueuer()
	}

	healthHandler := handlers.NewHealthHandler(pool, redisClient)
	adminHandler := handlers.NewAdminHandler(identityCache, membershipCache, redisClient, log)

	ipLimit, err := middleware.NewIPRateLimiter(cfg.RateLimit.RatePerIP)
	if err != nil {
		log.Fatal().Err(err).Msg("create IP rate limiter")
	}
	orgLimit, err := middleware.NewOrgRateLimiter(cfg.RateLimit.RatePerOrg)
	if err != nil {
		log.Fatal().Err(err).Msg("create organization rate limiter")
	}
	secureMiddleware := middleware.NewSecure(middleware.SecureOptions(cfg.Development))
	corsMiddleware := middleware.CORS(cfg.CORS.AllowedOrigins, nil, nil)

	router := httprouter.NewRouter(httprouter.RouterConfig{
		Verifier:        verifier,
		IdentityStore:   identityRepo,
		IdentityCache:   identityCache,
		MembershipStore: membershipRepo,
		MembershipCache: membershipCache,
		Audit:           audit,
		HealthHandler:   healthHandler,
		AdminHandler:    adminHandler,
		AdminSecret:     cfg.Admin.Secret,
		Log:             log,
		Secure:          secureMiddleware,
		CORS:            corsMiddleware,
		IPRateLimit:     ipLimit,
		OrgRateLimit:    orgLimit,
		Metrics:         true,
		APIVersion:      apiVersion,
		Development:     cfg.Development,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	stopInvalidator()
	if auditWorker != nil {
		auditWorker.Shutdown()
	}
	log.Info().Msg("server stopped")
}
