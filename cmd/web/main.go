package main

import (
	"context"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	authservice "github.com/weblogin/weblogin/internal/auth/service"
	"github.com/weblogin/weblogin/internal/common/config"
	commoncrypto "github.com/weblogin/weblogin/internal/common/crypto"
	"github.com/weblogin/weblogin/internal/common/db"
	commonhttp "github.com/weblogin/weblogin/internal/common/http"
	"github.com/weblogin/weblogin/internal/common/logger"
	"github.com/weblogin/weblogin/internal/common/server"
	"github.com/weblogin/weblogin/internal/session"
	userrepo "github.com/weblogin/weblogin/internal/user/repository"
	"github.com/weblogin/weblogin/internal/web"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "web", os.Getenv("LOG_LEVEL"))
	if err != nil {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	ctx := context.Background()

	if err := db.RunMigrations(ctx, log, cfg.DatabaseURL); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)

	redisClient, err := session.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to session store: %v", err)
	}

	users := userrepo.NewPgRepository(pool)
	hasher := commoncrypto.NewBcryptHasher(cfg.BcryptCost)
	ids := commoncrypto.NewUUIDGenerator()
	tokens := commoncrypto.NewRandomTokenGenerator()

	breaker := db.NewCircuitBreaker(
		int32(cfg.CircuitBreakerThreshold),
		cfg.CircuitBreakerTimeout,
		cfg.CircuitBreakerReset,
		log,
	)

	auth := authservice.NewAuthService(
		users,
		hasher,
		ids,
		breaker,
		cfg.AdminUsername,
		cfg.AdminPassword,
		log,
	)

	sessions := session.NewManager(
		session.NewRedisStore(redisClient),
		users,
		tokens,
		cfg.SessionTTL,
		log,
	)

	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatalf("failed to initialize renderer: %v", err)
	}

	handler := web.NewHandler(auth, sessions, renderer, cfg.SessionTTL, cfg.RequestTimeout, log)

	mux := http.NewServeMux()
	handler.Register(mux)
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())

	rateLimiter := commonhttp.NewLoginRateLimiter()
	root := commonhttp.BuildBaseHandler(log, rateLimiter.Middleware(mux))

	srv := server.NewServer(server.DefaultServerConfig(cfg.HTTPPort), root)

	hooks := []server.ShutdownHook{
		func(ctx context.Context) error {
			pool.Close()
			return nil
		},
		func(ctx context.Context) error {
			return redisClient.Close()
		},
	}

	server.StartWithGracefulShutdownAndHooks(srv, log, "web", hooks)
}
