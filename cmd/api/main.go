package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"leadengage/internal/config"
	"leadengage/internal/database"
	"leadengage/internal/domain/campaign"
	"leadengage/internal/domain/fieldconfig"
	"leadengage/internal/domain/ingest"
	"leadengage/internal/domain/lead"
	"leadengage/internal/domain/session"
	"leadengage/internal/middleware"
	jwtsvc "leadengage/internal/pkg/jwt"
	"leadengage/internal/pkg/lock"
	"leadengage/internal/pkg/logger"
	"leadengage/internal/tenant"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat, "leadengage-api")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, zlog)
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db,
		&session.Organization{},
		&session.Profile{},
		&fieldconfig.FieldConfig{},
		&campaign.Campaign{},
		&lead.Lead{},
	); err != nil {
		zlog.Fatal("migration failed", zap.Error(err))
	}

	locker, closeLocker := newLocker(cfg, zlog)
	defer closeLocker()

	store := tenant.NewStore(db)
	tokens := jwtsvc.New(cfg.JWTSecret, cfg.JWTIssuer, 24*time.Hour)
	resolver := session.NewResolver(tokens, session.NewProfileRepository(store.Bootstrap()))

	fieldRepo := fieldconfig.NewRepository()
	registry := fieldconfig.NewRegistry(fieldRepo)
	campaignRepo := campaign.NewRepository()
	leadRepo := lead.NewRepository()

	ingestService := ingest.NewService(store, registry, campaignRepo, leadRepo, locker, ingest.Options{
		RequestTimeout:  cfg.RequestTimeout,
		InsertTimeout:   cfg.InsertTimeout,
		LockTTL:         cfg.ImportLockTTL,
		MaxRecords:      cfg.ImportMaxRecords,
		LegacyKeyFields: cfg.LegacyKeyFields,
	}, zlog)

	fieldHandler := fieldconfig.NewHandler(store, fieldRepo, registry, cfg.LegacyKeyFields)
	campaignHandler := campaign.NewHandler(store, campaignRepo)
	leadHandler := lead.NewHandler(store, lead.NewService(leadRepo, cfg.RequestTimeout))
	ingestHandler := ingest.NewHandler(ingestService)

	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(zlog))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	protected := v1.Group("")
	protected.Use(middleware.Session(resolver, cfg.RequestTimeout, zlog))
	{
		fieldHandler.RegisterRoutes(protected)
		campaignHandler.RegisterRoutes(protected)
		leadHandler.RegisterRoutes(protected)
		ingestHandler.RegisterRoutes(protected)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("http server listening", zap.String("addr", cfg.HTTPAddr), zap.String("env", cfg.AppEnv))
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zlog.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("http server failed", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newLocker returns the Redis lock when REDIS_URL is set and an in-process lock
// otherwise.
func newLocker(cfg *config.Config, zlog *zap.Logger) (lock.Locker, func()) {
	if cfg.RedisURL == "" {
		zlog.Info("REDIS_URL not set, using in-process import lock")
		return lock.NewLocal(cfg.ImportLockWait), func() {}
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		zlog.Fatal("invalid REDIS_URL", zap.Error(err))
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		zlog.Fatal("redis unreachable", zap.Error(err))
	}
	return lock.NewRedis(client, "leadengage:lock:", cfg.ImportLockWait, zlog), func() { _ = client.Close() }
}
