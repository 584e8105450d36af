package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redisclient "github.com/redis/go-redis/v9"
	mongoadapter "github.com/tucancha/court-booking/internal/adapters/mongo"
	"github.com/tucancha/court-booking/internal/adapters/postgres"
	redisadapter "github.com/tucancha/court-booking/internal/adapters/redis"
	"github.com/tucancha/court-booking/internal/availability"
	"github.com/tucancha/court-booking/internal/config"
	"github.com/tucancha/court-booking/internal/geo"
	httphandler "github.com/tucancha/court-booking/internal/http"
	"github.com/tucancha/court-booking/internal/observability"
	"github.com/tucancha/court-booking/internal/rateLimit"
	"github.com/tucancha/court-booking/internal/readcache"
	"github.com/tucancha/court-booking/internal/storage"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdown, err := observability.SetupOTel(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to setup otel: %v", err)
	}
	defer shutdown()

	logger := observability.NewLogger()

	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	repo := postgres.NewRepository(pool)

	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("failed to connect to mongo: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())
	audit := mongoadapter.NewAuditLogger(mongoClient.Database("cancha"), logger)

	redisClient := redisclient.NewClient(&redisclient.Options{Addr: cfg.RedisAddr})
	redisCache := redisadapter.NewCache(redisClient)
	cache := readcache.NewStore(redisCache, logger)
	rl := rateLimit.NewRateLimiter(redisCache)

	images, err := storage.NewImageStore(cfg.StorageAddr, cfg.StorageKey, cfg.StorageSecret,
		cfg.StorageSSL, cfg.PublicBaseURL, cfg.UploadTimeout, logger)
	if err != nil {
		log.Fatalf("failed to create image store: %v", err)
	}
	if err := images.EnsureBuckets(context.Background()); err != nil {
		log.Fatalf("failed to ensure buckets: %v", err)
	}

	geocoder := geo.NewClient(cfg.GeocodeURL, logger)
	toggler := availability.NewToggler(repo, audit, repo, cache, logger)

	handlers := httphandler.NewHandlers(cfg, repo, cache, toggler, audit, geocoder, images, logger)
	r := httphandler.SetupRouter(handlers, logger, rl, cfg.JWTSecret, repo)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()
	logger.WithField("addr", cfg.ListenAddr).Info("API server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}
	logger.Info("Server exiting")
}
