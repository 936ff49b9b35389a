package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/ke1ruuu/us/handlers"
	"github.com/ke1ruuu/us/internal/compose"
	"github.com/ke1ruuu/us/internal/config"
	"github.com/ke1ruuu/us/internal/database"
	"github.com/ke1ruuu/us/internal/entries"
	"github.com/ke1ruuu/us/internal/links"
	"github.com/ke1ruuu/us/internal/sessions"
	"github.com/ke1ruuu/us/internal/storage"
	"github.com/ke1ruuu/us/internal/users"
	"github.com/ke1ruuu/us/pkg/logger"
	"github.com/ke1ruuu/us/pkg/metrics"
	"github.com/ke1ruuu/us/pkg/middleware"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	mongoClient, err := database.Connect(ctx, &cfg.MongoDB)
	if err != nil {
		logger.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Errorf("mongo disconnect: %v", err)
		}
	}()
	db := mongoClient.Database(cfg.MongoDB.Database)
	logger.Infof("connected to mongodb database %s", cfg.MongoDB.Database)

	// Redis is optional: sessions fall back to Mongo when it is absent
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("redis unavailable, using mongo sessions: %v", err)
			redisClient = nil
		}
	}

	var sessionRepo sessions.Repository
	if redisClient != nil {
		sessionRepo = sessions.NewRedisRepository(redisClient, "session:")
		logger.Infof("sessions: redis store")
	} else {
		sessionRepo = sessions.NewMongoRepository(db.Collection("sessions"))
		logger.Infof("sessions: mongo store")
	}
	sessionsSvc := sessions.NewService(sessionRepo)

	usersSvc := users.NewService(users.NewMongoUserRepository(db.Collection("users")))
	seedUsers(ctx, usersSvc)

	entriesSvc := entries.NewService(entries.NewMongoRepository(db.Collection("entries")))

	var blobs storage.BlobStore
	if cfg.MinIO.Endpoint != "" {
		blobs, err = storage.NewMinIOStore(&cfg.MinIO)
		if err != nil {
			logger.Fatalf("failed to init minio store: %v", err)
		}
	} else {
		logger.Warnf("MINIO_ENDPOINT not set, using in-memory blob store")
		blobs = storage.NewMemoryStore()
	}

	composeSvc := compose.NewService(entriesSvc, blobs)
	resolver := links.NewOEmbedResolver(cfg.Links.ResolveTimeout)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := mongoClient.Ping(pingCtx, nil); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	reg := prometheus.NewRegistry()
	metrics.RegisterCollectors(reg)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.NewAuthHandler(cfg, usersSvc, sessionsSvc).RegisterRoutes(r)
	handlers.NewOGHandler().RegisterRoutes(r)

	api := r.Group("/api")
	api.Use(middleware.SessionAuth(cfg.Session.CookieName, sessionsSvc, usersSvc))
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			api.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst,
				time.Duration(cfg.RateLimit.WindowSeconds)*time.Second))
		} else {
			api.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}
	handlers.NewEntriesHandler(entriesSvc, composeSvc).RegisterRoutes(api)
	handlers.NewPreviewHandler(resolver).RegisterRoutes(api)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	logger.Infof("starting server on %s", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}

// seedUsers provisions the two fixed accounts from the environment. There is
// no self-serve signup.
func seedUsers(ctx context.Context, svc *users.Service) {
	for _, prefix := range []string{"USER1", "USER2"} {
		username := os.Getenv(prefix + "_USERNAME")
		password := os.Getenv(prefix + "_PASSWORD")
		if username == "" || password == "" {
			continue
		}
		displayName := os.Getenv(prefix + "_DISPLAY_NAME")
		if displayName == "" {
			displayName = username
		}
		if _, err := svc.EnsureUser(ctx, username, displayName, password); err != nil {
			logger.Errorf("failed to seed user %s: %v", username, err)
		}
	}
}
