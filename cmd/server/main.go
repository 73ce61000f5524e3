package main

import (
	"log"

	"github.com/ewill123/nec-callcenter/internal/cache"
	"github.com/ewill123/nec-callcenter/internal/config"
	"github.com/ewill123/nec-callcenter/internal/database"
	"github.com/ewill123/nec-callcenter/internal/incident"
	"github.com/ewill123/nec-callcenter/internal/limiter"
	"github.com/ewill123/nec-callcenter/internal/logging"
	"github.com/ewill123/nec-callcenter/internal/server"
	"github.com/ewill123/nec-callcenter/internal/store"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize store
	var reportStore store.Store
	switch cfg.StoreDriver {
	case config.DriverMemory:
		logger.Warn("using in-memory store; reports are lost on restart")
		reportStore = store.NewMemoryStore()
	default:
		db, err := database.Connect(cfg)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		if err := database.Migrate(db); err != nil {
			logger.Fatal("failed to migrate database", zap.Error(err))
		}
		reportStore = store.NewGormStore(db)
	}

	// Initialize Redis cache and limiter
	opts := incident.Options{
		ListTTL:      cfg.ListCacheTTL,
		StoreTimeout: cfg.StoreTimeout,
		Logger:       logger,
	}
	deps := server.Deps{Config: cfg, Logger: logger}
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			// Continue without Redis (fail-open)
			logger.Warn("failed to connect to redis, running without cache and rate limits", zap.Error(err))
		} else {
			defer redisCache.Close()
			opts.Cache = redisCache
			deps.Limiter = limiter.NewLimiter(redisCache, map[string]limiter.ActionConfig{
				limiter.ActionSubmit: {Limit: cfg.SubmitLimit, Window: cfg.SubmitWindow},
			})
		}
	}
	deps.Service = incident.NewService(reportStore, opts)

	r := server.NewRouter(deps)

	logger.Info("API server starting", zap.String("port", cfg.Port), zap.String("store", cfg.StoreDriver))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
