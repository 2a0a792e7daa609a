package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bloomday/gala/internal/auth"
	"github.com/bloomday/gala/internal/cache"
	"github.com/bloomday/gala/internal/config"
	"github.com/bloomday/gala/internal/database"
	"github.com/bloomday/gala/internal/email"
	"github.com/bloomday/gala/internal/handlers"
	"github.com/bloomday/gala/internal/logger"
	"github.com/bloomday/gala/internal/metrics"
	"github.com/bloomday/gala/internal/middleware"
	"github.com/bloomday/gala/internal/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// Fine in production; the environment is set by the platform
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		panic(err)
	}
	defer logger.Close()

	logger.Log.Info("=== Gala server starting ===",
		zap.String("environment", cfg.Environment),
	)

	metrics.Initialize()

	if err := database.Initialize(); err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.Log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Redis is optional; without it URL caching and distributed rate
	// limits fall back to in-process behavior
	if cfg.RedisHost != "" {
		if _, err := cache.NewRedisClient(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword); err != nil {
			logger.Log.Warn("Redis unavailable, continuing without cache", zap.Error(err))
		}
	}

	store, err := storage.NewS3Store(cfg.AWSRegion, cfg.Bucket, cfg.PhotoPrefix, cfg.URLExpiry)
	if err != nil {
		logger.Log.Fatal("Failed to initialize S3 store", zap.Error(err))
	}
	if err := store.CheckBucketAccess(context.Background()); err != nil {
		logger.Log.Warn("S3 bucket access failed; uploads and listing will fail until it recovers",
			zap.Error(err),
		)
	}

	mailer, err := email.NewSESMailer(cfg.AWSRegion, cfg.FromEmail, cfg.FromName, cfg.AppBaseURL)
	if err != nil {
		logger.Log.Fatal("Failed to initialize SES mailer", zap.Error(err))
	}

	authService := auth.NewService(database.DB, mailer, cfg.JWTSecret)
	h := handlers.NewHandlers(cfg, database.DB, store, authService)

	tokenCleanup := auth.NewCleanupService(database.DB, time.Hour)
	tokenCleanup.Start()
	defer tokenCleanup.Stop()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/link", middleware.RateLimitAuth(), h.RequestSignInLink)
		authGroup.POST("/exchange", middleware.RateLimitAuth(), h.ExchangeSignInLink)
		authGroup.GET("/me", h.AuthMiddleware(), h.Me)
	}

	photos := r.Group("/photos")
	{
		photos.Use(h.AuthMiddleware())
		photos.GET("", middleware.RateLimit(), h.ListPhotos)
		photos.POST("", middleware.RateLimitUpload(), h.UploadPhoto)
		photos.GET("/:name/download", middleware.RateLimit(), h.DownloadPhoto)
		photos.DELETE("/:name", middleware.RateLimit(), h.DeletePhoto)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("📸 Gala backend listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if redisClient := cache.GetRedisClient(); redisClient != nil {
		_ = redisClient.Close()
	}

	logger.Log.Info("Server exited")
}
