package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	_ "go.uber.org/automaxprocs"

	"kostfinder/database"
	"kostfinder/internal/cache"
	"kostfinder/internal/config"
	"kostfinder/internal/http-api/handler"
	"kostfinder/internal/http-api/middleware"
	"kostfinder/internal/http-api/repository"
	"kostfinder/internal/http-api/service"
	"kostfinder/internal/http-api/upload"
	"kostfinder/internal/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	log, cleanup := logger.New(logger.Options{
		Level:    cfg.LogLevel,
		JSON:     cfg.LogFormat == "json",
		Filename: cfg.LogFile,
	})
	defer cleanup()

	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	kostRepo := repository.NewKostRepo(db)
	ratingRepo := repository.NewRatingRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, cfg)
	kostService := service.NewKostService(kostRepo, ratingRepo, cacheClient)
	ratingService := service.NewRatingService(ratingRepo, kostRepo)
	favoriteService := service.NewFavoriteService(favoriteRepo, kostRepo, ratingRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	kostHandler := handler.NewKostHandler(kostService)
	ratingHandler := handler.NewRatingHandler(ratingService)
	favoriteHandler := handler.NewFavoriteHandler(favoriteService)
	uploader := upload.NewClient(cfg.ImageHostURL, cfg.UploadPreset)
	uploadHandler := handler.NewUploadHandler(uploader, cfg.UploadMaxBytes, cfg.PlaceholderBase, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(ginzap.Ginzap(log, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(log, true))
	r.Use(middleware.Metrics())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authRequired := middleware.AuthRequired(authService)
	authOptional := middleware.AuthOptional(authService)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.Use(middleware.RateLimitPerIP(cfg.AuthRateRPS, cfg.AuthRateBurst))
		authHandler.RegisterRoutes(authGroup, authRequired)

		kosts := api.Group("/kosts")
		kostHandler.RegisterRoutes(kosts)
		ratingHandler.RegisterRoutes(kosts, authRequired)

		favorites := api.Group("/favorites")
		favoriteHandler.RegisterRoutes(favorites, authRequired)

		user := api.Group("/user")
		user.GET("/check-rating/:kost_id", authOptional, ratingHandler.Check)
		user.GET("/check-favorite/:kost_id", authOptional, favoriteHandler.Check)

		uploads := api.Group("/upload")
		uploadHandler.RegisterRoutes(uploads, authRequired)

		admin := api.Group("/admin/kosts")
		admin.Use(authRequired, middleware.RequireAdmin())
		kostHandler.RegisterAdminRoutes(admin)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTPHost, cfg.HTTPPort),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = cacheClient.RDB.Close()
	log.Info("server stopped")
}
