package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/absensi-api/api/swagger"
	"github.com/noah-isme/absensi-api/internal/handler"
	"github.com/noah-isme/absensi-api/internal/middleware"
	"github.com/noah-isme/absensi-api/internal/models"
	"github.com/noah-isme/absensi-api/internal/policy"
	"github.com/noah-isme/absensi-api/internal/repository"
	"github.com/noah-isme/absensi-api/internal/service"
	"github.com/noah-isme/absensi-api/pkg/cache"
	"github.com/noah-isme/absensi-api/pkg/config"
	"github.com/noah-isme/absensi-api/pkg/database"
	"github.com/noah-isme/absensi-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/absensi-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/absensi-api/pkg/middleware/requestid"
)

// @title Absensi API
// @version 1.0.0
// @description Daily class attendance with time-window validation and admin recap
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, recap cache disabled", zap.Error(err))
		redisClient = nil
	}

	validate := validator.New()
	window := policy.NewAttendanceWindow(policy.WindowConfig{
		StartHour:   cfg.Attendance.WindowStartHour,
		StartMinute: cfg.Attendance.WindowStartMinute,
		EndHour:     cfg.Attendance.WindowEndHour,
		EndMinute:   cfg.Attendance.WindowEndMinute,
		AlwaysAllow: cfg.Attendance.AlwaysAllow,
	}, nil)

	userRepo := repository.NewUserRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, validate, logr, cfg.JWT, cfg.Auth)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, window, validate, logr)

	var recapCache *service.RecapService
	if redisClient != nil {
		recapCache = service.NewRecapService(attendanceSvc, redisClient, metricsSvc, cfg.Recap.CacheTTL, logr)
	} else {
		recapCache = service.NewRecapService(attendanceSvc, nil, metricsSvc, cfg.Recap.CacheTTL, logr)
	}

	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authSvc.SeedAdmin(seedCtx); err != nil {
		logr.Sugar().Fatalw("failed to seed admin account", "error", err)
	}
	cancel()

	authHandler := handler.NewAuthHandler(authSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc, recapCache)
	recapHandler := handler.NewRecapHandler(recapCache)
	transferHandler := handler.NewTransferHandler(authSvc, attendanceSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/admin/login", authHandler.AdminLogin)
		}

		attendance := api.Group("/attendance", middleware.JWT(authSvc))
		{
			attendance.POST("", middleware.RequireRoles(models.RoleStudent), attendanceHandler.Submit)
			attendance.GET("/me", middleware.RequireRoles(models.RoleStudent), attendanceHandler.History)
			attendance.GET("/today", middleware.RequireRoles(models.RoleStudent), attendanceHandler.Today)
			attendance.GET("/window", attendanceHandler.Window)
		}

		recap := api.Group("/recap", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin))
		{
			recap.GET("", recapHandler.List)
			recap.GET("/download", recapHandler.Download)
		}

		transfer := api.Group("/transfer", middleware.JWT(authSvc))
		{
			transfer.GET("/export", middleware.RequireRoles(models.RoleStudent), transferHandler.Export)
			transfer.POST("/import", middleware.RequireRoles(models.RoleAdmin), transferHandler.Import)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
