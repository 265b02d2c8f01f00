package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ppsammartino/usgs-earthquake-monitor/internal/api/handler"
	"github.com/ppsammartino/usgs-earthquake-monitor/internal/api/middleware"
	"github.com/ppsammartino/usgs-earthquake-monitor/internal/core/domain"
	"github.com/ppsammartino/usgs-earthquake-monitor/internal/core/ports"
	"github.com/ppsammartino/usgs-earthquake-monitor/internal/core/service"
	"github.com/ppsammartino/usgs-earthquake-monitor/internal/infrastructure/config"
	mongodb "github.com/ppsammartino/usgs-earthquake-monitor/internal/infrastructure/db/mongo"
	redisdb "github.com/ppsammartino/usgs-earthquake-monitor/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, catalog ports.CatalogClient, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("earthquake_monitor"))

	// --- Dependencies ---
	cityRepo := mongodb.NewCityRepository(db)
	searchRepo := mongodb.NewSearchRecordRepository(db)
	authRepo := mongodb.NewAuthRepository(db)
	cache := redisdb.NewResultCache(rdb)

	authService := service.NewAuthService(authRepo, cfg.JWTSecret, 24*time.Hour)
	cityService := service.NewCityService(cityRepo, log)
	resolutionService := service.NewResolutionService(cityRepo, catalog, cache, cfg.Resolution.CacheTTL, log)
	historyService := service.NewHistoryService(searchRepo, cfg.Resolution.MaxPageSize, log)

	authHandler := handler.NewAuthHandler(authService)
	cityHandler := handler.NewCityHandler(cityService)
	resolutionHandler := handler.NewResolutionHandler(resolutionService, historyService, log)

	authMW := middleware.Auth(cfg.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- City routes ---
	cities := e.Group("/v1/cities", authMW)
	cities.POST("", cityHandler.Create, middleware.RBAC(domain.RoleAdmin))
	cities.GET("", cityHandler.List)

	// --- Resolution routes ---
	resolutions := e.Group("/v1/resolutions", authMW)
	resolutions.POST("", resolutionHandler.Resolve)
	resolutions.GET("/history", resolutionHandler.History)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
