package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ppsammartino/usgs-earthquake-monitor/internal/api"
	"github.com/ppsammartino/usgs-earthquake-monitor/internal/infrastructure/catalog/usgs"
	"github.com/ppsammartino/usgs-earthquake-monitor/internal/infrastructure/config"
	mongodb "github.com/ppsammartino/usgs-earthquake-monitor/internal/infrastructure/db/mongo"
	redisdb "github.com/ppsammartino/usgs-earthquake-monitor/internal/infrastructure/db/redis"
	"github.com/ppsammartino/usgs-earthquake-monitor/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet.
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	if err := mongodb.NewCityRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("city index creation failed")
	}
	if err := mongodb.NewSearchRecordRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("search history index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	catalog := usgs.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout, log)

	e := api.NewRouter(db, rdb, catalog, cfg, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server error")
			stop()
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("earthquake monitor started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown error")
		os.Exit(1)
	}

	log.Info().Msg("shutdown complete")
}
