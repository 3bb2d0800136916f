package main

import (
	"context"

	"github.com/joho/godotenv"

	"github.com/pulsedate/backend/internal/app"
	"github.com/pulsedate/backend/internal/cache"
	"github.com/pulsedate/backend/internal/config"
	"github.com/pulsedate/backend/internal/db"
	"github.com/pulsedate/backend/internal/logger"
	"github.com/pulsedate/backend/internal/server"
	"github.com/pulsedate/backend/internal/service/admin"
	"github.com/pulsedate/backend/internal/service/blocks"
	"github.com/pulsedate/backend/internal/service/chats"
	"github.com/pulsedate/backend/internal/service/dates"
	"github.com/pulsedate/backend/internal/service/engage"
	"github.com/pulsedate/backend/internal/service/wallet"
)

func main() {
	_ = godotenv.Load()

	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	appCtx := app.New(cfg, database, redisCache, log)

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	registrars := []server.Registrar{
		engage.NewRegistrar(appCtx),
		dates.NewRegistrar(appCtx),
		chats.NewRegistrar(appCtx),
		wallet.NewRegistrar(appCtx),
		blocks.NewRegistrar(appCtx),
		admin.NewRegistrar(appCtx),
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.StartHTTPServer(cfg, registrars...); err != nil {
		log.Error("server exited with error", "err", err)
	}
}
