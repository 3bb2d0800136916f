package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/pulsedate/backend/internal/cache"
	"github.com/pulsedate/backend/internal/config"
	"github.com/pulsedate/backend/internal/limits"
	"github.com/pulsedate/backend/internal/notify"
)

// AppContext holds shared dependencies (DB, Redis, Limits, Notifier, Logger).
type AppContext struct {
	Cfg        *config.Config
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Limits     *limits.Provider
	Notifier   *notify.Notifier
	Logger     *slog.Logger
}

// New creates a new AppContext.
func New(cfg *config.Config, db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger) *AppContext {
	return &AppContext{
		Cfg:        cfg,
		DB:         db,
		RedisCache: rdb,
		Limits:     limits.NewProvider(db, rdb, cfg, logger),
		Notifier:   notify.New(rdb, logger),
		Logger:     logger,
	}
}
