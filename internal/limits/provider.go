// Package limits supplies the versioned snapshot of daily caps consumed by
// every quota decision. The caps live in a single admin-writable row;
// reads go through a short-TTL Redis cache because limits change rarely
// and a brief staleness window is acceptable.
package limits

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pulsedate/backend/internal/cache"
	"github.com/pulsedate/backend/internal/config"
	"github.com/pulsedate/backend/internal/db"
)

const snapshotTTL = time.Minute

// Limits is one snapshot of the four daily caps.
type Limits struct {
	FreeDailyLikeCount    int `json:"free_daily_like_count"`
	FreeDailyDateCount    int `json:"free_daily_date_count"`
	PremiumDailyLikeCount int `json:"premium_daily_like_count"`
	PremiumDailyDateCount int `json:"premium_daily_date_count"`
}

// Cap selects the limit for an action under a tier.
func (l Limits) Cap(premium bool, likeAction bool) int {
	switch {
	case premium && likeAction:
		return l.PremiumDailyLikeCount
	case premium:
		return l.PremiumDailyDateCount
	case likeAction:
		return l.FreeDailyLikeCount
	default:
		return l.FreeDailyDateCount
	}
}

// Provider reads and writes the limit configuration.
type Provider struct {
	db       *gorm.DB
	cache    *cache.RedisCache
	defaults Limits
	log      *slog.Logger
}

func NewProvider(gdb *gorm.DB, rc *cache.RedisCache, cfg *config.Config, log *slog.Logger) *Provider {
	return &Provider{
		db:    gdb,
		cache: rc,
		defaults: Limits{
			FreeDailyLikeCount:    cfg.Limits.FreeDailyLikeCount,
			FreeDailyDateCount:    cfg.Limits.FreeDailyDateCount,
			PremiumDailyLikeCount: cfg.Limits.PremiumDailyLikeCount,
			PremiumDailyDateCount: cfg.Limits.PremiumDailyDateCount,
		},
		log: log,
	}
}

// Snapshot returns the current caps: cache first, then the config row,
// then the built-in defaults when the row has never been written.
// Cache failures fall through to the database silently.
func (p *Provider) Snapshot(ctx context.Context) Limits {
	key := p.cache.KeyForLimits()
	if raw, err := p.cache.Get(ctx, key); err == nil && raw != "" {
		var l Limits
		if json.Unmarshal([]byte(raw), &l) == nil {
			return l
		}
	}

	var row db.LimitConfig
	err := p.db.WithContext(ctx).First(&row, "id = 1").Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p.defaults
	}
	if err != nil {
		p.log.Warn("limit config read failed, using defaults", "err", err)
		return p.defaults
	}

	l := Limits{
		FreeDailyLikeCount:    row.FreeDailyLikeCount,
		FreeDailyDateCount:    row.FreeDailyDateCount,
		PremiumDailyLikeCount: row.PremiumDailyLikeCount,
		PremiumDailyDateCount: row.PremiumDailyDateCount,
	}
	if b, err := json.Marshal(l); err == nil {
		_ = p.cache.Set(ctx, key, b, snapshotTTL)
	}
	return l
}

// Update writes the admin row and drops the cached snapshot.
func (p *Provider) Update(ctx context.Context, l Limits) error {
	row := db.LimitConfig{
		ID:                    1,
		FreeDailyLikeCount:    l.FreeDailyLikeCount,
		FreeDailyDateCount:    l.FreeDailyDateCount,
		PremiumDailyLikeCount: l.PremiumDailyLikeCount,
		PremiumDailyDateCount: l.PremiumDailyDateCount,
	}
	err := p.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"free_daily_like_count",
				"free_daily_date_count",
				"premium_daily_like_count",
				"premium_daily_date_count",
				"updated_at",
			}),
		}).
		Create(&row).Error
	if err != nil {
		return err
	}
	_ = p.cache.Del(ctx, p.cache.KeyForLimits())
	return nil
}
