package wallet_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pulsedate/backend/internal/app"
	"github.com/pulsedate/backend/internal/cache"
	"github.com/pulsedate/backend/internal/config"
	"github.com/pulsedate/backend/internal/db"
	svcErr "github.com/pulsedate/backend/internal/errors"
	"github.com/pulsedate/backend/internal/service/wallet"
)

func setupService(t *testing.T) (*wallet.Service, *app.AppContext) {
	t.Helper()

	mr := miniredis.RunT(t)
	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbase, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	require.NoError(t, err)
	require.NoError(t, dbase.AutoMigrate(
		&db.User{}, &db.LikeEvent{}, &db.DateRequest{}, &db.ChatThread{}, &db.LimitConfig{},
	))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	appCtx := app.New(cfg, dbase, cache.NewRedisCache(cfg), logger)

	return wallet.NewService(appCtx), appCtx
}

func seedUser(t *testing.T, gdb *gorm.DB, id uint64, balance int64) *db.User {
	t.Helper()
	u := &db.User{
		ID:           id,
		Username:     fmt.Sprintf("user%d", id),
		Email:        fmt.Sprintf("user%d@example.com", id),
		PasswordHash: "x",
		Gender:       "M",
		Balance:      balance,
		LastReset:    time.Now().UTC(),
	}
	require.NoError(t, gdb.Create(u).Error)
	return u
}

func TestCreditAddsBalance(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)
	seedUser(t, appCtx.DB, 1, 30)

	balance, err := svc.Credit(ctx, 1, 70)
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)

	var got db.User
	require.NoError(t, appCtx.DB.First(&got, 1).Error)
	assert.Equal(t, int64(100), got.Balance)
	assert.Equal(t, uint64(1), got.Version)
}

func TestCreditValidation(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)
	seedUser(t, appCtx.DB, 1, 0)

	_, err := svc.Credit(ctx, 1, 0)
	assert.True(t, svcErr.IsInvalid(err))

	_, err = svc.Credit(ctx, 1, -5)
	assert.True(t, svcErr.IsInvalid(err))

	_, err = svc.Credit(ctx, 42, 10)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)
}

func TestActivatePremiumFromNow(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)
	seedUser(t, appCtx.DB, 1, 0)

	before := time.Now().UTC()
	until, err := svc.ActivatePremium(ctx, 1, 30)
	require.NoError(t, err)
	assert.WithinDuration(t, before.AddDate(0, 0, 30), until, 5*time.Second)

	var got db.User
	require.NoError(t, appCtx.DB.First(&got, 1).Error)
	require.NotNil(t, got.PremiumUntil)
	assert.Equal(t, until.Unix(), got.PremiumUntil.Unix())
}

func TestActivatePremiumExtendsActiveGrant(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)
	user := seedUser(t, appCtx.DB, 1, 0)

	current := time.Now().UTC().Add(10 * 24 * time.Hour).Truncate(time.Millisecond)
	require.NoError(t, appCtx.DB.Model(user).
		Update("premium_until", current).Error)

	until, err := svc.ActivatePremium(ctx, 1, 30)
	require.NoError(t, err)
	assert.WithinDuration(t, current.AddDate(0, 0, 30), until, 5*time.Second)
}

func TestActivatePremiumAfterExpiryStartsFresh(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)
	user := seedUser(t, appCtx.DB, 1, 0)

	expired := time.Now().UTC().Add(-24 * time.Hour)
	require.NoError(t, appCtx.DB.Model(user).
		Update("premium_until", expired).Error)

	before := time.Now().UTC()
	until, err := svc.ActivatePremium(ctx, 1, 7)
	require.NoError(t, err)
	assert.WithinDuration(t, before.AddDate(0, 0, 7), until, 5*time.Second)
}

func TestActivatePremiumValidation(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)
	seedUser(t, appCtx.DB, 1, 0)

	_, err := svc.ActivatePremium(ctx, 1, 0)
	assert.True(t, svcErr.IsInvalid(err))
}
