package blocks_test

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
	"github.com/pulsedate/backend/internal/service/blocks"
)

func setupService(t *testing.T) (*blocks.Service, *app.AppContext) {
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
	require.NoError(t, dbase.AutoMigrate(&db.User{}, &db.Block{}))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	appCtx := app.New(cfg, dbase, cache.NewRedisCache(cfg), logger)

	return blocks.NewService(appCtx), appCtx
}

func seedUser(t *testing.T, gdb *gorm.DB, id uint64) *db.User {
	t.Helper()
	u := &db.User{
		ID:           id,
		Username:     fmt.Sprintf("user%d", id),
		Email:        fmt.Sprintf("user%d@example.com", id),
		PasswordHash: "x",
		Gender:       "F",
		LastReset:    time.Now().UTC(),
	}
	require.NoError(t, gdb.Create(u).Error)
	return u
}

func TestBlockIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)
	seedUser(t, appCtx.DB, 1)
	seedUser(t, appCtx.DB, 2)

	require.NoError(t, svc.Block(ctx, 1, 2))
	require.NoError(t, svc.Block(ctx, 1, 2))

	var count int64
	appCtx.DB.Model(&db.Block{}).Count(&count)
	assert.Equal(t, int64(1), count)

	ids, err := svc.BlockedIDs(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, ids)
}

func TestBlockIsDirected(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)
	seedUser(t, appCtx.DB, 1)
	seedUser(t, appCtx.DB, 2)

	require.NoError(t, svc.Block(ctx, 1, 2))

	// the blocked side's own list stays empty
	ids, err := svc.BlockedIDs(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestUnblock(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)
	seedUser(t, appCtx.DB, 1)
	seedUser(t, appCtx.DB, 2)

	require.NoError(t, svc.Block(ctx, 1, 2))
	require.NoError(t, svc.Unblock(ctx, 1, 2))

	ids, err := svc.BlockedIDs(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, ids)

	// unblocking again, or an absent pair, is a no-op
	require.NoError(t, svc.Unblock(ctx, 1, 2))
}

func TestBlockValidation(t *testing.T) {
	ctx := context.Background()
	svc, appCtx := setupService(t)
	seedUser(t, appCtx.DB, 1)

	assert.True(t, svcErr.IsInvalid(svc.Block(ctx, 1, 1)))
	assert.ErrorIs(t, svc.Block(ctx, 1, 42), svcErr.ErrNotFound)
}
