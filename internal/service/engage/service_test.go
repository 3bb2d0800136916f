package engage_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
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
	"github.com/pulsedate/backend/internal/service/engage"
)

func setupService(t *testing.T) (*engage.Service, *app.AppContext, *miniredis.Miniredis) {
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
		&db.User{}, &db.LikeEvent{}, &db.DateRequest{}, &db.ChatThread{},
		&db.Block{}, &db.LimitConfig{},
	))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	appCtx := app.New(cfg, dbase, cache.NewRedisCache(cfg), logger)

	return engage.NewService(appCtx), appCtx, mr
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

func TestLikeIncrementsDailyCount(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, _ := setupService(t)
	seedUser(t, appCtx.DB, 1)
	seedUser(t, appCtx.DB, 2)

	res, err := svc.Like(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, res.Mutual)
	assert.Empty(t, res.ChatID)
	assert.Equal(t, 1, res.DailyLikeCount)

	var actor db.User
	require.NoError(t, appCtx.DB.First(&actor, 1).Error)
	assert.Equal(t, 1, actor.DailyLikeCount)
	assert.Equal(t, uint64(1), actor.Version)

	var recipient db.User
	require.NoError(t, appCtx.DB.First(&recipient, 2).Error)
	assert.Equal(t, int64(1), recipient.LikesReceived)
}

func TestLikePromotesMutualMatch(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, _ := setupService(t)
	seedUser(t, appCtx.DB, 1)
	seedUser(t, appCtx.DB, 2)

	res, err := svc.Like(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, res.Mutual)

	res, err = svc.Like(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, res.Mutual)
	assert.Equal(t, "1_2", res.ChatID)

	thread := db.ChatThread{}
	require.NoError(t, appCtx.DB.First(&thread, "id = ?", "1_2").Error)
	assert.False(t, thread.IsUnlocked)
	assert.Nil(t, thread.DateAt)
}

func TestLikeLimitReached(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, _ := setupService(t)
	actor := seedUser(t, appCtx.DB, 1)
	seedUser(t, appCtx.DB, 2)

	require.NoError(t, appCtx.DB.Model(actor).
		Update("daily_like_count", 10).Error)

	_, err := svc.Like(ctx, 1, 2)
	assert.ErrorIs(t, err, svcErr.ErrLikeLimitReached)

	// the rejected attempt wrote nothing
	var count int64
	appCtx.DB.Model(&db.LikeEvent{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestPremiumRaisesLikeCap(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, _ := setupService(t)
	actor := seedUser(t, appCtx.DB, 1)
	seedUser(t, appCtx.DB, 2)

	until := time.Now().UTC().Add(24 * time.Hour)
	require.NoError(t, appCtx.DB.Model(actor).Updates(map[string]any{
		"daily_like_count": 10,
		"premium_until":    until,
	}).Error)

	res, err := svc.Like(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 11, res.DailyLikeCount)
}

func TestSequentialLikesExhaustExactBudget(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, _ := setupService(t)
	actor := seedUser(t, appCtx.DB, 1)
	for id := uint64(2); id <= 4; id++ {
		seedUser(t, appCtx.DB, id)
	}

	require.NoError(t, appCtx.DB.Model(actor).
		Update("daily_like_count", 8).Error)

	// two left in the budget
	res, err := svc.Like(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 9, res.DailyLikeCount)

	res, err = svc.Like(ctx, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 10, res.DailyLikeCount)

	_, err = svc.Like(ctx, 1, 4)
	assert.ErrorIs(t, err, svcErr.ErrLikeLimitReached)

	var got db.User
	require.NoError(t, appCtx.DB.First(&got, 1).Error)
	assert.Equal(t, 10, got.DailyLikeCount)
}

// TestConcurrentLikesRespectBudget fires more simultaneous likes than the
// actor has budget left. Exactly the remaining two may commit; every other
// attempt must observe the cap, and the persisted counter must land on the
// cap with no lost or double-counted update.
func TestConcurrentLikesRespectBudget(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, _ := setupService(t)
	actor := seedUser(t, appCtx.DB, 1)

	const workers = 6
	for id := uint64(2); id < 2+workers; id++ {
		seedUser(t, appCtx.DB, id)
	}

	require.NoError(t, appCtx.DB.Model(actor).
		Update("daily_like_count", 8).Error)

	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Like(ctx, 1, uint64(2+i))
		}(i)
	}
	wg.Wait()

	ok, limited := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case svcErr.Is(err, svcErr.ErrLikeLimitReached):
			limited++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 2, ok)
	assert.Equal(t, 4, limited)

	var got db.User
	require.NoError(t, appCtx.DB.First(&got, 1).Error)
	assert.Equal(t, 10, got.DailyLikeCount)

	var likeRows int64
	appCtx.DB.Model(&db.LikeEvent{}).Count(&likeRows)
	assert.Equal(t, int64(2), likeRows)
}

func TestRepeatLikeStillConsumesQuota(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, _ := setupService(t)
	seedUser(t, appCtx.DB, 1)
	seedUser(t, appCtx.DB, 2)

	_, err := svc.Like(ctx, 1, 2)
	require.NoError(t, err)
	res, err := svc.Like(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, res.DailyLikeCount)

	var likeRows int64
	appCtx.DB.Model(&db.LikeEvent{}).Count(&likeRows)
	assert.Equal(t, int64(1), likeRows)

	// the received tally only counts the first
	var recipient db.User
	require.NoError(t, appCtx.DB.First(&recipient, 2).Error)
	assert.Equal(t, int64(1), recipient.LikesReceived)
}

func TestCountersResetOnNewUTCDay(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, _ := setupService(t)
	actor := seedUser(t, appCtx.DB, 1)
	seedUser(t, appCtx.DB, 2)

	yesterday := time.Now().UTC().Add(-24 * time.Hour)
	require.NoError(t, appCtx.DB.Model(actor).Updates(map[string]any{
		"daily_like_count": 10,
		"daily_date_count": 3,
		"last_reset":       yesterday,
	}).Error)

	res, err := svc.Like(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, res.DailyLikeCount)

	var got db.User
	require.NoError(t, appCtx.DB.First(&got, 1).Error)
	assert.Equal(t, 0, got.DailyDateCount)
}

func TestLikeBlockedPair(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, _ := setupService(t)
	seedUser(t, appCtx.DB, 1)
	seedUser(t, appCtx.DB, 2)

	// recipient blocked the actor; the block works both ways
	require.NoError(t, appCtx.DB.Create(&db.Block{
		ID: "2_1", FromUserID: 2, ToUserID: 1,
	}).Error)

	_, err := svc.Like(ctx, 1, 2)
	assert.ErrorIs(t, err, svcErr.ErrBlocked)

	// no quota was spent on the suppressed attempt
	var actor db.User
	require.NoError(t, appCtx.DB.First(&actor, 1).Error)
	assert.Equal(t, 0, actor.DailyLikeCount)
}

func TestLikeValidation(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, _ := setupService(t)
	seedUser(t, appCtx.DB, 1)

	_, err := svc.Like(ctx, 1, 1)
	assert.True(t, svcErr.IsInvalid(err))

	_, err = svc.Like(ctx, 1, 42)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)
}

func TestLikedCountCacheFirst(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, mr := setupService(t)
	seedUser(t, appCtx.DB, 1)
	seedUser(t, appCtx.DB, 2)
	seedUser(t, appCtx.DB, 3)

	_, err := svc.Like(ctx, 2, 1)
	require.NoError(t, err)
	_, err = svc.Like(ctx, 3, 1)
	require.NoError(t, err)

	// the post-commit bumps kept the cache in step
	val, err := mr.Get("likes:count:1")
	require.NoError(t, err)
	assert.Equal(t, "2", val)

	n, err := svc.LikedCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// cache miss falls back to the DB and repopulates
	mr.Del("likes:count:1")
	n, err = svc.LikedCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.True(t, mr.Exists("likes:count:1"))
}

func TestListLikersNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, _ := setupService(t)
	seedUser(t, appCtx.DB, 1)
	seedUser(t, appCtx.DB, 2)
	seedUser(t, appCtx.DB, 3)

	base := time.Now().UTC().Truncate(time.Millisecond).Add(-time.Hour)
	require.NoError(t, appCtx.DB.Create(&db.LikeEvent{
		FromUserID: 2, ToUserID: 1, CreatedAt: base,
	}).Error)
	require.NoError(t, appCtx.DB.Create(&db.LikeEvent{
		FromUserID: 3, ToUserID: 1, CreatedAt: base.Add(time.Minute),
	}).Error)

	likers, next, err := svc.ListLikers(ctx, 1, nil, 10)
	require.NoError(t, err)
	require.Len(t, likers, 2)
	assert.Equal(t, "3", likers[0].UserID)
	assert.Equal(t, "2", likers[1].UserID)
	assert.Nil(t, next)
}
