package quota_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsedate/backend/internal/db"
	svcErr "github.com/pulsedate/backend/internal/errors"
	"github.com/pulsedate/backend/internal/limits"
	"github.com/pulsedate/backend/internal/quota"
)

var testLimits = limits.Limits{
	FreeDailyLikeCount:    10,
	FreeDailyDateCount:    3,
	PremiumDailyLikeCount: 50,
	PremiumDailyDateCount: 15,
}

func TestLikeAtCapIsRejected(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	u := &db.User{DailyLikeCount: 10, LastReset: now.Add(-time.Hour)}

	dec := quota.CheckAndReserve(u, quota.ActionLike, testLimits, now)

	assert.False(t, dec.Allowed)
	assert.ErrorIs(t, dec.Err, svcErr.ErrLikeLimitReached)
}

func TestPremiumRaisesCap(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	until := now.Add(24 * time.Hour)
	u := &db.User{DailyLikeCount: 10, LastReset: now.Add(-time.Hour), PremiumUntil: &until}

	dec := quota.CheckAndReserve(u, quota.ActionLike, testLimits, now)

	require.True(t, dec.Allowed)
	assert.Equal(t, 11, dec.LikeCount)
}

func TestExpiredPremiumFallsBackToFreeCap(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	until := now.Add(-time.Minute)
	u := &db.User{DailyLikeCount: 10, LastReset: now.Add(-time.Hour), PremiumUntil: &until}

	dec := quota.CheckAndReserve(u, quota.ActionLike, testLimits, now)

	assert.ErrorIs(t, dec.Err, svcErr.ErrLikeLimitReached)
}

func TestDateCapIsIndependent(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	u := &db.User{DailyLikeCount: 10, DailyDateCount: 1, LastReset: now.Add(-time.Hour)}

	dec := quota.CheckAndReserve(u, quota.ActionDate, testLimits, now)

	require.True(t, dec.Allowed)
	assert.Equal(t, 2, dec.DateCount)
	assert.Equal(t, 10, dec.LikeCount) // untouched

	u.DailyDateCount = 3
	dec = quota.CheckAndReserve(u, quota.ActionDate, testLimits, now)
	assert.ErrorIs(t, dec.Err, svcErr.ErrDateLimitReached)
}

// TestLazyResetAtUTCMidnight verifies that an action taken the instant
// after the UTC day boundary sees both counters at zero even if
// yesterday's were at cap, and that the reset travels with the decision.
func TestLazyResetAtUTCMidnight(t *testing.T) {
	yesterday := time.Date(2024, 5, 31, 23, 59, 0, 0, time.UTC)
	justAfterMidnight := time.Date(2024, 6, 1, 0, 0, 1, 0, time.UTC)
	u := &db.User{DailyLikeCount: 10, DailyDateCount: 3, LastReset: yesterday}

	dec := quota.CheckAndReserve(u, quota.ActionLike, testLimits, justAfterMidnight)

	require.True(t, dec.Allowed)
	assert.Equal(t, 1, dec.LikeCount)
	assert.Equal(t, 0, dec.DateCount)
	assert.Equal(t, justAfterMidnight, dec.LastReset)
}

func TestNoResetWithinSameUTCDay(t *testing.T) {
	morning := time.Date(2024, 6, 1, 0, 5, 0, 0, time.UTC)
	evening := time.Date(2024, 6, 1, 23, 55, 0, 0, time.UTC)
	u := &db.User{DailyLikeCount: 4, LastReset: morning}

	dec := quota.CheckAndReserve(u, quota.ActionLike, testLimits, evening)

	require.True(t, dec.Allowed)
	assert.Equal(t, 5, dec.LikeCount)
	assert.Equal(t, morning, dec.LastReset)
}
