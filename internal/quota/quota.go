// Package quota is the per-user daily ledger. It is pure: CheckAndReserve
// never touches storage and is only called from inside an atomic unit, so
// the lazy reset it computes is always persisted together with the
// increment it permits (never a reset on its own).
package quota

import (
	"time"

	"github.com/pulsedate/backend/internal/db"
	"github.com/pulsedate/backend/internal/entitlement"
	svcErr "github.com/pulsedate/backend/internal/errors"
	"github.com/pulsedate/backend/internal/limits"
)

// Action is a quota-consuming action type.
type Action string

const (
	ActionLike Action = "like"
	ActionDate Action = "date"
)

// Decision is the outcome of one quota check.
//
// When Allowed, LikeCount/DateCount/LastReset are the values the caller
// must persist in the same atomic unit as the action's side effect. When
// not allowed, Err carries the action-specific limit error.
type Decision struct {
	Allowed   bool
	Err       error
	LikeCount int
	DateCount int
	LastReset time.Time
}

// CheckAndReserve evaluates whether u may take action at now under lim.
//
// The day boundary is the UTC calendar day: if LastReset falls on an
// earlier UTC day than now, both counters are zeroed conceptually before
// the cap is evaluated, and the reservation carries the reset forward.
func CheckAndReserve(u *db.User, action Action, lim limits.Limits, now time.Time) Decision {
	likeCount := u.DailyLikeCount
	dateCount := u.DailyDateCount
	lastReset := u.LastReset

	if !sameUTCDay(lastReset, now) {
		likeCount = 0
		dateCount = 0
		lastReset = now
	}

	premium := entitlement.IsPremium(u, now)
	limit := lim.Cap(premium, action == ActionLike)

	switch action {
	case ActionLike:
		if likeCount >= limit {
			return Decision{Err: svcErr.ErrLikeLimitReached}
		}
		likeCount++
	case ActionDate:
		if dateCount >= limit {
			return Decision{Err: svcErr.ErrDateLimitReached}
		}
		dateCount++
	}

	return Decision{
		Allowed:   true,
		LikeCount: likeCount,
		DateCount: dateCount,
		LastReset: lastReset,
	}
}

func sameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
