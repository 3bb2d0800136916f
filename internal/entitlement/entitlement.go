// Package entitlement decides a user's tier from their premium expiry.
package entitlement

import (
	"time"

	"github.com/pulsedate/backend/internal/db"
)

// IsPremium reports whether the user's time-bounded premium grant is active
// at now. A nil user or absent expiry is simply not premium; absence of
// entitlement is the safe default, never an error.
func IsPremium(u *db.User, now time.Time) bool {
	if u == nil || u.PremiumUntil == nil {
		return false
	}
	return now.Before(*u.PremiumUntil)
}
