// Package txn is the atomic mutator: every read-check-write cycle against
// shared documents (User counters/balance, ChatThread unlock state) runs
// through Run, and every mutation of a versioned document goes through a
// guarded save. The combination gives read-then-conditional-write isolation:
// a document changed between the read and the commit fails the version
// check, aborts the whole transaction, and the closure is retried from
// scratch.
package txn

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/pulsedate/backend/internal/db"
)

// ErrConflict aborts the current attempt: a guarded write observed a stale
// version. Run retries the closure when it sees this.
var ErrConflict = errors.New("optimistic conflict")

// ErrRetryExhausted surfaces after all attempts conflicted. It is an
// infrastructure fault ("try again"), not a business outcome.
var ErrRetryExhausted = errors.New("transaction retries exhausted")

const maxAttempts = 4

// Run executes fn inside a database transaction and retries the whole
// closure, bounded, when it aborts with ErrConflict. Each retry re-reads
// everything, so fn must be side-effect free outside its transaction.
// A short jittered sleep between attempts avoids a tight retry loop.
func Run(ctx context.Context, gdb *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(1+rand.Intn(10)) * time.Millisecond):
			}
		}
		err = gdb.WithContext(ctx).Transaction(fn)
		if !retryable(err) {
			return err
		}
	}
	return ErrRetryExhausted
}

// retryable reports whether the failed attempt may succeed on a re-read.
// Besides our own version conflicts, InnoDB can abort one of two
// transactions that lock the same rows in opposite order (deadlock 1213)
// or time out waiting for a lock (1205); both roll the attempt back
// cleanly, so it is safe to run again.
func retryable(err error) bool {
	if errors.Is(err, ErrConflict) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1213 || myErr.Number == 1205
	}
	return false
}

// SaveUser persists the mutable engine fields of a user, conditioned on the
// version the caller read. On success the in-memory Version is advanced; a
// zero-row update means another writer got there first and the attempt must
// be retried.
func SaveUser(tx *gorm.DB, u *db.User) error {
	res := tx.Model(&db.User{}).
		Where("id = ? AND version = ?", u.ID, u.Version).
		Updates(map[string]any{
			"daily_like_count": u.DailyLikeCount,
			"daily_date_count": u.DailyDateCount,
			"last_reset":       u.LastReset,
			"balance":          u.Balance,
			"premium_until":    u.PremiumUntil,
			"version":          u.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	u.Version++
	return nil
}

// SaveChat persists the unlock state of a chat thread under the same
// version guard as SaveUser.
func SaveChat(tx *gorm.DB, c *db.ChatThread) error {
	res := tx.Model(&db.ChatThread{}).
		Where("id = ? AND version = ?", c.ID, c.Version).
		Updates(map[string]any{
			"is_unlocked":  c.IsUnlocked,
			"reopen_until": c.ReopenUntil,
			"version":      c.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	c.Version++
	return nil
}
