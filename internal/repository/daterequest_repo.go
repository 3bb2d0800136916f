package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pulsedate/backend/internal/db"
	svcErr "github.com/pulsedate/backend/internal/errors"
	"github.com/pulsedate/backend/internal/txn"
	"github.com/pulsedate/backend/internal/utils/pairkey"
)

// DateRequestRepository provides data access for DateRequest rows and owns
// their single status transition.
type DateRequestRepository struct {
	db *gorm.DB
}

// NewDateRequestRepository creates a new repository bound to the given DB connection.
func NewDateRequestRepository(database *gorm.DB) *DateRequestRepository {
	return &DateRequestRepository{db: database}
}

// Get loads a request by its directed key. Missing rows surface as ErrNotFound.
func (r *DateRequestRepository) Get(ctx context.Context, id string) (*db.DateRequest, error) {
	var req db.DateRequest
	err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// GetTx is Get inside an open transaction.
func (r *DateRequestRepository) GetTx(tx *gorm.DB, id string) (*db.DateRequest, error) {
	var req db.DateRequest
	err := tx.First(&req, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// LivePairExists checks both directions between two users for a request
// that is still pending or accepted. A live request in either direction
// blocks a new one.
func (r *DateRequestRepository) LivePairExists(tx *gorm.DB, a, b uint64) (bool, error) {
	forward := pairkey.Directed(a, b)
	reverse := pairkey.Directed(b, a)
	var count int64
	err := tx.Model(&db.DateRequest{}).
		Where("id IN (?, ?) AND status IN (?, ?)",
			forward, reverse, db.StatusPending, db.StatusAccepted).
		Count(&count).Error
	return count > 0, err
}

// Upsert writes a fresh pending request inside an open transaction.
//
// Behavior:
//   - The directed key may still be occupied by a declined or expired row;
//     those are terminal, so the row is overwritten wholesale.
//   - Callers must have run LivePairExists first in the same transaction.
func (r *DateRequestRepository) Upsert(tx *gorm.DB, req *db.DateRequest) error {
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"from_user_id", "to_user_id",
			"date", "time", "place", "scheduled_at",
			"status", "created_at", "responded_at", "seen_by_sender",
		}),
	}).Create(req).Error
}

// Transition flips a pending request to a terminal status inside an open
// transaction, stamping responded_at and resetting seen_by_sender so the
// sender gets notified of the outcome.
//
// The write is conditioned on the row still being pending; losing a race to
// another resolver (or to the expiry flip) surfaces txn.ErrConflict so the
// caller's atomic unit re-reads and observes the terminal state.
func (r *DateRequestRepository) Transition(tx *gorm.DB, id string, to db.RequestStatus, now time.Time) error {
	res := tx.Model(&db.DateRequest{}).
		Where("id = ? AND status = ?", id, db.StatusPending).
		Updates(map[string]any{
			"status":         to,
			"responded_at":   now,
			"seen_by_sender": false,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return txn.ErrConflict
	}
	return nil
}

// ExpireIfLapsed passively flips a pending request to expired once its
// scheduled time has passed. Safe to call on every read path; a concurrent
// flip or response simply leaves nothing to do.
func (r *DateRequestRepository) ExpireIfLapsed(ctx context.Context, req *db.DateRequest, now time.Time) error {
	if req.Status != db.StatusPending || now.Before(req.ScheduledAt) {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&db.DateRequest{}).
		Where("id = ? AND status = ?", req.ID, db.StatusPending).
		Update("status", db.StatusExpired)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		req.Status = db.StatusExpired
	}
	return nil
}

// MarkSeen flips the sender-side seen flag. Only a resolved request can be
// acknowledged; a still-pending one has no outcome to see yet, so the call
// is a no-op. Missing rows surface as ErrNotFound.
func (r *DateRequestRepository) MarkSeen(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&db.DateRequest{}).
		Where("id = ? AND status <> ?", id, db.StatusPending).
		Update("seen_by_sender", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&db.DateRequest{}).
			Where("id = ?", id).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return svcErr.ErrNotFound
		}
	}
	return nil
}

// ListReceived returns requests addressed to the user, newest first.
func (r *DateRequestRepository) ListReceived(ctx context.Context, userID uint64) ([]db.DateRequest, error) {
	var reqs []db.DateRequest
	err := r.db.WithContext(ctx).
		Where("to_user_id = ?", userID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

// ListSent returns requests the user sent, newest first.
func (r *DateRequestRepository) ListSent(ctx context.Context, userID uint64) ([]db.DateRequest, error) {
	var reqs []db.DateRequest
	err := r.db.WithContext(ctx).
		Where("from_user_id = ?", userID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}
