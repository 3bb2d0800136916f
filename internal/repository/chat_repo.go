package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pulsedate/backend/internal/db"
	svcErr "github.com/pulsedate/backend/internal/errors"
	"github.com/pulsedate/backend/internal/utils/pairkey"
)

// ChatRepository provides data access for ChatThread documents.
type ChatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new repository bound to the given DB connection.
func NewChatRepository(database *gorm.DB) *ChatRepository {
	return &ChatRepository{db: database}
}

// Ensure upserts the thread for an unordered user pair inside an open
// transaction and returns its id.
//
// Behavior:
//   - The symmetric key makes creation commutative: Ensure(a, b) and
//     Ensure(b, a) address the same row.
//   - An existing thread is merged, not replaced: only date_at is refreshed
//     (and only when a scheduled date is supplied), so unlock state and
//     message summaries survive re-promotion.
func (r *ChatRepository) Ensure(tx *gorm.DB, a, b uint64, dateAt *time.Time) (string, error) {
	id := pairkey.Unordered(a, b)
	lo, hi, err := pairkey.Split(id)
	if err != nil {
		return "", err
	}

	thread := db.ChatThread{
		ID:      id,
		UserAID: lo,
		UserBID: hi,
		DateAt:  dateAt,
	}

	conflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}
	if dateAt != nil {
		conflict.DoNothing = false
		conflict.DoUpdates = clause.AssignmentColumns([]string{"date_at"})
	}

	if err := tx.Clauses(conflict).Create(&thread).Error; err != nil {
		return "", err
	}
	return id, nil
}

// Get loads a thread by id. Missing threads surface as ErrNotFound.
func (r *ChatRepository) Get(ctx context.Context, id string) (*db.ChatThread, error) {
	var c db.ChatThread
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetTx is Get inside an open transaction.
func (r *ChatRepository) GetTx(tx *gorm.DB, id string) (*db.ChatThread, error) {
	var c db.ChatThread
	err := tx.First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListForUser returns the user's threads, most recently active first.
func (r *ChatRepository) ListForUser(ctx context.Context, userID uint64) ([]db.ChatThread, error) {
	var threads []db.ChatThread
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("last_message_at DESC, created_at DESC").
		Find(&threads).Error
	return threads, err
}

// SetLastMessage records the external transport's message summary. The
// summary is informational only, so it is a plain overwrite rather than a
// guarded save.
func (r *ChatRepository) SetLastMessage(ctx context.Context, id string, from uint64, text string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&db.ChatThread{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_message_text": text,
			"last_message_from": from,
			"last_message_at":   at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return svcErr.ErrNotFound
	}
	return nil
}
