package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pulsedate/backend/internal/db"
	"github.com/pulsedate/backend/internal/utils/pairkey"
)

// BlockRepository provides data access for directed Block records.
type BlockRepository struct {
	db *gorm.DB
}

// NewBlockRepository creates a new repository bound to the given DB connection.
func NewBlockRepository(database *gorm.DB) *BlockRepository {
	return &BlockRepository{db: database}
}

// Create records the directed block. Blocking an already-blocked user is a
// no-op, not an error.
func (r *BlockRepository) Create(ctx context.Context, fromID, toID uint64) error {
	block := db.Block{
		ID:         pairkey.Directed(fromID, toID),
		FromUserID: fromID,
		ToUserID:   toID,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&block).Error
}

// Delete removes the directed block. Removing an absent block is a no-op so
// unblock is idempotent too.
func (r *BlockRepository) Delete(ctx context.Context, fromID, toID uint64) error {
	return r.db.WithContext(ctx).
		Delete(&db.Block{}, "id = ?", pairkey.Directed(fromID, toID)).Error
}

// ExistsBetween checks both directions inside an open transaction: a block
// by either side suppresses interaction for the pair.
func (r *BlockRepository) ExistsBetween(tx *gorm.DB, a, b uint64) (bool, error) {
	var count int64
	err := tx.Model(&db.Block{}).
		Where("id IN (?, ?)", pairkey.Directed(a, b), pairkey.Directed(b, a)).
		Count(&count).Error
	return count > 0, err
}

// ListBlockedIDs returns the ids the user has blocked, newest first.
func (r *BlockRepository) ListBlockedIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Model(&db.Block{}).
		Where("from_user_id = ?", userID).
		Order("created_at DESC").
		Pluck("to_user_id", &ids).Error
	return ids, err
}
