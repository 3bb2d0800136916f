package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pulsedate/backend/internal/db"
	"github.com/pulsedate/backend/internal/utils/pagination"
)

// LikeRepository provides data access for immutable LikeEvent records.
type LikeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new repository bound to the given DB connection.
func NewLikeRepository(database *gorm.DB) *LikeRepository {
	return &LikeRepository{db: database}
}

// Create inserts the directed like event inside an open transaction.
//
// Behavior:
//   - Composite PK (from_user_id, to_user_id): a repeated like for the same
//     pair is a no-op (DoNothing), not an error.
//   - Returns whether a new row was actually written.
func (r *LikeRepository) Create(tx *gorm.DB, fromID, toID uint64) (bool, error) {
	like := db.LikeEvent{
		FromUserID: fromID,
		ToUserID:   toID,
	}
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "from_user_id"}, {Name: "to_user_id"}},
		DoNothing: true,
	}).Create(&like)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ReverseExists checks for the inverse directed like, i.e. whether toID has
// already liked fromID. Used for mutual-like detection inside the like
// transaction.
func (r *LikeRepository) ReverseExists(tx *gorm.DB, fromID, toID uint64) (bool, error) {
	var count int64
	err := tx.Model(&db.LikeEvent{}).
		Where("from_user_id = ? AND to_user_id = ?", toID, fromID).
		Count(&count).Error
	return count > 0, err
}

// CountLikers returns how many users liked the given recipient.
// Used in conjunction with the Redis cache (DB is the fallback).
func (r *LikeRepository) CountLikers(ctx context.Context, recipientID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.LikeEvent{}).
		Where("to_user_id = ?", recipientID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListLikers returns users who liked the given recipient, newest first.
//
// Behavior:
//   - Ordered by created_at DESC, from_user_id DESC.
//   - Supports cursor-based pagination via paginationToken.
func (r *LikeRepository) ListLikers(
	ctx context.Context,
	recipientID uint64,
	paginationToken *string,
	limit int,
) ([]db.LikeEvent, *string, error) {
	var likes []db.LikeEvent

	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).Model(&db.LikeEvent{}).
		Where("to_user_id = ?", recipientID).
		Order("created_at DESC, from_user_id DESC").
		Limit(limit + 1)

	if cursor.LikerID > 0 && cursor.CreatedUnix > 0 {
		ts := time.UnixMilli(cursor.CreatedUnix)
		query = query.Where(
			"(created_at < ? OR (created_at = ? AND from_user_id < ?))",
			ts, ts, cursor.LikerID,
		)
	}

	if err := query.Find(&likes).Error; err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(likes) > limit {
		last := likes[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			LikerID:     last.FromUserID,
			CreatedUnix: last.CreatedAt.UnixMilli(),
		})
		nextToken = &token
		likes = likes[:limit]
	}

	return likes, nextToken, nil
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
