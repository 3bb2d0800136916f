package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pulsedate/backend/internal/db"
	svcErr "github.com/pulsedate/backend/internal/errors"
)

// UserRepository provides data access for the User model. Counter, balance
// and entitlement writes go through the txn guarded saves; this repository
// only offers reads plus the single SQL-atomic likes-received bump.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// Get loads a user by id. Missing users surface as ErrNotFound.
func (r *UserRepository) Get(ctx context.Context, id uint64) (*db.User, error) {
	var u db.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetTx loads a fresh snapshot inside an open transaction. Every atomic
// unit re-reads its documents through this on each attempt.
func (r *UserRepository) GetTx(tx *gorm.DB, id uint64) (*db.User, error) {
	var u db.User
	err := tx.First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// BumpLikesReceived increments the recipient's received-like tally with a
// single SQL expression, so concurrent likes never lose an update and never
// need to contend on the recipient's version.
func (r *UserRepository) BumpLikesReceived(tx *gorm.DB, userID uint64) error {
	return tx.Model(&db.User{}).
		Where("id = ?", userID).
		UpdateColumn("likes_received", gorm.Expr("likes_received + 1")).Error
}
