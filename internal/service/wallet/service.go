package wallet

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pulsedate/backend/internal/app"
	svcErr "github.com/pulsedate/backend/internal/errors"
	"github.com/pulsedate/backend/internal/repository"
	"github.com/pulsedate/backend/internal/txn"
)

// Service handles the spendable balance and premium grants. Both mutations
// run through guarded saves so they can never race a concurrent debit.
type Service struct {
	appCtx *app.AppContext
	users  *repository.UserRepository
}

// NewService creates the wallet service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		users:  repository.NewUserRepository(appCtx.DB),
	}
}

// Credit adds amount to the user's balance and returns the new balance.
// The balance_credited notification fires after the commit.
func (s *Service) Credit(ctx context.Context, userID uint64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, svcErr.InvalidArgument("amount must be positive")
	}

	var newBalance int64
	err := txn.Run(ctx, s.appCtx.DB, func(tx *gorm.DB) error {
		user, err := s.users.GetTx(tx, userID)
		if err != nil {
			return err
		}
		user.Balance += amount
		if err := txn.SaveUser(tx, user); err != nil {
			return err
		}
		newBalance = user.Balance
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.appCtx.Notifier.BalanceCredited(ctx, userID, amount, newBalance)
	return newBalance, nil
}

// ActivatePremium extends the user's premium entitlement by the given
// number of days. An active grant is extended from its current expiry, an
// expired or absent one from now. The premium_activated notification fires
// after the commit.
func (s *Service) ActivatePremium(ctx context.Context, userID uint64, days int) (time.Time, error) {
	if days <= 0 {
		return time.Time{}, svcErr.InvalidArgument("days must be positive")
	}

	now := time.Now().UTC()
	var until time.Time
	err := txn.Run(ctx, s.appCtx.DB, func(tx *gorm.DB) error {
		user, err := s.users.GetTx(tx, userID)
		if err != nil {
			return err
		}

		base := now
		if user.PremiumUntil != nil && user.PremiumUntil.After(now) {
			base = *user.PremiumUntil
		}
		until = base.AddDate(0, 0, days)
		user.PremiumUntil = &until

		return txn.SaveUser(tx, user)
	})
	if err != nil {
		return time.Time{}, err
	}

	s.appCtx.Notifier.PremiumActivated(ctx, userID, until)
	return until, nil
}
