package chats

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pulsedate/backend/internal/app"
	"github.com/pulsedate/backend/internal/db"
	svcErr "github.com/pulsedate/backend/internal/errors"
	"github.com/pulsedate/backend/internal/repository"
	"github.com/pulsedate/backend/internal/txn"
)

// reopenWindow is fixed policy, not configurable per call.
const reopenWindow = 24 * time.Hour

// Service owns chat threads after promotion: listing, the paid reopen, and
// the message-summary hook for the external transport.
type Service struct {
	appCtx *app.AppContext
	users  *repository.UserRepository
	chats  *repository.ChatRepository
}

// NewService creates the chats service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		users:  repository.NewUserRepository(appCtx.DB),
		chats:  repository.NewChatRepository(appCtx.DB),
	}
}

// ReopenResult is the outcome of a successful reopen.
type ReopenResult struct {
	NewBalance  int64
	ReopenUntil time.Time
}

// Reopen spends balance to re-enable messaging on a chat whose date has
// lapsed.
//
// Preconditions, checked atomically: the chat exists, the payer is one of
// its two users, the promoting date's scheduled time has passed
// (ErrNotEligible otherwise), and balance covers the fixed cost
// (ErrInsufficientBalance). The debit and the unlock commit together or
// not at all; no partial debit can ever be observed.
func (s *Service) Reopen(ctx context.Context, userID uint64, chatID string) (*ReopenResult, error) {
	s.appCtx.Logger.Debug("ReopenChat called", "user", userID, "chat", chatID)

	cost := s.appCtx.Cfg.Chat.ReopenCost
	now := time.Now().UTC()

	var res ReopenResult
	err := txn.Run(ctx, s.appCtx.DB, func(tx *gorm.DB) error {
		res = ReopenResult{}

		user, err := s.users.GetTx(tx, userID)
		if err != nil {
			return err
		}
		chat, err := s.chats.GetTx(tx, chatID)
		if err != nil {
			return err
		}

		if chat.UserAID != userID && chat.UserBID != userID {
			return svcErr.ErrNotEligible
		}
		if chat.DateAt == nil || now.Before(*chat.DateAt) {
			return svcErr.ErrNotEligible
		}
		if user.Balance < cost {
			return svcErr.ErrInsufficientBalance
		}

		user.Balance -= cost
		chat.IsUnlocked = true
		until := now.Add(reopenWindow)
		chat.ReopenUntil = &until

		if err := txn.SaveUser(tx, user); err != nil {
			return err
		}
		if err := txn.SaveChat(tx, chat); err != nil {
			return err
		}

		res.NewBalance = user.Balance
		res.ReopenUntil = until
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ListForUser returns the user's chat threads, most recently active first.
func (s *Service) ListForUser(ctx context.Context, userID uint64) ([]db.ChatThread, error) {
	return s.chats.ListForUser(ctx, userID)
}

// SetLastMessage records the transport collaborator's message summary on a
// thread.
func (s *Service) SetLastMessage(ctx context.Context, chatID string, from uint64, text string, at time.Time) error {
	if text == "" {
		return svcErr.InvalidArgument("text is required")
	}
	return s.chats.SetLastMessage(ctx, chatID, from, text, at)
}
