package blocks

import (
	"context"

	"github.com/pulsedate/backend/internal/app"
	svcErr "github.com/pulsedate/backend/internal/errors"
	"github.com/pulsedate/backend/internal/repository"
)

// Service owns directed user blocks. A block is one-sided to create and
// remove, but the engage and dates services suppress interaction for the
// pair when a block exists in either direction.
type Service struct {
	appCtx *app.AppContext
	users  *repository.UserRepository
	blocks *repository.BlockRepository
}

// NewService creates the blocks service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		users:  repository.NewUserRepository(appCtx.DB),
		blocks: repository.NewBlockRepository(appCtx.DB),
	}
}

// Block records actor's block of target. Idempotent.
func (s *Service) Block(ctx context.Context, actorID, targetID uint64) error {
	s.appCtx.Logger.Debug("BlockUser called", "actor", actorID, "target", targetID)

	if actorID == targetID {
		return svcErr.InvalidArgument("cannot block yourself")
	}
	if _, err := s.users.Get(ctx, targetID); err != nil {
		return err
	}
	return s.blocks.Create(ctx, actorID, targetID)
}

// Unblock removes actor's block of target. Idempotent.
func (s *Service) Unblock(ctx context.Context, actorID, targetID uint64) error {
	s.appCtx.Logger.Debug("UnblockUser called", "actor", actorID, "target", targetID)
	return s.blocks.Delete(ctx, actorID, targetID)
}

// BlockedIDs returns the ids the user has blocked, newest first.
func (s *Service) BlockedIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	return s.blocks.ListBlockedIDs(ctx, userID)
}
