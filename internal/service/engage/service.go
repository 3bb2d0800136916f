package engage

import (
	"context"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/pulsedate/backend/internal/app"
	svcErr "github.com/pulsedate/backend/internal/errors"
	"github.com/pulsedate/backend/internal/quota"
	"github.com/pulsedate/backend/internal/repository"
	"github.com/pulsedate/backend/internal/txn"
)

// Service implements the like surface of the interaction engine: quota-gated
// like recording, mutual-like match promotion, and the received-like counter.
type Service struct {
	appCtx *app.AppContext
	users  *repository.UserRepository
	likes  *repository.LikeRepository
	chats  *repository.ChatRepository
	blocks *repository.BlockRepository
}

// NewService creates the engage service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		users:  repository.NewUserRepository(appCtx.DB),
		likes:  repository.NewLikeRepository(appCtx.DB),
		chats:  repository.NewChatRepository(appCtx.DB),
		blocks: repository.NewBlockRepository(appCtx.DB),
	}
}

// LikeResult is the outcome of a successful like.
type LikeResult struct {
	Mutual         bool
	ChatID         string
	DailyLikeCount int
}

// Like records actor's like of recipient.
//
// Behavior, all in one atomic unit:
//  1. Both users must exist and neither may have blocked the other
//     (ErrBlocked).
//  2. Lazy UTC-day counter reset + cap check via the quota ledger
//     (ErrLikeLimitReached when exhausted).
//  3. LikeEvent insert (repeat like is a no-op but still consumes quota).
//  4. Recipient's received tally bump and the actor's guarded counter save.
//  5. Mutual-like probe; on a hit the chat thread is promoted idempotently.
//
// The Redis count bump and the like_received notification happen after the
// commit, fire-and-forget.
func (s *Service) Like(ctx context.Context, actorID, recipientID uint64) (*LikeResult, error) {
	s.appCtx.Logger.Debug("Like called", "actor", actorID, "recipient", recipientID)

	if actorID == recipientID {
		return nil, svcErr.InvalidArgument("cannot like yourself")
	}

	lim := s.appCtx.Limits.Snapshot(ctx)
	now := time.Now().UTC()

	var (
		res     LikeResult
		created bool
	)
	err := txn.Run(ctx, s.appCtx.DB, func(tx *gorm.DB) error {
		res, created = LikeResult{}, false

		actor, err := s.users.GetTx(tx, actorID)
		if err != nil {
			return err
		}
		if _, err := s.users.GetTx(tx, recipientID); err != nil {
			return err
		}

		blocked, err := s.blocks.ExistsBetween(tx, actorID, recipientID)
		if err != nil {
			return err
		}
		if blocked {
			return svcErr.ErrBlocked
		}

		dec := quota.CheckAndReserve(actor, quota.ActionLike, lim, now)
		if dec.Err != nil {
			return dec.Err
		}
		actor.DailyLikeCount = dec.LikeCount
		actor.DailyDateCount = dec.DateCount
		actor.LastReset = dec.LastReset

		created, err = s.likes.Create(tx, actorID, recipientID)
		if err != nil {
			return err
		}
		if created {
			if err := s.users.BumpLikesReceived(tx, recipientID); err != nil {
				return err
			}
		}

		if err := txn.SaveUser(tx, actor); err != nil {
			return err
		}

		mutual, err := s.likes.ReverseExists(tx, actorID, recipientID)
		if err != nil {
			return err
		}
		if mutual {
			chatID, err := s.chats.Ensure(tx, actorID, recipientID, nil)
			if err != nil {
				return err
			}
			res.ChatID = chatID
		}

		res.Mutual = mutual
		res.DailyLikeCount = actor.DailyLikeCount
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		key := s.appCtx.RedisCache.KeyForLikeCount(recipientID)
		_, _ = s.appCtx.RedisCache.Incr(ctx, key)
		_ = s.appCtx.RedisCache.Client.Expire(ctx, key, time.Hour).Err()
		s.appCtx.Notifier.LikeReceived(ctx, recipientID, actorID)
	}

	return &res, nil
}

// LikedCount returns how many users liked the recipient.
// Cache-first strategy:
//  1. Attempts to read from Redis (likes:count:userID).
//  2. On cache miss, falls back to the DB.
//  3. On DB fetch, updates Redis with a 1h TTL.
func (s *Service) LikedCount(ctx context.Context, recipientID uint64) (int64, error) {
	if n, ok, _ := s.appCtx.RedisCache.GetLikeCount(ctx, recipientID); ok {
		return n, nil
	}

	count, err := s.likes.CountLikers(ctx, recipientID)
	if err != nil {
		return 0, err
	}

	_ = s.appCtx.RedisCache.SetLikeCount(ctx, recipientID, count)
	return count, nil
}

// Liker is one entry of a "who liked me" listing.
type Liker struct {
	UserID    string `json:"user_id"`
	Timestamp uint64 `json:"unix_timestamp"`
}

// ListLikers returns users who liked the recipient, newest first, with
// cursor-based pagination.
func (s *Service) ListLikers(ctx context.Context, recipientID uint64, token *string, limit int) ([]Liker, *string, error) {
	events, nextToken, err := s.likes.ListLikers(ctx, recipientID, token, limit)
	if err != nil {
		return nil, nil, err
	}

	likers := make([]Liker, 0, len(events))
	for _, e := range events {
		likers = append(likers, Liker{
			UserID:    strconv.FormatUint(e.FromUserID, 10),
			Timestamp: uint64(e.CreatedAt.UnixMilli()),
		})
	}
	return likers, nextToken, nil
}
