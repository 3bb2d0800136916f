package dates

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pulsedate/backend/internal/app"
	"github.com/pulsedate/backend/internal/db"
	svcErr "github.com/pulsedate/backend/internal/errors"
	"github.com/pulsedate/backend/internal/quota"
	"github.com/pulsedate/backend/internal/repository"
	"github.com/pulsedate/backend/internal/txn"
	"github.com/pulsedate/backend/internal/utils/pairkey"
)

const scheduleLayout = "2006-01-02 15:04"

// Service drives the date-request lifecycle: quota-gated creation, the
// single pending -> terminal transition, passive expiry on read, and match
// promotion on acceptance.
type Service struct {
	appCtx   *app.AppContext
	users    *repository.UserRepository
	requests *repository.DateRequestRepository
	chats    *repository.ChatRepository
	blocks   *repository.BlockRepository
}

// NewService creates the dates service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		users:    repository.NewUserRepository(appCtx.DB),
		requests: repository.NewDateRequestRepository(appCtx.DB),
		chats:    repository.NewChatRepository(appCtx.DB),
		blocks:   repository.NewBlockRepository(appCtx.DB),
	}
}

// Request creates a pending date proposal from one user to another.
//
// Behavior, all in one atomic unit:
//  1. Both users must exist and neither may have blocked the other
//     (ErrBlocked).
//  2. Fresh sender load; lazy reset + DATE cap check (ErrDateLimitReached).
//  3. Live-pair check in both directions (ErrDuplicateRequest while a
//     pending or accepted request exists either way).
//  4. Pending row upsert under the directed key (a terminal row in the
//     same direction is overwritten) + guarded sender counter save.
func (s *Service) Request(ctx context.Context, fromID, toID uint64, dateStr, timeStr, place string) (*db.DateRequest, error) {
	s.appCtx.Logger.Debug("RequestDate called", "from", fromID, "to", toID, "date", dateStr, "time", timeStr)

	if fromID == toID {
		return nil, svcErr.InvalidArgument("cannot request a date with yourself")
	}
	if place == "" {
		return nil, svcErr.InvalidArgument("place is required")
	}

	scheduledAt, err := time.ParseInLocation(scheduleLayout, dateStr+" "+timeStr, time.UTC)
	if err != nil {
		return nil, svcErr.InvalidArgument("date must be 2006-01-02 and time 15:04")
	}
	now := time.Now().UTC()
	if !scheduledAt.After(now) {
		return nil, svcErr.InvalidArgument("scheduled time must be in the future")
	}

	lim := s.appCtx.Limits.Snapshot(ctx)

	var created *db.DateRequest
	err = txn.Run(ctx, s.appCtx.DB, func(tx *gorm.DB) error {
		created = nil

		sender, err := s.users.GetTx(tx, fromID)
		if err != nil {
			return err
		}
		if _, err := s.users.GetTx(tx, toID); err != nil {
			return err
		}

		blocked, err := s.blocks.ExistsBetween(tx, fromID, toID)
		if err != nil {
			return err
		}
		if blocked {
			return svcErr.ErrBlocked
		}

		dec := quota.CheckAndReserve(sender, quota.ActionDate, lim, now)
		if dec.Err != nil {
			return dec.Err
		}
		sender.DailyLikeCount = dec.LikeCount
		sender.DailyDateCount = dec.DateCount
		sender.LastReset = dec.LastReset

		live, err := s.requests.LivePairExists(tx, fromID, toID)
		if err != nil {
			return err
		}
		if live {
			return svcErr.ErrDuplicateRequest
		}

		req := &db.DateRequest{
			ID:          requestID(fromID, toID),
			FromUserID:  fromID,
			ToUserID:    toID,
			Date:        dateStr,
			Time:        timeStr,
			Place:       place,
			ScheduledAt: scheduledAt,
			Status:      db.StatusPending,
			CreatedAt:   now,
		}
		if err := s.requests.Upsert(tx, req); err != nil {
			return err
		}

		if err := txn.SaveUser(tx, sender); err != nil {
			return err
		}

		created = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// RespondResult is the outcome of resolving a request.
type RespondResult struct {
	Status db.RequestStatus
	ChatID string
}

// Respond resolves a pending request as accepted or declined.
//
// Behavior, all in one atomic unit:
//   - A pending request whose scheduled time has already passed is flipped
//     to expired first and reported as already resolved.
//   - Any terminal status reports ErrAlreadyResolved; a concurrent resolver
//     losing the conditional transition observes the same.
//   - Acceptance promotes the pair into a chat thread tagged with the
//     scheduled time, so reopening can later detect the lapsed date.
//
// The date_response notification to the sender fires after the commit.
func (s *Service) Respond(ctx context.Context, id string, accept bool) (*RespondResult, error) {
	s.appCtx.Logger.Debug("RespondToDate called", "id", id, "accept", accept)

	now := time.Now().UTC()
	target := db.StatusDeclined
	if accept {
		target = db.StatusAccepted
	}

	// Lazy expiry is a read-path concern and must survive even when the
	// response itself is rejected, so the flip runs before the atomic unit.
	pre, err := s.requests.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requests.ExpireIfLapsed(ctx, pre, now); err != nil {
		return nil, err
	}

	var (
		res    RespondResult
		sender uint64
	)
	err = txn.Run(ctx, s.appCtx.DB, func(tx *gorm.DB) error {
		res = RespondResult{}

		req, err := s.requests.GetTx(tx, id)
		if err != nil {
			return err
		}
		sender = req.FromUserID

		if req.Status != db.StatusPending || !now.Before(req.ScheduledAt) {
			return svcErr.ErrAlreadyResolved
		}

		if err := s.requests.Transition(tx, id, target, now); err != nil {
			return err
		}
		res.Status = target

		if target == db.StatusAccepted {
			chatID, err := s.chats.Ensure(tx, req.FromUserID, req.ToUserID, &req.ScheduledAt)
			if err != nil {
				return err
			}
			res.ChatID = chatID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.appCtx.Notifier.DateResponse(ctx, sender, id, string(res.Status))
	return &res, nil
}

// MarkSeen records that the sender has viewed the resolved request.
func (s *Service) MarkSeen(ctx context.Context, id string) error {
	return s.requests.MarkSeen(ctx, id)
}

// Box selects which side of a user's requests to list.
type Box string

const (
	BoxReceived Box = "received"
	BoxSent     Box = "sent"
)

// List returns the user's requests for one box, newest first. Every pending
// request past its scheduled time is flipped to expired before it is
// returned, so callers never observe a lapsed pending request.
func (s *Service) List(ctx context.Context, userID uint64, box Box) ([]db.DateRequest, error) {
	var (
		reqs []db.DateRequest
		err  error
	)
	switch box {
	case BoxReceived:
		reqs, err = s.requests.ListReceived(ctx, userID)
	case BoxSent:
		reqs, err = s.requests.ListSent(ctx, userID)
	default:
		return nil, svcErr.InvalidArgument("box must be received or sent")
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for i := range reqs {
		if err := s.requests.ExpireIfLapsed(ctx, &reqs[i], now); err != nil {
			s.appCtx.Logger.Warn("expiry flip failed", "id", reqs[i].ID, "err", err)
		}
	}
	return reqs, nil
}

func requestID(from, to uint64) string {
	return pairkey.Directed(from, to)
}
