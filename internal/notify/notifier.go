// Package notify delivers fire-and-forget events to the (external)
// push/in-app delivery collaborator over Redis pub/sub. Delivery is best
// effort: publish failures are logged at debug and never surfaced to the
// operation that triggered them.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pulsedate/backend/internal/cache"
)

// Kind is the event type consumed by the delivery collaborator.
type Kind string

const (
	KindLikeReceived     Kind = "like_received"
	KindDateResponse     Kind = "date_response"
	KindBalanceCredited  Kind = "balance_credited"
	KindPremiumActivated Kind = "premium_activated"
)

// Event is the wire payload published per notification.
type Event struct {
	ID     string         `json:"id"`
	Kind   Kind           `json:"kind"`
	UserID uint64         `json:"user_id"`
	Data   map[string]any `json:"data,omitempty"`
	At     time.Time      `json:"at"`
}

// Notifier publishes events to per-user channels.
type Notifier struct {
	cache *cache.RedisCache
	log   *slog.Logger
}

func New(rc *cache.RedisCache, log *slog.Logger) *Notifier {
	return &Notifier{cache: rc, log: log}
}

// ChannelFor is the per-user pub/sub channel name.
func ChannelFor(userID uint64) string {
	return fmt.Sprintf("notify:user:%d", userID)
}

// Publish emits one event. Errors never propagate.
func (n *Notifier) Publish(ctx context.Context, userID uint64, kind Kind, data map[string]any) {
	ev := Event{
		ID:     uuid.NewString(),
		Kind:   kind,
		UserID: userID,
		Data:   data,
		At:     time.Now().UTC(),
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		n.log.Debug("notification marshal failed", "kind", kind, "err", err)
		return
	}
	if err := n.cache.Publish(ctx, ChannelFor(userID), payload); err != nil {
		n.log.Debug("notification publish failed", "kind", kind, "user", userID, "err", err)
	}
}

// LikeReceived tells a user someone liked them.
func (n *Notifier) LikeReceived(ctx context.Context, toUser, fromUser uint64) {
	n.Publish(ctx, toUser, KindLikeReceived, map[string]any{"from_user_id": fromUser})
}

// DateResponse tells a sender their request was resolved.
func (n *Notifier) DateResponse(ctx context.Context, sender uint64, requestID string, status string) {
	n.Publish(ctx, sender, KindDateResponse, map[string]any{
		"request_id": requestID,
		"status":     status,
	})
}

// BalanceCredited confirms a wallet top-up.
func (n *Notifier) BalanceCredited(ctx context.Context, userID uint64, amount, newBalance int64) {
	n.Publish(ctx, userID, KindBalanceCredited, map[string]any{
		"amount":      amount,
		"new_balance": newBalance,
	})
}

// PremiumActivated confirms a premium grant.
func (n *Notifier) PremiumActivated(ctx context.Context, userID uint64, until time.Time) {
	n.Publish(ctx, userID, KindPremiumActivated, map[string]any{
		"until": until,
	})
}
