package db

import (
	"time"
)

// User table.
//
// Daily counters (DailyLikeCount, DailyDateCount) and Balance are only ever
// mutated through the txn package; the Version column is the optimistic
// guard every such write is conditioned on. LastReset records the last UTC
// day the counters were zeroed (lazily, on the first quota-consuming action
// of the day).
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Active       bool   `gorm:"default:true"`
	Gender       string `gorm:"size:16;not null"`

	DailyLikeCount int       `gorm:"not null;default:0"`
	DailyDateCount int       `gorm:"not null;default:0"`
	LastReset      time.Time `gorm:"not null"`

	Balance      int64      `gorm:"not null;default:0"`
	PremiumUntil *time.Time `gorm:"index"`

	LikesReceived int64 `gorm:"not null;default:0"`

	Version   uint64    `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// LikeEvent is an immutable directed like from one user to another.
//
// Composite PK: (FromUserID, ToUserID)
//   - A repeated like for the same pair is an upsert no-op.
//   - The reverse row (ToUserID, FromUserID) existing means a mutual like.
//
// Indexes:
//   - idx_to_created(to_user_id, created_at DESC)
//     Optimizes "who liked me" lists with pagination.
type LikeEvent struct {
	FromUserID uint64    `gorm:"primaryKey"`
	ToUserID   uint64    `gorm:"primaryKey;index:idx_to_created,priority:1"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index:idx_to_created,priority:2,sort:desc"`
}

// RequestStatus is the lifecycle state of a DateRequest.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusDeclined RequestStatus = "declined"
	StatusExpired  RequestStatus = "expired"
)

// Terminal reports whether no transition may leave the status.
func (s RequestStatus) Terminal() bool {
	return s == StatusAccepted || s == StatusDeclined || s == StatusExpired
}

// Live reports whether the status blocks a new request between the pair.
func (s RequestStatus) Live() bool {
	return s == StatusPending || s == StatusAccepted
}

// DateRequest is a single directed date proposal.
//
// ID is the directed pair key "<from>_<to>" (pairkey.Directed), so at most
// one row exists per direction; once the row reaches declined or expired a
// new request overwrites it (upsert in the repository).
//
// Status transitions: pending -> accepted|declined (by the receiver, once)
// and pending -> expired (passive, flipped on read once ScheduledAt has
// passed). All three outcomes are terminal.
type DateRequest struct {
	ID         string `gorm:"primaryKey;size:48"`
	FromUserID uint64 `gorm:"not null;index"`
	ToUserID   uint64 `gorm:"not null;index"`

	Date  string `gorm:"size:10;not null"` // 2006-01-02
	Time  string `gorm:"size:5;not null"`  // 15:04
	Place string `gorm:"size:255;not null"`

	ScheduledAt time.Time     `gorm:"not null"`
	Status      RequestStatus `gorm:"size:16;not null;default:pending"`

	CreatedAt    time.Time `gorm:"autoCreateTime"`
	RespondedAt  *time.Time
	SeenBySender bool `gorm:"not null;default:false"`
}

// ChatThread is the durable conversation for an unordered user pair.
//
// ID is the symmetric pair key (pairkey.Unordered), so a thread is created
// idempotently no matter which side triggers promotion. DateAt carries the
// scheduled time of the accepted date that promoted the pair (nil for
// mutual-like threads); reopening requires it to have passed.
type ChatThread struct {
	ID      string `gorm:"primaryKey;size:48"`
	UserAID uint64 `gorm:"not null;index"`
	UserBID uint64 `gorm:"not null;index"`

	IsUnlocked  bool `gorm:"not null;default:false"`
	DateAt      *time.Time
	ReopenUntil *time.Time

	LastMessageText *string `gorm:"size:512"`
	LastMessageFrom *uint64
	LastMessageAt   *time.Time

	Version   uint64    `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Block is a directed block record keyed "<from>_<to>" (pairkey.Directed).
// Blocking is idempotent and one-sided, but a block in either direction
// suppresses likes and date requests between the pair.
type Block struct {
	ID         string    `gorm:"primaryKey;size:48"`
	FromUserID uint64    `gorm:"not null;index"`
	ToUserID   uint64    `gorm:"not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// LimitConfig is the single-row, admin-writable table of daily caps.
// It is snapshot-read at the start of each quota decision through the
// limits.Provider (cache-first, config-default fallback).
type LimitConfig struct {
	ID                    uint8 `gorm:"primaryKey"`
	FreeDailyLikeCount    int   `gorm:"not null"`
	FreeDailyDateCount    int   `gorm:"not null"`
	PremiumDailyLikeCount int   `gorm:"not null"`
	PremiumDailyDateCount int   `gorm:"not null"`
	UpdatedAt             time.Time
}
