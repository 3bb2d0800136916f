package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedTestData resets the database and populates it with demo users plus a
// spread of likes, date requests and promoted chats.
//
// Behavior:
//  1. Clears existing rows in all engine tables.
//  2. Creates 20 users (10 male, 10 female) with hashed passwords; every
//     4th gets an active premium grant and every user a starting balance.
//  3. Generates ~60 likes with ~1/3 mutual pairs (mutual pairs get their
//     chat thread), and a handful of pending date requests.
//
// Compatible with both MySQL and SQLite.
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now().UTC()

	// --- Fresh start ---
	for _, table := range []string{"like_events", "date_requests", "chat_threads", "blocks", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	switch db.Dialector.Name() {
	case "mysql":
		db.Exec("ALTER TABLE users AUTO_INCREMENT = 1")
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence WHERE name = 'users'")
	}

	log.Println("Cleared existing data")

	// --- Seed users ---
	for i := 1; i <= 20; i++ {
		hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		gender := "male"
		if i > 10 {
			gender = "female"
		}

		user := User{
			Username:     fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: string(hash),
			Gender:       gender,
			Active:       true,
			Balance:      int64(r.Intn(5) * 25),
			LastReset:    now,
		}
		if i%4 == 0 {
			until := now.AddDate(0, 0, 30)
			user.PremiumUntil = &until
		}

		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
	}
	log.Println("Seeded 20 users.")

	// --- Seed likes, every 3rd pair mutual ---
	counter := 0
	for from := uint64(1); from <= 10; from++ {
		for j := 0; j < 6; j++ {
			to := uint64(11 + r.Intn(10))

			like := LikeEvent{FromUserID: from, ToUserID: to}
			if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
				return fmt.Errorf("failed to seed like: %w", err)
			}

			if counter%3 == 0 {
				recip := LikeEvent{FromUserID: to, ToUserID: from}
				db.Clauses(clause.OnConflict{DoNothing: true}).Create(&recip)

				a, b := from, to
				if b < a {
					a, b = b, a
				}
				thread := ChatThread{
					ID:      fmt.Sprintf("%d_%d", a, b),
					UserAID: a,
					UserBID: b,
				}
				db.Clauses(clause.OnConflict{DoNothing: true}).Create(&thread)
			}
			counter++
		}
	}

	// --- Seed a few pending date requests ---
	for i := 0; i < 5; i++ {
		from := uint64(1 + r.Intn(10))
		to := uint64(11 + r.Intn(10))
		at := now.AddDate(0, 0, 1+r.Intn(7))

		req := DateRequest{
			ID:          fmt.Sprintf("%d_%d", from, to),
			FromUserID:  from,
			ToUserID:    to,
			Date:        at.Format("2006-01-02"),
			Time:        "19:00",
			Place:       "Riverside Cafe",
			ScheduledAt: time.Date(at.Year(), at.Month(), at.Day(), 19, 0, 0, 0, time.UTC),
			Status:      StatusPending,
			CreatedAt:   now,
		}
		db.Clauses(clause.OnConflict{DoNothing: true}).Create(&req)
	}

	return nil
}
