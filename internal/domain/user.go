package domain

import (
	"strings"
	"time"
)

// EliteDuration is how long elite status lasts once started
const EliteDuration = 72 * time.Hour

// User represents a bot user
type User struct {
	UserID            int64
	Username          string
	FullName          string
	LearnedWordsCount int
	TopicsCount       int
	Elite             bool
	EliteStartedAt    *time.Time
	ReferralCode      string
	ReferredBy        *int64
	CreatedAt         time.Time
}

// EliteExpired reports whether the user's elite status has run out at now.
// Status without a start date never expires on its own.
func (u *User) EliteExpired(now time.Time) bool {
	if !u.Elite || u.EliteStartedAt == nil {
		return false
	}
	return now.Sub(*u.EliteStartedAt) >= EliteDuration
}

// DisplayName returns the name shown in profile and leaderboard
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	if u.Username != "" {
		return u.Username
	}
	return "Пользователь"
}

// JoinName builds a full name from Telegram first and last names
func JoinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}
