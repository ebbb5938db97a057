package middleware

import (
	"context"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"vocabbot/internal/dialogue"
	"vocabbot/internal/domain"
)

// ensureTimeout bounds the user upsert done before every update
const ensureTimeout = 5 * time.Second

// UserEnsurer creates or refreshes the user row
type UserEnsurer interface {
	EnsureUser(ctx context.Context, userID int64, username, fullName string) error
}

// EnsureUser makes sure every sender has a user row before any flow runs.
// Upserts run under ctx, so they stop when the process shuts down.
func EnsureUser(ctx context.Context, users UserEnsurer, messenger dialogue.Messenger, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return next(c)
			}

			ctx, cancel := context.WithTimeout(ctx, ensureTimeout)
			defer cancel()

			fullName := domain.JoinName(sender.FirstName, sender.LastName)
			if err := users.EnsureUser(ctx, sender.ID, sender.Username, fullName); err != nil {
				logger.Error("Failed to ensure user exists in middleware",
					zap.Int64("user_id", sender.ID),
					zap.Error(err),
				)
				if cb := c.Callback(); cb != nil {
					return messenger.AnswerCallback(ctx, cb.ID, dialogue.ApologyText, false)
				}
				return messenger.Send(ctx, sender.ID, dialogue.Text(dialogue.ApologyText))
			}

			return next(c)
		}
	}
}
